package mantaray

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Solar-Punk-Ltd/mantaray-go/crypto"
)

var ctx = context.Background()

var errMockNotFound = errors.New("mock store: not found")

// mockStore is a content addressed in-memory store keyed by the
// keccak256 hash of the stored bytes.
type mockStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
	loads int
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (s *mockStore) Save(_ context.Context, data []byte) (Reference, error) {
	ref := Reference(crypto.Keccak256(data))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ref.String()] = append([]byte{}, data...)
	s.saves++
	return ref, nil
}

func (s *mockStore) Load(_ context.Context, ref Reference) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	data, ok := s.data[ref.String()]
	if !ok {
		return nil, errMockNotFound
	}
	return append([]byte{}, data...), nil
}

func (s *mockStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// testRef returns a deterministic reference derived from name.
func testRef(name string) Reference {
	return Reference(crypto.Keccak256([]byte(name)))
}

var samplePaths = [][]byte{
	[]byte("path1/valami/elso"),
	[]byte("path1/valami/masodik"),
	[]byte("path1/valami/masodik.ext"),
	[]byte("path1/valami"),
	[]byte("path2"),
}

// sampleNode builds the tree
//
//	path
//	├── 1/valami      {vmi: negy}
//	│   └── /
//	│       ├── elso  {vmi: elso}
//	│       └── masodik
//	│           └── .ext
//	└── 2
func sampleNode(t *testing.T) *Node {
	t.Helper()
	n := New()
	if err := n.SetEntry(testRef("root")); err != nil {
		t.Fatal(err)
	}
	metadata := []Metadata{
		{"vmi": "elso"},
		nil,
		nil,
		{"vmi": "negy"},
		nil,
	}
	for i, p := range samplePaths {
		if err := n.AddFork(p, testRef(string(p)), metadata[i]); err != nil {
			t.Fatal(err)
		}
	}
	return n
}

type testPageFile struct {
	path     string
	ref      Reference
	metadata Metadata
}

var testPage = []testPageFile{
	{"index.html", testRef("index.html"), Metadata{
		"Content-Type": "text/html; charset=utf-8",
		"Filename":     "index.html",
	}},
	{"img/icon.png.txt", testRef("img/icon.png.txt"), Metadata{
		"Content-Type": "text/plain; charset=utf-8",
		"Filename":     "icon.png.txt",
	}},
	{"img/icon.png", testRef("img/icon.png"), Metadata{
		"Content-Type": "image/png",
		"Filename":     "icon.png",
	}},
	{"/", ZeroReference(), Metadata{
		"website-index-document": "index.html",
	}},
}

func testPageNode(t *testing.T) *Node {
	t.Helper()
	n := New()
	for _, f := range testPage {
		if err := n.AddFork([]byte(f.path), f.ref, f.metadata); err != nil {
			t.Fatal(err)
		}
	}
	return n
}
