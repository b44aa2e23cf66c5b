package mantaray

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSaveIdempotent(t *testing.T) {
	n := sampleNode(t)
	store := newMockStore()
	ref1, err := n.Save(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	saves := store.saveCount()
	// root, path, 1/valami, /, elso, masodik, .ext, 2
	if saves != 8 {
		t.Error("Expect", 8, "got", saves)
	}

	ref2, err := n.Save(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if !ref1.Equal(ref2) {
		t.Error("Expect", ref1, "got", ref2)
	}
	if store.saveCount() != saves {
		t.Error("Second save should not call the saver, got", store.saveCount()-saves, "calls")
	}
}

func TestSaveOnlyDirtyNodes(t *testing.T) {
	n := sampleNode(t)
	store := newMockStore()
	if _, err := n.Save(ctx, store); err != nil {
		t.Fatal(err)
	}
	before := store.saveCount()
	if err := n.AddFork([]byte("path2"), testRef("path2 again"), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Save(ctx, store); err != nil {
		t.Fatal(err)
	}
	// root, path, 2
	if got := store.saveCount() - before; got != 3 {
		t.Error("Expect", 3, "got", got)
	}
}

func TestSaveDeterministic(t *testing.T) {
	ref1, err := testPageNode(t).Save(ctx, newMockStore())
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := testPageNode(t).Save(ctx, newMockStore())
	if err != nil {
		t.Fatal(err)
	}
	if !ref1.Equal(ref2) {
		t.Error("Expect", ref1, "got", ref2)
	}
}

func TestSaveKnownRoots(t *testing.T) {
	for _, tc := range []struct {
		name string
		node func(*testing.T) *Node
		want string
	}{
		{"test page", testPageNode, "d408e3749fb0936aa3f17c6688cfa182d8d7e602a7376ef389c1e8cb129d70a9"},
		{"sample", sampleNode, "baacb6d8de6bcf84a52bf88c0d1673e46b65642ffa7efddb5470bc249205d5d8"},
	} {
		ref, err := tc.node(t).Save(ctx, newMockStore())
		if err != nil {
			t.Fatal(tc.name, err)
		}
		if got := ref.String(); got != tc.want {
			t.Error(tc.name, "expect", tc.want, "got", got)
		}
	}
}

func TestSaveChildrenBeforeParent(t *testing.T) {
	n := testPageNode(t)
	saved := make(map[string]bool)
	store := newMockStore()
	var mu sync.Mutex
	saver := SaverFunc(func(ctx context.Context, data []byte) (Reference, error) {
		decoded := New()
		if err := decoded.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		mu.Lock()
		defer mu.Unlock()
		for _, f := range decoded.Forks() {
			if !saved[f.Node.ContentAddress().String()] {
				t.Error("Parent saved before child", f.Node.ContentAddress())
			}
		}
		ref, err := store.Save(ctx, data)
		if err != nil {
			return nil, err
		}
		saved[ref.String()] = true
		return ref, nil
	})
	if _, err := n.Save(ctx, saver); err != nil {
		t.Fatal(err)
	}
}

func TestSaveFailureKeepsSavedChildren(t *testing.T) {
	n := sampleNode(t)
	store := newMockStore()
	errSave := errors.New("saver failure")
	var calls int32
	failing := SaverFunc(func(ctx context.Context, data []byte) (Reference, error) {
		if atomic.AddInt32(&calls, 1) > 3 {
			return nil, errSave
		}
		return store.Save(ctx, data)
	})
	if _, err := n.Save(ctx, failing); !errors.Is(err, errSave) {
		t.Fatal("Expect", errSave, "got", err)
	}
	if !n.IsDirty() {
		t.Error("Root should stay dirty after a failed save")
	}

	saved := store.saveCount()
	ref, err := n.Save(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.saveCount() - saved; got != 8-saved {
		t.Error("Retry should only save the remaining", 8-saved, "nodes, got", got)
	}

	want, err := sampleNode(t).Save(ctx, newMockStore())
	if err != nil {
		t.Fatal(err)
	}
	if !ref.Equal(want) {
		t.Error("Expect", want, "got", ref)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, build := range map[string]func(*testing.T) *Node{
		"sample":   sampleNode,
		"testpage": testPageNode,
	} {
		n := build(t)
		store := newMockStore()
		ref, err := n.Save(ctx, store)
		if err != nil {
			t.Fatal(name, err)
		}

		loaded := New()
		if err := loaded.Load(ctx, store, ref); err != nil {
			t.Fatal(name, err)
		}
		if loaded.IsDirty() || !loaded.ContentAddress().Equal(ref) {
			t.Error(name, "loaded node should be clean")
		}
		if err := LoadAllNodes(ctx, store, loaded); err != nil {
			t.Fatal(name, err)
		}
		if err := EqualNodes(n, loaded); err != nil {
			t.Error(name, err)
		}

		again, err := loaded.Save(ctx, store)
		if err != nil {
			t.Fatal(name, err)
		}
		if !again.Equal(ref) {
			t.Error(name, "expect", ref, "got", again)
		}
	}
}

func TestSaveLoadObfuscated(t *testing.T) {
	n := New()
	key := testRef("obfuscation key")
	if err := n.SetObfuscationKey(key); err != nil {
		t.Fatal(err)
	}
	for _, f := range testPage {
		if err := n.AddFork([]byte(f.path), f.ref, f.metadata); err != nil {
			t.Fatal(err)
		}
	}
	store := newMockStore()
	ref, err := n.Save(ctx, store)
	if err != nil {
		t.Fatal(err)
	}

	data, err := store.Load(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("index.html")) {
		t.Error("Obfuscated node should not contain plain prefixes")
	}

	loaded := New()
	if err := loaded.Load(ctx, store, ref); err != nil {
		t.Fatal(err)
	}
	if err := LoadAllNodes(ctx, store, loaded); err != nil {
		t.Fatal(err)
	}
	if err := EqualNodes(n, loaded); err != nil {
		t.Fatal(err)
	}
	got, err := loaded.Lookup([]byte("img/icon.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(testRef("img/icon.png")) {
		t.Error("Expect", testRef("img/icon.png"), "got", got)
	}
}

func TestLoadErrors(t *testing.T) {
	store := newMockStore()
	if err := New().Load(ctx, store, nil); !errors.Is(err, ErrInvalidReference) {
		t.Error("Expect", ErrInvalidReference, "got", err)
	}
	if err := New().Load(ctx, store, testRef("missing")); !errors.Is(err, errMockNotFound) {
		t.Error("Expect", errMockNotFound, "got", err)
	}
}

func TestModifyLoadedTree(t *testing.T) {
	store := newMockStore()
	ref, err := testPageNode(t).Save(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	n := New()
	if err := n.Load(ctx, store, ref); err != nil {
		t.Fatal(err)
	}

	// children are not loaded yet
	child := n.Forks()['i'].Node
	if err := child.AddFork([]byte("new"), testRef("new"), nil); !errors.Is(err, ErrForksUndefined) {
		t.Error("Expect", ErrForksUndefined, "got", err)
	}

	if err := LoadAllNodes(ctx, store, n); err != nil {
		t.Fatal(err)
	}
	if err := n.AddFork([]byte("img/logo.svg"), testRef("logo"), Metadata{"Filename": "logo.svg"}); err != nil {
		t.Fatal(err)
	}
	ref2, err := n.Save(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if ref2.Equal(ref) {
		t.Error("Root reference should change")
	}

	again := New()
	if err := again.Load(ctx, store, ref2); err != nil {
		t.Fatal(err)
	}
	if err := LoadAllNodes(ctx, store, again); err != nil {
		t.Fatal(err)
	}
	if err := EqualNodes(n, again); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"index.html", "img/icon.png", "img/icon.png.txt", "img/logo.svg"} {
		if _, err := again.Lookup([]byte(p)); err != nil {
			t.Error(p, err)
		}
	}
}

func TestSavePartiallyLoadedTree(t *testing.T) {
	store := newMockStore()
	ref, err := sampleNode(t).Save(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	n := New()
	if err := n.Load(ctx, store, ref); err != nil {
		t.Fatal(err)
	}
	if err := n.SetEntry(testRef("other root")); err != nil {
		t.Fatal(err)
	}
	before := store.saveCount()
	if _, err := n.Save(ctx, store); err != nil {
		t.Fatal(err)
	}
	if got := store.saveCount() - before; got != 1 {
		t.Error("Unloaded children should not be saved again, got", got, "saves")
	}
}
