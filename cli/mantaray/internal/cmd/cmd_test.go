package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Solar-Punk-Ltd/mantaray-go/application"
	"github.com/Solar-Punk-Ltd/mantaray-go/mantaray"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage/kv/leveldbkv"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// writeTestPage creates the files of a small website below a temporary
// directory and returns the directory.
func writeTestPage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0755))
	files := map[string][]byte{
		"index.html":       []byte("<!DOCTYPE html><html><body>hello</body></html>"),
		"img/icon.png":     pngHeader,
		"img/icon.png.txt": []byte("hali"),
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), data, 0644))
	}
	return dir
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := leveldbkv.OpenMemDB()
	require.NoError(t, err)
	s := storage.NewStore(db, nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddDir(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	dir := writeTestPage(t)

	ref, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), dir,
		addOptions{IndexDocument: "index.html"})
	require.NoError(t, err)

	root, err := loadManifest(ctx, store, ref)
	require.NoError(t, err)
	require.Equal(t, []byte("/i"), root.SortedForkKeys())

	for path, contentType := range map[string]string{
		"index.html":       "text/html; charset=utf-8",
		"img/icon.png":     "image/png",
		"img/icon.png.txt": "text/plain; charset=utf-8",
	} {
		node, err := root.LookupNode([]byte(path))
		require.NoError(t, err, path)
		metadata, err := node.Metadata()
		require.NoError(t, err, path)
		require.Equal(t, contentType, metadata[contentTypeKey], path)
		require.Equal(t, filepath.Base(path), metadata[filenameKey], path)
	}

	index, err := indexDocument(ctx, store, root)
	require.NoError(t, err)
	require.Equal(t, "index.html", index)

	again, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), dir,
		addOptions{IndexDocument: "index.html"})
	require.NoError(t, err)
	require.Equal(t, ref, again)
}

func TestAddDirObfuscated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	dir := writeTestPage(t)

	plain, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), dir, addOptions{})
	require.NoError(t, err)
	masked, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), dir, addOptions{Obfuscate: true})
	require.NoError(t, err)
	require.NotEqual(t, plain, masked)

	data, err := getFile(ctx, store, masked, "img/icon.png.txt")
	require.NoError(t, err)
	require.Equal(t, "hali", string(data))
}

func TestGetFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ref, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), writeTestPage(t),
		addOptions{IndexDocument: "index.html"})
	require.NoError(t, err)

	data, err := getFile(ctx, store, ref, "img/icon.png")
	require.NoError(t, err)
	require.Equal(t, pngHeader, data)

	for _, path := range []string{"", "/", "index.html"} {
		data, err = getFile(ctx, store, ref, path)
		require.NoError(t, err)
		require.Contains(t, string(data), "hello")
	}

	_, err = getFile(ctx, store, ref, "img/")
	require.ErrorIs(t, err, mantaray.ErrNotFound)
	_, err = getFile(ctx, store, ref, "missing.html")
	require.ErrorIs(t, err, mantaray.ErrNotFound)
}

func TestGetFileWithoutIndexDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ref, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), writeTestPage(t), addOptions{})
	require.NoError(t, err)

	_, err = getFile(ctx, store, ref, "")
	require.ErrorIs(t, err, mantaray.ErrNotFound)
}

func TestRemovePath(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ref, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), writeTestPage(t),
		addOptions{IndexDocument: "index.html"})
	require.NoError(t, err)

	newRef, err := removePath(ctx, store, application.NewNopLogger(), ref, "img/icon.png.txt")
	require.NoError(t, err)
	require.NotEqual(t, ref, newRef)

	_, err = getFile(ctx, store, newRef, "img/icon.png.txt")
	require.ErrorIs(t, err, mantaray.ErrNotFound)
	_, err = getFile(ctx, store, newRef, "img/icon.png")
	require.NoError(t, err)
	// the old manifest is untouched
	_, err = getFile(ctx, store, ref, "img/icon.png.txt")
	require.NoError(t, err)

	_, err = removePath(ctx, store, application.NewNopLogger(), newRef, "nothing")
	require.ErrorIs(t, err, mantaray.ErrNotFound)
}

func TestRenderTree(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ref, err := addDir(ctx, store, application.NewNopLogger(), mantaray.New(), writeTestPage(t),
		addOptions{IndexDocument: "index.html"})
	require.NoError(t, err)
	root, err := loadManifest(ctx, store, ref)
	require.NoError(t, err)

	out := renderTree(ref.String(), root)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, ref.String(), lines[0])
	require.Contains(t, out, `"/" (separator|metadata) {website-index-document=index.html}`)
	require.Contains(t, out, `"ndex.html" (value|metadata)`)
	require.Contains(t, out, `".txt" (value|metadata)`)
	require.Contains(t, out, "Filename=icon.png.txt")
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.toml")
	site := writeTestPage(t)

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		RootCmd.SetOut(&out)
		RootCmd.SetArgs(args)
		require.NoError(t, RootCmd.Execute(), args)
		return out.String()
	}

	run("init", "--dir", dir)
	_, err := os.Stat(config)
	require.NoError(t, err)

	ref := strings.TrimSpace(run("add", "--config", config, "--name", "site", site))
	_, err = mantaray.ParseReference(ref)
	require.NoError(t, err)

	require.Equal(t, "hali", run("get", "--config", config, "site", "img/icon.png.txt"))
	require.Contains(t, run("ls", "--config", config, ref), `"ndex.html"`)

	newRef := strings.TrimSpace(run("rm", "--config", config, "site", "index.html"))
	require.NotEqual(t, ref, newRef)
	require.NotContains(t, run("ls", "--config", config, "site"), `"ndex.html"`)

	require.Contains(t, run("version"), "mantaray v")
}
