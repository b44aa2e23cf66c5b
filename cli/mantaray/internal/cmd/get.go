package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Solar-Punk-Ltd/mantaray-go/mantaray"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <root> [path]",
	Short: "Print the content stored at a manifest path.",
	Long: `Print the content stored under [path] of the manifest <root>
(reference or name). Without a path, or with "/", the website index
document recorded on the manifest is printed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	RootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ref, err := resolveRoot(e.store, args[0])
	if err != nil {
		return err
	}
	path := ""
	if len(args) == 2 {
		path = args[1]
	}
	data, err := getFile(cmd.Context(), e.store, ref, path)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// getFile returns the content stored at path in the manifest rooted
// at ref. An empty path, or "/", resolves to the index document.
func getFile(ctx context.Context, store *storage.Store, ref mantaray.Reference, path string) ([]byte, error) {
	root := mantaray.New()
	if err := root.Load(ctx, store, ref); err != nil {
		return nil, err
	}
	path = strings.TrimPrefix(path, string(mantaray.PathSeparator))
	if path == "" {
		index, err := indexDocument(ctx, store, root)
		if err != nil {
			return nil, err
		}
		path = index
	}

	entry, err := lookup(ctx, store, root, []byte(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store.Load(ctx, entry)
}

// lookup resolves path loading only the nodes on its way.
func lookup(ctx context.Context, store *storage.Store, n *mantaray.Node, path []byte) (mantaray.Reference, error) {
	for len(path) > 0 {
		f := n.Forks()[path[0]]
		if f == nil || !strings.HasPrefix(string(path), string(f.Prefix)) {
			return nil, mantaray.ErrNotFound
		}
		if err := loadFork(ctx, store, f); err != nil {
			return nil, err
		}
		n = f.Node
		path = path[len(f.Prefix):]
	}
	if !n.IsValueType() {
		return nil, mantaray.ErrNotFound
	}
	return n.Entry()
}

// indexDocument returns the website index document recorded on the
// "/" fork of root.
func indexDocument(ctx context.Context, store *storage.Store, root *mantaray.Node) (string, error) {
	f := root.Forks()[mantaray.PathSeparator]
	if f == nil {
		return "", fmt.Errorf("no index document: %w", mantaray.ErrNotFound)
	}
	metadata, err := f.Node.Metadata()
	if err != nil {
		return "", fmt.Errorf("no index document: %w", mantaray.ErrNotFound)
	}
	index, ok := metadata[indexDocumentKey]
	if !ok {
		return "", fmt.Errorf("no index document: %w", mantaray.ErrNotFound)
	}
	return index, nil
}

// loadFork loads the node of f unless it was loaded before.
func loadFork(ctx context.Context, store *storage.Store, f *mantaray.Fork) error {
	if f.Node.Forks() != nil {
		return nil
	}
	ref := f.Node.ContentAddress()
	if ref == nil {
		return mantaray.ErrNotSaved
	}
	return f.Node.Load(ctx, store, ref)
}
