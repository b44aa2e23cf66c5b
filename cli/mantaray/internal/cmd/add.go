package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Solar-Punk-Ltd/mantaray-go/application"
	"github.com/Solar-Punk-Ltd/mantaray-go/crypto"
	"github.com/Solar-Punk-Ltd/mantaray-go/mantaray"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

const (
	// metadata keys understood by Swarm gateways
	contentTypeKey   = "Content-Type"
	filenameKey      = "Filename"
	indexDocumentKey = "website-index-document"
)

var addCmd = &cobra.Command{
	Use:   "add <dir>",
	Short: "Store a directory as a manifest.",
	Long: `Store every file below <dir> and a manifest mapping their relative
paths to the stored content. Each file carries its Content-Type and
Filename as metadata. The reference of the manifest root is printed.

With --to the files are added to an existing manifest instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	RootCmd.AddCommand(addCmd)
	addCmd.Flags().String("to", "", "Existing manifest (reference or name) to add the files to")
	addCmd.Flags().String("name", "", "Record the resulting manifest root under this name")
	addCmd.Flags().String("index-document", "", "Website index document (defaults to the configured one)")
}

// addOptions controls how a directory is turned into a manifest.
type addOptions struct {
	// IndexDocument is recorded on the "/" fork when not empty.
	IndexDocument string
	// Obfuscate masks a new manifest with a random key.
	Obfuscate bool
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := cmd.Context()

	to, _ := cmd.Flags().GetString("to")
	name, _ := cmd.Flags().GetString("name")
	opts := addOptions{
		IndexDocument: e.conf.IndexDocument,
		Obfuscate:     e.conf.Obfuscate,
	}
	if cmd.Flags().Changed("index-document") {
		opts.IndexDocument, _ = cmd.Flags().GetString("index-document")
	}

	root := mantaray.New()
	if to != "" {
		ref, err := resolveRoot(e.store, to)
		if err != nil {
			return err
		}
		if root, err = loadManifest(ctx, e.store, ref); err != nil {
			return err
		}
	}

	ref, err := addDir(ctx, e.store, e.logger, root, args[0], opts)
	if err != nil {
		return err
	}
	if name != "" {
		if err := e.store.PutRoot(name, ref); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), ref)
	return nil
}

// addDir stores every regular file below dir, inserts it into root
// under its slash separated relative path and saves the manifest.
func addDir(ctx context.Context, store *storage.Store, logger *application.Logger,
	root *mantaray.Node, dir string, opts addOptions) (mantaray.Reference, error) {
	if opts.Obfuscate && root.IsDirty() && len(root.Forks()) == 0 {
		key, err := crypto.MakeRand()
		if err != nil {
			return nil, err
		}
		if err := root.SetObfuscationKey(key); err != nil {
			return nil, err
		}
	}

	files := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		ref, err := store.Save(ctx, data)
		if err != nil {
			return err
		}
		metadata := mantaray.Metadata{
			contentTypeKey: mimetype.Detect(data).String(),
			filenameKey:    d.Name(),
		}
		if err := root.AddFork([]byte(filepath.ToSlash(rel)), ref, metadata); err != nil {
			return fmt.Errorf("Cannot add %s: %w", rel, err)
		}
		logger.Debug("Added file", "path", filepath.ToSlash(rel), "ref", ref.String())
		files++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.IndexDocument != "" {
		if err := root.AddFork([]byte{mantaray.PathSeparator}, mantaray.ZeroReference(), mantaray.Metadata{
			indexDocumentKey: opts.IndexDocument,
		}); err != nil {
			return nil, err
		}
	}

	ref, err := root.Save(ctx, store)
	if err != nil {
		return nil, err
	}
	logger.Info("Saved manifest", "dir", dir, "files", files, "ref", ref.String())
	return ref, nil
}
