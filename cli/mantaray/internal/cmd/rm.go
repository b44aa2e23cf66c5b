package cmd

import (
	"context"
	"fmt"

	"github.com/Solar-Punk-Ltd/mantaray-go/application"
	"github.com/Solar-Punk-Ltd/mantaray-go/mantaray"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <root> <path>",
	Short: "Remove a path from a manifest.",
	Long: `Remove <path> from the manifest <root> (reference or name), save the
modified manifest and print the reference of its new root. When <root>
is a name, the name is updated to the new root.`,
	Args: cobra.ExactArgs(2),
	RunE: runRm,
}

func init() {
	RootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ref, err := resolveRoot(e.store, args[0])
	if err != nil {
		return err
	}
	newRef, err := removePath(cmd.Context(), e.store, e.logger, ref, args[1])
	if err != nil {
		return err
	}
	if _, err := mantaray.ParseReference(args[0]); err != nil {
		if err := e.store.PutRoot(args[0], newRef); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), newRef)
	return nil
}

// removePath removes path from the manifest rooted at ref and returns
// the reference of the saved result.
func removePath(ctx context.Context, store *storage.Store, logger *application.Logger,
	ref mantaray.Reference, path string) (mantaray.Reference, error) {
	root, err := loadManifest(ctx, store, ref)
	if err != nil {
		return nil, err
	}
	if err := root.RemovePath([]byte(path)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	newRef, err := root.Save(ctx, store)
	if err != nil {
		return nil, err
	}
	logger.Info("Removed path", "path", path, "old", ref.String(), "new", newRef.String())
	return newRef, nil
}
