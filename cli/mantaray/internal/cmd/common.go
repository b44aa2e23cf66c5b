package cmd

import (
	"context"
	"fmt"

	"github.com/Solar-Punk-Ltd/mantaray-go/application"
	"github.com/Solar-Punk-Ltd/mantaray-go/application/client"
	"github.com/Solar-Punk-Ltd/mantaray-go/mantaray"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage/kv/leveldbkv"
	"github.com/spf13/cobra"
)

const configMissingUsage = `
Couldn't load the config-file.

To create a valid config, run
  mantaray init
This creates a config.toml in the current working directory.
If you prefer the config-file to be named or stored somewhere different
you can specify where to look for the config with the --config flag.
For example:
  mantaray init --dir /etc/mantaray/
  mantaray ls --config /etc/mantaray/config.toml <root>
`

// env bundles what every manifest command works with.
type env struct {
	conf   *client.Config
	logger *application.Logger
	store  *storage.Store
}

func openEnv(cmd *cobra.Command) (*env, error) {
	file := cmd.Flag("config").Value.String()
	conf := &client.Config{}
	if err := application.LoadConfig(file, "toml", conf); err != nil {
		return nil, fmt.Errorf("%v\n%s", err, configMissingUsage)
	}
	logger, err := conf.NewLogger()
	if err != nil {
		return nil, err
	}
	db, err := leveldbkv.OpenDB(conf.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("Cannot open database %s: %v", conf.DatabasePath(), err)
	}
	return &env{
		conf:   conf,
		logger: logger,
		store:  storage.NewStore(db, logger),
	}, nil
}

func (e *env) Close() error {
	_ = e.logger.Sync()
	return e.store.Close()
}

// resolveRoot accepts either a hex encoded reference or the name of a
// recorded manifest root.
func resolveRoot(store *storage.Store, arg string) (mantaray.Reference, error) {
	if ref, err := mantaray.ParseReference(arg); err == nil {
		return ref, nil
	}
	return store.Root(arg)
}

// loadManifest loads the whole manifest rooted at ref.
func loadManifest(ctx context.Context, store *storage.Store, ref mantaray.Reference) (*mantaray.Node, error) {
	root := mantaray.New()
	if err := root.Load(ctx, store, ref); err != nil {
		return nil, err
	}
	if err := mantaray.LoadAllNodes(ctx, store, root); err != nil {
		return nil, err
	}
	return root, nil
}
