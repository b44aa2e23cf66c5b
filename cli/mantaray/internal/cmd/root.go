package cmd

import (
	"github.com/Solar-Punk-Ltd/mantaray-go/cli"
)

// RootCmd represents the base "mantaray" command when called without
// any subcommands (add, ls, get, ...).
var RootCmd = cli.NewRootCommand("mantaray",
	"Mantaray manifest tool",
	`Build, inspect and modify mantaray manifests.

Files and manifest nodes are kept in a local content addressed store.
Manifests are addressed by the hex reference of their root node, or by
a name recorded with the --name flag.`)

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "config.toml",
		"Config file for the manifest tool")
}
