package cmd

import (
	"github.com/Solar-Punk-Ltd/mantaray-go/cli"
)

var versionCmd = cli.NewVersionCommand("mantaray")

func init() {
	RootCmd.AddCommand(versionCmd)
}
