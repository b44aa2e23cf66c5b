package cmd

import (
	"path/filepath"

	"github.com/Solar-Punk-Ltd/mantaray-go/application"
	"github.com/Solar-Punk-Ltd/mantaray-go/application/client"
	"github.com/Solar-Punk-Ltd/mantaray-go/cli"
	"github.com/spf13/cobra"
)

var initCmd = cli.NewInitCommand("the mantaray manifest tool", mkConfig)

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("obfuscate", false,
		"Mask new manifests with a random obfuscation key")
}

func mkConfig(cmd *cobra.Command, args []string) error {
	dir := cmd.Flag("dir").Value.String()
	obfuscate, err := cmd.Flags().GetBool("obfuscate")
	if err != nil {
		return err
	}
	file := filepath.Join(dir, "config.toml")
	conf := client.NewConfig(file, "toml", "mantaray.db", obfuscate)
	return application.SaveConfig(conf)
}
