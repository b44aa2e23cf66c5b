// Executable mantaray manifest tool. It stores directories as
// mantaray manifests in a local leveldb database and reads them back.
package main

import (
	"github.com/Solar-Punk-Ltd/mantaray-go/cli"
	"github.com/Solar-Punk-Ltd/mantaray-go/cli/mantaray/internal/cmd"
)

func main() {
	cli.ExecuteRoot(cmd.RootCmd)
}
