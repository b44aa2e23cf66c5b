package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Solar-Punk-Ltd/mantaray-go/mantaray"
	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls <root>",
	Short: "Print a manifest as a tree.",
	Long: `Load every node of the manifest <root> (reference or name) and print
its forks as a tree. Each line shows the fork prefix, the node type and,
for value nodes, the entry reference and the metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

func init() {
	RootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ref, err := resolveRoot(e.store, args[0])
	if err != nil {
		return err
	}
	root, err := loadManifest(cmd.Context(), e.store, ref)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderTree(ref.String(), root))
	return nil
}

// renderTree draws the forks below root, in ascending key order.
func renderTree(label string, root *mantaray.Node) string {
	tree := gotree.New(label)
	addForks(tree, root)
	return tree.Print()
}

func addForks(tree gotree.Tree, n *mantaray.Node) {
	for _, k := range n.SortedForkKeys() {
		f := n.Forks()[k]
		addForks(tree.Add(forkLabel(f)), f.Node)
	}
}

func forkLabel(f *mantaray.Fork) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q", f.Prefix)
	typ, err := f.Node.Type()
	if err == nil {
		fmt.Fprintf(&b, " (%s)", typ)
	}
	if f.Node.IsValueType() {
		if entry, err := f.Node.Entry(); err == nil {
			fmt.Fprintf(&b, " %s", entry)
		}
	}
	if metadata, err := f.Node.Metadata(); err == nil && len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + metadata[k]
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(pairs, ", "))
	}
	return b.String()
}
