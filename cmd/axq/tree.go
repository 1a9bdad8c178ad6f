package main

import (
	"context"
	"os"

	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the element tree of one application",
	Run: func(cmd *cobra.Command, args []string) {
		eng, opts := setup(cmd)
		pid, _ := cmd.Flags().GetInt32("pid")
		depth, _ := cmd.Flags().GetInt("depth")

		ctx, cancel := context.WithTimeout(context.Background(), opts.Config.SearchTimeout.Std())
		defer cancel()

		root, err := eng.ApplicationTree(ctx, pid)
		if err != nil {
			fail(err)
		}
		if err := root.LoadSubtree(ctx, depth); err != nil {
			fail(err)
		}

		enc, err := opts.Encoder()
		if err != nil {
			fail(err)
		}
		if err := enc.Elements(os.Stdout, []format.ElementView{format.NewView(root, true)}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Int32("pid", 0, "Process id of the application")
	treeCmd.Flags().Int("depth", -1, "Levels to load, -1 for the full tree")
	treeCmd.MarkFlagRequired("pid")
}
