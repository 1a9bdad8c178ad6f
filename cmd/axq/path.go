package main

import (
	"context"
	"os"

	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <role[title]/role[title]/...>",
	Short: "Resolve a path of role[title] segments to one element",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, opts := setup(cmd)
		pid, _ := cmd.Flags().GetInt32("pid")

		ctx := context.Background()
		root, err := eng.ApplicationTree(ctx, pid)
		if err != nil {
			fail(err)
		}
		el, err := eng.FindElementByPath(ctx, root, args[0])
		if err != nil {
			fail(err)
		}

		v := format.NewView(el, false)
		v.Path = el.DisplayPath()
		enc, err := opts.Encoder()
		if err != nil {
			fail(err)
		}
		if err := enc.Elements(os.Stdout, []format.ElementView{v}); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
	pathCmd.Flags().Int32("pid", 0, "Process id of the application")
	pathCmd.MarkFlagRequired("pid")
}
