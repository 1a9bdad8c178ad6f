package main

import (
	"context"
	"fmt"
	"os"

	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <role[title]/role[title]/...>",
	Short: "Show attributes and actions of the element at a path",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, opts := setup(cmd)
		pid, _ := cmd.Flags().GetInt32("pid")
		pretty, _ := cmd.Flags().GetBool("pretty")

		ctx := context.Background()
		root, err := eng.ApplicationTree(ctx, pid)
		if err != nil {
			fail(err)
		}
		el, err := eng.FindElementByPath(ctx, root, args[0])
		if err != nil {
			fail(err)
		}

		v := format.NewView(el, true)
		v.Path = el.DisplayPath()
		if attrs, err := eng.ElementAttributes(ctx, el); err == nil {
			v.Attributes = format.AttrsFromMap(attrs)
		}
		if actions, err := eng.AvailableActions(ctx, el); err == nil {
			v.Actions = actions
		}

		if pretty {
			out, err := format.RenderInspect(v)
			if err != nil {
				fail(err)
			}
			fmt.Print(out)
			return
		}

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
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int32("pid", 0, "Process id of the application")
	inspectCmd.Flags().Bool("pretty", false, "Render a rich terminal report")
	inspectCmd.MarkFlagRequired("pid")
}
