package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use:   "action <role[title]/...> <action>",
	Short: "Perform an action on the element at a path",
	Long: `Resolves the path and dispatches the named action. The action must
be advertised by the element; "focus" is always available. Flaky
actions like press are retried with the configured retry policy.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		eng, _ := setup(cmd)
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
		if err := eng.PerformAction(ctx, el, args[1]); err != nil {
			fail(err)
		}
		fmt.Printf("performed %q on %s\n", args[1], el.DisplayPath())
	},
}

func init() {
	rootCmd.AddCommand(actionCmd)
	actionCmd.Flags().Int32("pid", 0, "Process id of the application")
	actionCmd.MarkFlagRequired("pid")
}
