package main

import (
	"context"
	"errors"
	"os"

	"github.com/axq-tools/axq/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate",
	Short: "Browse the element tree interactively",
	Long: `Opens a terminal navigator over one application's element tree.
Children are loaded lazily as you descend, so even slow providers stay
responsive. Without --pid it starts at the frontmost application.`,
	Run: func(cmd *cobra.Command, args []string) {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fail(errors.New("navigate needs an interactive terminal"))
		}

		eng, _ := setup(cmd)
		pid, _ := cmd.Flags().GetInt32("pid")

		ctx := context.Background()
		if pid == 0 {
			el, err := eng.FocusedElement(ctx)
			if err != nil {
				fail(err)
			}
			pid = el.PID
		}

		root, err := eng.ApplicationTree(ctx, pid)
		if err != nil {
			fail(err)
		}
		if err := tui.Run(eng, root); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(navigateCmd)
	navigateCmd.Flags().Int32("pid", 0, "Process id of the application (default: frontmost)")
}
