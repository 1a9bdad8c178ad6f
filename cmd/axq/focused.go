package main

import (
	"context"
	"os"

	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/spf13/cobra"
)

var focusedCmd = &cobra.Command{
	Use:   "focused",
	Short: "Show the deepest focused element of the frontmost application",
	Run: func(cmd *cobra.Command, args []string) {
		eng, opts := setup(cmd)

		el, err := eng.FocusedElement(context.Background())
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
	rootCmd.AddCommand(focusedCmd)
}
