package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List the running applications the provider can see",
	Run: func(cmd *cobra.Command, args []string) {
		eng, opts := setup(cmd)

		apps, err := eng.Applications(context.Background())
		if err != nil {
			fail(err)
		}
		enc, err := opts.Encoder()
		if err != nil {
			fail(err)
		}
		if err := enc.Applications(os.Stdout, apps); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(appsCmd)
}
