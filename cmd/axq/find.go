package main

import (
	"context"
	"os"

	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Search an application's elements by role and title",
	Long: `Walks the element tree in pre-order and prints every element whose
role matches --role (case-insensitive, also matched against the subrole)
and whose title contains --title (also matched against the role
description). Either filter may be omitted.`,
	Run: func(cmd *cobra.Command, args []string) {
		eng, opts := setup(cmd)
		pid, _ := cmd.Flags().GetInt32("pid")
		role, _ := cmd.Flags().GetString("role")
		title, _ := cmd.Flags().GetString("title")

		ctx := context.Background()
		root, err := eng.ApplicationTree(ctx, pid)
		if err != nil {
			fail(err)
		}
		matches, err := eng.FindElements(ctx, root, role, title)
		if err != nil {
			fail(err)
		}

		views := make([]format.ElementView, 0, len(matches))
		for _, el := range matches {
			v := format.NewView(el, false)
			v.Path = el.DisplayPath()
			views = append(views, v)
		}
		enc, err := opts.Encoder()
		if err != nil {
			fail(err)
		}
		if err := enc.Elements(os.Stdout, views); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().Int32("pid", 0, "Process id of the application")
	findCmd.Flags().String("role", "", "Role to match (e.g. AXButton)")
	findCmd.Flags().String("title", "", "Title substring to match")
	findCmd.MarkFlagRequired("pid")
}
