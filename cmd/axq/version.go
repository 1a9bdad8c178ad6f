package main

import (
	"fmt"

	axq "github.com/axq-tools/axq"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of axq",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("axq version %s\n", axq.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
