package main

import (
	"fmt"
	"os"

	axq "github.com/axq-tools/axq"
	"github.com/axq-tools/axq/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "axq",
	Short: "axq explores and drives accessibility element trees",
	Long: `axq loads the element tree of running applications through an
accessibility provider, searches it by role and title, resolves
role[title]/... paths, and performs actions on elements.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the axq config file (default axq.yaml)")
	rootCmd.PersistentFlags().String("snapshot", "", "Snapshot YAML file backing the provider")
	rootCmd.PersistentFlags().StringP("format", "f", "plain", "Output format: plain, json or xml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output and debug logging")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

// setup merges config and flags and builds the engine. Failures here are
// fatal for every command, so it exits directly like the other helpers.
func setup(cmd *cobra.Command) (*axq.Engine, *cli.Options) {
	opts, err := cli.Load(cmd)
	if err != nil {
		fail(err)
	}
	eng, _, err := cli.NewEngine(opts)
	if err != nil {
		fail(err)
	}
	return eng, opts
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
