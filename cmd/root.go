/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"os"

	"github.com/spf13/cobra"

	"redmock"
	"redmock/internal/cli"
	"redmock/internal/logger"
)

// rootCmd represents base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "redmock",
	Short: "An in-process multi-type key-value store shell",
	Long: `An interactive shell over an in-process key-value store that mirrors
the command semantics of a remote data-structure server: strings,
hashes, lists, sets and sorted sets in one key space.

Examples:
  redmock
  redmock --eval "SET greeting hello"
  redmock --file commands.txt`,
	Run: func(cmd *cobra.Command, args []string) {
		logLevel := logger.LogLevel(getStringFlag(cmd, "log-level", "info"))
		logger.Init(logLevel)

		client := redmock.New()
		err := cli.Run(client, &cli.Config{
			Eval: getStringFlag(cmd, "eval", ""),
			File: getStringFlag(cmd, "file", ""),
		})
		if err != nil {
			logger.Errorf("shell exited with error: %v", err)
			os.Exit(1)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().String("eval", "", "Run the specified command and exit")
	rootCmd.Flags().String("file", "", "Execute commands from file")
}

// Helper functions for flag parsing
func getStringFlag(cmd *cobra.Command, name, defaultValue string) string {
	if value, err := cmd.Flags().GetString(name); err == nil && value != "" {
		return value
	}
	return defaultValue
}
