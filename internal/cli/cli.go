// Package cli provides the questlog command line.
package cli

import (
	"context"
	"questlog/internal/structures"

	"github.com/spf13/cobra"
)

var flags = &structures.CliFlags{}

var rootCmd = &cobra.Command{
	Use:   "questlog",
	Short: "Local-first game library and progress tracker",
	Long: `Local-first game library and progress tracker

A device keeps the whole library in one local document and mirrors it to a
cloud slot keyed by its device id. The cloud role serves those slots.

Commands:
  device      serve the library API for this device
  cloud       serve the per-device document store
  export      write the library document to a file or stdout
  import      replace the library with a document
  link        follow another device's cloud document
  device-id   print this device's sync id`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Echo logs to the console")

	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(cloudCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(deviceIDCmd)
}

// Execute runs the command line until ctx is cancelled or the command ends.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
