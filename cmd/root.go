// Package cmd implements the ipveil CLI.
package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "ipveil",
	Short: "Pseudonymize IPv4 addresses in log streams",
	Long: `ipveil replaces every IPv4-shaped token in a text stream with either
0.0.0.0, a salted pseudonym, or a pronounceable word encoding of that
pseudonym. With a regularly rotated salt the requests of a single source
stay correlatable within the window while the real address is never kept.

Modes:
  filter   read lines from a file or stdin and write sanitized lines out
  serve    consume a Kafka topic and push sanitized windows to a sink`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
