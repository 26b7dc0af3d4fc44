package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	langName string

	logger = slog.Default()
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&langName, "lang", "l", "", "Override language detection (json, json5, yaml, hcl)")
}

var rootCmd = &cobra.Command{
	Use:   "schemawalk",
	Short: "Map positions in JSON, JSON5, YAML and HCL documents to schema locations",
	Long: `schemawalk turns a cursor position in a configuration document into the
sequence of property names and array indexes that leads to it from the
document root, and uses those steps to complete, validate and index
documents against JSON Schemas.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
