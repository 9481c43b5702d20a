// Package cmd implements the CLI commands for guidepress using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "guidepress",
	Short: "guidepress — turn slide decks into styled teacher guides",
	Long: `guidepress extracts text from PowerPoint decks, generates a structured
teacher guide for each, and renders it as PDF, Markdown, or JSON.

Usage:
  guidepress convert <deck.pptx>... [flags]
  guidepress demo [flags]
  guidepress serve [flags]`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildLogger creates the process logger. Debug level with --verbose,
// production JSON otherwise.
func buildLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
