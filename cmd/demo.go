// Package cmd — demo command.
// Renders the bundled sample guide so the pipeline and styling can be
// checked without an API key or an uploaded deck.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/output"
	"github.com/nmalhotra/guidepress/internal/assets"
	"github.com/nmalhotra/guidepress/internal/config"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Render the bundled sample guide",
	Long: `Demo renders the built-in sample teacher guide to the chosen output
format without calling the Gemini API.

Examples:
  guidepress demo
  guidepress demo --markdown --output_dir ./out`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	addOutputFlags(demoCmd)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if err := validateFlags(); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	log, err := buildLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	renderer := selectRenderer(newAssembler(cfg, log))
	guide := core.Guide{Name: assets.SampleGuideName, HTML: assets.SampleGuideHTML}

	data, err := renderer.Render(cmd.Context(), guide)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	path, err := writer.Write(guide.Name, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}
