// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// extract → generate → render → write.
//
// It handles flag validation, renderer selection, and concurrent
// processing when several decks are given.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/assemble"
	"github.com/nmalhotra/guidepress/core/generate"
	"github.com/nmalhotra/guidepress/core/output"
	"github.com/nmalhotra/guidepress/core/pptx"
	"github.com/nmalhotra/guidepress/core/render"
	"github.com/nmalhotra/guidepress/core/resource"
	"github.com/nmalhotra/guidepress/internal/config"
)

// defaultParallel bounds concurrent deck processing so parallel Gemini
// calls don't trip the per-minute quota.
const defaultParallel = 4

// Flag variables.
var (
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagModel     string
	flagOutputDir string
	flagParallel  int
)

var convertCmd = &cobra.Command{
	Use:   "convert <deck.pptx>...",
	Short: "Convert slide decks into teacher guides",
	Long: `Convert extracts text from PowerPoint decks, generates a teacher guide
for each through the Gemini API, and renders it to the specified output
format (PDF, Markdown, or JSON). PDF is the default.

Requires GEMINI_API_KEY in the environment.

Examples:
  guidepress convert lesson.pptx
  guidepress convert lesson.pptx --markdown --output_dir ./guides
  guidepress convert decks/*.pptx --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addOutputFlags(convertCmd)
	convertCmd.Flags().StringVar(&flagModel, "model", "", "Gemini model to use (default "+generate.DefaultModel+")")
	convertCmd.Flags().IntVar(&flagParallel, "parallel", defaultParallel, "Max decks processed concurrently")
}

// addOutputFlags registers the format and destination flags shared by
// convert and demo.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF (default)")
	cmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	cmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	// --- Validate flags ---
	if err := validateFlags(); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("%s is not set; export a Gemini API key first", config.EnvAPIKey)
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}

	log, err := buildLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()

	// Initialize pipeline components.
	generator, err := generate.New(ctx, cfg.APIKey, cfg.Model, log)
	if err != nil {
		return err
	}
	generator.Attempts = cfg.RetryCount
	generator.BaseDelay = cfg.RetryBaseDelay
	renderer := selectRenderer(newAssembler(cfg, log))

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	if len(args) == 1 {
		return convertOne(ctx, args[0], generator, renderer, writer)
	}
	return convertBatch(ctx, args, generator, renderer, writer)
}

// convertOne processes a single deck through the pipeline.
func convertOne(
	ctx context.Context,
	path string,
	generator core.Generator,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	data, name, err := processDeck(ctx, path, generator, renderer)
	if err != nil {
		return err
	}

	outPath, err := writer.Write(name, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", outPath)
	return nil
}

// convertBatch processes several decks concurrently, continuing past
// per-deck failures.
func convertBatch(
	ctx context.Context,
	paths []string,
	generator core.Generator,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	fmt.Fprintf(os.Stdout, "Processing %d decks\n", len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(flagParallel)

	var errCount atomic.Int64
	for i, path := range paths {
		g.Go(func() error {
			fmt.Fprintf(os.Stdout, "[%d/%d] Processing %s\n", i+1, len(paths), path)

			data, name, err := processDeck(ctx, path, generator, renderer)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", path, err)
				errCount.Add(1)
				return nil
			}

			outPath, err := writer.Write(name, data, renderer.Extension())
			if err != nil {
				fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", path, err)
				errCount.Add(1)
				return nil
			}
			fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", outPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := errCount.Load(); n > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d decks failed\n", n, len(paths))
	}
	return nil
}

// processDeck runs a single deck through the full pipeline.
func processDeck(
	ctx context.Context,
	path string,
	generator core.Generator,
	renderer core.Renderer,
) ([]byte, string, error) {
	// 1. Extract slide text
	deck, err := pptx.Extract(path)
	if err != nil {
		return nil, "", fmt.Errorf("extract: %w", err)
	}
	if strings.TrimSpace(deck.Text) == "" {
		return nil, "", fmt.Errorf("no readable text in %s", path)
	}

	// 2. Generate guide markup
	guide, err := generator.Generate(ctx, deck)
	if err != nil {
		return nil, "", fmt.Errorf("generate: %w", err)
	}

	// 3. Render to output format
	data, err := renderer.Render(ctx, guide)
	if err != nil {
		return nil, "", fmt.Errorf("render: %w", err)
	}

	return data, guide.Name, nil
}

// validateFlags checks that at most one output format is chosen.
// PDF is used when none is given.
func validateFlags() error {
	formatCount := 0
	if flagPDF {
		formatCount++
	}
	if flagMarkdown {
		formatCount++
	}
	if flagJSON {
		formatCount++
	}

	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	if flagParallel < 1 {
		return fmt.Errorf("--parallel must be at least 1 (got %d)", flagParallel)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer(assembler *assemble.Assembler) core.Renderer {
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer()
	case flagJSON:
		return render.NewJSONRenderer(assembler)
	default:
		return render.NewPDFRenderer(assembler)
	}
}

// newAssembler builds the conversion pipeline with the image loader
// bounds from cfg.
func newAssembler(cfg config.Config, log *zap.Logger) *assemble.Assembler {
	loader := resource.New()
	loader.Client.Timeout = cfg.FetchTimeout
	loader.MaxBytes = cfg.MaxImageBytes
	loader.MaxEdge = cfg.MaxImageEdge
	return assemble.New(loader, log)
}
