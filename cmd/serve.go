// Package cmd — serve command.
// Starts the HTTP server that powers the browser workflow: upload a
// deck, preview the generated guide, download the PDF.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmalhotra/guidepress/core/generate"
	"github.com/nmalhotra/guidepress/core/render"
	"github.com/nmalhotra/guidepress/internal/config"
	"github.com/nmalhotra/guidepress/server"
)

const shutdownGrace = 5 * time.Second

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload UI and guide API over HTTP",
	Long: `Serve starts the web server: upload a .pptx in the browser, preview the
generated teacher guide, and download it as a styled PDF.

Requires GEMINI_API_KEY in the environment.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default "+config.DefaultAddr+")")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("%s is not set; export a Gemini API key first", config.EnvAPIKey)
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}

	log, err := buildLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := generate.New(ctx, cfg.APIKey, cfg.Model, log)
	if err != nil {
		return err
	}
	generator.Attempts = cfg.RetryCount
	generator.BaseDelay = cfg.RetryBaseDelay
	pdf := render.NewPDFRenderer(newAssembler(cfg, log))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(generator, pdf, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stdout, "Listening on %s\n", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
