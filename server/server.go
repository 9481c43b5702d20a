// Package server exposes the guide workflow over HTTP: upload a deck,
// get guide markup back, export it as a styled PDF.
package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/generate"
	"github.com/nmalhotra/guidepress/core/output"
	"github.com/nmalhotra/guidepress/core/pptx"
	"github.com/nmalhotra/guidepress/core/render"
	"github.com/nmalhotra/guidepress/internal/assets"
)

// DefaultMaxUpload caps uploaded deck size.
const DefaultMaxUpload = 50 << 20

//go:embed index.html
var indexHTML []byte

type uploadResponse struct {
	HTML     string                `json:"html"`
	FileName string                `json:"file_name"`
	Outline  []render.OutlineEntry `json:"outline,omitempty"`
}

type exportRequest struct {
	HTML     string `json:"html"`
	FileName string `json:"file_name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server handles the upload, demo and export endpoints.
type Server struct {
	generator core.Generator
	pdf       core.Renderer
	log       *zap.Logger
	maxUpload int64
}

// New creates a Server. The renderer must produce PDFs; the generator
// turns deck text into guide markup.
func New(generator core.Generator, pdf core.Renderer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		generator: generator,
		pdf:       pdf,
		log:       log,
		maxUpload: DefaultMaxUpload,
	}
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /demo", s.handleDemo)
	mux.HandleFunc("POST /export-pdf", s.handleExportPDF)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.logRequests(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleUpload extracts deck text and generates guide markup for it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "The uploaded file is too large.")
			return
		}
		s.writeError(w, http.StatusBadRequest, "Please upload a valid .pptx file.")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pptx") {
		s.writeError(w, http.StatusBadRequest, "Please upload a valid .pptx file.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Please upload a valid .pptx file.")
		return
	}

	deck, err := pptx.ExtractReader(bytes.NewReader(data), int64(len(data)), header.Filename)
	if err != nil {
		s.log.Warn("rejecting unreadable upload",
			zap.String("filename", header.Filename),
			zap.Error(err))
		s.writeError(w, http.StatusBadRequest, "Please upload a valid .pptx file.")
		return
	}
	if strings.TrimSpace(deck.Text) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "No readable text found in the uploaded PPTX.")
		return
	}

	guide, err := s.generator.Generate(r.Context(), deck)
	if err != nil {
		if errors.Is(err, generate.ErrQuotaExhausted) {
			s.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		s.log.Error("guide generation failed",
			zap.String("deck", deck.Name),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "Guide generation failed.")
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		HTML:     guide.HTML,
		FileName: guide.Name,
		Outline:  render.Outline(guide.HTML),
	})
}

// handleDemo returns the bundled sample guide for UI preview.
func (s *Server) handleDemo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, uploadResponse{
		HTML:     assets.SampleGuideHTML,
		FileName: assets.SampleGuideName,
		Outline:  render.Outline(assets.SampleGuideHTML),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExportPDF renders posted guide markup as a PDF download.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.FileName == "" {
		req.FileName = "teacher_guide"
	}

	data, err := s.pdf.Render(r.Context(), core.Guide{Name: req.FileName, HTML: req.HTML})
	if err != nil {
		s.log.Error("pdf export failed",
			zap.String("name", req.FileName),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "PDF export failed.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", output.SafeName(req.FileName)+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
