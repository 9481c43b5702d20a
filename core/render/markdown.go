package render

import (
	"context"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/nmalhotra/guidepress/core"
)

// MarkdownRenderer converts guide markup directly to Markdown text.
// Unlike the PDF path it keeps the guide's own structure and leaves
// styling to whatever consumes the Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts guide markup into Markdown bytes.
func (r *MarkdownRenderer) Render(_ context.Context, guide core.Guide) ([]byte, error) {
	md, err := htmltomarkdown.ConvertString(guide.HTML)
	if err != nil {
		return nil, fmt.Errorf("converting guide to markdown: %w", err)
	}
	return []byte(md), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
