// Package render — JSON renderer.
// Serializes the assembled block flow as structured JSON so other tools
// can consume a guide without reparsing its markup. Each block carries
// both its plain text and its styled runs, plus document-level counts.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/assemble"
)

// GuideJSON is the top-level JSON document for one guide.
type GuideJSON struct {
	Name    string         `json:"name"`
	Outline []OutlineEntry `json:"outline,omitempty"`
	Blocks  []BlockJSON    `json:"blocks"`
	Stats   GuideStats     `json:"stats"`
}

// BlockJSON is one document block. Fields apply per kind: headings set
// level, lists set items (and ordered when numbered), images set image.
type BlockJSON struct {
	Kind    string      `json:"kind"`
	Level   int         `json:"level,omitempty"`
	Text    string      `json:"text,omitempty"`
	Runs    []RunJSON   `json:"runs,omitempty"`
	Ordered bool        `json:"ordered,omitempty"`
	Items   [][]RunJSON `json:"items,omitempty"`
	Image   *ImageJSON  `json:"image,omitempty"`
}

// RunJSON is one styled text run.
type RunJSON struct {
	Text   string `json:"text,omitempty"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Break  bool   `json:"break,omitempty"`
}

// ImageJSON describes an embedded image without inlining its payload.
type ImageJSON struct {
	Format  string  `json:"format"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	WidthMM float64 `json:"width_mm"`
	Bytes   int     `json:"bytes"`
}

// GuideStats summarizes the document structure.
type GuideStats struct {
	Headings   int `json:"headings"`
	Paragraphs int `json:"paragraphs"`
	Lists      int `json:"lists"`
	Images     int `json:"images"`
	Words      int `json:"words"`
}

// JSONRenderer produces structured JSON output from guide markup.
type JSONRenderer struct {
	assembler *assemble.Assembler
}

// NewJSONRenderer creates a JSONRenderer drawing from the given assembler.
func NewJSONRenderer(a *assemble.Assembler) *JSONRenderer {
	return &JSONRenderer{assembler: a}
}

// Render converts guide markup into the JSON document structure.
func (r *JSONRenderer) Render(ctx context.Context, guide core.Guide) ([]byte, error) {
	flow := r.assembler.Flow(ctx, guide.HTML)

	doc := GuideJSON{
		Name:    guide.Name,
		Outline: Outline(guide.HTML),
		Blocks:  make([]BlockJSON, 0, len(flow)),
	}
	for _, entry := range flow {
		blk := blockJSON(entry.Block)
		countBlock(&doc.Stats, entry.Block, blk.Text)
		doc.Blocks = append(doc.Blocks, blk)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// --- Block conversion helpers ---

func blockJSON(b core.Block) BlockJSON {
	out := BlockJSON{Kind: b.Kind().String()}
	switch blk := b.(type) {
	case *core.Heading:
		out.Level = blk.Level
		out.Text = blk.Text.Plain()
		out.Runs = runsJSON(blk.Text)
	case *core.Paragraph:
		out.Text = blk.Text.Plain()
		out.Runs = runsJSON(blk.Text)
	case *core.List:
		out.Ordered = blk.Ordered
		out.Items = make([][]RunJSON, 0, len(blk.Items))
		for _, item := range blk.Items {
			out.Items = append(out.Items, runsJSON(item))
		}
	case *core.Image:
		out.Image = &ImageJSON{
			Format:  blk.Format,
			Width:   blk.PixelW,
			Height:  blk.PixelH,
			WidthMM: blk.WidthMM,
			Bytes:   len(blk.Data),
		}
	}
	return out
}

func runsJSON(text core.RichText) []RunJSON {
	runs := make([]RunJSON, 0, len(text))
	for _, run := range text {
		runs = append(runs, RunJSON{
			Text:   run.Text,
			Bold:   run.Bold,
			Italic: run.Italic,
			Break:  run.Break,
		})
	}
	return runs
}

func countBlock(stats *GuideStats, b core.Block, plain string) {
	switch blk := b.(type) {
	case *core.Heading:
		stats.Headings++
	case *core.Paragraph:
		stats.Paragraphs++
	case *core.List:
		stats.Lists++
		for _, item := range blk.Items {
			stats.Words += len(strings.Fields(item.Plain()))
		}
		return
	case *core.Image:
		stats.Images++
		return
	}
	stats.Words += len(strings.Fields(plain))
}
