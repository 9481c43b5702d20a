package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/assemble"
	"github.com/nmalhotra/guidepress/core/resource"
)

func newTestAssembler() *assemble.Assembler {
	return assemble.New(resource.New(), nil)
}

// pngDataURI builds an inline PNG of the given size for image blocks.
func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPDFRender(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"heading and paragraph", "<h1>Title</h1><p>Hello <strong>World</strong></p>"},
		{"unordered list", "<ul><li>One</li><li>Two</li></ul>"},
		{"ordered list", "<ol><li>First <b>step</b></li><li>Second</li></ol>"},
		{"line breaks", "<p>Line one<br/>Line two</p>"},
		{"entities", "<p>A &rarr; B &amp; C</p>"},
		{"empty input renders placeholder", ""},
	}

	r := NewPDFRenderer(newTestAssembler())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.Render(context.Background(), core.Guide{Name: "Unit One", HTML: tt.html})
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Errorf("Render() output does not start with %%PDF- header")
			}
			if len(data) < 500 {
				t.Errorf("Render() produced suspiciously small PDF (%d bytes)", len(data))
			}
		})
	}
}

func TestPDFRenderEmbedsImage(t *testing.T) {
	r := NewPDFRenderer(newTestAssembler())
	html := `<h2>Figure</h2><img src="` + pngDataURI(t, 40, 30) + `"/>`

	data, err := r.Render(context.Background(), core.Guide{Name: "Figures", HTML: html})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("Render() output does not start with %%PDF- header")
	}

	plain, err := r.Render(context.Background(), core.Guide{Name: "Figures", HTML: "<h2>Figure</h2>"})
	if err != nil {
		t.Fatalf("Render() error on image-free variant: %v", err)
	}
	if len(data) <= len(plain) {
		t.Errorf("Render() with image not larger than without: %d <= %d bytes", len(data), len(plain))
	}
}

func TestMarkdownRender(t *testing.T) {
	r := NewMarkdownRenderer()
	guide := core.Guide{
		Name: "Unit One",
		HTML: "<h1>Title</h1><p>Hello <strong>World</strong></p><ul><li>One</li></ul>",
	}

	data, err := r.Render(context.Background(), guide)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	md := string(data)
	for _, want := range []string{"# Title", "**World**", "One"} {
		if !strings.Contains(md, want) {
			t.Errorf("Render() = %q, missing %q", md, want)
		}
	}
}

func TestJSONRender(t *testing.T) {
	r := NewJSONRenderer(newTestAssembler())
	guide := core.Guide{
		Name: "Unit One",
		HTML: "<h1>Title</h1><p>Hello <strong>World</strong></p><ol><li>One</li><li>Two</li></ol>",
	}

	data, err := r.Render(context.Background(), guide)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var got GuideJSON
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshaling output: %v", err)
	}

	want := GuideJSON{
		Name:    "Unit One",
		Outline: []OutlineEntry{{Level: 1, Title: "Title"}},
		Blocks: []BlockJSON{
			{Kind: "heading", Level: 1, Text: "Title", Runs: []RunJSON{{Text: "Title"}}},
			{Kind: "paragraph", Text: "Hello World", Runs: []RunJSON{
				{Text: "Hello "},
				{Text: "World", Bold: true},
			}},
			{Kind: "list", Ordered: true, Items: [][]RunJSON{
				{{Text: "One"}},
				{{Text: "Two"}},
			}},
		},
		Stats: GuideStats{Headings: 1, Paragraphs: 1, Lists: 1, Words: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() document mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRenderImage(t *testing.T) {
	r := NewJSONRenderer(newTestAssembler())
	guide := core.Guide{Name: "Figures", HTML: `<img src="` + pngDataURI(t, 40, 30) + `"/>`}

	data, err := r.Render(context.Background(), guide)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var got GuideJSON
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshaling output: %v", err)
	}
	if len(got.Blocks) != 1 {
		t.Fatalf("Render() produced %d blocks, want 1", len(got.Blocks))
	}
	img := got.Blocks[0].Image
	if got.Blocks[0].Kind != "image" || img == nil {
		t.Fatalf("Render() block = %+v, want image block", got.Blocks[0])
	}
	if img.Format != "png" || img.Width != 40 || img.Height != 30 {
		t.Errorf("image = %+v, want 40x30 png", img)
	}
	if img.Bytes == 0 {
		t.Errorf("image reports zero payload bytes")
	}
	if got.Stats.Images != 1 {
		t.Errorf("Stats.Images = %d, want 1", got.Stats.Images)
	}
}

func TestOutline(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []OutlineEntry
	}{
		{
			name: "heading hierarchy in document order",
			html: "<h1>Title</h1><p>x</p><h2>Part</h2><h3>Detail</h3><h2>Part Two</h2>",
			want: []OutlineEntry{
				{Level: 1, Title: "Title"},
				{Level: 2, Title: "Part"},
				{Level: 3, Title: "Detail"},
				{Level: 2, Title: "Part Two"},
			},
		},
		{
			name: "inline markup flattened to text",
			html: "<h2>The <strong>Big</strong> Idea</h2>",
			want: []OutlineEntry{{Level: 2, Title: "The Big Idea"}},
		},
		{
			name: "empty headings skipped",
			html: "<h1></h1><h2>Kept</h2>",
			want: []OutlineEntry{{Level: 2, Title: "Kept"}},
		},
		{
			name: "no headings",
			html: "<p>body only</p>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Outline(tt.html)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Outline(%q) mismatch (-want +got):\n%s", tt.html, diff)
			}
		})
	}
}

func TestRendererExtensions(t *testing.T) {
	a := newTestAssembler()
	tests := []struct {
		name     string
		renderer core.Renderer
		want     string
	}{
		{"pdf", NewPDFRenderer(a), ".pdf"},
		{"markdown", NewMarkdownRenderer(), ".md"},
		{"json", NewJSONRenderer(a), ".json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.renderer.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}
