// Package core defines the document model and pipeline interfaces for
// guidepress. A generated guide travels through the pipeline as
// deck text → guide HTML → Flow, where the Flow is the ordered sequence
// of styled blocks handed to a renderer.
package core

import (
	"context"
	"strings"
)

// BlockKind identifies the structural kind of a Block.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindList
	KindImage
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Run is a contiguous span of inline text carrying one formatting state,
// or an explicit line break (Break true, Text empty).
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Break  bool
}

// RichText is an ordered sequence of runs. It is produced by the markup
// normalizer and is not mutated afterwards.
type RichText []Run

// Plain returns the text of all runs concatenated, with line breaks
// rendered as newlines.
func (rt RichText) Plain() string {
	var b strings.Builder
	for _, r := range rt {
		if r.Break {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// Empty reports whether the rich text carries no runs at all.
func (rt RichText) Empty() bool { return len(rt) == 0 }

// Block is a top-level structural unit of a document: a heading, a
// paragraph, a list, or an image. Exactly one concrete kind per instance.
type Block interface {
	Kind() BlockKind
}

// Heading is a level 1-3 section heading.
type Heading struct {
	Level int
	Text  RichText
}

func (h *Heading) Kind() BlockKind { return KindHeading }

// Paragraph is a run of body text.
type Paragraph struct {
	Text RichText
}

func (p *Paragraph) Kind() BlockKind { return KindParagraph }

// List is an ordered or unordered sequence of rich-text items.
type List struct {
	Ordered bool
	Items   []RichText
}

func (l *List) Kind() BlockKind { return KindList }

// Image is a decoded raster image with its target display width.
// Format is one of "png", "jpeg", "gif" so a renderer can embed the
// bytes without sniffing them again.
type Image struct {
	Data    []byte
	Format  string
	PixelW  int
	PixelH  int
	WidthMM float64
}

func (i *Image) Kind() BlockKind { return KindImage }

// RGB is a 24-bit color.
type RGB struct {
	R, G, B int
}

// StyleDescriptor is the immutable presentation record attached to a
// block: font metrics in points plus the paragraph-level spacing the
// style table defines. Descriptors come only from the style package's
// constant table and are never mutated.
type StyleDescriptor struct {
	FontSize    float64
	Bold        bool
	Color       RGB
	Leading     float64
	SpaceBefore float64
	SpaceAfter  float64
}

// Spacing is the inter-block spacing directive in millimeters, applied
// around a block in addition to its descriptor's own spacing.
type Spacing struct {
	Before float64
	After  float64
}

// FlowEntry pairs one block with its style and spacing directive.
type FlowEntry struct {
	Block   Block
	Style   StyleDescriptor
	Spacing Spacing
}

// Flow is the ordered sequence of styled blocks handed to a renderer.
// It is built once per conversion and never returned empty.
type Flow []FlowEntry

// DeckText is the text content extracted from a slide deck.
type DeckText struct {
	Name string
	Text string
}

// Guide is a generated teacher guide: the deck name plus the guide body
// in the restricted HTML vocabulary.
type Guide struct {
	Name string
	HTML string
}

// ResourceLoader resolves an image reference (inline data or URL) into a
// decoded, size-bounded image.
type ResourceLoader interface {
	Load(ctx context.Context, src string) (*Image, error)
}

// Generator produces a guide from extracted deck text.
type Generator interface {
	Generate(ctx context.Context, deck DeckText) (Guide, error)
}

// Renderer converts a guide into a final output format.
type Renderer interface {
	Render(ctx context.Context, guide Guide) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
