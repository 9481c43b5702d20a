// Package render — PDF renderer.
// Lays the assembled flow onto A4 pages with gofpdf: headings and
// paragraphs as styled runs, lists with hanging indents, images
// centered at their display width.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/assemble"
	"github.com/nmalhotra/guidepress/core/style"
)

const (
	pdfAuthor    = "Teacher Guide Generator"
	fontFamily   = "Helvetica"
	pageWidthMM  = 210
	pageMarginMM = 25
)

// imageTypes maps decoded image formats to gofpdf type names.
var imageTypes = map[string]string{
	"png":  "PNG",
	"jpeg": "JPG",
	"gif":  "GIF",
}

// PDFRenderer renders a guide as a styled PDF document.
type PDFRenderer struct {
	assembler *assemble.Assembler
}

// NewPDFRenderer creates a PDFRenderer drawing from the given assembler.
func NewPDFRenderer(a *assemble.Assembler) *PDFRenderer {
	return &PDFRenderer{assembler: a}
}

// Render converts guide markup into PDF bytes.
func (r *PDFRenderer) Render(ctx context.Context, guide core.Guide) ([]byte, error) {
	flow := r.assembler.Flow(ctx, guide.HTML)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(guide.Name, true)
	pdf.SetAuthor(pdfAuthor, true)
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageMarginMM)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, entry := range flow {
		renderEntry(pdf, tr, entry, i)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderEntry draws one flow entry with its surrounding spacing. The
// spacing directive (mm) and the descriptor's own spacing (pt) stack.
func renderEntry(pdf *gofpdf.Fpdf, tr func(string) string, entry core.FlowEntry, seq int) {
	if before := entry.Spacing.Before + ptToMM(entry.Style.SpaceBefore); before > 0 {
		pdf.Ln(before)
	}

	switch blk := entry.Block.(type) {
	case *core.Heading:
		writeRuns(pdf, tr, blk.Text, entry.Style)
	case *core.Paragraph:
		writeRuns(pdf, tr, blk.Text, entry.Style)
	case *core.List:
		writeList(pdf, tr, blk, entry.Style)
	case *core.Image:
		placeImage(pdf, blk, seq)
	}

	if after := entry.Spacing.After + ptToMM(entry.Style.SpaceAfter); after > 0 {
		pdf.Ln(after)
	}
}

// writeRuns writes one block of styled runs and terminates its line.
func writeRuns(pdf *gofpdf.Fpdf, tr func(string) string, text core.RichText, st core.StyleDescriptor) {
	if len(text) == 0 {
		return
	}
	lineHt := ptToMM(st.Leading)
	pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)
	for _, run := range text {
		if run.Break {
			pdf.Ln(lineHt)
			continue
		}
		pdf.SetFont(fontFamily, fontStyle(st.Bold || run.Bold, run.Italic), st.FontSize)
		pdf.Write(lineHt, tr(run.Text))
	}
	pdf.Ln(lineHt)
}

// writeList writes items with hanging indents: bullets for unordered
// lists, 1. 2. 3. markers for ordered ones.
func writeList(pdf *gofpdf.Fpdf, tr func(string) string, list *core.List, st core.StyleDescriptor) {
	lineHt := ptToMM(st.Leading)
	leftMargin, _, _, _ := pdf.GetMargins()
	markerX := leftMargin + ptToMM(style.ListIndentPt)
	textX := markerX + ptToMM(style.ListItemIndentPt)

	pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)
	for i, item := range list.Items {
		marker := "•"
		markerSize := float64(style.ListBulletPt)
		if list.Ordered {
			marker = fmt.Sprintf("%d.", i+1)
			markerSize = st.FontSize
		}

		pdf.SetX(markerX)
		pdf.SetFont(fontFamily, "", markerSize)
		pdf.Write(lineHt, tr(marker))

		// Wrapped item lines continue at the text indent, not the
		// page margin.
		pdf.SetLeftMargin(textX)
		pdf.SetX(textX)
		for _, run := range item {
			if run.Break {
				pdf.Ln(lineHt)
				continue
			}
			pdf.SetFont(fontFamily, fontStyle(st.Bold || run.Bold, run.Italic), st.FontSize)
			pdf.Write(lineHt, tr(run.Text))
		}
		pdf.Ln(lineHt)
		pdf.SetLeftMargin(leftMargin)
		pdf.Ln(ptToMM(style.ListItemGapPt))
	}
}

// placeImage embeds one image centered at its display width, flowing
// with the text so page breaks still apply.
func placeImage(pdf *gofpdf.Fpdf, img *core.Image, seq int) {
	name := fmt.Sprintf("guide-img-%d", seq)
	opts := gofpdf.ImageOptions{ImageType: imageTypes[img.Format]}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	x := (pageWidthMM - img.WidthMM) / 2
	pdf.ImageOptions(name, x, 0, img.WidthMM, 0, true, opts, 0, "")
}

func fontStyle(bold, italic bool) string {
	s := ""
	if bold {
		s += "B"
	}
	if italic {
		s += "I"
	}
	return s
}

func ptToMM(pt float64) float64 {
	return pt * 25.4 / 72
}
