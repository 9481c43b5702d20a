// Package render — outline extraction.
// An outline is the heading hierarchy of a guide, used by the JSON
// export and the upload API so clients can show navigation without
// reparsing the markup.
package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OutlineEntry is one heading of a guide outline.
type OutlineEntry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// Outline extracts the h1-h3 headings of guide markup in document
// order. The DOM parse is lenient, so malformed markup degrades to a
// shorter outline instead of an error; the outline is advisory and
// never blocks a conversion.
func Outline(html string) []OutlineEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var outline []OutlineEntry
	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return
		}
		level := int(goquery.NodeName(sel)[1] - '0')
		outline = append(outline, OutlineEntry{Level: level, Title: title})
	})
	return outline
}
