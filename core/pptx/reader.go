// Package pptx extracts slide text from PowerPoint archives.
// A .pptx file is a zip of XML parts. Slide text lives in DrawingML
// <a:t> elements grouped into <a:p> paragraphs; slide order comes from
// the presentation part's sldIdLst, not from part filenames.
package pptx

import (
	"archive/zip"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nmalhotra/guidepress/core"
)

const (
	drawingMLNS     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	relationshipsNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
)

var slidePathRe = regexp.MustCompile(`^ppt/slides/slide([0-9]+)\.xml$`)

// ErrNotPresentation marks archives that open as zip but lack the
// PowerPoint presentation part.
var ErrNotPresentation = errors.New("missing presentation part")

// Extract reads slide text from a .pptx file on disk. The deck name is
// the filename without its extension.
func Extract(path string) (core.DeckText, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return core.DeckText{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	return extractFromZip(&zr.Reader, filepath.Base(path))
}

// ExtractReader reads slide text from an in-memory .pptx, as handed
// over by an HTTP upload. filename supplies the deck name.
func ExtractReader(r io.ReaderAt, size int64, filename string) (core.DeckText, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return core.DeckText{}, fmt.Errorf("opening pptx archive: %w", err)
	}
	return extractFromZip(zr, filename)
}

func extractFromZip(zr *zip.Reader, filename string) (core.DeckText, error) {
	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}
	if parts[presentationPart] == nil {
		return core.DeckText{}, ErrNotPresentation
	}

	var lines []string
	for i, f := range slideOrder(parts) {
		paras, err := slideText(f)
		if err != nil {
			return core.DeckText{}, err
		}
		if len(paras) == 0 {
			// Blank slides keep their position number but emit nothing.
			continue
		}
		lines = append(lines, fmt.Sprintf("--- Slide %d ---", i+1))
		lines = append(lines, paras...)
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return core.DeckText{Name: name, Text: strings.Join(lines, "\n")}, nil
}

// --- Slide ordering ---

// slideOrder returns slide parts in presentation order. It resolves
// the sldIdLst through the relationships part; decks with a missing or
// unreadable manifest fall back to numeric part order.
func slideOrder(parts map[string]*zip.File) []*zip.File {
	if ordered := manifestOrder(parts); ordered != nil {
		return ordered
	}

	type numbered struct {
		file *zip.File
		num  int
	}
	var slides []numbered
	for name, f := range parts {
		m := slidePathRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, numbered{file: f, num: n})
	}
	slices.SortFunc(slides, func(a, b numbered) int { return cmp.Compare(a.num, b.num) })

	ordered := make([]*zip.File, len(slides))
	for i, s := range slides {
		ordered[i] = s.file
	}
	return ordered
}

func manifestOrder(parts map[string]*zip.File) []*zip.File {
	relsFile := parts[presentationRels]
	presFile := parts[presentationPart]
	if relsFile == nil || presFile == nil {
		return nil
	}

	var rels struct {
		Rels []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := decodePart(relsFile, &rels); err != nil {
		return nil
	}
	targets := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		targets[rel.ID] = rel.Target
	}

	var pres struct {
		Slides []struct {
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldIdLst>sldId"`
	}
	if err := decodePart(presFile, &pres); err != nil {
		return nil
	}

	ordered := make([]*zip.File, 0, len(pres.Slides))
	for _, slide := range pres.Slides {
		target := targets[slide.RID]
		if target == "" {
			return nil
		}
		// Targets are relative to the presentation part's directory.
		path := strings.TrimPrefix(target, "/")
		if !strings.HasPrefix(target, "/") {
			path = "ppt/" + target
		}
		f := parts[path]
		if f == nil {
			return nil
		}
		ordered = append(ordered, f)
	}
	if len(ordered) == 0 {
		return nil
	}
	return ordered
}

func decodePart(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// --- Slide text extraction ---

// slideText returns the non-empty paragraphs of one slide, in document
// order. Each <a:p> becomes one entry; <a:br> becomes a newline inside
// it. Text is NFC-normalized so decomposed characters from different
// authoring tools compare equal downstream.
func slideText(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var (
		paras  []string
		buf    strings.Builder
		inPara bool
		inText bool
	)
	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text != "" {
			paras = append(paras, norm.NFC.String(text))
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != drawingMLNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = true
			case "t":
				inText = inPara
			case "br":
				if inPara {
					buf.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != drawingMLNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				flush()
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return paras, nil
}
