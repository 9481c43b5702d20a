// Package markup normalizes inline guide markup down to the canonical
// vocabulary: plain text plus <b>, <i>, and <br/> markers. Wrapper tags
// are unwrapped, synonym tags are mapped, and every other tag is
// stripped with its inner text preserved.
package markup

import (
	"regexp"
	"strings"
)

var (
	spanRe        = regexp.MustCompile(`(?is)<span\b[^>]*>(.*?)</span>`)
	strongOpenRe  = regexp.MustCompile(`(?i)<strong\b[^>]*>`)
	strongCloseRe = regexp.MustCompile(`(?i)</strong>`)
	emOpenRe      = regexp.MustCompile(`(?i)<em\b[^>]*>`)
	emCloseRe     = regexp.MustCompile(`(?i)</em>`)
	brRe          = regexp.MustCompile(`(?i)<br\s*/?>`)

	// tagRe finds tag candidates for the strip pass; keepRe decides
	// which of them stay in the canonical vocabulary.
	tagRe  = regexp.MustCompile(`<[^>]+>`)
	keepRe = regexp.MustCompile(`(?i)^</?(?:b|i|br/?)\b`)

	// escapeSeqRe matches the escape sequences the ampersand fix must
	// leave intact: &amp; &lt; &gt; and decimal character references.
	escapeSeqRe = regexp.MustCompile(`^&(?:amp|lt|gt|#[0-9]+);`)
)

// entities is the fixed decode table for named entities. Anything not
// listed here passes through and gets its ampersand escaped instead.
var entities = []struct{ name, text string }{
	{"&nbsp;", " "}, {"&mdash;", "—"}, {"&ndash;", "–"},
	{"&rarr;", "→"}, {"&larr;", "←"}, {"&ldquo;", "“"},
	{"&rdquo;", "”"}, {"&lsquo;", "‘"}, {"&rsquo;", "’"},
	{"&hellip;", "…"}, {"&copy;", "©"}, {"&reg;", "®"},
}

// Normalize reduces an inner markup fragment to its canonical form.
// The transform is total: any input yields a (possibly empty) string
// containing only text, <b>, <i>, <br/>, and well-formed escapes.
func Normalize(fragment string) string {
	s := spanRe.ReplaceAllString(fragment, "$1")

	s = strongOpenRe.ReplaceAllString(s, "<b>")
	s = strongCloseRe.ReplaceAllString(s, "</b>")
	s = emOpenRe.ReplaceAllString(s, "<i>")
	s = emCloseRe.ReplaceAllString(s, "</i>")

	s = brRe.ReplaceAllString(s, "<br/>")

	// Strip every remaining tag outside the canonical vocabulary,
	// keeping its inner text.
	s = tagRe.ReplaceAllStringFunc(s, func(tag string) string {
		if keepRe.MatchString(tag) {
			return tag
		}
		return ""
	})

	for _, e := range entities {
		s = strings.ReplaceAll(s, e.name, e.text)
	}

	s = escapeBareAmpersands(s)

	return strings.TrimSpace(s)
}

// escapeBareAmpersands escapes every '&' that does not start a
// recognized escape sequence, so downstream run segmentation stays
// well-formed.
func escapeBareAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			continue
		}
		if escapeSeqRe.MatchString(s[i:]) {
			b.WriteByte(c)
			continue
		}
		b.WriteString("&amp;")
	}
	return b.String()
}
