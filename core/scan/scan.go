// Package scan walks guide markup and recovers its block structure.
// The scanner never rejects input: recognized blocks are matched
// case-insensitively up to their first close tag, and anything it
// cannot place is skipped one byte at a time (best-effort skip), so
// scanning always terminates in a single pass.
package scan

import "regexp"

// Token is one recognized top-level construct in guide markup.
type Token struct {
	Tag   string // h1, h2, h3, p, ul, ol, or img
	Inner string // raw inner span for container tags
	Src   string // image source for img tokens
}

// blockPatterns match a container block anchored at the cursor, up to
// the first same-named close tag. One pattern per tag keeps the close
// tag literal.
var blockPatterns = []struct {
	tag string
	re  *regexp.Regexp
}{
	{"h1", regexp.MustCompile(`(?is)^<h1\b[^>]*>(.*?)</h1>`)},
	{"h2", regexp.MustCompile(`(?is)^<h2\b[^>]*>(.*?)</h2>`)},
	{"h3", regexp.MustCompile(`(?is)^<h3\b[^>]*>(.*?)</h3>`)},
	{"p", regexp.MustCompile(`(?is)^<p\b[^>]*>(.*?)</p>`)},
	{"ul", regexp.MustCompile(`(?is)^<ul\b[^>]*>(.*?)</ul>`)},
	{"ol", regexp.MustCompile(`(?is)^<ol\b[^>]*>(.*?)</ol>`)},
}

// imgPattern matches a standalone image tag with a double-quoted src.
var imgPattern = regexp.MustCompile(`(?i)^<img\b[^>]*src="([^"]+)"[^>]*/?>`)

// Scanner is a restartable cursor over one content string. The cursor
// only moves forward; every byte is matched, consumed as whitespace,
// or skipped exactly once.
type Scanner struct {
	src string
	pos int
}

// NewScanner returns a scanner positioned at the start of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next recognized token, or ok=false once the input
// is exhausted.
func (s *Scanner) Next() (Token, bool) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v' {
			s.pos++
			continue
		}
		if c != '<' {
			// Best-effort skip: unplaceable content never stops the scan.
			s.pos++
			continue
		}

		rest := s.src[s.pos:]
		for _, bp := range blockPatterns {
			m := bp.re.FindStringSubmatchIndex(rest)
			if m == nil {
				continue
			}
			tok := Token{Tag: bp.tag, Inner: rest[m[2]:m[3]]}
			s.pos += m[1]
			return tok, true
		}
		if m := imgPattern.FindStringSubmatchIndex(rest); m != nil {
			tok := Token{Tag: "img", Src: rest[m[2]:m[3]]}
			s.pos += m[1]
			return tok, true
		}

		s.pos++
	}
	return Token{}, false
}
