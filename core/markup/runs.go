// Package markup — run segmentation.
// ParseRuns is the strict counterpart to Normalize: canonical input
// always segments cleanly, while stray angle brackets, improper tag
// nesting, or bare ampersands report ErrInlineMarkup so the caller can
// drop the offending block.
package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nmalhotra/guidepress/core"
)

// ErrInlineMarkup reports inline markup the run segmenter cannot parse.
var ErrInlineMarkup = errors.New("malformed inline markup")

var (
	brTokenRe     = regexp.MustCompile(`(?i)^<br\s*/?>`)
	inlineTokenRe = regexp.MustCompile(`(?i)^<(/?)(b|i)\b[^>]*>`)
	charRefRe     = regexp.MustCompile(`^&#([0-9]+);`)
)

// ParseRuns segments a canonical fragment into styled runs. Formatting
// state nests like XML: a close tag must match the most recent open
// tag. Attributes on <b> and <i> are tolerated and ignored.
func ParseRuns(canonical string) (core.RichText, error) {
	var (
		runs   core.RichText
		text   strings.Builder
		stack  []string
		bold   int
		italic int
	)

	flush := func() {
		if text.Len() == 0 {
			return
		}
		runs = append(runs, core.Run{Text: text.String(), Bold: bold > 0, Italic: italic > 0})
		text.Reset()
	}

	for i := 0; i < len(canonical); {
		switch canonical[i] {
		case '<':
			rest := canonical[i:]
			if m := brTokenRe.FindString(rest); m != "" {
				flush()
				runs = append(runs, core.Run{Break: true})
				i += len(m)
				continue
			}
			m := inlineTokenRe.FindStringSubmatch(rest)
			if m == nil {
				return nil, fmt.Errorf("%w: stray '<' at offset %d", ErrInlineMarkup, i)
			}
			name := strings.ToLower(m[2])
			if m[1] == "/" {
				if len(stack) == 0 || stack[len(stack)-1] != name {
					return nil, fmt.Errorf("%w: unexpected </%s> at offset %d", ErrInlineMarkup, name, i)
				}
				flush()
				stack = stack[:len(stack)-1]
				if name == "b" {
					bold--
				} else {
					italic--
				}
			} else {
				flush()
				stack = append(stack, name)
				if name == "b" {
					bold++
				} else {
					italic++
				}
			}
			i += len(m[0])
		case '&':
			decoded, n, err := decodeEscape(canonical[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: %v at offset %d", ErrInlineMarkup, err, i)
			}
			text.WriteString(decoded)
			i += n
		default:
			text.WriteByte(canonical[i])
			i++
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed <%s>", ErrInlineMarkup, stack[len(stack)-1])
	}
	flush()
	return runs, nil
}

// decodeEscape decodes the escape sequence at the start of s and
// returns the decoded text plus the number of bytes consumed.
func decodeEscape(s string) (string, int, error) {
	switch {
	case strings.HasPrefix(s, "&amp;"):
		return "&", 5, nil
	case strings.HasPrefix(s, "&lt;"):
		return "<", 4, nil
	case strings.HasPrefix(s, "&gt;"):
		return ">", 4, nil
	}
	if m := charRefRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			return "", 0, fmt.Errorf("invalid character reference &#%s;", m[1])
		}
		return string(rune(n)), len(m[0]), nil
	}
	return "", 0, errors.New("bare '&'")
}
