package generate

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/nmalhotra/guidepress/core/scan"
)

var (
	openFenceRe  = regexp.MustCompile("(?i)^```(?:html)?\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```$")
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

// Postprocess cleans a raw model response into renderable guide
// markup. Models wrap output in code fences despite instructions, so
// fences are stripped first. A response that came back as Markdown
// instead of markup is converted so the rest of the pipeline still
// sees blocks.
func Postprocess(raw string) string {
	out := strings.TrimSpace(raw)
	out = openFenceRe.ReplaceAllString(out, "")
	out = closeFenceRe.ReplaceAllString(out, "")
	if looksLikeMarkdown(out) {
		if converted, err := renderMarkdown(out); err == nil {
			out = converted
		}
	}
	return out
}

// looksLikeMarkdown reports whether the text contains no recognizable
// block at all, which for a non-empty model response means it ignored
// the markup instruction.
func looksLikeMarkdown(s string) bool {
	if s == "" {
		return false
	}
	sc := scan.NewScanner(s)
	_, ok := sc.Next()
	return !ok
}

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
