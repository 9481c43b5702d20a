// Package scan — block construction.
// Builder turns scanned tokens into document blocks. A build failure is
// scoped to its token: the collector drops the block and keeps going,
// so conversion as a whole never fails.
package scan

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/markup"
)

// liPattern splits a list's inner span into item fragments, non-greedy
// like block matching.
var liPattern = regexp.MustCompile(`(?is)<li\b[^>]*>(.*?)</li>`)

// Builder constructs document blocks from scanned tokens.
type Builder struct {
	loader core.ResourceLoader
	log    *zap.Logger
}

// NewBuilder returns a Builder resolving images through loader.
// A nil logger disables drop logging.
func NewBuilder(loader core.ResourceLoader, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{loader: loader, log: log}
}

// Build converts one token into its document block. A nil block with a
// nil error means the token legitimately produced nothing to render
// (an empty paragraph or a list without items). An error means the
// fragment is malformed and should be dropped.
func (b *Builder) Build(ctx context.Context, tok Token) (core.Block, error) {
	switch tok.Tag {
	case "h1", "h2", "h3":
		runs, err := markup.ParseRuns(markup.Normalize(tok.Inner))
		if err != nil {
			return nil, fmt.Errorf("heading %s: %w", tok.Tag, err)
		}
		return &core.Heading{Level: int(tok.Tag[1] - '0'), Text: runs}, nil

	case "p":
		canonical := markup.Normalize(tok.Inner)
		if canonical == "" {
			return nil, nil
		}
		runs, err := markup.ParseRuns(canonical)
		if err != nil {
			return nil, fmt.Errorf("paragraph: %w", err)
		}
		return &core.Paragraph{Text: runs}, nil

	case "ul", "ol":
		matches := liPattern.FindAllStringSubmatch(tok.Inner, -1)
		items := make([]core.RichText, 0, len(matches))
		for _, m := range matches {
			runs, err := markup.ParseRuns(markup.Normalize(m[1]))
			if err != nil {
				return nil, fmt.Errorf("list item: %w", err)
			}
			items = append(items, runs)
		}
		if len(items) == 0 {
			return nil, nil
		}
		return &core.List{Ordered: tok.Tag == "ol", Items: items}, nil

	case "img":
		img, err := b.loader.Load(ctx, tok.Src)
		if err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("unknown token tag %q", tok.Tag)
}

// Blocks scans the whole content string and builds every block it can,
// in input order. Malformed fragments are dropped, not surfaced.
func (b *Builder) Blocks(ctx context.Context, content string) []core.Block {
	sc := NewScanner(content)
	var blocks []core.Block
	for {
		tok, ok := sc.Next()
		if !ok {
			return blocks
		}
		blk, err := b.Build(ctx, tok)
		if err != nil {
			b.log.Debug("dropping block",
				zap.String("tag", tok.Tag),
				zap.Error(err),
			)
			continue
		}
		if blk == nil {
			continue
		}
		blocks = append(blocks, blk)
	}
}
