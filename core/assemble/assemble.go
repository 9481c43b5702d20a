// Package assemble turns guide markup into the styled block flow
// consumed by renderers. Assembly is total: malformed fragments are
// dropped block by block, and when nothing survives the flow carries a
// single placeholder paragraph instead of coming back empty.
package assemble

import (
	"context"

	"go.uber.org/zap"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/scan"
	"github.com/nmalhotra/guidepress/core/style"
)

// PlaceholderText fills the flow when no block survives conversion.
const PlaceholderText = "No content to export."

// Assembler builds flows from guide markup.
type Assembler struct {
	builder *scan.Builder
}

// New returns an Assembler resolving images through loader.
// A nil logger disables drop logging.
func New(loader core.ResourceLoader, log *zap.Logger) *Assembler {
	return &Assembler{builder: scan.NewBuilder(loader, log)}
}

// Flow converts guide markup into the ordered styled flow. It never
// fails and never returns an empty flow.
func (a *Assembler) Flow(ctx context.Context, content string) core.Flow {
	blocks := a.builder.Blocks(ctx, content)
	if len(blocks) == 0 {
		blocks = []core.Block{
			&core.Paragraph{Text: core.RichText{{Text: PlaceholderText}}},
		}
	}

	flow := make(core.Flow, 0, len(blocks))
	for _, blk := range blocks {
		desc, sp := style.For(blk)
		flow = append(flow, core.FlowEntry{Block: blk, Style: desc, Spacing: sp})
	}
	return flow
}
