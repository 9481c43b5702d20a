// Package style is the fixed presentation table for guide blocks.
// Descriptors carry font metrics in points; spacing directives are in
// millimeters. The table is constant and consulted only through For.
package style

import "github.com/nmalhotra/guidepress/core"

// Guide theme colors.
var (
	inkTitle  = core.RGB{R: 26, G: 32, B: 44}  // #1a202c
	inkAccent = core.RGB{R: 79, G: 70, B: 229} // #4f46e5
	inkBody   = core.RGB{R: 55, G: 65, B: 81}  // #374151
)

var (
	h1 = core.StyleDescriptor{FontSize: 22, Bold: true, Color: inkTitle, Leading: 28, SpaceAfter: 6}
	h2 = core.StyleDescriptor{FontSize: 14, Bold: true, Color: inkAccent, Leading: 18, SpaceBefore: 14, SpaceAfter: 4}
	h3 = core.StyleDescriptor{FontSize: 12, Bold: true, Color: inkBody, Leading: 16, SpaceBefore: 8, SpaceAfter: 3}

	body = core.StyleDescriptor{FontSize: 10.5, Color: inkBody, Leading: 16, SpaceAfter: 6}
)

// List layout constants, in points.
const (
	ListIndentPt     = 20 // indent from the margin to the item marker
	ListItemIndentPt = 12 // indent from the marker to the item text
	ListBulletPt     = 8  // bullet glyph size
	ListItemGapPt    = 3  // extra space after each item
)

// For returns the style descriptor and inter-block spacing for a block.
func For(b core.Block) (core.StyleDescriptor, core.Spacing) {
	switch blk := b.(type) {
	case *core.Heading:
		switch blk.Level {
		case 1:
			return h1, core.Spacing{After: 3}
		case 2:
			return h2, core.Spacing{Before: 4, After: 1.5}
		default:
			return h3, core.Spacing{Before: 2, After: 1}
		}
	case *core.Paragraph:
		return body, core.Spacing{After: 1.5}
	case *core.List:
		return body, core.Spacing{After: 2}
	case *core.Image:
		return core.StyleDescriptor{}, core.Spacing{Before: 2, After: 2}
	}
	return body, core.Spacing{}
}
