package assemble

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nmalhotra/guidepress/core"
	"github.com/nmalhotra/guidepress/core/resource"
	"github.com/nmalhotra/guidepress/core/style"
)

func newTestAssembler() *Assembler {
	return New(resource.New(), nil)
}

// flowOf builds the expected flow for blocks using the style table.
func flowOf(blocks ...core.Block) core.Flow {
	flow := make(core.Flow, 0, len(blocks))
	for _, blk := range blocks {
		desc, sp := style.For(blk)
		flow = append(flow, core.FlowEntry{Block: blk, Style: desc, Spacing: sp})
	}
	return flow
}

func TestFlowHeadingAndParagraph(t *testing.T) {
	a := newTestAssembler()
	got := a.Flow(context.Background(), `<h1>Title</h1><p>Hello <strong>World</strong></p>`)

	want := flowOf(
		&core.Heading{Level: 1, Text: core.RichText{{Text: "Title"}}},
		&core.Paragraph{Text: core.RichText{
			{Text: "Hello "},
			{Text: "World", Bold: true},
		}},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flow mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowUnorderedList(t *testing.T) {
	a := newTestAssembler()
	got := a.Flow(context.Background(), `<ul><li>One</li><li>Two</li></ul>`)

	want := flowOf(&core.List{Items: []core.RichText{
		{{Text: "One"}},
		{{Text: "Two"}},
	}})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flow mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowOmitsEmptyParagraph(t *testing.T) {
	a := newTestAssembler()
	got := a.Flow(context.Background(), `<p></p><h2>X</h2>`)

	want := flowOf(&core.Heading{Level: 2, Text: core.RichText{{Text: "X"}}})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flow mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowDropsBadImageKeepsRest(t *testing.T) {
	a := newTestAssembler()
	content := `<p>Intro</p><img src="data:image/png;base64,!!!not-base64!!!"/><p>Outro</p>`
	got := a.Flow(context.Background(), content)

	want := flowOf(
		&core.Paragraph{Text: core.RichText{{Text: "Intro"}}},
		&core.Paragraph{Text: core.RichText{{Text: "Outro"}}},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flow mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowPlaceholderOnEmptyInput(t *testing.T) {
	a := newTestAssembler()

	for _, input := range []string{"", "   \n\t", "no markup at all", "<<<>>>"} {
		got := a.Flow(context.Background(), input)
		if len(got) != 1 {
			t.Fatalf("Flow(%q) has %d entries, want exactly 1", input, len(got))
		}
		p, ok := got[0].Block.(*core.Paragraph)
		if !ok {
			t.Fatalf("Flow(%q) placeholder is %T, want *core.Paragraph", input, got[0].Block)
		}
		if text := p.Text.Plain(); text != PlaceholderText {
			t.Errorf("Flow(%q) placeholder text = %q, want %q", input, text, PlaceholderText)
		}
	}
}

func TestFlowIsDeterministic(t *testing.T) {
	a := newTestAssembler()
	content := `<h1>T</h1>garbage<p>a<p>b</p><ul><li>x</li><li>bad < y</li></ul>` +
		strings.Repeat("<span>", 50) + `<h3>end</h3>`

	first := a.Flow(context.Background(), content)
	second := a.Flow(context.Background(), content)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated conversion differs (-first +second):\n%s", diff)
	}
}

func TestFlowTotalOnAdversarialInput(t *testing.T) {
	a := newTestAssembler()
	inputs := []string{
		strings.Repeat("<p><ul><li>", 300),
		strings.Repeat("&", 2048),
		"<ul>" + strings.Repeat("<li></li>", 100) + "</ul>",
		"<p>" + strings.Repeat("<b>", 64) + "deep</p>",
	}
	for _, input := range inputs {
		got := a.Flow(context.Background(), input)
		if len(got) == 0 {
			t.Errorf("Flow returned an empty flow for input of length %d", len(input))
		}
	}
}
