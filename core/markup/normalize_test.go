package markup

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "Hello World",
			want:  "Hello World",
		},
		{
			name:  "strong maps to b",
			input: "Hello <strong>World</strong>",
			want:  "Hello <b>World</b>",
		},
		{
			name:  "em maps to i",
			input: "an <em>emphasized</em> word",
			want:  "an <i>emphasized</i> word",
		},
		{
			name:  "strong with attributes",
			input: `<strong class="ql-bold">x</strong>`,
			want:  "<b>x</b>",
		},
		{
			name:  "span unwrapped",
			input: `before <span style="color:red">inside</span> after`,
			want:  "before inside after",
		},
		{
			name:  "unknown tag stripped keeping text",
			input: `<div class="wrap">text</div>`,
			want:  "text",
		},
		{
			name:  "anchor stripped keeping text",
			input: `see <a href="https://example.com">the docs</a>`,
			want:  "see the docs",
		},
		{
			name:  "br variants normalized",
			input: "a<br>b<BR/>c<br />d",
			want:  "a<br/>b<br/>c<br/>d",
		},
		{
			name:  "b and i kept verbatim",
			input: "<B>x</B> and <i>y</i>",
			want:  "<B>x</B> and <i>y</i>",
		},
		{
			name:  "named entities decoded",
			input: "A&nbsp;B&mdash;C&hellip;",
			want:  "A B—C…",
		},
		{
			name:  "arrow and quote entities",
			input: "&ldquo;go&rdquo; &rarr; done",
			want:  "“go” → done",
		},
		{
			name:  "unrecognized entity gets escaped ampersand",
			input: "&bogus;",
			want:  "&amp;bogus;",
		},
		{
			name:  "bare ampersand escaped",
			input: "Tom & Jerry",
			want:  "Tom &amp; Jerry",
		},
		{
			name:  "existing escape left alone",
			input: "a &amp; b &lt;c&gt;",
			want:  "a &amp; b &lt;c&gt;",
		},
		{
			name:  "decimal character reference left alone",
			input: "it&#8217;s",
			want:  "it&#8217;s",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  padded  ",
			want:  "padded",
		},
		{
			name:  "only markup yields empty string",
			input: "<span></span>",
			want:  "",
		},
		{
			name:  "nested unknown tags",
			input: "<div><p>deep</p></div>",
			want:  "deep",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Hello <strong>World</strong>",
		"Tom & Jerry &rarr; chase",
		`<div><span>mixed</span> content<br></div>`,
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
