package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"

	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

func parse(t *testing.T, input string) *bbcode.Node {
	t.Helper()
	p := bbcode.NewParser(bbcode.NewFListRegistry(bbcode.FListOptions{}), bbcode.Options{})
	root, err := p.ParseEverything(input)
	require.NoError(t, err)
	return root
}

func TestHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: `<span class="bbcode"></span>`,
		},
		{
			name:     "plain text",
			input:    "hello",
			expected: `<span class="bbcode"><span style="white-space: pre-wrap">hello</span></span>`,
		},
		{
			name:     "bold",
			input:    "[b]hi[/b]",
			expected: `<span class="bbcode"><b><span style="white-space: pre-wrap">hi</span></b></span>`,
		},
		{
			name:     "line break",
			input:    "a\nb",
			expected: `<span class="bbcode"><span style="white-space: pre-wrap">a</span><br/><span style="white-space: pre-wrap">b</span></span>`,
		},
		{
			name:     "escaped text",
			input:    "<script>",
			expected: `<span class="bbcode"><span style="white-space: pre-wrap">&lt;script&gt;</span></span>`,
		},
		{
			name:     "classes before style",
			input:    "[big]x[/big]",
			expected: `<span class="bbcode"><span class="bigtext"><span style="white-space: pre-wrap">x</span></span></span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := HTML(parse(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDocument(t *testing.T) {
	result, err := Document(parse(t, "[b]hi[/b]"), DocumentOptions{Title: "A & B"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result, "<!DOCTYPE html>"))
	assert.Contains(t, result, "<title>A &amp; B</title>")
	assert.Contains(t, result, "max-width: 659px")
	assert.Contains(t, result, `<b><span style="white-space: pre-wrap">hi</span></b>`)
	assert.Contains(t, result, `data-toggle="collapse"`)
}

func TestDocument_Defaults(t *testing.T) {
	result, err := Document(parse(t, ""), DocumentOptions{MaxWidth: 400})
	require.NoError(t, err)
	assert.Contains(t, result, "<title>BBCode preview</title>")
	assert.Contains(t, result, "max-width: 400px")
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty input", "", ""},
		{"plain text", "hello", "hello"},
		{"bold", "[b]hi[/b]", "**hi**"},
		{"italic", "[i]hi[/i]", "*hi*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Markdown(parse(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMarkdown_RendersBack(t *testing.T) {
	md, err := Markdown(parse(t, "some [b]bold[/b] text"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, goldmark.Convert([]byte(md), &buf))
	assert.Equal(t, "<p>some <strong>bold</strong> text</p>\n", buf.String())
}

func TestText(t *testing.T) {
	assert.Equal(t, "one\ntwo", Text(parse(t, "[b]one[/b]\n[i]two[/i]")))
	assert.Equal(t, "[foo]x[/foo]", Text(parse(t, "[foo]x[/foo]")))
}

func TestTerminal_NoColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "hello", "hello"},
		{"inline styles", "[b]bold[/b] [i]it[/i] [u]u[/u]", "bold it u"},
		{"line break", "a\nb", "a\nb"},
		{"rule", "a[hr]b", "a\n" + strings.Repeat("─", 10) + "\nb"},
		{"image", "[img]https://x.test/a.png[/img]", "[image: https://x.test/a.png]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Terminal(parse(t, tt.input), TerminalOptions{NoColor: true, Width: 10})
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTerminal_Blocks(t *testing.T) {
	result := Terminal(parse(t, "before[quote]quoted[/quote]after"), TerminalOptions{NoColor: true})
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "before", lines[0])
	assert.Contains(t, lines[1], "quoted")
	assert.Equal(t, "after", lines[2])

	result = Terminal(parse(t, "[collapse=Title]body[/collapse]"), TerminalOptions{NoColor: true})
	assert.Contains(t, result, "▸ Title")
	assert.Contains(t, result, "  body")
}

func TestTerminal_Alignment(t *testing.T) {
	opts := TerminalOptions{NoColor: true, Width: 5}

	assert.Equal(t, "    x", Terminal(parse(t, "[right]x[/right]"), opts))
	assert.Equal(t, "    x", Terminal(parse(t, "[indent]x[/indent]"), opts))

	centered := Terminal(parse(t, "[center]x[/center]"), opts)
	assert.True(t, strings.HasPrefix(centered, "  x"), "got %q", centered)
}

func TestTerminal_Color(t *testing.T) {
	colored := Terminal(parse(t, "[color=red]x[/color]"), TerminalOptions{})
	assert.Contains(t, colored, "\x1b[")

	plain := Terminal(parse(t, "[color=red]x[/color]"), TerminalOptions{NoColor: true})
	assert.Equal(t, "x", plain)
}

func TestTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tree(&buf, parse(t, "[url=https://example.com]go[/url]")))

	expected := `span.bbcode
  a{color: inherit}[href="https://example.com"][target="_blank"][rel="noopener noreferrer nofollow"]
    span{white-space: pre-wrap}
      "go"
  span{font-size: 0.8em}
    " [example.com]"
`
	assert.Equal(t, expected, buf.String())
}
