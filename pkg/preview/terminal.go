package preview

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// TerminalOptions configures Terminal.
type TerminalOptions struct {
	Width   int  // layout width for alignment and rules; 80 when zero
	NoColor bool // strip all ANSI styling
}

// Terminal renders n for an ANSI terminal. Inline tags map to text
// attributes, colors to foreground colors, and block tags to separate lines.
func Terminal(n *bbcode.Node, opts TerminalOptions) string {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	r := lipgloss.NewRenderer(io.Discard)
	if opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.TrueColor)
	}

	t := &terminalWriter{r: r, width: opts.Width}
	t.node(n, r.NewStyle())
	return strings.TrimRight(t.sb.String(), "\n")
}

type terminalWriter struct {
	r     *lipgloss.Renderer
	width int
	sb    strings.Builder
}

// newline ends the current line unless output is empty or already at one.
func (t *terminalWriter) newline() {
	s := t.sb.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		t.sb.WriteByte('\n')
	}
}

// block renders the children of n on their own lines through wrap.
func (t *terminalWriter) block(n *bbcode.Node, style lipgloss.Style, wrap func(string) string) {
	inner := &terminalWriter{r: t.r, width: t.width}
	for _, c := range n.Children {
		inner.node(c, style)
	}
	t.newline()
	t.sb.WriteString(wrap(strings.TrimRight(inner.sb.String(), "\n")))
	t.sb.WriteByte('\n')
}

func (t *terminalWriter) node(n *bbcode.Node, style lipgloss.Style) {
	if n.Type == bbcode.TextNode {
		t.sb.WriteString(style.Render(n.Text))
		return
	}

	if c, ok := n.StyleValue("color"); ok {
		if hex, ok := bbcode.ColorHex(c); ok {
			style = style.Foreground(lipgloss.Color(hex))
		}
	}
	if n.HasClass("bigtext") {
		style = style.Bold(true)
	}
	if n.HasClass("smalltext") {
		style = style.Faint(true)
	}

	switch n.Tag {
	case "br":
		t.sb.WriteByte('\n')
		return
	case "hr":
		t.newline()
		t.sb.WriteString(t.r.NewStyle().Faint(true).Render(strings.Repeat("─", t.width)))
		t.sb.WriteByte('\n')
		return
	case "img":
		src, _ := n.Attr("src")
		t.sb.WriteString(t.r.NewStyle().Faint(true).Render("[image: " + src + "]"))
		return
	case "b", "strong":
		style = style.Bold(true)
	case "i", "em":
		style = style.Italic(true)
	case "u":
		style = style.Underline(true)
	case "s":
		style = style.Strikethrough(true)
	case "a":
		style = style.Underline(true)
	case "h2":
		t.block(n, style.Bold(true).Underline(true), identity)
		return
	case "blockquote":
		quote := t.r.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			PaddingLeft(1)
		t.block(n, style.Italic(true), render(quote))
		return
	case "div":
		t.div(n, style)
		return
	}

	for _, c := range n.Children {
		t.node(c, style)
	}
}

func (t *terminalWriter) div(n *bbcode.Node, style lipgloss.Style) {
	switch {
	case n.HasClass("CollapseHeader"):
		t.block(n, style.Bold(true), func(s string) string { return "▸ " + s })
	case n.HasClass("CollapseBlock"):
		t.block(n, style, render(t.r.NewStyle().PaddingLeft(2)))
	default:
		wrap := identity
		if align, ok := n.StyleValue("text-align"); ok {
			box := t.r.NewStyle().Width(t.width)
			switch align {
			case "center":
				wrap = render(box.Align(lipgloss.Center))
			case "right":
				wrap = render(box.Align(lipgloss.Right))
			}
		}
		if _, ok := n.StyleValue("padding-left"); ok {
			wrap = render(t.r.NewStyle().PaddingLeft(4))
		}
		t.block(n, style, wrap)
	}
}

func identity(s string) string { return s }

// render adapts a style to the single-string wrap used by block.
func render(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}
