// Package preview converts parsed BBCode trees into viewable output formats.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// HTML renders n and its subtree as an HTML fragment.
func HTML(n *bbcode.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTMLNode(n)); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}

// toHTMLNode converts a bbcode node into an x/net/html node tree.
// Classes, then style, then attributes are emitted in that order.
func toHTMLNode(n *bbcode.Node) *html.Node {
	if n.Type == bbcode.TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	if len(n.Classes) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
	}
	if len(n.Style) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: styleString(n.Style)})
	}
	for _, a := range n.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Value})
	}
	for _, c := range n.Children {
		el.AppendChild(toHTMLNode(c))
	}
	return el
}

func styleString(style []bbcode.Attr) string {
	parts := make([]string, 0, len(style))
	for _, s := range style {
		parts = append(parts, s.Key+": "+s.Value)
	}
	return strings.Join(parts, "; ")
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Verdana, sans-serif; font-size: 13px; line-height: 1.4; max-width: %dpx; }
.bigtext { font-size: 1.4em; }
.smalltext { font-size: 0.8em; }
.CollapseHeader { cursor: pointer; background: #2a2525; color: #ccc; padding: 4px 8px; margin-top: 4px; }
.CollapseBlock { background-color: #4c4646; color: #eee; padding: 10px; margin: 0; }
h2 { color: #78c624; }
</style>
</head>
<body>
%s
<script>
document.querySelectorAll('[data-toggle="collapse"]').forEach(function (header) {
  header.addEventListener('click', function () {
    var block = header.nextElementSibling;
    var open = header.getAttribute('aria-expanded') === 'true';
    header.setAttribute('aria-expanded', open ? 'false' : 'true');
    header.classList.toggle('ExpandedHeader', !open);
    if (block) { block.style.display = open ? 'none' : 'block'; }
  });
});
</script>
</body>
</html>
`

// DocumentOptions configures Document.
type DocumentOptions struct {
	Title    string
	MaxWidth int // content width in pixels; 659 when zero
}

// Document renders n as a standalone HTML page with profile styles and the
// collapse toggle behavior wired up.
func Document(n *bbcode.Node, opts DocumentOptions) (string, error) {
	body, err := HTML(n)
	if err != nil {
		return "", err
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 659
	}
	if opts.Title == "" {
		opts.Title = "BBCode preview"
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(opts.Title), opts.MaxWidth, body), nil
}
