package preview

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// Markdown converts n to markdown by way of its HTML rendering.
// Elements without a markdown equivalent keep only their text.
func Markdown(n *bbcode.Node) (string, error) {
	if len(n.Children) == 0 && n.Type == bbcode.ElementNode {
		return "", nil
	}

	h, err := HTML(n)
	if err != nil {
		return "", err
	}

	markdown, err := htmltomarkdown.ConvertString(h)
	if err != nil {
		return "", err
	}

	// Clean up the output - trim whitespace
	return strings.TrimSpace(markdown), nil
}

// Text returns the plain text of n, with line breaks as newlines.
func Text(n *bbcode.Node) string {
	return n.TextContent()
}
