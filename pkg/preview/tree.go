package preview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// Tree writes an indented outline of n, one node per line, for debugging
// tag builders. Elements print as tag.class{style}[attrs]; text leaves as
// quoted strings.
func Tree(w io.Writer, n *bbcode.Node) error {
	return writeTree(w, n, 0)
}

func writeTree(w io.Writer, n *bbcode.Node, level int) error {
	indent := strings.Repeat("  ", level)
	if n.Type == bbcode.TextNode {
		_, err := fmt.Fprintf(w, "%s%s\n", indent, strconv.Quote(n.Text))
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", indent, describe(n)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := writeTree(w, c, level+1); err != nil {
			return err
		}
	}
	return nil
}

func describe(n *bbcode.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Tag)
	for _, c := range n.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	if len(n.Style) > 0 {
		sb.WriteString("{" + styleString(n.Style) + "}")
	}
	for _, a := range n.Attrs {
		fmt.Fprintf(&sb, "[%s=%s]", a.Key, strconv.Quote(a.Value))
	}
	return sb.String()
}
