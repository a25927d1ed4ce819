// node.go defines the generic element tree the parser emits.
package bbcode

import "strings"

// NodeType distinguishes elements from text leaves.
type NodeType int

const (
	ElementNode NodeType = iota // an element with a tag name and children
	TextNode                    // a text leaf
)

// Attr is a single key/value pair. Attributes and styles keep insertion order
// so that rendering is deterministic.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Node is one element of the output tree. A node is owned by exactly one
// parent: it is appended once by whoever created it.
type Node struct {
	Type     NodeType `json:"type"`
	Tag      string   `json:"tag,omitempty"`
	Classes  []string `json:"classes,omitempty"`
	Attrs    []Attr   `json:"attrs,omitempty"`
	Style    []Attr   `json:"style,omitempty"`
	Text     string   `json:"text,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// NewElement creates an element node with the given tag name.
func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// AppendChild appends child to n and returns child.
func (n *Node) AppendChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// AddClass appends class names, skipping empty and duplicate ones.
func (n *Node) AddClass(classes ...string) {
	for _, c := range classes {
		if c == "" || n.HasClass(c) {
			continue
		}
		n.Classes = append(n.Classes, c)
	}
}

// HasClass reports whether n carries the class name.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute, replacing an existing value in place.
func (n *Node) SetAttr(key, value string) {
	n.Attrs = setPair(n.Attrs, key, value)
}

// Attr returns the attribute value and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	return getPair(n.Attrs, key)
}

// SetStyle sets a style property, replacing an existing value in place.
func (n *Node) SetStyle(property, value string) {
	n.Style = setPair(n.Style, property, value)
}

// StyleValue returns the style property value and whether it is set.
func (n *Node) StyleValue(property string) (string, bool) {
	return getPair(n.Style, property)
}

// SetText replaces the children of n with a single text leaf.
func (n *Node) SetText(text string) {
	n.Children = []*Node{NewText(text)}
}

// TextContent concatenates the text of all descendant leaves in document
// order. A br element contributes a newline, so plain input round-trips.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.Type == TextNode {
		sb.WriteString(n.Text)
		return
	}
	if n.Tag == "br" {
		sb.WriteByte('\n')
		return
	}
	for _, c := range n.Children {
		c.writeText(sb)
	}
}

// Walk calls fn for n and every descendant, depth first. Returning false from
// fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every descendant element (including n) with the tag name.
func (n *Node) Find(tag string) []*Node {
	var found []*Node
	n.Walk(func(c *Node) bool {
		if c.Type == ElementNode && c.Tag == tag {
			found = append(found, c)
		}
		return true
	})
	return found
}

// Depth returns the number of element levels below and including n.
func (n *Node) Depth() int {
	if n.Type == TextNode {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

func setPair(pairs []Attr, key, value string) []Attr {
	for i := range pairs {
		if pairs[i].Key == key {
			pairs[i].Value = value
			return pairs
		}
	}
	return append(pairs, Attr{Key: key, Value: value})
}

func getPair(pairs []Attr, key string) (string, bool) {
	for _, p := range pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}
