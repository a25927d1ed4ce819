// tag.go defines tag descriptors: how a bracket tag name turns into nodes.
package bbcode

import (
	"sort"
	"strings"
)

// Kind selects how the scanner treats a tag's body.
type Kind int

const (
	Structural    Kind = iota // body is parsed recursively into the returned node
	TextCapturing             // body is captured raw and handed to the builder
	SelfClosing               // no body, no closing tag
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case TextCapturing:
		return "text"
	case SelfClosing:
		return "self-closing"
	default:
		return "unknown"
	}
}

// BuildFunc materializes a tag into the tree. param is the trimmed text after
// '=' in the opening tag. content is the raw body for TextCapturing tags and
// empty otherwise.
//
// Structural builders return the node that becomes the scope for the body.
// Returning a nil node makes the scanner continue without opening a scope.
// An error aborts the parse and is returned to the caller of Parse.
type BuildFunc func(p *Parser, parent *Node, param, content string) (*Node, error)

// Tag is the registered behavior for one tag name.
type Tag struct {
	Name  string
	Kind  Kind
	Build BuildFunc

	// allowed is nil when the tag places no restriction on its children.
	allowed map[string]bool
}

// Allows reports whether child may be opened directly inside this tag.
func (t *Tag) Allows(child string) bool {
	return t.allowed == nil || t.allowed[strings.ToLower(child)]
}

// WithAllowed restricts the tags permitted inside t to names. An empty list
// permits nothing.
func (t *Tag) WithAllowed(names ...string) *Tag {
	t.allowed = make(map[string]bool, len(names))
	for _, n := range names {
		t.allowed[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return t
}

// AllowedChildren returns the permitted child names, or nil when unrestricted.
func (t *Tag) AllowedChildren() []string {
	if t.allowed == nil {
		return nil
	}
	names := make([]string, 0, len(t.allowed))
	for n := range t.allowed {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasClosingTag reports whether the tag expects a [/name] counterpart.
func (t *Tag) HasClosingTag() bool {
	return t.Kind != SelfClosing
}

// SimpleTag creates a structural tag that wraps its body in one element with
// fixed classes. The parameter is ignored.
func SimpleTag(name, element string, classes ...string) *Tag {
	return &Tag{
		Name:  normalizeName(name),
		Kind:  Structural,
		Build: elementBuilder(element, classes),
	}
}

// SelfClosingTag creates a tag that emits one element and has no body.
func SelfClosingTag(name, element string, classes ...string) *Tag {
	return &Tag{
		Name:  normalizeName(name),
		Kind:  SelfClosing,
		Build: elementBuilder(element, classes),
	}
}

// CustomTag creates a structural tag whose node is computed by build.
func CustomTag(name string, build BuildFunc) *Tag {
	return &Tag{
		Name:  normalizeName(name),
		Kind:  Structural,
		Build: build,
	}
}

// TextTag creates a text-capturing tag. No tags are permitted inside it: its
// body is delivered to build verbatim.
func TextTag(name string, build BuildFunc) *Tag {
	t := &Tag{
		Name:  normalizeName(name),
		Kind:  TextCapturing,
		Build: build,
	}
	return t.WithAllowed()
}

func elementBuilder(element string, classes []string) BuildFunc {
	return func(p *Parser, parent *Node, _, _ string) (*Node, error) {
		el := p.CreateElement(element)
		el.AddClass(classes...)
		parent.AppendChild(el)
		return el, nil
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
