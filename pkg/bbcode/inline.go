package bbcode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInline is returned by Inline.Path for entries whose hash is too
// short to shard.
var ErrInvalidInline = errors.New("bbcode: invalid inline image")

// Inline is an uploaded inline image referenced by [img=id].
type Inline struct {
	Hash      string `json:"hash" yaml:"hash"`
	Extension string `json:"extension" yaml:"extension"`
}

// Path returns the sharded path of the image below the static host, e.g.
// "images/charinline/ab/cd/abcdef.png".
func (in Inline) Path() (string, error) {
	if len(in.Hash) < 4 || in.Extension == "" {
		return "", ErrInvalidInline
	}
	return fmt.Sprintf("images/charinline/%s/%s/%s.%s", in.Hash[:2], in.Hash[2:4], in.Hash, in.Extension), nil
}

// InlineResolver looks up inline images by id. ok=false means the id is not
// known; an error aborts the parse.
type InlineResolver interface {
	Inline(id string) (in Inline, ok bool, err error)
}

// MapResolver resolves inline images from a map keyed by id.
type MapResolver map[string]Inline

// Inline implements InlineResolver.
func (m MapResolver) Inline(id string) (Inline, bool, error) {
	in, ok := m[strings.TrimSpace(id)]
	return in, ok, nil
}

// InlineResolverFunc adapts a function to InlineResolver.
type InlineResolverFunc func(id string) (Inline, bool, error)

// Inline implements InlineResolver.
func (f InlineResolverFunc) Inline(id string) (Inline, bool, error) {
	return f(id)
}

// InlineIDs returns the distinct ids of the [img=id] tags that parsing input
// with the F-List tag set would resolve, in order of first use. Tags that are
// discarded or captured as text are not counted. The result is never nil.
func InlineIDs(input string, opts Options) ([]string, error) {
	ids := []string{}
	seen := make(map[string]bool)
	collect := InlineResolverFunc(func(id string) (Inline, bool, error) {
		id = strings.TrimSpace(id)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
		return Inline{}, false, nil
	})

	opts.Logger = nil
	reg := NewFListRegistry(FListOptions{Inlines: collect})
	if _, err := NewParser(reg, opts).Parse(input); err != nil {
		return nil, err
	}
	return ids, nil
}
