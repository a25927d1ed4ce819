// registry.go maps tag names to their descriptors.
package bbcode

import (
	"sort"
	"strings"
)

// Registry maps case-insensitive tag names to descriptors.
// Adding a new tag = registering one descriptor.
//
// A Registry is not safe for mutation while a parse using it is running.
type Registry struct {
	tags map[string]*Tag
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tags: make(map[string]*Tag)}
}

// Register inserts t under its lowercase name, replacing any previous entry.
func (r *Registry) Register(t *Tag) {
	t.Name = normalizeName(t.Name)
	r.tags[t.Name] = t
}

// Lookup returns the descriptor for name, normalizing to lowercase.
// Returns ok=false if the tag is not registered.
func (r *Registry) Lookup(name string) (*Tag, bool) {
	t, ok := r.tags[strings.ToLower(name)]
	return t, ok
}

// Remove deletes the descriptor for name, if any.
func (r *Registry) Remove(name string) {
	delete(r.tags, strings.ToLower(name))
}

// Clone returns a registry holding the same descriptors. Registering into or
// removing from the clone leaves r untouched.
func (r *Registry) Clone() *Registry {
	c := &Registry{tags: make(map[string]*Tag, len(r.tags))}
	for name, t := range r.tags {
		c.tags[name] = t
	}
	return c
}

// Names returns the registered tag names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tags))
	for name := range r.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	return len(r.tags)
}
