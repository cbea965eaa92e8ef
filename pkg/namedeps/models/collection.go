package models

import (
	"fmt"
	"slices"
	"strings"
)

// Collection is an insertion-ordered set of named references keyed by Key.
type Collection struct {
	keys       []string
	refs       map[string]NamedReference
	namespaced bool
}

// NewCollection creates an empty collection.
// A namespaced collection prefixes every key with the reference's file.
func NewCollection(namespaced bool) *Collection {
	return &Collection{
		refs:       make(map[string]NamedReference),
		namespaced: namespaced,
	}
}

// Namespaced reports whether keys carry the file component.
func (c *Collection) Namespaced() bool {
	return c.namespaced
}

// Add appends a reference. It fails if the key is empty or already present;
// an existing entry is never overwritten.
func (c *Collection) Add(ref NamedReference) error {
	if ref.Key == "" {
		return fmt.Errorf("reference %q has no key", ref.Label)
	}
	if _, ok := c.refs[ref.Key]; ok {
		return fmt.Errorf("duplicate reference key %q", ref.Key)
	}
	c.keys = append(c.keys, ref.Key)
	c.refs[ref.Key] = ref
	return nil
}

// Get returns the reference stored under key.
func (c *Collection) Get(key string) (NamedReference, bool) {
	ref, ok := c.refs[key]
	return ref, ok
}

// Len returns the number of references.
func (c *Collection) Len() int {
	return len(c.keys)
}

// Keys returns the reference keys in insertion order.
func (c *Collection) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// References returns the references in insertion order.
func (c *Collection) References() []NamedReference {
	out := make([]NamedReference, len(c.keys))
	for i, k := range c.keys {
		out[i] = c.refs[k]
	}
	return out
}

// ByLabel returns every reference whose label matches, case-insensitively,
// in insertion order.
func (c *Collection) ByLabel(label string) []NamedReference {
	var out []NamedReference
	for _, k := range c.keys {
		if strings.EqualFold(c.refs[k].Label, label) {
			out = append(out, c.refs[k])
		}
	}
	return out
}

// Files returns the distinct source files in first-seen order.
func (c *Collection) Files() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range c.keys {
		f := c.refs[k].File
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Collision represents a label defined in more than one source file.
type Collision struct {
	// Label is the label as first encountered.
	Label string `json:"label"`
	// Files lists the source files defining the label, in input order.
	Files []string `json:"files"`
}

// Merge combines per-file collections into one namespaced collection.
// Every reference keeps its identity by prefixing the file label to its key,
// and labels shared by several files are reported as collisions.
func Merge(parts ...*Collection) (*Collection, []Collision, error) {
	merged := NewCollection(true)
	for _, part := range parts {
		if part == nil {
			continue
		}
		for _, ref := range part.References() {
			if !part.namespaced {
				ref.Key = ref.File + "::" + ref.Key
			}
			if err := merged.Add(ref); err != nil {
				return merged, nil, err
			}
		}
	}
	return merged, FindCollisions(parts...), nil
}

// FindCollisions reports every label (compared case-insensitively) defined
// in more than one file across parts, in first-seen order.
func FindCollisions(parts ...*Collection) []Collision {
	type labelFiles struct {
		label string
		files []string
	}
	byLabel := make(map[string]*labelFiles)
	var labelOrder []string

	for _, part := range parts {
		if part == nil {
			continue
		}
		for _, ref := range part.References() {
			folded := strings.ToLower(ref.Label)
			lf, ok := byLabel[folded]
			if !ok {
				lf = &labelFiles{label: ref.Label}
				byLabel[folded] = lf
				labelOrder = append(labelOrder, folded)
			}
			if !slices.Contains(lf.files, ref.File) {
				lf.files = append(lf.files, ref.File)
			}
		}
	}

	var collisions []Collision
	for _, folded := range labelOrder {
		if lf := byLabel[folded]; len(lf.files) > 1 {
			collisions = append(collisions, Collision{Label: lf.label, Files: lf.files})
		}
	}
	return collisions
}
