package nav

import (
	"errors"
	"fmt"
)

// Entry is one demo of the registry.
type Entry struct {
	Segment string
	Label   string
}

// Registry is the ordered, immutable list of demos.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// ErrEmptySegment is returned for an entry without a path segment.
var ErrEmptySegment = errors.New("nav: empty segment")

// NewRegistry validates entries and keeps their order. Segments must be
// unique and non-empty.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Segment == "" {
			return nil, fmt.Errorf("%w (label %q)", ErrEmptySegment, e.Label)
		}
		if _, dup := r.index[e.Segment]; dup {
			return nil, fmt.Errorf("nav: duplicate segment %q", e.Segment)
		}
		r.index[e.Segment] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// MustRegistry is NewRegistry for package level and startup code; it panics
// on invalid entries.
func MustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Entries returns a copy of the entries in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Find returns the entry for segment.
func (r *Registry) Find(segment string) (Entry, bool) {
	i, ok := r.index[segment]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}
