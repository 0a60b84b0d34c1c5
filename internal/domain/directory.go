package domain

import (
	"iter"
	"maps"
	"slices"
)

// Directory is a read-only snapshot of the WWFF directory: a unique-keyed
// mapping from normalized Reference to Entry. Iteration is in ascending key
// order, so consumers get deterministic traversal regardless of input order.
type Directory struct {
	entries map[Reference]Entry
}

// NewDirectory wraps a built entry map. Ownership of the map transfers to
// the Directory; the caller must not mutate it afterwards.
func NewDirectory(entries map[Reference]Entry) *Directory {
	if entries == nil {
		entries = map[Reference]Entry{}
	}
	return &Directory{entries: entries}
}

// Lookup normalizes raw the same way the decoder normalizes references and
// returns the matching entry. Absence is a normal outcome, not an error:
// text that is not even a valid reference simply does not match.
func (d *Directory) Lookup(raw string) (Entry, bool) {
	ref, err := ParseReference(raw)
	if err != nil {
		return Entry{}, false
	}
	return d.Get(ref)
}

// Get returns the entry for an already-normalized reference.
func (d *Directory) Get(ref Reference) (Entry, bool) {
	e, ok := d.entries[ref]
	return e, ok
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.entries)
}

// References returns all keys in ascending order.
func (d *Directory) References() []Reference {
	return slices.Sorted(maps.Keys(d.entries))
}

// All iterates entries in ascending reference order.
func (d *Directory) All() iter.Seq2[Reference, Entry] {
	return func(yield func(Reference, Entry) bool) {
		for _, ref := range d.References() {
			if !yield(ref, d.entries[ref]) {
				return
			}
		}
	}
}
