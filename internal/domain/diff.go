package domain

// ChangeKind classifies one directory change between two snapshots.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// Change is one entry-level difference between two snapshots. For removed
// entries, Entry holds the last known value.
type Change struct {
	Kind      ChangeKind `json:"change"`
	Reference Reference  `json:"reference"`
	Entry     Entry      `json:"entry"`
}

// Diff compares two snapshots and returns the changes that turn prev into
// next: additions and updates in ascending reference order, then removals
// in ascending reference order. Either snapshot may be nil, which is
// treated as empty.
func Diff(prev, next *Directory) []Change {
	if prev == nil {
		prev = NewDirectory(nil)
	}
	if next == nil {
		next = NewDirectory(nil)
	}

	var changes []Change
	for ref, entry := range next.All() {
		old, ok := prev.Get(ref)
		switch {
		case !ok:
			changes = append(changes, Change{Kind: ChangeAdded, Reference: ref, Entry: entry})
		case !old.Equal(entry):
			changes = append(changes, Change{Kind: ChangeUpdated, Reference: ref, Entry: entry})
		}
	}
	for ref, entry := range prev.All() {
		if _, ok := next.Get(ref); !ok {
			changes = append(changes, Change{Kind: ChangeRemoved, Reference: ref, Entry: entry})
		}
	}
	return changes
}
