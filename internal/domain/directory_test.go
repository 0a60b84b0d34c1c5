package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory(refs ...Reference) *Directory {
	entries := make(map[Reference]Entry, len(refs))
	for _, ref := range refs {
		entries[ref] = Entry{Reference: ref, Name: "entry " + string(ref)}
	}
	return NewDirectory(entries)
}

func TestDirectoryLookup(t *testing.T) {
	d := testDirectory("ONFF-0010", "SPFF-1234")

	t.Run("normalizes case", func(t *testing.T) {
		e, ok := d.Lookup("onff-0010")
		require.True(t, ok)
		assert.Equal(t, Reference("ONFF-0010"), e.Reference)
	})

	t.Run("missing reference is not an error", func(t *testing.T) {
		_, ok := d.Lookup("DLFF-0001")
		assert.False(t, ok)
	})

	t.Run("unencodable input is not found", func(t *testing.T) {
		_, ok := d.Lookup("this is far too long to be a reference")
		assert.False(t, ok)

		_, ok = d.Lookup("")
		assert.False(t, ok)
	})
}

func TestDirectoryOrdering(t *testing.T) {
	d := testDirectory("SPFF-1234", "DLFF-0001", "ONFF-0010")

	assert.Equal(t, []Reference{"DLFF-0001", "ONFF-0010", "SPFF-1234"}, d.References())

	var seen []Reference
	for ref, e := range d.All() {
		seen = append(seen, ref)
		assert.Equal(t, ref, e.Reference)
	}
	assert.Equal(t, []Reference{"DLFF-0001", "ONFF-0010", "SPFF-1234"}, seen)
}

func TestNewDirectoryNil(t *testing.T) {
	d := NewDirectory(nil)
	assert.Equal(t, 0, d.Len())
	_, ok := d.Lookup("ONFF-0010")
	assert.False(t, ok)
}
