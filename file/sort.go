package file

import (
	"sort"
	"strings"
)

// SortKey selects the record field a listing is ordered by.
type SortKey string

const (
	SortByName SortKey = "name"
	SortBySize SortKey = "size"
	SortByDate SortKey = "date"
)

// SortDir is the listing order direction.
type SortDir string

const (
	Ascending  SortDir = "asc"
	Descending SortDir = "desc"
)

// KnownSortKey reports whether key is one the engine can order by.
func KnownSortKey(key SortKey) bool {
	switch key {
	case SortByName, SortBySize, SortByDate:
		return true
	}
	return false
}

// Sort returns a new slice ordered by key and dir. The sort is stable,
// directories come before files, and nil placeholders sink to the end in
// their original relative order. The input slice is not modified.
func Sort(records []*Record, key SortKey, dir SortDir) []*Record {
	out := make([]*Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		less := lessByKey(a, b, key)
		if dir == Descending {
			// Equal elements must not flip under reversal.
			if lessByKey(b, a, key) == less {
				return false
			}
			return !less
		}
		return less
	})
	return out
}

func lessByKey(a, b *Record, key SortKey) bool {
	switch key {
	case SortBySize:
		if a.Size != b.Size {
			return a.Size < b.Size
		}
	case SortByDate:
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
	}
	// Name is both the primary key for SortByName and the tie-break for
	// the other keys.
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}
