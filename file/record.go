// Package file defines the record model consumed by the browser: raw file
// descriptors supplied by the host, normalized records with resolved
// capability flags, and the duplicate-ID scan.
package file

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Raw is a file descriptor as supplied by the host application. Optional
// capability flags are pointers so that "unset" and explicit "false" stay
// distinct; unset flags resolve to per-type defaults during normalization.
//
// A nil *Raw in the input slice is a valid placeholder for a file that has
// not loaded yet. It renders as a loading row and is never selectable or
// actionable.
type Raw struct {
	ID   string
	Name string

	// Ext overrides the extension derived from Name. Leave empty to derive.
	Ext string

	IsDir     bool
	Symlink   bool
	Encrypted bool

	Hidden     *bool // default: Name has a "." prefix
	Openable   *bool // default: true
	Selectable *bool // default: true
	Draggable  *bool // default: true
	Droppable  *bool // default: true for directories, false for files

	Size       int64
	ModTime    time.Time
	ChildCount int

	// Display overrides. All opaque to the engine; the render layer and the
	// host decide what to do with them.
	Color     string
	Icon      string
	Thumbnail string

	// Extra is an open bag of host-defined properties. It is carried
	// through normalization untouched and never merged into core fields.
	Extra map[string]any
}

// Record is a normalized file descriptor. All capability flags are resolved
// to concrete values. Records are immutable once built; a changed listing is
// signalled by handing the browser a new slice.
type Record struct {
	ID   string
	Name string
	Ext  string

	IsDir      bool
	Hidden     bool
	Symlink    bool
	Encrypted  bool
	Openable   bool
	Selectable bool
	Draggable  bool
	Droppable  bool

	Size       int64
	ModTime    time.Time
	ChildCount int

	Color     string
	Icon      string
	Thumbnail string

	Extra map[string]any
}

// WarningKind classifies a normalization warning.
type WarningKind int

const (
	// WarnDuplicateID marks a record whose ID already appeared earlier in
	// the array. The first occurrence wins for lookup and selection.
	WarnDuplicateID WarningKind = iota
	// WarnMissingID marks a record with an empty ID.
	WarnMissingID
	// WarnMissingName marks a record with an empty name.
	WarnMissingName
)

// Warning reports a non-fatal problem found while normalizing a file array.
// Warnings degrade selection correctness but never block rendering.
type Warning struct {
	Kind  WarningKind
	Index int    // position in the input slice
	ID    string // offending file ID, if known
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnDuplicateID:
		return fmt.Sprintf("duplicate file ID %q at index %d", w.ID, w.Index)
	case WarnMissingID:
		return fmt.Sprintf("file at index %d has no ID", w.Index)
	case WarnMissingName:
		return fmt.Sprintf("file %q at index %d has no name", w.ID, w.Index)
	}
	return fmt.Sprintf("unknown warning at index %d", w.Index)
}

// Normalize validates and resolves a host-supplied file array. The result
// slice has the same length and order as the input; nil raws and invalid
// descriptors come back as nil records (loading placeholders). Duplicate IDs
// are reported, not rejected.
func Normalize(raws []*Raw) ([]*Record, []Warning) {
	records := make([]*Record, len(raws))
	var warnings []Warning
	seen := make(map[string]struct{}, len(raws))

	for i, raw := range raws {
		if raw == nil {
			continue
		}
		if raw.ID == "" {
			warnings = append(warnings, Warning{Kind: WarnMissingID, Index: i})
			continue
		}
		if raw.Name == "" {
			warnings = append(warnings, Warning{Kind: WarnMissingName, Index: i, ID: raw.ID})
			continue
		}
		if _, dup := seen[raw.ID]; dup {
			warnings = append(warnings, Warning{Kind: WarnDuplicateID, Index: i, ID: raw.ID})
		} else {
			seen[raw.ID] = struct{}{}
		}
		records[i] = resolve(raw)
	}
	return records, warnings
}

// resolve fills in derived fields and capability defaults for one raw
// descriptor.
func resolve(raw *Raw) *Record {
	rec := &Record{
		ID:         raw.ID,
		Name:       raw.Name,
		Ext:        raw.Ext,
		IsDir:      raw.IsDir,
		Symlink:    raw.Symlink,
		Encrypted:  raw.Encrypted,
		Size:       raw.Size,
		ModTime:    raw.ModTime,
		ChildCount: raw.ChildCount,
		Color:      raw.Color,
		Icon:       raw.Icon,
		Thumbnail:  raw.Thumbnail,
		Extra:      raw.Extra,
	}
	if rec.Ext == "" && !rec.IsDir {
		rec.Ext = filepath.Ext(rec.Name)
	}
	rec.Hidden = boolOr(raw.Hidden, strings.HasPrefix(raw.Name, "."))
	rec.Openable = boolOr(raw.Openable, true)
	rec.Selectable = boolOr(raw.Selectable, true)
	rec.Draggable = boolOr(raw.Draggable, true)
	rec.Droppable = boolOr(raw.Droppable, raw.IsDir)
	return rec
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
