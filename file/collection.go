package file

// Collection is a normalized file array plus an ID index. It is immutable:
// the browser swaps in a whole new Collection when the host supplies a new
// file slice.
type Collection struct {
	records  []*Record
	index    map[string]*Record
	warnings []Warning
}

// NewCollection normalizes a raw file array into a Collection. Duplicate IDs
// resolve to the first occurrence; every later duplicate is reported in
// Warnings.
func NewCollection(raws []*Raw) *Collection {
	records, warnings := Normalize(raws)
	index := make(map[string]*Record, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if _, ok := index[rec.ID]; !ok {
			index[rec.ID] = rec
		}
	}
	return &Collection{records: records, index: index, warnings: warnings}
}

// Records returns the normalized array. Nil entries are loading
// placeholders. Callers must not mutate the slice.
func (c *Collection) Records() []*Record {
	if c == nil {
		return nil
	}
	return c.records
}

// Get looks up a record by ID, first occurrence winning.
func (c *Collection) Get(id string) (*Record, bool) {
	if c == nil {
		return nil, false
	}
	rec, ok := c.index[id]
	return rec, ok
}

// Len reports the number of entries, placeholders included.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Warnings returns the normalization warnings for this array.
func (c *Collection) Warnings() []Warning {
	if c == nil {
		return nil
	}
	return c.warnings
}
