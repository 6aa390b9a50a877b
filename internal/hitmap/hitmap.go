// Package hitmap maps terminal cells to the file rows and cells rendered at
// them, so mouse events can be resolved back to records.
package hitmap

// Rect is a rectangle in screen cells. W and H are exclusive extents: a
// zero-size rect contains no point.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a registered hit target.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap is a collection of hit regions, rebuilt on every render.
type HitMap struct {
	regions []Region
}

// New creates an empty hit map.
func New() *HitMap {
	return &HitMap{}
}

// Clear drops all regions. Call at the start of each render.
func (m *HitMap) Clear() {
	m.regions = m.regions[:0]
}

// Add registers a region. Later additions win over earlier ones when
// regions overlap.
func (m *HitMap) Add(id string, r Rect, data any) {
	m.regions = append(m.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect is Add with the rectangle spelled out.
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	m.Add(id, Rect{X: x, Y: y, W: w, H: h}, data)
}

// Test returns the topmost region containing (x, y), or nil.
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			return &m.regions[i]
		}
	}
	return nil
}
