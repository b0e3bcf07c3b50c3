package region

// Position is a 0-based line and character offset in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Region is a named span opened by a #region marker.
// Children are the regions opened after it and before its matching close.
type Region struct {
	Label     string    `json:"label"`
	StartLine int       `json:"line"`
	Children  []*Region `json:"children"`
}

// Range returns the zero-width anchor at the start of the marker line.
func (r *Region) Range() Range {
	p := Position{Line: r.StartLine}
	return Range{Start: p, End: p}
}

// Clone creates a deep copy of the Region.
func (r *Region) Clone() *Region {
	if r == nil {
		return nil
	}
	clone := &Region{
		Label:     r.Label,
		StartLine: r.StartLine,
		Children:  make([]*Region, len(r.Children)),
	}
	for i, child := range r.Children {
		clone.Children[i] = child.Clone()
	}
	return clone
}

// Forest is the ordered list of top-level regions of one document.
type Forest []*Region

// Walk traverses the forest depth-first, calling fn for each region
// with its nesting depth (0 for top-level regions).
func (f Forest) Walk(fn func(r *Region, depth int)) {
	var walk func([]*Region, int)
	walk = func(regions []*Region, depth int) {
		for _, r := range regions {
			fn(r, depth)
			walk(r.Children, depth+1)
		}
	}
	walk(f, 0)
}

// Flatten returns all regions in document order.
func (f Forest) Flatten() []*Region {
	var result []*Region
	f.Walk(func(r *Region, _ int) {
		result = append(result, r)
	})
	return result
}

// Count returns the total number of regions in the forest.
func (f Forest) Count() int {
	n := 0
	f.Walk(func(*Region, int) { n++ })
	return n
}

// Depth returns the number of nesting levels, 0 for an empty forest.
func (f Forest) Depth() int {
	deepest := 0
	f.Walk(func(_ *Region, depth int) {
		if depth+1 > deepest {
			deepest = depth + 1
		}
	})
	return deepest
}

// AtLine returns the region whose opening marker is on line, or nil.
func (f Forest) AtLine(line int) *Region {
	for _, r := range f.Flatten() {
		if r.StartLine == line {
			return r
		}
	}
	return nil
}

// Find returns the first region in document order with the given label, or nil.
func (f Forest) Find(label string) *Region {
	for _, r := range f.Flatten() {
		if r.Label == label {
			return r
		}
	}
	return nil
}

// Clone creates a deep copy of the forest.
func (f Forest) Clone() Forest {
	if f == nil {
		return nil
	}
	clone := make(Forest, len(f))
	for i, r := range f {
		clone[i] = r.Clone()
	}
	return clone
}
