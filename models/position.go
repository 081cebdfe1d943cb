package models

import (
	"fmt"
	"sort"
)

// PositionRange places a child inside its immediate parent container. The
// four bounds are always present together.
type PositionRange struct {
	XStart int `json:"x_start"`
	XEnd   int `json:"x_end"`
	YStart int `json:"y_start"`
	YEnd   int `json:"y_end"`
}

func (p PositionRange) String() string {
	return fmt.Sprintf("x %d-%d, y %d-%d", p.XStart, p.XEnd, p.YStart, p.YEnd)
}

// Apply writes all four bounds in one call.
func (p PositionRange) Apply(attrs Attributes) {
	attrs.Set(FieldXStart, p.XStart)
	attrs.Set(FieldXEnd, p.XEnd)
	attrs.Set(FieldYStart, p.YStart)
	attrs.Set(FieldYEnd, p.YEnd)
}

// ClearPosition nulls all four bounds in one call.
func ClearPosition(attrs Attributes) {
	for _, f := range PositionFields {
		attrs.Unset(f)
	}
}

// RangeOf reads a position range. It returns nil when no bound is set and an
// InternalError when only some of them are.
func RangeOf(attrs Attributes) (*PositionRange, error) {
	values := make([]*int, len(PositionFields))
	set := 0
	for i, f := range PositionFields {
		v, err := attrs.Int(f)
		if err != nil {
			return nil, err
		}
		if v != nil {
			set++
		}
		values[i] = v
	}

	switch set {
	case 0:
		return nil, nil
	case len(PositionFields):
		return &PositionRange{
			XStart: *values[0],
			XEnd:   *values[1],
			YStart: *values[2],
			YEnd:   *values[3],
		}, nil
	}
	return nil, &InternalError{
		Op:  "position",
		Msg: fmt.Sprintf("partial position range: %d of %d bounds set", set, len(PositionFields)),
	}
}

// Capacity is the size of a container's grid. Either axis may be unset.
type Capacity struct {
	X *int
	Y *int
}

// Child is a direct child of a container: another container or an asset.
type Child struct {
	Kind     Kind
	Resource *Resource
	Name     string
	Range    *PositionRange
}

// SortChildren orders children in grid reading order: by YStart, then
// XStart. Children without a range sort last, by name.
func SortChildren(children []Child) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i].Range, children[j].Range
		switch {
		case a == nil && b == nil:
			return children[i].Name < children[j].Name
		case a == nil:
			return false
		case b == nil:
			return true
		case a.YStart != b.YStart:
			return a.YStart < b.YStart
		}
		return a.XStart < b.XStart
	})
}
