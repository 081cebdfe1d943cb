package models

import "fmt"

// check verifies a decoded resource against its kind: every dual-schema
// field must be consistent and placeable kinds must carry a whole position
// range or none of it. Entities are checked once on construction so their
// accessors never meet a disagreement later.
func check(r *Resource, k Kind) error {
	if r == nil {
		return &InternalError{Op: k.Name, Msg: "no resource to decode"}
	}
	if r.Type != "" && r.Type != k.Type {
		return &ProtocolError{Detail: fmt.Sprintf("expected a %s resource, got type %q", k.Type, r.Type)}
	}
	if r.Attributes == nil {
		r.Attributes = Attributes{}
	}
	if err := r.Attributes.Check(k.Fields...); err != nil {
		return err
	}
	if k.Placeable {
		if _, err := RangeOf(r.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resource) str(f Field) string {
	s, _ := r.Attributes.String(f)
	return s
}

func (r *Resource) flag(f Field) bool {
	b, _ := r.Attributes.Bool(f)
	return b
}

func (r *Resource) integer(f Field) *int {
	n, _ := r.Attributes.Int(f)
	return n
}

func (r *Resource) position() *PositionRange {
	p, _ := RangeOf(r.Attributes)
	return p
}
