package models

import (
	"encoding/json"
	"errors"
	"reflect"
)

type targetState int

const (
	targetOmitted targetState = iota
	targetNone
	targetSome
)

// Target is the desired target of a to-one relationship in a write.
//
// The zero value is Omitted: the relationship is left out of the request and
// the server keeps its current value. None is an explicit detachment and is
// sent as null linkage. To(r) points the relationship at r.
type Target struct {
	state targetState
	id    Identifier
}

// Omitted leaves the relationship out of the request.
var Omitted = Target{}

// None detaches the relationship.
var None = Target{state: targetNone}

// To targets an existing resource. A nil resource yields None.
func To(r Identifiable) Target {
	if r == nil {
		return None
	}
	if v := reflect.ValueOf(r); v.Kind() == reflect.Pointer && v.IsNil() {
		return None
	}
	return Target{state: targetSome, id: r.Identifier()}
}

// ToRef targets a resource by type and id.
func ToRef(typ, id string) Target {
	return Target{state: targetSome, id: Identifier{Type: typ, ID: id}}
}

func (t Target) IsOmitted() bool { return t.state == targetOmitted }
func (t Target) IsNone() bool { return t.state == targetNone }

// Identifier returns the target identifier and whether there is one.
func (t Target) Identifier() (Identifier, bool) {
	return t.id, t.state == targetSome
}

// MarshalJSON renders the linkage: an identifier object or null.
func (t Target) MarshalJSON() ([]byte, error) {
	switch t.state {
	case targetSome:
		return json.Marshal(t.id)
	case targetNone:
		return []byte("null"), nil
	}
	return nil, errors.New("an omitted relationship target can not be rendered")
}

// Linkage is the body of a relationship write: {"data": <identifier|null>}.
type Linkage struct {
	Data Target `json:"data"`
}

// Targets maps relationship names to desired targets for a create or update.
type Targets map[Field]Target

// Wire expands the targets into relationship objects keyed by both
// spellings, dropping omitted entries.
func (t Targets) Wire() map[string]Linkage {
	out := make(map[string]Linkage, len(t)*2)
	for name, target := range t {
		if target.IsOmitted() {
			continue
		}
		for _, key := range name.Keys() {
			out[key] = Linkage{Data: target}
		}
	}
	return out
}
