package models

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/iancoleman/strcase"
)

// Field is a logical attribute or relationship name, written in snake_case.
//
// Depending on its version the server exposes a field as snake_case
// ("support_type"), camelCase ("supportType") or both. Every read consults
// both spellings and every write populates both, so the client works against
// either server without probing it first.
type Field string

// Snake returns the snake_case wire name.
func (f Field) Snake() string {
	return string(f)
}

// Camel returns the camelCase wire name.
func (f Field) Camel() string {
	return strcase.ToLowerCamel(string(f))
}

// Keys returns the distinct wire names of the field, snake_case first.
func (f Field) Keys() []string {
	if f.Snake() == f.Camel() {
		return []string{f.Snake()}
	}
	return []string{f.Snake(), f.Camel()}
}

// Attributes is the decoded "attributes" object of a resource.
type Attributes map[string]any

// Get returns the value of a dual-schema field.
//
// When both spellings carry a non-null value they must be equal, otherwise a
// ProtocolError is returned. A field with no value under either spelling
// returns nil.
func (a Attributes) Get(f Field) (any, error) {
	snake := a[f.Snake()]
	camel := a[f.Camel()]

	switch {
	case snake == nil:
		return camel, nil
	case camel == nil:
		return snake, nil
	case equalValues(snake, camel):
		return snake, nil
	}

	return nil, &ProtocolError{
		Field:  string(f),
		Detail: fmt.Sprintf("%s=%v disagrees with %s=%v", f.Snake(), snake, f.Camel(), camel),
	}
}

// Set writes the value under both spellings.
func (a Attributes) Set(f Field, value any) {
	for _, key := range f.Keys() {
		a[key] = value
	}
}

// Unset writes an explicit null under both spellings. This differs from
// leaving the field out of a request, which leaves the server value alone.
func (a Attributes) Unset(f Field) {
	a.Set(f, nil)
}

// Has reports whether either spelling carries a non-null value.
func (a Attributes) Has(f Field) bool {
	for _, key := range f.Keys() {
		if a[key] != nil {
			return true
		}
	}
	return false
}

// Check verifies that every listed field is consistent across spellings.
func (a Attributes) Check(fields ...Field) error {
	for _, f := range fields {
		if _, err := a.Get(f); err != nil {
			return err
		}
	}
	return nil
}

// String returns a field as a string; absent fields read as "".
func (a Attributes) String(f Field) (string, error) {
	v, err := a.Get(f)
	if err != nil || v == nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Bool returns a field as a bool; absent fields read as false.
func (a Attributes) Bool(f Field) (bool, error) {
	v, err := a.Get(f)
	if err != nil || v == nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, perr := strconv.ParseBool(b)
		if perr != nil {
			return false, &ProtocolError{Field: string(f), Detail: fmt.Sprintf("%q is not a boolean", b)}
		}
		return parsed, nil
	}
	return false, &ProtocolError{Field: string(f), Detail: fmt.Sprintf("%v is not a boolean", v)}
}

// Int returns a field as an integer; absent fields read as nil.
func (a Attributes) Int(f Field) (*int, error) {
	v, err := a.Get(f)
	if err != nil || v == nil {
		return nil, err
	}
	n, ok := toInt(v)
	if !ok {
		return nil, &ProtocolError{Field: string(f), Detail: fmt.Sprintf("%v is not an integer", v)}
	}
	return &n, nil
}

// Clone returns a shallow copy of the attributes.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// equalValues compares decoded JSON values, treating numbers by value so an
// int written locally equals the float64 decoded from the wire.
func equalValues(x, y any) bool {
	if xi, ok := toNumber(x); ok {
		if yi, ok := toNumber(y); ok {
			return xi == yi
		}
	}
	return reflect.DeepEqual(x, y)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
