package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Identifier is a JSON:API resource identifier object.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (i Identifier) String() string {
	return i.Type + "/" + i.ID
}

// Identifiable is anything that can be the target of a relationship.
type Identifiable interface {
	Identifier() Identifier
}

// Link is a JSON:API link. The server may send either a bare URL or a link
// object with an "href" member; both decode to the URL.
type Link string

func (l *Link) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Href string `json:"href"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*l = Link(obj.Href)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = Link(s)
	return nil
}

func (l Link) String() string {
	return string(l)
}

// Links holds the links of a document, a resource or a relationship.
type Links struct {
	Self    Link `json:"self,omitempty"`
	Related Link `json:"related,omitempty"`
	First   Link `json:"first,omitempty"`
	Prev    Link `json:"prev,omitempty"`
	Next    Link `json:"next,omitempty"`
	Last    Link `json:"last,omitempty"`
}

// Relationship is a decoded relationship object.
//
// Data keeps the raw linkage so an explicit null ("points at nothing") stays
// distinguishable from a missing data member ("linkage not sent").
type Relationship struct {
	Links Links           `json:"links"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the server sent linkage, including null linkage.
func (r *Relationship) HasData() bool {
	return r != nil && len(r.Data) > 0
}

// One decodes to-one linkage. Null linkage returns nil.
func (r *Relationship) One() (*Identifier, error) {
	if !r.HasData() || bytes.Equal(bytes.TrimSpace(r.Data), []byte("null")) {
		return nil, nil
	}
	var id Identifier
	if err := json.Unmarshal(r.Data, &id); err != nil {
		return nil, &ProtocolError{Detail: fmt.Sprintf("invalid to-one linkage: %v", err)}
	}
	return &id, nil
}

// Many decodes to-many linkage.
func (r *Relationship) Many() ([]Identifier, error) {
	if !r.HasData() {
		return nil, nil
	}
	var ids []Identifier
	if err := json.Unmarshal(r.Data, &ids); err != nil {
		return nil, &ProtocolError{Detail: fmt.Sprintf("invalid to-many linkage: %v", err)}
	}
	return ids, nil
}

// Resource is a typed, server-identified entity.
//
// A resource that has not been persisted has no ID and no relationship links.
type Resource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id,omitempty"`
	Attributes    Attributes               `json:"attributes,omitempty"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	Links         Links                    `json:"links"`
	Meta          map[string]any           `json:"meta,omitempty"`

	index Index
}

// NewResource builds an unpersisted resource of the given type.
func NewResource(typ string) *Resource {
	return &Resource{Type: typ, Attributes: Attributes{}}
}

// Ref builds a bare reference to an existing resource.
func Ref(typ, id string) *Resource {
	return &Resource{Type: typ, ID: id, Attributes: Attributes{}}
}

// Base returns the resource itself. Entities embedding *Resource promote it,
// which lets generic code reach the underlying resource.
func (r *Resource) Base() *Resource {
	return r
}

func (r *Resource) Identifier() Identifier {
	return Identifier{Type: r.Type, ID: r.ID}
}

// Persisted reports whether the server has assigned an ID.
func (r *Resource) Persisted() bool {
	return r.ID != ""
}

// Relationship returns the relationship stored under either spelling of name.
// It returns nil when neither spelling is present.
func (r *Resource) Relationship(name Field) *Relationship {
	for _, key := range name.Keys() {
		if rel, ok := r.Relationships[key]; ok && rel != nil {
			return rel
		}
	}
	return nil
}

// Linkage returns the to-one target of a relationship. The boolean is false
// when no linkage was sent under either spelling. When both spellings carry
// linkage it must agree.
func (r *Resource) Linkage(name Field) (*Identifier, bool, error) {
	var (
		found  bool
		target *Identifier
	)
	for _, key := range name.Keys() {
		rel, ok := r.Relationships[key]
		if !ok || !rel.HasData() {
			continue
		}
		id, err := rel.One()
		if err != nil {
			return nil, false, err
		}
		if found && !sameTarget(target, id) {
			return nil, false, &ProtocolError{
				Field:  string(name),
				Detail: "relationship linkage disagrees between spellings",
			}
		}
		found, target = true, id
	}
	return target, found, nil
}

// Related resolves a to-one relationship against the sideloaded resources of
// the document this resource came from. A target that was not sideloaded is
// returned as a bare reference. Nil means no target.
func (r *Resource) Related(name Field) (*Resource, error) {
	id, _, err := r.Linkage(name)
	if err != nil || id == nil {
		return nil, err
	}
	if res, ok := r.index[*id]; ok {
		return res, nil
	}
	return Ref(id.Type, id.ID), nil
}

func sameTarget(a, b *Identifier) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Index maps identifiers to the resources of a single document.
type Index map[Identifier]*Resource

// NewIndex indexes resources and links each of them back to the index so
// relationships between them can be followed.
func NewIndex(resources ...*Resource) Index {
	idx := make(Index, len(resources))
	idx.Add(resources...)
	return idx
}

// Add indexes additional resources.
func (idx Index) Add(resources ...*Resource) {
	for _, r := range resources {
		if r == nil {
			continue
		}
		if r.Attributes == nil {
			r.Attributes = Attributes{}
		}
		r.index = idx
		if r.ID != "" {
			idx[r.Identifier()] = r
		}
	}
}
