package client

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"evalgo.org/flightasset/models"
)

// Record is an entity the client can decode and look up by name.
type Record interface {
	models.Identifiable
	Base() *models.Resource
	Name() string
}

// Service gives typed access to one resource kind.
type Service[T Record] struct {
	client  *Client
	kind    models.Kind
	wrap    func(*models.Resource) (T, error)
	include []string
}

func newService[T Record](c *Client, kind models.Kind, wrap func(*models.Resource) (T, error), include ...models.Field) *Service[T] {
	s := &Service[T]{client: c, kind: kind, wrap: wrap}
	for _, rel := range include {
		s.include = append(s.include, rel.Keys()...)
	}
	return s
}

// Kind returns the kind served.
func (s *Service[T]) Kind() models.Kind {
	return s.kind
}

// CollectionPath is where the kind is listed: below the configured
// component when the kind belongs to one, otherwise the top-level
// collection.
func (s *Service[T]) CollectionPath() string {
	id := s.client.cfg.ComponentID
	if s.kind.ComponentPath == "" || id == "" {
		return s.kind.Path
	}
	return models.ComponentKind.ResourcePath(id) + "/" + s.kind.ComponentPath
}

func (s *Service[T]) query(q *Query) *Query {
	out := q.Clone()
	if len(out.Include) == 0 {
		out.Include = append(out.Include, s.include...)
	}
	return out
}

// Index walks the collection of the kind.
func (s *Service[T]) Index(ctx context.Context, q *Query) iter.Seq2[T, error] {
	return s.IndexAt(ctx, s.CollectionPath(), q)
}

// IndexAt walks any collection of the kind, such as the related link of a
// to-many relationship.
func (s *Service[T]) IndexAt(ctx context.Context, path string, q *Query) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for res, err := range s.client.Paginate(ctx, path, s.query(q)) {
			if err != nil {
				yield(zero, err)
				return
			}
			rec, err := s.wrap(res)
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// List collects the whole collection.
func (s *Service[T]) List(ctx context.Context, q *Query) ([]T, error) {
	return Collect(s.Index(ctx, q))
}

// Fetch reads a single resource by id. A 404 for a well-formed token means
// the resource is gone and is reported as a MissingError for the kind.
func (s *Service[T]) Fetch(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := s.client.Do(ctx, "GET", s.kind.ResourcePath(id), s.query(nil), nil)
	if err != nil {
		var terr *models.TransportError
		if errors.As(err, &terr) && terr.Status == http.StatusNotFound {
			return zero, &models.MissingError{Kind: s.kind.Name, Name: id}
		}
		return zero, err
	}
	return s.primary(doc, "fetch")
}

// Create persists a new resource. Only the attributes in attrs and the
// non-omitted targets are sent. The kind's sideloads are requested with the
// write so the returned record resolves its relationships.
func (s *Service[T]) Create(ctx context.Context, attrs models.Attributes, targets models.Targets) (T, error) {
	var zero T
	body := newDocument(s.kind.Type, "", attrs, targets)
	doc, err := s.client.Do(ctx, "POST", s.kind.Path, s.query(nil), body)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", s.kind.Name, err)
	}
	return s.primary(doc, "create")
}

// Update changes attributes and relationship targets of an existing
// resource in one request and returns the refreshed resource.
func (s *Service[T]) Update(ctx context.Context, rec T, attrs models.Attributes, targets models.Targets) (T, error) {
	var zero T
	res := rec.Base()
	if !res.Persisted() {
		return zero, &models.InternalError{Op: "update", Msg: fmt.Sprintf("can not update an unsaved %s", s.kind.Name)}
	}
	body := newDocument(s.kind.Type, res.ID, attrs, targets)
	doc, err := s.client.Do(ctx, "PATCH", s.kind.ResourcePath(res.ID), s.query(nil), body)
	if err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", s.kind.Name, err)
	}
	if doc == nil {
		return s.Fetch(ctx, res.ID)
	}
	return s.primary(doc, "update")
}

// Move replaces a to-one relationship through its relationship link and
// returns the re-fetched owner.
func (s *Service[T]) Move(ctx context.Context, rec T, rel models.Field, target models.Target) (T, error) {
	var zero T
	if err := s.client.replaceLink(ctx, rec.Base(), rel, target); err != nil {
		return zero, err
	}
	return s.Fetch(ctx, rec.Base().ID)
}

func (s *Service[T]) primary(doc *models.Document, op string) (T, error) {
	var zero T
	res, err := doc.Primary()
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, &models.ProtocolError{Detail: fmt.Sprintf("empty response to %s %s", op, s.kind.Name)}
	}
	return s.wrap(res)
}

type document struct {
	Data resourceObject `json:"data"`
}

type resourceObject struct {
	Type          string                    `json:"type"`
	ID            string                    `json:"id,omitempty"`
	Attributes    models.Attributes         `json:"attributes,omitempty"`
	Relationships map[string]models.Linkage `json:"relationships,omitempty"`
}

func newDocument(typ, id string, attrs models.Attributes, targets models.Targets) document {
	return document{Data: resourceObject{
		Type:          typ,
		ID:            id,
		Attributes:    attrs,
		Relationships: targets.Wire(),
	}}
}
