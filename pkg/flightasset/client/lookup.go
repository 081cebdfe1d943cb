package client

import (
	"context"

	"evalgo.org/flightasset/models"
)

// FindAllByName returns every resource of the kind whose name is exactly
// name. Kinds the server can filter by name are filtered server side; the
// exact comparison is repeated here either way.
func (s *Service[T]) FindAllByName(ctx context.Context, name string) ([]T, error) {
	q := &Query{}
	if s.kind.NameFilter {
		q.Filter = map[string]string{"name": name}
	}

	var matches []T
	for rec, err := range s.Index(ctx, q) {
		if err != nil {
			return nil, err
		}
		if rec.Name() == name {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// FindByName returns the single resource called name.
//
// No match is a MissingError when required is set and a nil record
// otherwise. More than one match is always a DuplicateError: names are
// unique by convention only and the client never guesses between them.
func (s *Service[T]) FindByName(ctx context.Context, name string, required bool) (T, error) {
	var zero T
	matches, err := s.FindAllByName(ctx, name)
	if err != nil {
		return zero, err
	}

	switch len(matches) {
	case 0:
		if required {
			return zero, &models.MissingError{Kind: s.kind.Name, Name: name}
		}
		return zero, nil
	case 1:
		return matches[0], nil
	}
	return zero, &models.DuplicateError{Kind: s.kind.Name, Name: name, Count: len(matches)}
}
