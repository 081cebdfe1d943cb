package client

import (
	"context"
	"fmt"

	"evalgo.org/flightasset/models"
)

// Place puts child inside parent at rng. The range and the parent are sent
// in one update so the server never sees one without the other. Range
// validity is left to the server.
func (s *Service[T]) Place(ctx context.Context, child T, parent *models.Container, rng models.PositionRange) (T, error) {
	var zero T
	if !s.kind.Placeable {
		return zero, &models.InternalError{Op: "place", Msg: fmt.Sprintf("a %s can not be placed in a container", s.kind.Name)}
	}
	if parent == nil || !parent.Persisted() {
		return zero, &models.InternalError{Op: "place", Msg: "no parent container to place into"}
	}
	attrs := models.Attributes{}
	rng.Apply(attrs)
	return s.Update(ctx, child, attrs, models.Targets{models.RelParentContainer: models.To(parent)})
}

// Orphan removes child from its parent container, clearing the range and
// the parent in one update.
func (s *Service[T]) Orphan(ctx context.Context, child T) (T, error) {
	var zero T
	if !s.kind.Placeable {
		return zero, &models.InternalError{Op: "orphan", Msg: fmt.Sprintf("a %s can not be placed in a container", s.kind.Name)}
	}
	attrs := models.Attributes{}
	models.ClearPosition(attrs)
	return s.Update(ctx, child, attrs, models.Targets{models.RelParentContainer: models.None})
}

// ListChildren returns the containers and assets directly inside container
// in reading order: by row, then column, unplaced children last.
func (c *Client) ListChildren(ctx context.Context, container *models.Container) ([]models.Child, error) {
	parts := []struct {
		rel  models.Field
		kind models.Kind
	}{
		{models.RelChildContainers, models.ContainerKind},
		{models.RelAssets, models.AssetKind},
	}

	var children []models.Child
	for _, part := range parts {
		for res, err := range c.RelatedAll(ctx, container.Resource, part.rel, nil) {
			if err != nil {
				return nil, err
			}
			if err := res.Attributes.Check(part.kind.Fields...); err != nil {
				return nil, err
			}
			rng, err := models.RangeOf(res.Attributes)
			if err != nil {
				return nil, err
			}
			name, _ := res.Attributes.String(models.FieldName)
			children = append(children, models.Child{Kind: part.kind, Resource: res, Name: name, Range: rng})
		}
	}
	models.SortChildren(children)
	return children, nil
}

// Parent returns the parent container of a placeable resource, or nil.
func (c *Client) Parent(ctx context.Context, res *models.Resource) (*models.Container, error) {
	if id, present, err := res.Linkage(models.RelParentContainer); err != nil {
		return nil, err
	} else if present && id == nil {
		return nil, nil
	}
	parent, err := c.Related(ctx, res, models.RelParentContainer)
	if err != nil || parent == nil {
		return nil, err
	}
	return models.NewContainer(parent)
}
