package client

import (
	"context"
	"fmt"
	"iter"

	"evalgo.org/flightasset/models"
)

// RelationshipURL returns the self link of a relationship, looked up under
// both spellings of its name. The server publishes relationship links only
// on persisted resources, so an unpersisted resource always fails here.
func RelationshipURL(res *models.Resource, name models.Field) (string, error) {
	return relationshipLink(res, name, "relationship", func(l models.Links) models.Link { return l.Self })
}

// RelatedURL returns the related-resource link of a relationship.
func RelatedURL(res *models.Resource, name models.Field) (string, error) {
	return relationshipLink(res, name, "related", func(l models.Links) models.Link { return l.Related })
}

func relationshipLink(res *models.Resource, name models.Field, what string, pick func(models.Links) models.Link) (string, error) {
	if res == nil {
		return "", &models.InternalError{Op: "relationship", Msg: fmt.Sprintf("no resource to read the %s %s URL from", name, what)}
	}
	var links []string
	for _, key := range name.Keys() {
		rel, ok := res.Relationships[key]
		if !ok || rel == nil {
			continue
		}
		link := pick(rel.Links).String()
		if link == "" {
			continue
		}
		if len(links) == 0 || links[0] != link {
			links = append(links, link)
		}
	}

	switch len(links) {
	case 1:
		return links[0], nil
	case 0:
		return "", &models.InternalError{
			Op:  "relationship",
			Msg: fmt.Sprintf("failed to determine %s %s URL for %s", name, what, res.Identifier()),
		}
	}
	return "", &models.InternalError{
		Op:  "relationship",
		Msg: fmt.Sprintf("conflicting %s %s URLs for %s: %s and %s", name, what, res.Identifier(), links[0], links[1]),
	}
}

// MoveRelationship points a to-one relationship at target, or detaches it
// when target is None, then re-fetches the owner from its primary URL. The
// replacement is idempotent; repeating it leaves the same state.
func (c *Client) MoveRelationship(ctx context.Context, res *models.Resource, name models.Field, target models.Target) (*models.Resource, error) {
	if err := c.replaceLink(ctx, res, name, target); err != nil {
		return nil, err
	}
	return c.refetch(ctx, res, nil)
}

func (c *Client) replaceLink(ctx context.Context, res *models.Resource, name models.Field, target models.Target) error {
	if target.IsOmitted() {
		return &models.InternalError{Op: "relationship", Msg: fmt.Sprintf("no target given for %s", name)}
	}
	link, err := RelationshipURL(res, name)
	if err != nil {
		return err
	}
	c.logger.Debug("replacing relationship", "resource", res.Identifier().String(), "relationship", string(name))
	if _, err := c.Do(ctx, "PATCH", link, nil, models.Linkage{Data: target}); err != nil {
		return fmt.Errorf("failed to update %s of %s: %w", name, res.Identifier(), err)
	}
	return nil
}

func (c *Client) refetch(ctx context.Context, res *models.Resource, q *Query) (*models.Resource, error) {
	kind, ok := models.KindOf(res.Type)
	if !ok {
		return nil, &models.InternalError{Op: "refetch", Msg: fmt.Sprintf("unknown resource type %q", res.Type)}
	}
	doc, err := c.Do(ctx, "GET", kind.ResourcePath(res.ID), q, nil)
	if err != nil {
		return nil, err
	}
	fresh, err := doc.Primary()
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, &models.ProtocolError{Detail: fmt.Sprintf("empty response when fetching %s", res.Identifier())}
	}
	return fresh, nil
}

// Related fetches the target of a to-one relationship through its related
// link. A relationship without a target returns nil.
func (c *Client) Related(ctx context.Context, res *models.Resource, name models.Field) (*models.Resource, error) {
	link, err := RelatedURL(res, name)
	if err != nil {
		return nil, err
	}
	doc, err := c.Do(ctx, "GET", link, nil, nil)
	if err != nil {
		return nil, err
	}
	return doc.Primary()
}

// RelatedAll walks the members of a to-many relationship.
func (c *Client) RelatedAll(ctx context.Context, res *models.Resource, name models.Field, q *Query) iter.Seq2[*models.Resource, error] {
	link, err := RelatedURL(res, name)
	if err != nil {
		return func(yield func(*models.Resource, error) bool) {
			yield(nil, err)
		}
	}
	return c.Paginate(ctx, link, q)
}
