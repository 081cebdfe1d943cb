package client

import (
	"context"
	"iter"
	"net/url"
	"regexp"
	"strconv"

	"evalgo.org/flightasset/models"
)

var (
	pageSizePattern   = regexp.MustCompile(`page\[size\]=(\d+)`)
	pageNumberPattern = regexp.MustCompile(`page\[number\]=(\d+)`)
)

// Paginate walks a paged collection lazily, following next links, and yields
// each record in server order. Only one page is held at a time.
//
// Before a next link is followed only its page size and page number are
// kept; everything else in it is discarded and the original query is sent
// again. A self link seen twice means the server sent us round in a circle
// and the walk stops with an InternalError.
func (c *Client) Paginate(ctx context.Context, path string, q *Query) iter.Seq2[*models.Resource, error] {
	return func(yield func(*models.Resource, error) bool) {
		query := q.Clone()
		if query.PageSize == 0 {
			query.PageSize = c.cfg.PageSize
		}
		seen := map[string]bool{}

		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			doc, err := c.Do(ctx, "GET", path, query, nil)
			if err != nil {
				yield(nil, err)
				return
			}
			if doc == nil {
				return
			}

			self := doc.Links.Self.String()
			if self == "" {
				self = c.pageKey(path, query)
			}
			if seen[self] {
				yield(nil, &models.InternalError{Op: "paginate", Msg: "caught in request loop: " + self})
				return
			}
			seen[self] = true

			records, err := doc.Collection()
			if err != nil {
				yield(nil, err)
				return
			}
			for _, r := range records {
				if !yield(r, nil) {
					return
				}
			}

			next := doc.Links.Next.String()
			if next == "" {
				return
			}
			size, number, err := pageParams(next)
			if err != nil {
				yield(nil, err)
				return
			}
			if size > 0 {
				query.PageSize = size
			}
			query.PageNumber = number
		}
	}
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// pageParams extracts page[size] and page[number] from a next link.
func pageParams(link string) (size, number int, err error) {
	decoded, err := url.QueryUnescape(link)
	if err != nil {
		decoded = link
	}
	m := pageNumberPattern.FindStringSubmatch(decoded)
	if m == nil {
		return 0, 0, &models.InternalError{Op: "paginate", Msg: "next link has no page number: " + link}
	}
	if number, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, &models.InternalError{Op: "paginate", Msg: "invalid page number in next link: " + link}
	}
	if m := pageSizePattern.FindStringSubmatch(decoded); m != nil {
		size, _ = strconv.Atoi(m[1])
	}
	return size, number, nil
}

// pageKey identifies a page request when the server omits the self link.
func (c *Client) pageKey(path string, q *Query) string {
	u, err := c.resolve(path)
	if err != nil {
		return path
	}
	values := u.Query()
	for key, vs := range q.Values() {
		values[key] = vs
	}
	u.RawQuery = values.Encode()
	return u.String()
}
