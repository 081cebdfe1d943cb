package client

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query carries the JSON:API query parameters of a request. Keys are
// rendered in bracket form: filter[name], fields[assets], page[size].
type Query struct {
	Filter     map[string]string
	Include    []string
	Fields     map[string][]string
	PageSize   int
	PageNumber int
}

// Values renders the query.
func (q *Query) Values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	for key, value := range q.Filter {
		v.Set("filter["+key+"]", value)
	}
	if len(q.Include) > 0 {
		v.Set("include", strings.Join(q.Include, ","))
	}
	types := make([]string, 0, len(q.Fields))
	for typ := range q.Fields {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		v.Set("fields["+typ+"]", strings.Join(q.Fields[typ], ","))
	}
	if q.PageSize > 0 {
		v.Set("page[size]", strconv.Itoa(q.PageSize))
	}
	if q.PageNumber > 0 {
		v.Set("page[number]", strconv.Itoa(q.PageNumber))
	}
	return v
}

// Clone copies the query so a caller's value is never mutated.
func (q *Query) Clone() *Query {
	out := &Query{}
	if q == nil {
		return out
	}
	out.PageSize, out.PageNumber = q.PageSize, q.PageNumber
	out.Include = append([]string(nil), q.Include...)
	if q.Filter != nil {
		out.Filter = make(map[string]string, len(q.Filter))
		for k, v := range q.Filter {
			out.Filter[k] = v
		}
	}
	if q.Fields != nil {
		out.Fields = make(map[string][]string, len(q.Fields))
		for k, v := range q.Fields {
			out.Fields[k] = append([]string(nil), v...)
		}
	}
	return out
}
