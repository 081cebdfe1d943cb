package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/flightasset/models"
)

func assetsPage(names ...string) string {
	items := make([]string, len(names))
	for i, name := range names {
		items[i] = fmt.Sprintf(`{"type":"assets","id":"%s","attributes":{"name":"%s"}}`, name, name)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestPaginate_FollowsNextLinks(t *testing.T) {
	api := newFakeAPI(t)
	pages := map[string][]string{
		"":  {"n1", "n2"},
		"2": {"n3", "n4"},
		"3": {"n5"},
	}
	api.handle("GET /api/v1/components/c1/assets", func(w http.ResponseWriter, r *http.Request) {
		number := r.URL.Query().Get("page[number]")
		links := fmt.Sprintf(`"self": "/api/v1/components/c1/assets?page%%5Bnumber%%5D=%s"`, number)
		switch number {
		case "":
			links += `, "next": "/api/v1/components/c1/assets?filter%5Bstale%5D=1&page%5Bnumber%5D=2&page%5Bsize%5D=2"`
		case "2":
			links += `, "next": "http://elsewhere.example/api/v1/components/c1/assets?page[number]=3&page[size]=2&sort=-name"`
		}
		writeDocument(w, http.StatusOK, fmt.Sprintf(`{"data": %s, "links": {%s}}`, assetsPage(pages[number]...), links))
	})

	c := api.newClient(t)
	q := &Query{Filter: map[string]string{"decommissioned": "false"}}

	var names []string
	for res, err := range c.Paginate(context.Background(), "components/c1/assets", q) {
		require.NoError(t, err)
		names = append(names, res.ID)
	}

	assert.Equal(t, []string{"n1", "n2", "n3", "n4", "n5"}, names)

	requests := api.recorded()
	require.Len(t, requests, 3)
	for i, req := range requests {
		assert.Equal(t, "false", req.Query.Get("filter[decommissioned]"), "request %d keeps the original filter", i)
		assert.Empty(t, req.Query.Get("filter[stale]"), "request %d drops residual next-link query", i)
		assert.Empty(t, req.Query.Get("sort"), "request %d drops residual next-link query", i)
		assert.Equal(t, "2", req.Query.Get("page[size]"))
	}
	assert.Empty(t, requests[0].Query.Get("page[number]"))
	assert.Equal(t, "2", requests[1].Query.Get("page[number]"))
	assert.Equal(t, "3", requests[2].Query.Get("page[number]"))
	assert.Nil(t, q.Fields, "caller query is not mutated")
	assert.Zero(t, q.PageNumber)
}

func TestPaginate_DetectsLoop(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/v1/assets", func(w http.ResponseWriter, r *http.Request) {
		writeDocument(w, http.StatusOK, `{
			"data": [{"type":"assets","id":"1","attributes":{"name":"n1"}}],
			"links": {"self": "/api/v1/assets?page[number]=1", "next": "/api/v1/assets?page[number]=1"}
		}`)
	})

	c := api.newClient(t)

	var (
		seen    int
		lastErr error
	)
	for _, err := range c.Paginate(context.Background(), "assets", nil) {
		if err != nil {
			lastErr = err
			break
		}
		seen++
	}

	var ierr *models.InternalError
	require.ErrorAs(t, lastErr, &ierr)
	assert.Contains(t, ierr.Error(), "caught in request loop")
	assert.Equal(t, 1, seen)
	assert.Equal(t, 2, api.count("GET"))
}

func TestPaginate_LoopWithoutSelfLinks(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/v1/assets", func(w http.ResponseWriter, r *http.Request) {
		writeDocument(w, http.StatusOK, `{
			"data": [],
			"links": {"next": "/api/v1/assets?page[number]=4"}
		}`)
	})

	c := api.newClient(t)
	_, err := Collect(c.Paginate(context.Background(), "assets", nil))

	var ierr *models.InternalError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 3, api.count("GET"))
}

func TestPaginate_IsLazy(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/v1/assets", func(w http.ResponseWriter, r *http.Request) {
		writeDocument(w, http.StatusOK, fmt.Sprintf(`{"data": %s, "links": {"next": "/api/v1/assets?page[number]=2"}}`, assetsPage("n1", "n2")))
	})

	c := api.newClient(t)
	for res, err := range c.Paginate(context.Background(), "assets", nil) {
		require.NoError(t, err)
		assert.Equal(t, "n1", res.ID)
		break
	}
	assert.Equal(t, 1, api.count("GET"))
}

func TestPaginate_NextWithoutPageNumber(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/v1/assets", func(w http.ResponseWriter, r *http.Request) {
		writeDocument(w, http.StatusOK, `{"data": [], "links": {"next": "/api/v1/assets?cursor=abc"}}`)
	})

	c := api.newClient(t)
	_, err := Collect(c.Paginate(context.Background(), "assets", nil))

	var ierr *models.InternalError
	assert.ErrorAs(t, err, &ierr)
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		link       string
		wantSize   int
		wantNumber int
		wantErr    bool
	}{
		{link: "/x?page[number]=3&page[size]=10", wantSize: 10, wantNumber: 3},
		{link: "/x?page%5Bsize%5D=5&page%5Bnumber%5D=2", wantSize: 5, wantNumber: 2},
		{link: "https://h/x?filter[name]=a&page[number]=7", wantNumber: 7},
		{link: "/x?page[size]=5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			size, number, err := pageParams(tt.link)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, size)
			assert.Equal(t, tt.wantNumber, number)
		})
	}
}
