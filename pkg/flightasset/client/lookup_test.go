package client

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/flightasset/models"
)

func TestFindByName(t *testing.T) {
	tests := []struct {
		name     string
		assets   []string
		required bool
		wantID   string
		wantErr  any
	}{
		{name: "no match required", assets: []string{"other"}, required: true, wantErr: &models.MissingError{}},
		{name: "no match optional", assets: []string{"other"}},
		{name: "prefix is not a match", assets: []string{"node01-old"}},
		{name: "single match", assets: []string{"other", "node01"}, required: true, wantID: "node01"},
		{name: "duplicate required", assets: []string{"node01", "node01"}, required: true, wantErr: &models.DuplicateError{}},
		{name: "duplicate optional", assets: []string{"node01", "node01"}, wantErr: &models.DuplicateError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle("GET /api/v1/components/c1/assets", func(w http.ResponseWriter, r *http.Request) {
				writeDocument(w, http.StatusOK, fmt.Sprintf(`{"data": %s}`, assetsPage(tt.assets...)))
			})
			c := api.newClient(t)

			asset, err := c.Assets.FindByName(context.Background(), "node01", tt.required)

			switch want := tt.wantErr.(type) {
			case *models.MissingError:
				require.ErrorAs(t, err, &want)
				assert.Equal(t, "asset", want.Kind)
				assert.Equal(t, "node01", want.Name)
				assert.Equal(t, models.ExitAssetMissing, models.ExitCodeOf(err))
				return
			case *models.DuplicateError:
				require.ErrorAs(t, err, &want)
				assert.Equal(t, 2, want.Count)
				return
			}

			require.NoError(t, err)
			if tt.wantID == "" {
				assert.Nil(t, asset)
				return
			}
			require.NotNil(t, asset)
			assert.Equal(t, tt.wantID, asset.ID)

			reqs := api.recorded()
			require.Len(t, reqs, 1)
			assert.Equal(t, "node01", reqs[0].Query.Get("filter[name]"))
		})
	}
}

func TestFindByName_FullScanWithoutServerFilter(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/v1/components/c1/asset_containers", func(w http.ResponseWriter, r *http.Request) {
		writeDocument(w, http.StatusOK, `{"data": [
			{"type":"assetContainers","id":"1","attributes":{"name":"rack1"}},
			{"type":"assetContainers","id":"2","attributes":{"name":"rack2"}}
		]}`)
	})
	c := api.newClient(t)

	rack, err := c.Containers.FindByName(context.Background(), "rack2", true)
	require.NoError(t, err)
	assert.Equal(t, "2", rack.ID)

	reqs := api.recorded()
	require.Len(t, reqs, 1)
	_, filtered := reqs[0].Query["filter[name]"]
	assert.False(t, filtered)
	assert.Equal(t, "parent_container,parentContainer", reqs[0].Query.Get("include"))
}

func TestFindByName_CategoriesAreTopLevel(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/v1/asset-group-categories", func(w http.ResponseWriter, r *http.Request) {
		writeDocument(w, http.StatusOK, `{"data": []}`)
	})
	c := api.newClient(t)

	_, err := c.Categories.FindByName(context.Background(), "compute", true)

	var missing *models.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, models.ExitCategoryMissing, models.ExitCodeOf(err))
}
