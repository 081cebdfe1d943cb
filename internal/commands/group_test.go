package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/flightasset/models"
)

func seedGroups(f *fakeInventory) {
	f.add("assetGroupCategories", "cat1", map[string]any{"name": "hardware"}, nil)
	f.add("assetGroups", "g2", map[string]any{"name": "storage", "decommissioned": false}, nil)
	f.add("assetGroups", "g1", map[string]any{"name": "compute", "unix_name": "nodes", "decommissioned": false},
		map[string]string{"asset_group_category": "cat1"})
	f.add("assetGroups", "g3", map[string]any{"name": "retired", "decommissioned": true}, nil)
}

func TestListGroups(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "all active",
			args: []string{"list-groups"},
			want: []string{"compute\thardware\tfalse\tnodes\tg1", "storage\t\tfalse\t\tg2"},
		},
		{
			name: "without category",
			args: []string{"list-groups", "--category", ""},
			want: []string{"storage\t\tfalse\t\tg2"},
		},
		{
			name: "by category",
			args: []string{"list-groups", "--category", "hardware"},
			want: []string{"compute\thardware\tfalse\tnodes\tg1"},
		},
		{
			name: "decommissioned",
			args: []string{"list-groups", "--only-decommissioned"},
			want: []string{"retired\t\ttrue\t\tg3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeInventory(t)
			seedGroups(f)
			app := newTestApp(t, f)

			require.NoError(t, app.run(tt.args...))
			assert.Equal(t, tt.want, app.lines())
		})
	}
}

func TestListGroups_MissingCategory(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	err := app.run("list-groups", "--category", "software")
	require.Error(t, err)
	assert.Equal(t, models.ExitCategoryMissing, models.ExitCodeOf(err))
}

func TestShowGroup(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	require.NoError(t, app.run("show-group", "compute"))
	assert.Equal(t, []string{"compute\thardware\tfalse\tnodes\tg1"}, app.lines())
}

func TestShowGroup_Terminal(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)
	app.TTY = true

	require.NoError(t, app.run("show-group", "storage", "--no-color"))
	assert.Equal(t, []string{
		"Name:           storage",
		"Category:       (none)",
		"Decommissioned: false",
		"Genders Name:   (none)",
	}, app.lines())
}

func TestCreateGroup(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	require.NoError(t, app.run("create-group", "gpu", "--category", "hardware", "--genders-name", "gpus"))

	rec := f.named("assetGroups", "gpu")
	require.NotNil(t, rec)
	assert.Equal(t, "cat1", rec.rels["asset_group_category"])
	assert.Equal(t, "c1", rec.rels["component"])
	assert.Equal(t, "gpus", rec.attrs["unix_name"])
	assert.Equal(t, []string{"gpu\thardware\tfalse\tgpus\tnew-1"}, app.lines())

	err := app.run("create-group", "compute")
	require.Error(t, err)
	assert.Equal(t, models.ExitInput, models.ExitCodeOf(err))
	assert.EqualError(t, err, "Can not create group 'compute' as it already exists!")
}

func TestUpdateGroup_ClearsCategoryAndGendersName(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	require.NoError(t, app.run("update-group", "compute", "--category", "", "--genders-name", ""))

	writes := f.writes()
	require.Len(t, writes, 1)
	var sent fakeDocument
	require.NoError(t, json.Unmarshal(writes[0].Body, &sent))
	assert.Nil(t, sent.Data.Relationships["asset_group_category"].Data)
	assert.Contains(t, sent.Data.Attributes, "unixName")

	rec := f.get("assetGroups", "g1")
	assert.NotContains(t, rec.rels, "asset_group_category")
	assert.NotContains(t, rec.attrs, "unix_name")
}

func TestUpdateGroup_LeavesUnsetOptionsAlone(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	require.NoError(t, app.run("update-group", "compute", "--genders-name", "cn"))

	rec := f.get("assetGroups", "g1")
	assert.Equal(t, "cat1", rec.rels["asset_group_category"])
	assert.Equal(t, "cn", rec.attrs["unix_name"])
}

func TestMoveGroup_IsDeprecated(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	require.NoError(t, app.run("move-group", "storage", "hardware"))
	assert.Contains(t, app.stderr.String(), "WARN: 'move-group' is deprecated")
	assert.Contains(t, app.stderr.String(), "update-group storage --category hardware")
	assert.Equal(t, "cat1", f.get("assetGroups", "g2").rels["asset_group_category"])

	require.NoError(t, app.run("move-group", "storage"))
	assert.Contains(t, app.stderr.String(), "update-group storage --category ''")
	assert.NotContains(t, f.get("assetGroups", "g2").rels, "asset_group_category")
}

func TestDecommissionGroup(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	require.NoError(t, app.run("decommission-group", "storage"))
	assert.Equal(t, true, f.get("assetGroups", "g2").attrs["decommissioned"])

	require.NoError(t, app.run("recommission-group", "retired"))
	assert.Equal(t, false, f.get("assetGroups", "g3").attrs["decommissioned"])
}

func TestCategories(t *testing.T) {
	f := newFakeInventory(t)
	seedGroups(f)
	app := newTestApp(t, f)

	require.NoError(t, app.run("create-category", "software"))
	assert.Equal(t, []string{"software\tnew-1"}, app.lines())

	require.NoError(t, app.run("list-categories"))
	assert.Equal(t, []string{"hardware\tcat1", "software\tnew-1"}, app.lines())

	err := app.run("create-category", "hardware")
	require.Error(t, err)
	assert.Equal(t, models.ExitInput, models.ExitCodeOf(err))
}
