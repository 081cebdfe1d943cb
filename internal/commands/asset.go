package commands

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/spf13/cobra"

	"evalgo.org/flightasset/internal/output"
	"evalgo.org/flightasset/models"
	"evalgo.org/flightasset/pkg/flightasset/client"
)

func addAssetCommands(root *cobra.Command, app *App) {
	root.AddCommand(
		newListAssetsCmd(app),
		newShowAssetCmd(app),
		newCreateAssetCmd(app),
		newUpdateAssetCmd(app),
		newEditAssetCmd(app),
		newRenameAssetCmd(app),
		newDecommissionAssetCmd(app, "decommission-asset", true),
		newDecommissionAssetCmd(app, "recommission-asset", false),
		newMoveAssetCmd(app),
		newPlaceAssetCmd(app),
		newOrphanAssetCmd(app),
	)
}

// assetFields is the sparse fieldset requested by the asset listing.
var assetFields = []models.Field{
	models.FieldName, models.FieldSupportType, models.FieldSupportTypeInherited,
	models.FieldDecommissioned, models.RelAssetGroup, models.RelParentContainer,
}

func newListAssetsCmd(app *App) *cobra.Command {
	var (
		group  string
		filter decommissionFilter
	)

	cmd := &cobra.Command{
		Use:     "list-assets",
		Aliases: []string{"list"},
		Short:   "List the assets of the component",
		Long: `List the assets of the component, sorted by name.

Use --group NAME to list the assets of a single group and --group '' to list
the assets that are not in any group.`,
		Args: inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var fields []string
			for _, f := range assetFields {
				fields = append(fields, f.Keys()...)
			}
			q := &client.Query{Fields: map[string][]string{models.AssetKind.Type: fields}}

			var seq iter.Seq2[*models.Asset, error]
			ungrouped := false
			switch {
			case !cmd.Flags().Changed("group"):
				seq = c.Assets.Index(ctx, q)
			case group == "":
				ungrouped = true
				seq = c.Assets.Index(ctx, q)
			default:
				g, err := c.Groups.FindByName(ctx, group, true)
				if err != nil {
					return err
				}
				link, err := client.RelatedURL(g.Resource, models.RelAssets)
				if err != nil {
					return err
				}
				seq = c.Assets.IndexAt(ctx, link, q)
			}

			var assets []*models.Asset
			for asset, err := range seq {
				if err != nil {
					return err
				}
				if !filter.keep(asset.Decommissioned()) {
					continue
				}
				if ungrouped {
					if id, _, err := asset.Linkage(models.RelAssetGroup); err != nil {
						return err
					} else if id != nil {
						continue
					}
				}
				assets = append(assets, asset)
			}
			sortByName(assets)

			return renderAssets(app, assets)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "only list the assets in this group ('' for ungrouped assets)")
	filter.register(cmd, "assets")
	return cmd
}

func renderAssets(app *App, assets []*models.Asset) error {
	distinguish := app.Config.DistinguishInheritedSupportType && app.TTY

	var headers []string
	if app.TTY {
		headers = []string{"Name", "Support Type", "Asset Group", "Group Genders Name", "Decommissioned"}
	} else {
		headers = []string{"Name", "Support Type", "Asset Group", "Decommissioned", "Group Genders Name"}
	}
	if app.full() {
		headers = append(headers, "ID")
	}

	rows := make([][]string, 0, len(assets))
	for _, asset := range assets {
		g, err := asset.Group()
		if err != nil {
			return err
		}
		groupName, genders := "", ""
		if g != nil {
			groupName, genders = g.Name(), g.UnixName()
		}
		support := models.Describe(asset.SupportType(), asset.SupportTypeInherited(), distinguish)

		var row []string
		if app.TTY {
			row = []string{asset.Name(), support, groupName, genders, yesNo(asset.Decommissioned())}
		} else {
			row = []string{asset.Name(), support, groupName, yesNo(asset.Decommissioned()), genders}
		}
		if app.full() {
			row = append(row, asset.ID)
		}
		rows = append(rows, row)
	}
	app.out.Table(headers, rows)
	return nil
}

// assetRecord builds the detail view of an asset.
func assetRecord(ctx context.Context, app *App, c *client.Client, asset *models.Asset) ([]output.Field, error) {
	groupName, err := nameOf[*models.AssetGroup](asset.Group())
	if err != nil {
		return nil, err
	}
	containerName, err := nameOf[*models.Container](asset.Container())
	if err != nil {
		return nil, err
	}
	componentName, err := componentOf(ctx, app, c, asset)
	if err != nil {
		return nil, err
	}
	x, y := formatRange(asset.Position())
	distinguish := app.Config.DistinguishInheritedSupportType && app.TTY

	fields := []output.Field{
		{Label: "Name", Value: asset.Name()},
		{Label: "Support Type", Value: models.Describe(asset.SupportType(), asset.SupportTypeInherited(), distinguish)},
		{Label: "Decommissioned", Value: yesNo(asset.Decommissioned())},
		{Label: "Component", Value: componentName},
		{Label: "Asset Group", Value: groupName},
		{Label: "Additional Information", Value: asset.Info()},
		{Label: "Container", Value: containerName},
		{Label: "X Position", Value: x},
		{Label: "Y Position", Value: y},
	}
	if app.full() {
		fields = append(fields, output.Field{Label: "ID", Value: asset.ID})
	}
	return fields, nil
}

// componentOf names the owning component, fetching it when the server did
// not sideload it.
func componentOf(ctx context.Context, app *App, c *client.Client, asset *models.Asset) (string, error) {
	component, err := asset.Component()
	if err != nil {
		return "", err
	}
	id := app.Config.ComponentID
	if component != nil {
		if name := component.Name(); name != "" {
			return name, nil
		}
		id = component.ID
	}
	if id == "" {
		return "", nil
	}
	component, err = c.Components.Fetch(ctx, id)
	if err != nil {
		return "", err
	}
	return component.Name(), nil
}

func showAsset(ctx context.Context, app *App, c *client.Client, asset *models.Asset) error {
	fields, err := assetRecord(ctx, app, c, asset)
	if err != nil {
		return err
	}
	app.out.Record(fields)
	return nil
}

func findAsset(ctx context.Context, c *client.Client, name string) (*models.Asset, error) {
	return c.Assets.FindByName(ctx, name, true)
}

func newShowAssetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show-asset NAME",
		Aliases: []string{"show"},
		Short:   "Show the details of an asset",
		Args:    inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			asset, err := findAsset(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}
}

type assetOptions struct {
	supportType string
	info        string
	group       string
}

func (o *assetOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.supportType, "support-type", "", "support type: managed, advice, collaborative or inherit")
	cmd.Flags().StringVar(&o.info, "info", "", "additional information, or @FILE to read it from a file")
	cmd.Flags().StringVar(&o.group, "group", "", "the asset group")
}

// attributes collects the attributes given on the command line.
func (o *assetOptions) attributes(cmd *cobra.Command, app *App) (models.Attributes, error) {
	attrs := models.Attributes{}
	if cmd.Flags().Changed("support-type") {
		st, err := models.ParseSupportType(o.supportType)
		if err != nil {
			return nil, err
		}
		attrs.Set(models.FieldSupportType, st.String())
	}
	if cmd.Flags().Changed("info") {
		info, err := readInfo(app.FS, o.info)
		if err != nil {
			return nil, err
		}
		attrs.Set(models.FieldInfo, info)
	}
	return attrs, nil
}

func newCreateAssetCmd(app *App) *cobra.Command {
	var opts assetOptions

	cmd := &cobra.Command{
		Use:     "create-asset NAME",
		Aliases: []string{"create"},
		Short:   "Create a new asset",
		Long: `Create a new asset.

Without --group the asset is created outside of any group.`,
		Args: inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			dummy := app.Config.CreateDummyGroupName
			grouped := cmd.Flags().Changed("group") && opts.group != ""
			if grouped && opts.group == dummy {
				return models.InputErrorf("Cowardly refusing to create an asset in: %s", dummy)
			}

			attrs, err := opts.attributes(cmd, app)
			if err != nil {
				return err
			}
			if !attrs.Has(models.FieldInfo) {
				attrs.Set(models.FieldInfo, "")
			}
			attrs.Set(models.FieldName, name)

			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			existing, err := c.Assets.FindByName(ctx, name, false)
			if err != nil {
				return err
			}
			if existing != nil {
				return models.InputErrorf("Can not create asset '%s' as it already exists!", name)
			}

			// The server requires a group on creation. Ungrouped assets are
			// created in the placeholder group and detached straight away.
			groupName := opts.group
			if !grouped {
				groupName = dummy
			}
			group, err := c.Groups.FindByName(ctx, groupName, true)
			if err != nil {
				return err
			}

			asset, err := c.Assets.Create(ctx, attrs, models.Targets{
				models.RelComponent:  models.To(c.Component()),
				models.RelAssetGroup: models.To(group),
			})
			if err != nil {
				return err
			}
			app.Logger.Info("created asset", "name", name, "id", asset.ID)

			if !grouped {
				if asset, err = c.Assets.Move(ctx, asset, models.RelAssetGroup, models.None); err != nil {
					return fmt.Errorf("asset %s was created in %s but could not be removed from it: %w", name, dummy, err)
				}
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}

	opts.register(cmd)
	return cmd
}

func newUpdateAssetCmd(app *App) *cobra.Command {
	var opts assetOptions

	cmd := &cobra.Command{
		Use:     "update-asset NAME",
		Aliases: []string{"update"},
		Short:   "Update the details of an asset",
		Long: `Update the details of an asset.

Only the options given are changed. Use --group '' to remove the asset from
its group.`,
		Args: inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := opts.attributes(cmd, app)
			if err != nil {
				return err
			}

			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			asset, err := findAsset(ctx, c, args[0])
			if err != nil {
				return err
			}

			targets := models.Targets{}
			if cmd.Flags().Changed("group") {
				target, err := groupTarget(ctx, c, opts.group)
				if err != nil {
					return err
				}
				targets[models.RelAssetGroup] = target
			}

			asset, err = c.Assets.Update(ctx, asset, attrs, targets)
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}

	opts.register(cmd)
	return cmd
}

// groupTarget resolves a --group value. An empty name detaches.
func groupTarget(ctx context.Context, c *client.Client, name string) (models.Target, error) {
	if strings.TrimSpace(name) == "" {
		return models.None, nil
	}
	group, err := c.Groups.FindByName(ctx, name, true)
	if err != nil {
		return models.Omitted, err
	}
	return models.To(group), nil
}

func newEditAssetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "edit-asset NAME",
		Aliases: []string{"edit"},
		Short:   "Edit the additional information of an asset in your editor",
		Args:    inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.TTY {
				return &models.InteractiveOnlyError{Command: "edit-asset"}
			}
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			asset, err := findAsset(ctx, c, args[0])
			if err != nil {
				return err
			}
			info, err := app.Editor(app.Config.EditorCommand()).Edit(ctx, asset.Info())
			if err != nil {
				return err
			}
			if info == asset.Info() {
				app.out.Warn("the additional information is unchanged")
				return showAsset(cmd.Context(), app, c, asset)
			}

			attrs := models.Attributes{}
			attrs.Set(models.FieldInfo, info)
			asset, err = c.Assets.Update(ctx, asset, attrs, nil)
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}
}

func newRenameAssetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rename-asset OLD_NAME NEW_NAME",
		Aliases: []string{"rename"},
		Short:   "Rename an asset",
		Args:    inputArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			asset, err := findAsset(ctx, c, args[0])
			if err != nil {
				return err
			}
			clash, err := c.Assets.FindByName(ctx, args[1], false)
			if err != nil {
				return err
			}
			if clash != nil {
				return models.InputErrorf("Can not rename asset '%s' as '%s' already exists!", args[0], args[1])
			}

			attrs := models.Attributes{}
			attrs.Set(models.FieldName, args[1])
			asset, err = c.Assets.Update(ctx, asset, attrs, nil)
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}
}

func newDecommissionAssetCmd(app *App, use string, decommissioned bool) *cobra.Command {
	short := "Decommission an asset"
	alias := "decommission"
	if !decommissioned {
		short, alias = "Return a decommissioned asset to service", "recommission"
	}
	return &cobra.Command{
		Use:     use + " NAME",
		Aliases: []string{alias},
		Short:   short,
		Args:    inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			asset, err := findAsset(ctx, c, args[0])
			if err != nil {
				return err
			}
			attrs := models.Attributes{}
			attrs.Set(models.FieldDecommissioned, decommissioned)
			asset, err = c.Assets.Update(ctx, asset, attrs, nil)
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}
}

func newMoveAssetCmd(app *App) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:     "move-asset NAME",
		Aliases: []string{"move"},
		Short:   "Move an asset to another group",
		Long: `Move an asset to another group.

Without --group, or with --group '', the asset is removed from its group.`,
		Args: inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			asset, err := findAsset(ctx, c, args[0])
			if err != nil {
				return err
			}
			target, err := groupTarget(ctx, c, group)
			if err != nil {
				return err
			}
			asset, err = c.Assets.Move(ctx, asset, models.RelAssetGroup, target)
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "the group to move the asset to")
	return cmd
}

func newPlaceAssetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "place-asset NAME CONTAINER X_START X_END Y_START Y_END",
		Aliases: []string{"place"},
		Short:   "Place an asset inside a container",
		Args:    inputArgs(cobra.ExactArgs(6)),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange(args[2:])
			if err != nil {
				return err
			}
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			asset, err := findAsset(ctx, c, args[0])
			if err != nil {
				return err
			}
			container, err := c.Containers.FindByName(ctx, args[1], true)
			if err != nil {
				return err
			}
			asset, err = c.Assets.Place(ctx, asset, container, rng)
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}
}

func newOrphanAssetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "orphan-asset NAME",
		Aliases: []string{"orphan"},
		Short:   "Remove an asset from its container",
		Args:    inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			asset, err := findAsset(ctx, c, args[0])
			if err != nil {
				return err
			}
			asset, err = c.Assets.Orphan(ctx, asset)
			if err != nil {
				return err
			}
			return showAsset(cmd.Context(), app, c, asset)
		},
	}
}
