package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"evalgo.org/flightasset/internal/output"
	"evalgo.org/flightasset/models"
	"evalgo.org/flightasset/pkg/flightasset/client"
)

func addGroupCommands(root *cobra.Command, app *App) {
	root.AddCommand(
		newListGroupsCmd(app),
		newShowGroupCmd(app),
		newCreateGroupCmd(app),
		newUpdateGroupCmd(app),
		newMoveGroupCmd(app),
		newDecommissionGroupCmd(app, "decommission-group", true),
		newDecommissionGroupCmd(app, "recommission-group", false),
	)
}

func newListGroupsCmd(app *App) *cobra.Command {
	var (
		category string
		filter   decommissionFilter
	)

	cmd := &cobra.Command{
		Use:   "list-groups",
		Short: "List the asset groups of the component",
		Long: `List the asset groups of the component, sorted by name.

Use --category NAME to list the groups of a single category and
--category '' to list the groups without one.`,
		Args: inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			byCategory := cmd.Flags().Changed("category")
			var want *models.Identifier
			if byCategory && category != "" {
				cat, err := c.Categories.FindByName(ctx, category, true)
				if err != nil {
					return err
				}
				id := cat.Identifier()
				want = &id
			}

			var groups []*models.AssetGroup
			for group, err := range c.Groups.Index(ctx, nil) {
				if err != nil {
					return err
				}
				if !filter.keep(group.Decommissioned()) {
					continue
				}
				if byCategory {
					id, _, err := group.Linkage(models.RelCategory)
					if err != nil {
						return err
					}
					if !sameCategory(id, want) {
						continue
					}
				}
				groups = append(groups, group)
			}
			sortByName(groups)

			headers := []string{"Name", "Category", "Decommissioned", "Genders Name"}
			if app.full() {
				headers = append(headers, "ID")
			}
			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				catName, err := nameOf[*models.Category](group.Category())
				if err != nil {
					return err
				}
				row := []string{group.Name(), catName, yesNo(group.Decommissioned()), group.UnixName()}
				if app.full() {
					row = append(row, group.ID)
				}
				rows = append(rows, row)
			}
			app.out.Table(headers, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list the groups in this category ('' for groups without one)")
	filter.register(cmd, "groups")
	return cmd
}

func sameCategory(got, want *models.Identifier) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	return got.ID == want.ID
}

func showGroup(app *App, group *models.AssetGroup) error {
	catName, err := nameOf[*models.Category](group.Category())
	if err != nil {
		return err
	}
	fields := []output.Field{
		{Label: "Name", Value: group.Name()},
		{Label: "Category", Value: catName},
		{Label: "Decommissioned", Value: yesNo(group.Decommissioned())},
		{Label: "Genders Name", Value: group.UnixName()},
	}
	if app.full() {
		fields = append(fields, output.Field{Label: "ID", Value: group.ID})
	}
	app.out.Record(fields)
	return nil
}

func newShowGroupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show-group NAME",
		Short: "Show the details of an asset group",
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			group, err := c.Groups.FindByName(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			return showGroup(app, group)
		},
	}
}

type groupOptions struct {
	category    string
	gendersName string
}

func (o *groupOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.category, "category", "", "the category of the group ('' for none)")
	cmd.Flags().StringVar(&o.gendersName, "genders-name", "", "the genders name of the group ('' to clear it)")
}

func (o *groupOptions) attributes(cmd *cobra.Command) models.Attributes {
	attrs := models.Attributes{}
	if cmd.Flags().Changed("genders-name") {
		if name := strings.TrimSpace(o.gendersName); name != "" {
			attrs.Set(models.FieldUnixName, name)
		} else {
			attrs.Unset(models.FieldUnixName)
		}
	}
	return attrs
}

// categoryTarget resolves a --category value. An empty name detaches.
func categoryTarget(ctx context.Context, c *client.Client, name string) (models.Target, error) {
	if strings.TrimSpace(name) == "" {
		return models.None, nil
	}
	cat, err := c.Categories.FindByName(ctx, name, true)
	if err != nil {
		return models.Omitted, err
	}
	return models.To(cat), nil
}

func newCreateGroupCmd(app *App) *cobra.Command {
	var opts groupOptions

	cmd := &cobra.Command{
		Use:   "create-group NAME",
		Short: "Create a new asset group",
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			existing, err := c.Groups.FindByName(ctx, name, false)
			if err != nil {
				return err
			}
			if existing != nil {
				return models.InputErrorf("Can not create group '%s' as it already exists!", name)
			}

			attrs := opts.attributes(cmd)
			attrs.Set(models.FieldName, name)
			targets := models.Targets{models.RelComponent: models.To(c.Component())}
			if opts.category != "" {
				if targets[models.RelCategory], err = categoryTarget(ctx, c, opts.category); err != nil {
					return err
				}
			}

			group, err := c.Groups.Create(ctx, attrs, targets)
			if err != nil {
				return err
			}
			app.Logger.Info("created group", "name", name, "id", group.ID)
			return showGroup(app, group)
		},
	}

	opts.register(cmd)
	return cmd
}

func newUpdateGroupCmd(app *App) *cobra.Command {
	var opts groupOptions

	cmd := &cobra.Command{
		Use:   "update-group NAME",
		Short: "Update the details of an asset group",
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			group, err := c.Groups.FindByName(ctx, args[0], true)
			if err != nil {
				return err
			}
			targets := models.Targets{}
			if cmd.Flags().Changed("category") {
				if targets[models.RelCategory], err = categoryTarget(ctx, c, opts.category); err != nil {
					return err
				}
			}

			group, err = c.Groups.Update(ctx, group, opts.attributes(cmd), targets)
			if err != nil {
				return err
			}
			return showGroup(app, group)
		},
	}

	opts.register(cmd)
	return cmd
}

func newMoveGroupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move-group NAME [CATEGORY]",
		Short: "Move an asset group to another category (deprecated)",
		Long: `Move an asset group to another category.

Deprecated: use 'update-group NAME --category CATEGORY' instead.`,
		Args: inputArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, shown := "", "''"
			if len(args) == 2 {
				category, shown = args[1], args[1]
			}
			app.out.Warn("'move-group' is deprecated, please use: %s",
				app.out.Highlight("update-group "+args[0]+" --category "+shown))

			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			group, err := c.Groups.FindByName(ctx, args[0], true)
			if err != nil {
				return err
			}
			target, err := categoryTarget(ctx, c, category)
			if err != nil {
				return err
			}
			group, err = c.Groups.Move(ctx, group, models.RelCategory, target)
			if err != nil {
				return err
			}
			return showGroup(app, group)
		},
	}
}

func newDecommissionGroupCmd(app *App, use string, decommissioned bool) *cobra.Command {
	short := "Decommission an asset group"
	if !decommissioned {
		short = "Return a decommissioned asset group to service"
	}
	return &cobra.Command{
		Use:   use + " NAME",
		Short: short,
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			group, err := c.Groups.FindByName(ctx, args[0], true)
			if err != nil {
				return err
			}
			attrs := models.Attributes{}
			attrs.Set(models.FieldDecommissioned, decommissioned)
			group, err = c.Groups.Update(ctx, group, attrs, nil)
			if err != nil {
				return err
			}
			return showGroup(app, group)
		},
	}
}
