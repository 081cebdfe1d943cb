package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"evalgo.org/flightasset/internal/output"
	"evalgo.org/flightasset/models"
	"evalgo.org/flightasset/pkg/flightasset/client"
)

func addContainerCommands(root *cobra.Command, app *App) {
	root.AddCommand(
		newListContainersCmd(app),
		newShowContainerCmd(app),
		newCreateContainerCmd(app),
		newMoveContainerCmd(app),
		newOrphanContainerCmd(app),
	)
}

func newListContainersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list-containers",
		Short: "List the containers of the component",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			containers, err := c.Containers.List(cmd.Context(), nil)
			if err != nil {
				return err
			}
			sortByName(containers)

			headers := []string{"Name", "Type", "X Capacity", "Y Capacity"}
			if app.full() {
				headers = append(headers, "ID")
			}
			rows := make([][]string, 0, len(containers))
			for _, container := range containers {
				capacity := container.Capacity()
				row := []string{container.Name(), container.ContainerType(), formatInt(capacity.X), formatInt(capacity.Y)}
				if app.full() {
					row = append(row, container.ID)
				}
				rows = append(rows, row)
			}
			app.out.Table(headers, rows)
			return nil
		},
	}
}

func showContainerRecord(app *App, container *models.Container) {
	capacity := container.Capacity()
	fields := []output.Field{
		{Label: "Name", Value: container.Name()},
		{Label: "Type", Value: container.ContainerType()},
		{Label: "X Capacity", Value: formatInt(capacity.X)},
		{Label: "Y Capacity", Value: formatInt(capacity.Y)},
	}
	if app.full() {
		fields = append(fields, output.Field{Label: "ID", Value: container.ID})
	}
	app.out.Record(fields)
}

func location(typ, name string) string {
	return fmt.Sprintf("%s - %s", typ, name)
}

// placement is one line of the machine layout for a placed record: name,
// type and the four bounds as separate columns.
func placement(name, typ string, rng *models.PositionRange) []output.Field {
	fields := []output.Field{{Value: name}, {Value: typ}}
	bounds := []string{"", "", "", ""}
	if rng != nil {
		bounds = []string{
			strconv.Itoa(rng.XStart), strconv.Itoa(rng.XEnd),
			strconv.Itoa(rng.YStart), strconv.Itoa(rng.YEnd),
		}
	}
	for _, b := range bounds {
		fields = append(fields, output.Field{Value: b})
	}
	return fields
}

// showContainer prints a container with where it sits and what it holds.
// Every container command ends with it so the result of a move is visible.
func showContainer(ctx context.Context, app *App, c *client.Client, container *models.Container) error {
	parent, err := c.Parent(ctx, container.Resource)
	if err != nil {
		return err
	}
	children, err := c.ListChildren(ctx, container)
	if err != nil {
		return err
	}

	showContainerRecord(app, container)

	if !app.TTY {
		// A container without a parent still gets its (empty) parent line.
		if parent != nil {
			app.out.Record(placement(parent.Name(), parent.ContainerType(), container.Position()))
		} else {
			app.out.Record(nil)
		}
		for _, child := range children {
			app.out.Record(placement(child.Name, childType(child), child.Range))
		}
		return nil
	}

	app.out.Blank()
	parentLocation := ""
	if parent != nil {
		parentLocation = location(parent.ContainerType(), parent.Name())
	}
	x, y := formatRange(container.Position())
	app.out.Record([]output.Field{
		{Label: "Location", Value: parentLocation},
		{Label: "X Position", Value: x},
		{Label: "Y Position", Value: y},
	})
	app.out.Blank()

	rows := make([][]string, 0, len(children))
	for _, child := range children {
		x, y := formatRange(child.Range)
		rows = append(rows, []string{location(childType(child), child.Name), x, y})
	}
	app.out.Table([]string{"Contents", "X Position", "Y Position"}, rows)
	return nil
}

// childType is the container type of a child container, or "asset".
func childType(child models.Child) string {
	if child.Kind.Type != models.ContainerKind.Type {
		return child.Kind.Name
	}
	typ, _ := child.Resource.Attributes.String(models.FieldContainerType)
	return typ
}

func newShowContainerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show-container NAME",
		Short: "Show a container, its parent and its contents",
		Long: `Show a container, where it sits inside its parent and the containers and
assets directly inside it. Children are listed row by row, then column by
column; children without a position come last.`,
		Args: inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			container, err := c.Containers.FindByName(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			return showContainer(cmd.Context(), app, c, container)
		},
	}
}

func newCreateContainerCmd(app *App) *cobra.Command {
	var containerType, xCapacity, yCapacity string

	cmd := &cobra.Command{
		Use:   "create-container NAME --type TYPE --x-capacity X --y-capacity Y",
		Short: "Create a new container",
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var missing []string
			for _, flag := range []string{"type", "x-capacity", "y-capacity"} {
				if !cmd.Flags().Changed(flag) {
					missing = append(missing, "--"+flag)
				}
			}
			if len(missing) > 0 {
				return models.InputErrorf("the following required options are missing: %s", strings.Join(missing, ", "))
			}
			x, err := parseCapacity("x-capacity", xCapacity)
			if err != nil {
				return err
			}
			y, err := parseCapacity("y-capacity", yCapacity)
			if err != nil {
				return err
			}

			name := args[0]
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			existing, err := c.Containers.FindByName(ctx, name, false)
			if err != nil {
				return err
			}
			if existing != nil {
				return models.InputErrorf("Can not create container '%s' as it already exists!", name)
			}

			attrs := models.Attributes{}
			attrs.Set(models.FieldName, name)
			attrs.Set(models.FieldContainerType, containerType)
			attrs.Set(models.FieldXCapacity, x)
			attrs.Set(models.FieldYCapacity, y)
			container, err := c.Containers.Create(ctx, attrs, models.Targets{
				models.RelComponent: models.To(c.Component()),
			})
			if err != nil {
				return err
			}
			app.Logger.Info("created container", "name", name, "id", container.ID)
			return showContainer(ctx, app, c, container)
		},
	}

	cmd.Flags().StringVar(&containerType, "type", "", "the type of the container, e.g. rack or chassis")
	cmd.Flags().StringVar(&xCapacity, "x-capacity", "", "the number of columns in the container")
	cmd.Flags().StringVar(&yCapacity, "y-capacity", "", "the number of rows in the container")
	return cmd
}

// moveContainerArgs is the usage shown when move-container gets an
// incomplete position.
var moveContainerArgs = []string{"PARENT", "X_START", "X_END", "Y_START", "Y_END"}

func newMoveContainerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move-container NAME [PARENT X_START X_END Y_START Y_END]",
		Short: "Place a container inside another container",
		Long: `Place a container inside another container.

Given only NAME, or an empty PARENT, the container is removed from its
current parent.`,
		Args: inputArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			orphan := len(args) == 1 || (len(args) == 2 && args[1] == "")
			if !orphan && len(args) != 6 {
				if len(args) > 6 {
					return models.InputErrorf("too many arguments, expected at most %d", 6)
				}
				return models.InputErrorf("missing the position arguments: %s",
					strings.Join(moveContainerArgs[len(args)-1:], " "))
			}

			var rng models.PositionRange
			if !orphan {
				var err error
				if rng, err = parseRange(args[2:]); err != nil {
					return err
				}
			}

			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			container, err := c.Containers.FindByName(ctx, args[0], true)
			if err != nil {
				return err
			}
			if orphan {
				container, err = c.Containers.Orphan(ctx, container)
			} else {
				var parent *models.Container
				if parent, err = c.Containers.FindByName(ctx, args[1], true); err != nil {
					return err
				}
				if parent.ID == container.ID {
					return models.InputErrorf("can not move container '%s' inside itself", container.Name())
				}
				container, err = c.Containers.Place(ctx, container, parent, rng)
			}
			if err != nil {
				return err
			}
			return showContainer(ctx, app, c, container)
		},
	}
}

func newOrphanContainerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "orphan-container NAME",
		Short: "Remove a container from its parent",
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			container, err := c.Containers.FindByName(ctx, args[0], true)
			if err != nil {
				return err
			}
			if container, err = c.Containers.Orphan(ctx, container); err != nil {
				return err
			}
			return showContainer(ctx, app, c, container)
		},
	}
}
