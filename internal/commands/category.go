package commands

import (
	"github.com/spf13/cobra"

	"evalgo.org/flightasset/internal/output"
	"evalgo.org/flightasset/models"
)

func addCategoryCommands(root *cobra.Command, app *App) {
	root.AddCommand(newListCategoriesCmd(app), newCreateCategoryCmd(app))
}

func newListCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List the asset group categories",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect()
			if err != nil {
				return err
			}
			categories, err := c.Categories.List(cmd.Context(), nil)
			if err != nil {
				return err
			}
			sortByName(categories)

			headers := []string{"Name"}
			if app.full() {
				headers = append(headers, "ID")
			}
			rows := make([][]string, 0, len(categories))
			for _, cat := range categories {
				row := []string{cat.Name()}
				if app.full() {
					row = append(row, cat.ID)
				}
				rows = append(rows, row)
			}
			app.out.Table(headers, rows)
			return nil
		},
	}
}

func newCreateCategoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create-category NAME",
		Short: "Create a new asset group category",
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			c, err := app.connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			existing, err := c.Categories.FindByName(ctx, name, false)
			if err != nil {
				return err
			}
			if existing != nil {
				return models.InputErrorf("Can not create category '%s' as it already exists!", name)
			}

			attrs := models.Attributes{}
			attrs.Set(models.FieldName, name)
			cat, err := c.Categories.Create(ctx, attrs, nil)
			if err != nil {
				return err
			}

			fields := []output.Field{{Label: "Name", Value: cat.Name()}}
			if app.full() {
				fields = append(fields, output.Field{Label: "ID", Value: cat.ID})
			}
			app.out.Record(fields)
			return nil
		},
	}
}
