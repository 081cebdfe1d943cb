package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"evalgo.org/flightasset/internal/config"
	"evalgo.org/flightasset/models"
)

func newConfigureCmd(app *App) *cobra.Command {
	var (
		componentID string
		jwt         string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the component and API token used by the other commands",
		Long: `Set the component and API token used by the other commands.

Run without flags in an interactive terminal to be prompted for each value.
The current token is offered masked; accepting the mask keeps it.`,
		Args: inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := config.LoadCredentials(app.FS, app.Config.CredentialsPath)
			if err != nil {
				return err
			}

			flagged := cmd.Flags().Changed("component-id") || cmd.Flags().Changed("jwt")
			switch {
			case flagged:
				if cmd.Flags().Changed("component-id") {
					creds.ComponentID = strings.TrimSpace(componentID)
				}
				if cmd.Flags().Changed("jwt") {
					creds.JWT = strings.TrimSpace(jwt)
				}
			case app.TTY && app.Prompter != nil:
				if err := promptCredentials(app.Prompter, creds); err != nil {
					return err
				}
			default:
				return models.InputErrorf("'configure' needs --component-id or --jwt outside an interactive terminal")
			}

			if err := config.SaveCredentials(app.FS, app.Config.CredentialsPath, creds); err != nil {
				return err
			}
			app.Logger.Info("credentials updated", "path", app.Config.CredentialsPath)
			if app.TTY {
				fmt.Fprintf(app.Stdout, "Credentials saved to %s\n", app.Config.CredentialsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&componentID, "component-id", "", "identifier of the component to manage")
	cmd.Flags().StringVar(&jwt, "jwt", "", "API access token")
	return cmd
}

func promptCredentials(p Prompter, creds *config.Credentials) error {
	id, err := p.Input("Component Identifier:", creds.ComponentID)
	if err != nil {
		return err
	}
	creds.ComponentID = strings.TrimSpace(id)

	masked := config.MaskedJWT(creds.JWT)
	token, err := p.Input("Flight Center API token:", masked)
	if err != nil {
		return err
	}
	if token = strings.TrimSpace(token); token != masked {
		creds.JWT = token
	}
	return nil
}

func newConfigCmd(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration. The API token is masked.`,
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *app.Config
			shown.JWT = config.MaskedJWT(shown.JWT)

			data, err := yaml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprint(app.Stdout, string(data))
			return nil
		},
	}

	configCmd.AddCommand(showCmd)
	return configCmd
}
