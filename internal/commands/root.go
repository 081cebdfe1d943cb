package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"evalgo.org/flightasset/internal/config"
	"evalgo.org/flightasset/internal/editor"
	"evalgo.org/flightasset/internal/logging"
	"evalgo.org/flightasset/internal/output"
	"evalgo.org/flightasset/internal/version"
	"evalgo.org/flightasset/models"
	"evalgo.org/flightasset/pkg/flightasset/client"
)

// App carries everything a command needs. Fields left nil are filled in
// with the process defaults before the first command runs.
type App struct {
	FS     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	TTY    bool

	// Config skips loading when set.
	Config *config.Config
	Logger hclog.Logger

	HTTPClient *http.Client
	Prompter   Prompter
	Editor     func(command string) *editor.Editor

	cfgFile  string
	logLevel string
	verbose  bool
	noColor  bool

	out    *output.Printer
	closer io.Closer
}

// DefaultApp wires the App to the real process.
func DefaultApp() *App {
	return &App{
		FS:       afero.NewOsFs(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		TTY:      output.IsTerminal(os.Stdout) && output.IsTerminal(os.Stdin),
		Prompter: surveyPrompter{},
	}
}

// Execute runs the command line against the real process.
func Execute(ctx context.Context) error {
	app := DefaultApp()
	defer app.Close()
	return NewRootCommand(app).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flight-asset",
		Short: "Manage Alces Flight Center Assets",
		Long: `flight-asset manages the assets of an Alces Flight Center component.

Assets are organised into groups, groups into categories, and assets and
containers can be placed inside containers such as racks and chassis.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return app.setup() },
	}

	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default: ~/.config/flight/asset/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&app.verbose, "verbose", false, `Display the full details when used in an interactive terminal.
Non-interactive output always has the full details.`)
	rootCmd.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newConfigureCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd(app))
	addAssetCommands(rootCmd, app)
	addGroupCommands(rootCmd, app)
	addCategoryCommands(rootCmd, app)
	addContainerCommands(rootCmd, app)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &models.InputError{Msg: err.Error()}
	})
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
	return rootCmd
}

func (a *App) setup() error {
	if a.FS == nil {
		a.FS = afero.NewOsFs()
	}
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}
	if a.Config == nil {
		cfg, err := config.Load(a.FS, a.cfgFile)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.logLevel != "" {
		a.Config.Logging.Level = a.logLevel
	}
	if a.Logger == nil {
		logger, closer, err := logging.New(a.FS, a.Config.Logging)
		if err != nil {
			return err
		}
		a.Logger, a.closer = logger, closer
	}
	if a.Editor == nil {
		fs := a.FS
		a.Editor = func(command string) *editor.Editor { return editor.New(fs, command) }
	}
	a.out = output.New(a.Stdout, output.Options{TTY: a.TTY, NoColor: a.noColor, ErrOut: a.Stderr})
	return nil
}

// Close releases the log file.
func (a *App) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// connect builds the API client, failing early when the credentials are
// incomplete.
func (a *App) connect() (*client.Client, error) {
	if err := a.Config.RequireConfigured(); err != nil {
		return nil, err
	}
	opts := []client.Option{client.WithLogger(a.Logger.Named("client"))}
	if a.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(a.HTTPClient))
	}
	return client.New(a.Config.ClientConfig(version.UserAgent()), opts...)
}

// full reports whether optional columns such as IDs are shown.
func (a *App) full() bool {
	return a.verbose || !a.TTY
}

func newVersionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Fprintln(app.Stdout, info.String())

			if app.verbose {
				fmt.Fprintf(app.Stdout, "\nDetails:\n")
				fmt.Fprintf(app.Stdout, "  Version:    %s\n", info.Version)
				fmt.Fprintf(app.Stdout, "  Git Commit: %s\n", info.GitCommit)
				fmt.Fprintf(app.Stdout, "  Built:      %s\n", info.BuildTime)
				fmt.Fprintf(app.Stdout, "  Go Version: %s\n", info.GoVersion)
				fmt.Fprintf(app.Stdout, "  Platform:   %s\n", info.Platform)
			}
		},
	}
	return cmd
}
