// Package config provides configuration management for flight-asset.
//
// Configuration is loaded from the following sources, later sources
// overriding earlier ones:
//  1. Default values
//  2. The configuration file (--config, ./config.yaml,
//     ~/.config/flight/asset/config.yaml or /etc/flight-asset/config.yaml)
//  3. The credentials file written by "configure"
//  4. Environment variables (FLIGHT_ASSET_ prefix)
//
// Use underscores for nested keys in the environment:
//   - FLIGHT_ASSET_BASE_URL=https://center.example.com
//   - FLIGHT_ASSET_LOGGING_LEVEL=debug
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"evalgo.org/flightasset/models"
	"evalgo.org/flightasset/pkg/flightasset/client"
)

// EnvPrefix is the prefix of configuration environment variables.
const EnvPrefix = "FLIGHT_ASSET"

// Config is the root configuration structure.
type Config struct {
	// BaseURL is the root of the Flight Center service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`

	// APIPrefix is prepended to every relative API path.
	APIPrefix string `mapstructure:"api_prefix" yaml:"api_prefix"`

	// JWT is the API bearer token.
	JWT string `mapstructure:"jwt" yaml:"jwt"`

	// ComponentID identifies the component whose assets are managed.
	ComponentID string `mapstructure:"component_id" yaml:"component_id"`

	// PageSize is requested for every paginated collection.
	PageSize int `mapstructure:"page_size" yaml:"page_size" validate:"min=1,max=1000"`

	// Timeout bounds every request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`

	// RequestsPerSecond paces requests; zero disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`

	// DistinguishInheritedSupportType marks inherited support types in output.
	DistinguishInheritedSupportType bool `mapstructure:"distinguish_inherited_support_type" yaml:"distinguish_inherited_support_type"`

	// CreateDummyGroupName is the group new ungrouped assets pass through.
	CreateDummyGroupName string `mapstructure:"create_dummy_group_name" yaml:"create_dummy_group_name" validate:"required"`

	AppName         string `mapstructure:"app_name" yaml:"app_name" validate:"required"`
	CredentialsPath string `mapstructure:"credentials_path" yaml:"credentials_path" validate:"required"`
	Editor          string `mapstructure:"editor" yaml:"editor"`

	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, off)
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error off"`

	// Path is the log file; empty logs to stderr
	Path string `mapstructure:"path" yaml:"path"`

	// Format is the log format (text, json)
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// Load reads configuration from a file, the credentials file and the
// environment. If cfgFile is empty the standard locations are searched.
func Load(fs afero.Fs, cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "flight", "asset"))
		}
		v.AddConfigPath("/etc/flight-asset")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The credentials file sits between the config file and the environment.
	creds, err := LoadCredentials(fs, ExpandPath(v.GetString("credentials_path")))
	if err != nil {
		return nil, err
	}
	overrides := map[string]any{}
	if creds.ComponentID != "" {
		overrides["component_id"] = creds.ComponentID
	}
	if creds.JWT != "" {
		overrides["jwt"] = creds.JWT
	}
	if len(overrides) > 0 {
		if err := v.MergeConfigMap(overrides); err != nil {
			return nil, fmt.Errorf("error merging credentials: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.CredentialsPath = ExpandPath(cfg.CredentialsPath)
	cfg.Logging.Path = ExpandPath(cfg.Logging.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://center.alces-flight.com")
	v.SetDefault("api_prefix", "/api/v1")
	v.SetDefault("jwt", "")
	v.SetDefault("component_id", "")
	v.SetDefault("page_size", 50)
	v.SetDefault("timeout", "30s")
	v.SetDefault("requests_per_second", 0)
	v.SetDefault("distinguish_inherited_support_type", false)
	v.SetDefault("create_dummy_group_name", "ignore-me")
	v.SetDefault("app_name", "flight-asset")
	v.SetDefault("credentials_path", "~/.config/flight/asset/credentials.yaml")
	v.SetDefault("editor", "")

	v.SetDefault("logging.level", "error")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.format", "text")
}

// Validate checks every field and reports all problems together.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var result *multierror.Error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, fmt.Errorf("%s: failed %q check (got %v)", fieldKey(fe), fe.Tag(), fe.Value()))
	}
	return result.ErrorOrNil()
}

// fieldKey turns a validator namespace ("Config.Logging.Level") into the
// configuration key ("logging.level").
func fieldKey(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strcase.ToSnake(p)
	}
	return strings.Join(parts, ".")
}

// Configured reports whether the component and token are set.
func (c *Config) Configured() bool {
	return c.ComponentID != "" && c.JWT != ""
}

// RequireConfigured fails with an InputError pointing at "configure" when
// the credentials are incomplete.
func (c *Config) RequireConfigured() error {
	if c.Configured() {
		return nil
	}
	return models.InputErrorf("the application has not been configured, please run '%s configure'", c.AppName)
}

// ClientConfig builds the explicit configuration handed to the API client.
func (c *Config) ClientConfig(userAgent string) client.Config {
	return client.Config{
		BaseURL:           c.BaseURL,
		APIPrefix:         c.APIPrefix,
		Token:             c.JWT,
		ComponentID:       c.ComponentID,
		PageSize:          c.PageSize,
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		UserAgent:         userAgent,
	}
}

// EditorCommand returns the configured editor, then $VISUAL, then $EDITOR,
// then vi.
func (c *Config) EditorCommand() string {
	for _, candidate := range []string{c.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if candidate != "" {
			return candidate
		}
	}
	return "vi"
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return errors.Is(err, os.ErrNotExist)
}
