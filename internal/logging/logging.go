// Package logging builds the diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"evalgo.org/flightasset/internal/config"
)

// Name is the root logger name.
const Name = "flight-asset"

// New returns a logger configured from cfg, writing to cfg.Path when set
// and to stderr otherwise. The returned closer releases the log file.
func New(fs afero.Fs, cfg config.LoggingConfig) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		return nil, nil, fmt.Errorf("unrecognised log level: %q", cfg.Level)
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if cfg.Path != "" {
		if err := fs.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := fs.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level,
		Output:     out,
		JSONFormat: cfg.Format == "json",
	})
	return logger, closer, nil
}
