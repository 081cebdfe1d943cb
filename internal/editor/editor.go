// Package editor opens text in the user's editor and reads it back.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/afero"
)

// Runner starts the editor on a file and waits for it to exit.
type Runner func(ctx context.Context, command []string, path string) error

// Editor edits text through a temporary file.
type Editor struct {
	fs      afero.Fs
	command []string
	run     Runner
}

// New returns an editor running command, which may carry arguments
// ("code --wait").
func New(fs afero.Fs, command string) *Editor {
	return &Editor{fs: fs, command: strings.Fields(command), run: runTerminal}
}

// WithRunner replaces the process runner.
func (e *Editor) WithRunner(run Runner) *Editor {
	e.run = run
	return e
}

// Edit writes initial to a temporary file, opens it in the editor and
// returns the saved contents.
func (e *Editor) Edit(ctx context.Context, initial string) (string, error) {
	if len(e.command) == 0 {
		return "", fmt.Errorf("no editor configured")
	}

	f, err := afero.TempFile(e.fs, "", "flight-asset-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := f.Name()
	defer e.fs.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := e.run(ctx, e.command, path); err != nil {
		return "", fmt.Errorf("editor %s failed: %w", e.command[0], err)
	}

	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(data), nil
}

func runTerminal(ctx context.Context, command []string, path string) error {
	args := append(append([]string{}, command[1:]...), path)
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
