package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Credentials are the per-user settings written by "configure".
type Credentials struct {
	ComponentID string `yaml:"component_id,omitempty"`
	JWT         string `yaml:"jwt,omitempty"`
}

// LoadCredentials reads the credentials file. A missing file yields empty
// credentials.
func LoadCredentials(fs afero.Fs, path string) (*Credentials, error) {
	creds := &Credentials{}
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check credentials file: %w", err)
	}
	if !exists {
		return creds, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if err := yaml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	return creds, nil
}

// SaveCredentials writes the credentials file, readable by the owner only.
func SaveCredentials(fs afero.Fs, path string, creds *Credentials) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// MaskedJWT hides all but the last eight characters of a token so it can be
// offered as a prompt default without being shown.
func MaskedJWT(jwt string) string {
	if jwt == "" {
		return ""
	}
	if len(jwt) < 8 {
		return strings.Repeat("*", len(jwt))
	}
	return strings.Repeat("*", 24) + jwt[len(jwt)-8:]
}
