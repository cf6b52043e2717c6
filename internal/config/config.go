package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from deckhand.yml.
type ProjectConfig struct {
	// Flavor is the default engine selector ("v6", "v5" or "x").
	Flavor string `yaml:"flavor,omitempty"`

	// Binaries overrides the engine executable per flavor selector.
	Binaries map[string]string `yaml:"binaries,omitempty"`

	// Marker is the completion marker expected in the output log.
	Marker string `yaml:"marker,omitempty"`

	// PollSeconds and StallSeconds tune the output watcher.
	PollSeconds  int `yaml:"pollSeconds,omitempty"`
	StallSeconds int `yaml:"stallSeconds,omitempty"`

	// RemoteParams are opaque connection parameters passed through to the
	// engine environment.
	RemoteParams map[string]string `yaml:"remoteParams,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read deckhand.yml or deckhand.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"deckhand.yml", "deckhand.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
