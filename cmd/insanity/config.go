package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// config is the effective run configuration: defaults, overridden by an
// optional insanity.yaml in the base path, overridden by explicit flags.
type config struct {
	Use        string `yaml:"use"`
	DatPath    string `yaml:"datpath"`
	Verbose    bool   `yaml:"verbose"`
	ShowUnused bool   `yaml:"show_unused"`
	DB         string `yaml:"db"`
}

// loadConfig builds the configuration for a run rooted at base. Only flags
// the user actually set override file values.
func loadConfig(base string, cmd *cobra.Command) (config, error) {
	cfg := config{Use: "missionxml"}

	path := filepath.Join(base, "insanity.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	flags := cmd.Flags()
	if flags.Changed("use") {
		cfg.Use = flagUse
	}
	if flags.Changed("datpath") {
		cfg.DatPath = flagDatPath
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
	if flags.Changed("show-unused") {
		cfg.ShowUnused = flagShowUnused
	}
	if flags.Changed("db") {
		cfg.DB = flagDB
	}
	return cfg, nil
}
