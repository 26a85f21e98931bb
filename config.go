package bspec

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .bspec.yaml configuration file. It carries defaults
// for the runner and the scaffolding command; the engine itself needs no
// configuration.
type Config struct {
	// Format is the default runner output format: dots, verbose, json,
	// pretty.
	Format string `yaml:"format,omitempty"`

	// FailFast stops the runner on the first failure.
	FailFast bool `yaml:"failfast,omitempty"`

	// Filter is a regex over scenario/example/condition paths.
	Filter string `yaml:"filter,omitempty"`

	// Selector is an expression over {name, tags, skipped} selecting which
	// scenarios run.
	Selector string `yaml:"selector,omitempty"`

	// Generate configures the scaffolding command.
	Generate GenerateConfig `yaml:"generate,omitempty"`
}

// GenerateConfig holds settings for the new command.
type GenerateConfig struct {
	// Out is the output directory for generated scenario files.
	Out string `yaml:"out,omitempty"`

	// Package is the package name for generated code.
	Package string `yaml:"package,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".bspec.yaml", ".bspec.yml", "bspec.yaml", "bspec.yml"}

// LoadConfig finds and loads the nearest .bspec.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
