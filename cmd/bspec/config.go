package main

import (
	"os"

	"github.com/rlch/bspec"
)

// loadConfig loads the nearest .bspec.yaml walking up from the working
// directory. A missing config is not an error; callers get nil and fall back
// to flag values and defaults.
func loadConfig() *bspec.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	cfg, err := bspec.LoadConfig(cwd)
	if err != nil {
		return nil
	}

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
