package main

import (
	"fmt"
	"os"

	"github.com/jonathan/skill-matcher/internal/config"
	"github.com/jonathan/skill-matcher/internal/skills"
)

// loadSettings resolves the effective configuration: the optional JSON file
// merged over defaults, then environment overrides.
func loadSettings(path string) (config.Config, error) {
	defaults := config.Defaults()
	cfg := defaults

	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(defaults)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadRegistry builds the registry from a seed file, or the built-in
// dictionary when path is empty.
func loadRegistry(path string) (*skills.Registry, error) {
	if path == "" {
		return skills.NewDefaultRegistry(), nil
	}
	seed, err := skills.LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	registry, err := skills.NewRegistry(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid registry file %s: %w", path, err)
	}
	return registry, nil
}
