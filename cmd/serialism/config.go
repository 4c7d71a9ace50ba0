package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voodooattack/serialism/export"
	"github.com/voodooattack/serialism/frame"
)

// Config is the optional YAML configuration file.
//
//	classes: [Point, SharedInstance]
//	compression: zstd
//	format: yaml
type Config struct {
	Classes     []string          `yaml:"classes"`
	Compression frame.Compression `yaml:"compression"`
	Format      export.Format     `yaml:"format"`
	MaxDepth    int               `yaml:"max_depth"`
}

func defaultConfig() Config {
	return Config{
		Compression: frame.CompressionZstd,
		Format:      export.FormatJSON,
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := export.ParseFormat(string(cfg.Format)); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.MaxDepth < 0 {
		return cfg, fmt.Errorf("config %s: max_depth must not be negative", path)
	}
	return cfg, nil
}

// classNames merges config classes with flag classes, dropping repeats.
func (c Config) classNames(extra []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, list := range [][]string{c.Classes, extra} {
		for _, name := range list {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
