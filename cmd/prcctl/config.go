package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/prcctl/internal/logging"
	"github.com/danmuck/prcctl/internal/paracobn/hash40"
)

type toolConfig struct {
	LabelsPath string
	LogLevel   string
}

type fileConfig struct {
	Labels   string `toml:"labels"`
	LogLevel string `toml:"log_level"`
}

func loadToolConfig(path string) (toolConfig, error) {
	cfg := toolConfig{}
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return toolConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("labels") {
		cfg.LabelsPath = strings.TrimSpace(raw.Labels)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}

// applyLogLevel seeds the logging env override from the config file.
// A level already present in the environment wins.
func applyLogLevel(level string) {
	if level == "" {
		return
	}
	if os.Getenv(logging.EnvLogLevel) != "" {
		return
	}
	os.Setenv(logging.EnvLogLevel, level)
}

// loadLabels reads the label table named by the --labels flag, falling back
// to the config file. A missing path yields an empty dictionary.
func loadLabels(flagPath string, cfg toolConfig) (*hash40.Labels, error) {
	path := flagPath
	if path == "" {
		path = cfg.LabelsPath
	}
	labels := hash40.NewLabels()
	if path == "" {
		return labels, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()
	if _, _, err := labels.Load(f); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	return labels, nil
}
