package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/prcctl/internal/logging"
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

func applyLogLevel(level string) {
	if level == "" {
		return
	}
	if os.Getenv(logging.EnvLogLevel) != "" {
		return
	}
	os.Setenv(logging.EnvLogLevel, level)
}
