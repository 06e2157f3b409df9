package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/prcctl/internal/paracobn"
	"github.com/danmuck/prcctl/internal/paracobn/hash40"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadToolConfig(t *testing.T) {
	path := writeTempFile(t, "prcctl.toml", "labels = \"ParamLabels.csv\"\nlog_level = \"debug\"\n")
	cfg, err := loadToolConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LabelsPath != "ParamLabels.csv" {
		t.Fatalf("labels: %q", cfg.LabelsPath)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level: %q", cfg.LogLevel)
	}
}

func TestLoadToolConfigPartial(t *testing.T) {
	path := writeTempFile(t, "prcctl.toml", "log_level = \"warn\"\n")
	cfg, err := loadToolConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LabelsPath != "" {
		t.Fatalf("labels should stay empty, got %q", cfg.LabelsPath)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log level: %q", cfg.LogLevel)
	}
}

func TestLoadToolConfigEmptyPath(t *testing.T) {
	cfg, err := loadToolConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != (toolConfig{}) {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadToolConfigMissingFile(t *testing.T) {
	if _, err := loadToolConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNameToHash(t *testing.T) {
	if h, _ := nameToHash("0xABC"); h != 0xABC {
		t.Fatalf("hex name: 0x%X", h)
	}
	if h, _ := nameToHash("walk_speed"); h != hash40.Hash40("walk_speed") {
		t.Fatalf("label name: 0x%X", h)
	}
	// A malformed hex string hashes as a plain label.
	if h, _ := nameToHash("0xZZ"); h != hash40.Hash40("0xZZ") {
		t.Fatalf("bad hex: 0x%X", h)
	}
}

func TestParseValue(t *testing.T) {
	labels := hash40.NewLabels()
	labels.Register("fire")

	cases := []struct {
		typeName string
		raw      string
		want     paracobn.Value
	}{
		{"bool", "true", paracobn.BoolValue(true)},
		{"i8", "-5", paracobn.I8Value(-5)},
		{"byte", "200", paracobn.U8Value(200)},
		{"i16", "-300", paracobn.I16Value(-300)},
		{"ushort", "40000", paracobn.U16Value(40000)},
		{"int", "-70000", paracobn.I32Value(-70000)},
		{"u32", "3000000000", paracobn.U32Value(3000000000)},
		{"float", "1.25", paracobn.F32Value(1.25)},
		{"hash", "fire", paracobn.HashValue(hash40.Hash40("fire"))},
		{"string", "hello", paracobn.StringValue("hello")},
		{"list", "", paracobn.ListValue()},
		{"struct", "", paracobn.StructValue()},
	}
	for _, tc := range cases {
		got, err := parseValue(tc.typeName, tc.raw, labels)
		if err != nil {
			t.Fatalf("parse %s %q: %v", tc.typeName, tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parse %s %q: got %+v want %+v", tc.typeName, tc.raw, got, tc.want)
		}
	}
}

func TestParseValueErrors(t *testing.T) {
	labels := hash40.NewLabels()
	if _, err := parseValue("i8", "300", labels); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := parseValue("vector", "", labels); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if _, err := parseValue("hash", "unknown_label", labels); err == nil {
		t.Fatalf("expected unknown label error")
	}
}
