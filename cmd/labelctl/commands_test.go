package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/prcctl/internal/paracobn/hash40"
)

func TestTablePathPrecedence(t *testing.T) {
	cfg := toolConfig{LabelsPath: "from-config.csv"}
	if p, _ := tablePath("from-flag.csv", cfg); p != "from-flag.csv" {
		t.Fatalf("flag should win, got %q", p)
	}
	if p, _ := tablePath("", cfg); p != "from-config.csv" {
		t.Fatalf("config fallback, got %q", p)
	}
	if _, err := tablePath("", toolConfig{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestLoadTableMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")

	labels, _, err := loadTable(path, true)
	if err != nil {
		t.Fatalf("allowMissing: %v", err)
	}
	if labels.Len() != 0 {
		t.Fatalf("expected empty dictionary")
	}

	if _, _, err := loadTable(path, false); err == nil {
		t.Fatalf("expected error without allowMissing")
	}
}

func TestWriteTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	labels := hash40.NewLabels()
	labels.Register("walk_speed")
	labels.Register("jump_height")

	if err := writeTable(path, labels); err != nil {
		t.Fatalf("write: %v", err)
	}
	reloaded, skipped, err := loadTable(path, false)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("unexpected skipped rows: %d", skipped)
	}
	if got := reloaded.Resolve(hash40.Hash40("walk_speed")); got != "walk_speed" {
		t.Fatalf("resolve after reload: %q", got)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("entries: %d", reloaded.Len())
	}
}

func TestWriteTableNormalizesBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	raw := "0x1234,alpha\nnot-a-hash,beta\n0x5678,gamma\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	labels, skipped, err := loadTable(path, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped: %d", skipped)
	}
	if err := writeTable(path, labels); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	_, skipped, err = loadTable(path, false)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("bad rows survived rewrite: %d", skipped)
	}
}
