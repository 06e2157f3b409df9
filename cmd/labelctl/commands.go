package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/danmuck/prcctl/internal/paracobn/hash40"
)

var errUsage = errors.New("bad arguments")

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func tablePath(flagPath string, cfg toolConfig) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if cfg.LabelsPath != "" {
		return cfg.LabelsPath, nil
	}
	return "", fmt.Errorf("%w: no label table (--table or config)", errUsage)
}

// loadTable reads the table at path. With allowMissing a nonexistent file
// yields an empty dictionary so the first add can create it.
func loadTable(path string, allowMissing bool) (*hash40.Labels, int, error) {
	labels := hash40.NewLabels()
	f, err := os.Open(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return labels, 0, nil
		}
		return nil, 0, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	_, skipped, err := labels.Load(f)
	if err != nil {
		return nil, 0, fmt.Errorf("load table: %w", err)
	}
	return labels, skipped, nil
}

func writeTable(path string, labels *hash40.Labels) error {
	var buf bytes.Buffer
	if _, err := labels.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func runAdd(cfg toolConfig, args []string) error {
	fs := newFlagSet("add")
	table := fs.String("table", "", "label table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: add LABEL...", errUsage)
	}
	path, err := tablePath(*table, cfg)
	if err != nil {
		return err
	}
	labels, _, err := loadTable(path, true)
	if err != nil {
		return err
	}
	for _, label := range fs.Args() {
		fmt.Printf("0x%010X  %s\n", labels.Register(label), label)
	}
	if err := writeTable(path, labels); err != nil {
		return err
	}
	log.Info().Int("entries", labels.Len()).Str("table", path).Msg("table updated")
	return nil
}

func runPin(cfg toolConfig, args []string) error {
	fs := newFlagSet("pin")
	table := fs.String("table", "", "label table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: pin HASH LABEL", errUsage)
	}
	raw := strings.TrimPrefix(fs.Arg(0), "0x")
	hash, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return fmt.Errorf("parse hash: %w", err)
	}
	path, err := tablePath(*table, cfg)
	if err != nil {
		return err
	}
	labels, _, err := loadTable(path, true)
	if err != nil {
		return err
	}
	labels.RegisterForHash(hash, fs.Arg(1))
	return writeTable(path, labels)
}

func runHash(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: hash LABEL...", errUsage)
	}
	for _, label := range args {
		fmt.Printf("0x%010X  %s\n", hash40.Hash40(label), label)
	}
	return nil
}

func runGrep(cfg toolConfig, args []string) error {
	fs := newFlagSet("grep")
	table := fs.String("table", "", "label table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: grep SUBSTR", errUsage)
	}
	path, err := tablePath(*table, cfg)
	if err != nil {
		return err
	}
	labels, _, err := loadTable(path, false)
	if err != nil {
		return err
	}
	for _, entry := range labels.Filter(fs.Arg(0)) {
		fmt.Printf("0x%010X  %s\n", entry.Hash, entry.Label)
	}
	return nil
}

func runFmt(cfg toolConfig, args []string) error {
	fs := newFlagSet("fmt")
	table := fs.String("table", "", "label table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := tablePath(*table, cfg)
	if err != nil {
		return err
	}
	labels, skipped, err := loadTable(path, false)
	if err != nil {
		return err
	}
	if err := writeTable(path, labels); err != nil {
		return err
	}
	fmt.Printf("%d entries, %d bad rows dropped\n", labels.Len(), skipped)
	return nil
}
