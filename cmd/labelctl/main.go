package main

import (
	"fmt"
	"os"

	"github.com/danmuck/prcctl/internal/observability"
)

const usage = `usage: labelctl [--config FILE] COMMAND [ARGS]

commands:
  add LABEL...      register labels in the table and print their hashes
  pin HASH LABEL    pin an explicit hash/label association
  hash LABEL...     print Hash40 values without touching the table
  grep SUBSTR       list table entries whose label contains SUBSTR
  fmt               normalize the table: dedupe, drop bad rows, sort

The table path comes from --table, falling back to the config file.
`

func main() {
	args := os.Args[1:]

	configPath := ""
	if len(args) >= 2 && args[0] == "--config" {
		configPath = args[1]
		args = args[2:]
	}
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := loadToolConfig(configPath)
	if err != nil {
		fatalf("%v", err)
	}
	applyLogLevel(cfg.LogLevel)
	observability.InitLogger("labelctl")

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		err = runAdd(cfg, rest)
	case "pin":
		err = runPin(cfg, rest)
	case "hash":
		err = runHash(rest)
	case "grep":
		err = runGrep(cfg, rest)
	case "fmt":
		err = runFmt(cfg, rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fatalf("unknown command %q (see labelctl help)", cmd)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "labelctl: "+format+"\n", args...)
	os.Exit(1)
}
