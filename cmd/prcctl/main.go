package main

import (
	"fmt"
	"os"

	"github.com/danmuck/prcctl/internal/observability"
)

const usage = `usage: prcctl [--config FILE] COMMAND [ARGS]

commands:
  info FILE                       print container header and table sizes
  dump FILE                       print the decoded tree
  export FILE --format FMT        render as json | yaml | cbor
  get FILE PATH                   print the node at PATH (root[i][j] syntax)
  set FILE PATH --type T --value V
  rename FILE PATH NAME           re-key a struct field (moves it to the end)
  delete FILE PATH                remove a struct field or list element
  insert FILE PATH --type T [--name N] [--value V]
  hash LABEL...                   print Hash40 values for labels
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
	observability.InitLogger("prcctl")

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "info":
		err = runInfo(cfg, rest)
	case "dump":
		err = runDump(cfg, rest)
	case "export":
		err = runExport(cfg, rest)
	case "get":
		err = runGet(cfg, rest)
	case "set":
		err = runSet(cfg, rest)
	case "rename":
		err = runRename(cfg, rest)
	case "delete":
		err = runDelete(cfg, rest)
	case "insert":
		err = runInsert(cfg, rest)
	case "hash":
		err = runHash(rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fatalf("unknown command %q (see prcctl help)", cmd)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "prcctl: "+format+"\n", args...)
	os.Exit(1)
}
