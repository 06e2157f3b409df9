package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/danmuck/prcctl/internal/document"
	"github.com/danmuck/prcctl/internal/export"
	"github.com/danmuck/prcctl/internal/paracobn"
	"github.com/danmuck/prcctl/internal/paracobn/hash40"
	"github.com/danmuck/prcctl/internal/paramtree"
)

var errUsage = errors.New("bad arguments")

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func openDocument(cfg toolConfig, labelsPath, file string) (*document.Document, error) {
	labels, err := loadLabels(labelsPath, cfg)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	return document.Open(data, file, labels)
}

func runInfo(cfg toolConfig, args []string) error {
	fs := newFlagSet("info")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: info FILE", errUsage)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read container: %w", err)
	}
	info, err := paracobn.Inspect(data)
	if err != nil {
		return err
	}
	fmt.Printf("file:            %s\n", fs.Arg(0))
	fmt.Printf("size:            %d bytes\n", len(data))
	fmt.Printf("hash table:      %d bytes (%d hashes)\n", info.HashTableSize, info.HashCount)
	fmt.Printf("reference table: %d bytes\n", info.RefTableSize)
	fmt.Printf("param section:   offset %d\n", info.ParamStart)

	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("root fields:     %d\n", len(doc.Root().Struct.Fields))
	return nil
}

func runDump(cfg toolConfig, args []string) error {
	fs := newFlagSet("dump")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: dump FILE", errUsage)
	}
	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}
	dumpNode(doc, doc.Tree, 0)
	return nil
}

func dumpNode(doc *document.Document, n *paramtree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s (%s) = %s\n", indent, n.Name, n.TypeName(), n.ValueString(doc.Labels))
	for _, child := range n.Children {
		dumpNode(doc, child, depth+1)
	}
}

func runExport(cfg toolConfig, args []string) error {
	fs := newFlagSet("export")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	format := fs.String("format", "json", "output format: json | yaml | cbor")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: export FILE --format FMT", errUsage)
	}
	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}

	var rendered []byte
	switch *format {
	case "json":
		rendered, err = export.JSON(doc.Root(), doc.Labels)
	case "yaml":
		rendered, err = export.YAML(doc.Root(), doc.Labels)
	case "cbor":
		rendered, err = export.CBOR(doc.Root(), doc.Labels)
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(rendered)
		return err
	}
	return os.WriteFile(*out, rendered, 0o644)
}

func runGet(cfg toolConfig, args []string) error {
	fs := newFlagSet("get")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: get FILE PATH", errUsage)
	}
	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}
	node, err := doc.Get(fs.Arg(1))
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s) = %s\n", node.Name, node.TypeName(), node.ValueString(doc.Labels))
	return nil
}

func runSet(cfg toolConfig, args []string) error {
	fs := newFlagSet("set")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	typeName := fs.String("type", "", "value type")
	raw := fs.String("value", "", "value literal")
	out := fs.String("out", "", "output file (default: overwrite input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 || *typeName == "" {
		return fmt.Errorf("%w: set FILE PATH --type T --value V", errUsage)
	}
	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}
	value, err := parseValue(*typeName, *raw, doc.Labels)
	if err != nil {
		return err
	}
	if err := doc.UpdateValue(fs.Arg(1), value); err != nil {
		return err
	}
	return saveDocument(doc, *out)
}

func runRename(cfg toolConfig, args []string) error {
	fs := newFlagSet("rename")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	out := fs.String("out", "", "output file (default: overwrite input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("%w: rename FILE PATH NAME", errUsage)
	}
	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}
	name := fs.Arg(2)
	hash, display := nameToHash(name)
	if err := doc.UpdateKey(fs.Arg(1), display, hash); err != nil {
		return err
	}
	return saveDocument(doc, *out)
}

func runDelete(cfg toolConfig, args []string) error {
	fs := newFlagSet("delete")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	out := fs.String("out", "", "output file (default: overwrite input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: delete FILE PATH", errUsage)
	}
	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := doc.Delete(fs.Arg(1)); err != nil {
		return err
	}
	return saveDocument(doc, *out)
}

func runInsert(cfg toolConfig, args []string) error {
	fs := newFlagSet("insert")
	labelsPath := fs.String("labels", "", "label table (CSV)")
	typeName := fs.String("type", "", "value type")
	name := fs.String("name", "", "field name or 0x-prefixed hash (struct targets)")
	raw := fs.String("value", "", "value literal")
	out := fs.String("out", "", "output file (default: overwrite input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 || *typeName == "" {
		return fmt.Errorf("%w: insert FILE PATH --type T [--name N] [--value V]", errUsage)
	}
	doc, err := openDocument(cfg, *labelsPath, fs.Arg(0))
	if err != nil {
		return err
	}
	value, err := parseValue(*typeName, *raw, doc.Labels)
	if err != nil {
		return err
	}
	var hash uint64
	if *name != "" {
		hash, _ = nameToHash(*name)
		if !strings.HasPrefix(*name, "0x") {
			doc.Labels.Register(*name)
		}
	}
	chosen, err := doc.Insert(fs.Arg(1), hash, value)
	if err != nil {
		return err
	}
	fmt.Printf("inserted 0x%X\n", chosen)
	return saveDocument(doc, *out)
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

func saveDocument(doc *document.Document, out string) error {
	if out == "" {
		out = doc.Filename()
	}
	return doc.Save(out)
}

// nameToHash maps a CLI name argument to a field hash. A 0x-prefixed hex
// string addresses the hash directly; anything else is hashed as a label.
func nameToHash(name string) (uint64, string) {
	if strings.HasPrefix(name, "0x") {
		if h, err := strconv.ParseUint(name[2:], 16, 64); err == nil {
			return h, name
		}
	}
	return hash40.Hash40(name), name
}

func parseValue(typeName, raw string, labels *hash40.Labels) (paracobn.Value, error) {
	switch strings.ToLower(typeName) {
	case "bool":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse bool: %w", err)
		}
		return paracobn.BoolValue(v), nil
	case "i8", "sbyte":
		v, err := strconv.ParseInt(raw, 10, 8)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse i8: %w", err)
		}
		return paracobn.I8Value(int8(v)), nil
	case "u8", "byte":
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse u8: %w", err)
		}
		return paracobn.U8Value(uint8(v)), nil
	case "i16", "short":
		v, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse i16: %w", err)
		}
		return paracobn.I16Value(int16(v)), nil
	case "u16", "ushort":
		v, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse u16: %w", err)
		}
		return paracobn.U16Value(uint16(v)), nil
	case "i32", "int":
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse i32: %w", err)
		}
		return paracobn.I32Value(int32(v)), nil
	case "u32", "uint":
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse u32: %w", err)
		}
		return paracobn.U32Value(uint32(v)), nil
	case "f32", "float":
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return paracobn.Value{}, fmt.Errorf("parse f32: %w", err)
		}
		return paracobn.F32Value(float32(v)), nil
	case "hash":
		h, err := labels.ParseHashOrLabel(raw)
		if err != nil {
			return paracobn.Value{}, err
		}
		return paracobn.HashValue(h), nil
	case "str", "string":
		return paracobn.StringValue(raw), nil
	case "list":
		return paracobn.ListValue(), nil
	case "struct":
		return paracobn.StructValue(), nil
	default:
		return paracobn.Value{}, fmt.Errorf("%w: unknown type %q", errUsage, typeName)
	}
}
