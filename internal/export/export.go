package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/danmuck/prcctl/internal/paracobn"
	"github.com/danmuck/prcctl/internal/paracobn/hash40"
)

// ErrUnsupportedKind marks a value no exporter can represent.
var ErrUnsupportedKind = errors.New("export: unsupported value kind")

var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// JSON renders the tree as a compact JSON document. Struct fields keep
// their insertion order; keys and hash leaves resolve through labels.
func JSON(v paracobn.Value, labels *hash40.Labels) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, labels); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v paracobn.Value, labels *hash40.Labels) error {
	switch v.Kind {
	case paracobn.KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case paracobn.KindI8:
		buf.WriteString(strconv.FormatInt(int64(v.I8), 10))
	case paracobn.KindU8:
		buf.WriteString(strconv.FormatUint(uint64(v.U8), 10))
	case paracobn.KindI16:
		buf.WriteString(strconv.FormatInt(int64(v.I16), 10))
	case paracobn.KindU16:
		buf.WriteString(strconv.FormatUint(uint64(v.U16), 10))
	case paracobn.KindI32:
		buf.WriteString(strconv.FormatInt(int64(v.I32), 10))
	case paracobn.KindU32:
		buf.WriteString(strconv.FormatUint(uint64(v.U32), 10))
	case paracobn.KindF32:
		buf.WriteString(strconv.FormatFloat(float64(v.F32), 'g', -1, 32))
	case paracobn.KindHash:
		return writeJSONString(buf, labels.Resolve(v.Hash))
	case paracobn.KindString:
		return writeJSONString(buf, v.Str)
	case paracobn.KindList:
		buf.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item, labels); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case paracobn.KindStruct:
		buf.WriteByte('{')
		for i, f := range v.Struct.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, labels.Resolve(f.Hash)); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Value, labels); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: tag %d", ErrUnsupportedKind, v.RawTag)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	escaped, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(escaped)
	return nil
}

// YAML renders the tree as a YAML document with struct field order intact.
func YAML(v paracobn.Value, labels *hash40.Labels) ([]byte, error) {
	node, err := yamlNode(v, labels)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func yamlNode(v paracobn.Value, labels *hash40.Labels) (*yaml.Node, error) {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}
	switch v.Kind {
	case paracobn.KindBool:
		return scalar("!!bool", strconv.FormatBool(v.Bool)), nil
	case paracobn.KindI8:
		return scalar("!!int", strconv.FormatInt(int64(v.I8), 10)), nil
	case paracobn.KindU8:
		return scalar("!!int", strconv.FormatUint(uint64(v.U8), 10)), nil
	case paracobn.KindI16:
		return scalar("!!int", strconv.FormatInt(int64(v.I16), 10)), nil
	case paracobn.KindU16:
		return scalar("!!int", strconv.FormatUint(uint64(v.U16), 10)), nil
	case paracobn.KindI32:
		return scalar("!!int", strconv.FormatInt(int64(v.I32), 10)), nil
	case paracobn.KindU32:
		return scalar("!!int", strconv.FormatUint(uint64(v.U32), 10)), nil
	case paracobn.KindF32:
		return scalar("!!float", strconv.FormatFloat(float64(v.F32), 'g', -1, 32)), nil
	case paracobn.KindHash:
		return scalar("!!str", labels.Resolve(v.Hash)), nil
	case paracobn.KindString:
		return scalar("!!str", v.Str), nil
	case paracobn.KindList:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.List {
			child, err := yamlNode(item, labels)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case paracobn.KindStruct:
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Struct.Fields {
			child, err := yamlNode(f.Value, labels)
			if err != nil {
				return nil, err
			}
			mapping.Content = append(mapping.Content,
				scalar("!!str", labels.Resolve(f.Hash)), child)
		}
		return mapping, nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedKind, v.RawTag)
	}
}

// CBOR renders the tree with core-deterministic encoding. Struct fields
// become map entries keyed by resolved label; a struct holding the same
// hash twice collapses to the last occurrence.
func CBOR(v paracobn.Value, labels *hash40.Labels) ([]byte, error) {
	converted, err := plain(v, labels)
	if err != nil {
		return nil, err
	}
	return cborMode.Marshal(converted)
}

func plain(v paracobn.Value, labels *hash40.Labels) (any, error) {
	switch v.Kind {
	case paracobn.KindBool:
		return v.Bool, nil
	case paracobn.KindI8:
		return v.I8, nil
	case paracobn.KindU8:
		return v.U8, nil
	case paracobn.KindI16:
		return v.I16, nil
	case paracobn.KindU16:
		return v.U16, nil
	case paracobn.KindI32:
		return v.I32, nil
	case paracobn.KindU32:
		return v.U32, nil
	case paracobn.KindF32:
		return v.F32, nil
	case paracobn.KindHash:
		return labels.Resolve(v.Hash), nil
	case paracobn.KindString:
		return v.Str, nil
	case paracobn.KindList:
		out := make([]any, 0, len(v.List))
		for _, item := range v.List {
			converted, err := plain(item, labels)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	case paracobn.KindStruct:
		out := make(map[string]any, len(v.Struct.Fields))
		for _, f := range v.Struct.Fields {
			converted, err := plain(f.Value, labels)
			if err != nil {
				return nil, err
			}
			out[labels.Resolve(f.Hash)] = converted
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedKind, v.RawTag)
	}
}
