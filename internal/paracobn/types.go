package paracobn

// Kind identifies a value's wire type. The numeric values are the on-disk
// single-byte tags.
type Kind uint8

const (
	KindBool   Kind = 1
	KindI8     Kind = 2
	KindU8     Kind = 3
	KindI16    Kind = 4
	KindU16    Kind = 5
	KindI32    Kind = 6
	KindU32    Kind = 7
	KindF32    Kind = 8
	KindHash   Kind = 9
	KindString Kind = 10
	KindList   Kind = 11
	KindStruct Kind = 12

	// KindUnknown marks a value decoded from a tag above 12. The raw tag and
	// consumed byte count are preserved; such values cannot be re-encoded.
	KindUnknown Kind = 255
)

// String returns the display name for a kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindI8:
		return "SByte"
	case KindU8:
		return "Byte"
	case KindI16:
		return "Short"
	case KindU16:
		return "UShort"
	case KindI32:
		return "Int"
	case KindU32:
		return "UInt"
	case KindF32:
		return "Float"
	case KindHash:
		return "Hash40"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindStruct:
		return "Struct"
	default:
		return "Unknown"
	}
}

// Value is one decoded parameter. Exactly one payload field is meaningful,
// selected by Kind.
type Value struct {
	Kind Kind

	Bool bool
	I8   int8
	U8   uint8
	I16  int16
	U16  uint16
	I32  int32
	U32  uint32
	F32  float32
	Hash uint64
	Str  string

	List   []Value
	Struct *Struct

	// Unknown-tag bookkeeping.
	RawTag  uint8
	Skipped int
}

// Field is one struct member: a 40-bit content hash key and its value.
type Field struct {
	Hash  uint64
	Value Value
}

// Struct is an insertion-ordered field collection. Order is semantically
// significant and preserved separately from any sort applied during I/O.
type Struct struct {
	Fields []Field
}

// Get returns the value stored under hash.
func (s *Struct) Get(hash uint64) (Value, bool) {
	for _, f := range s.Fields {
		if f.Hash == hash {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Index returns the position of hash in insertion order, or -1.
func (s *Struct) Index(hash uint64) int {
	for i, f := range s.Fields {
		if f.Hash == hash {
			return i
		}
	}
	return -1
}

// Set replaces the value under hash, appending a new field when absent.
func (s *Struct) Set(hash uint64, v Value) {
	for i := range s.Fields {
		if s.Fields[i].Hash == hash {
			s.Fields[i].Value = v
			return
		}
	}
	s.Fields = append(s.Fields, Field{Hash: hash, Value: v})
}

// Remove deletes the field under hash, preserving the order of the rest.
func (s *Struct) Remove(hash uint64) (Value, bool) {
	for i, f := range s.Fields {
		if f.Hash == hash {
			s.Fields = append(s.Fields[:i], s.Fields[i+1:]...)
			return f.Value, true
		}
	}
	return Value{}, false
}

// Constructors for the scalar kinds keep call sites short.

func BoolValue(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func I8Value(v int8) Value        { return Value{Kind: KindI8, I8: v} }
func U8Value(v uint8) Value       { return Value{Kind: KindU8, U8: v} }
func I16Value(v int16) Value      { return Value{Kind: KindI16, I16: v} }
func U16Value(v uint16) Value     { return Value{Kind: KindU16, U16: v} }
func I32Value(v int32) Value      { return Value{Kind: KindI32, I32: v} }
func U32Value(v uint32) Value     { return Value{Kind: KindU32, U32: v} }
func F32Value(v float32) Value    { return Value{Kind: KindF32, F32: v} }
func HashValue(h uint64) Value    { return Value{Kind: KindHash, Hash: h} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func ListValue(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

func StructValue(fields ...Field) Value {
	return Value{Kind: KindStruct, Struct: &Struct{Fields: fields}}
}

// Clone deep-copies a value. The display tree caches clones so that no
// aliasing exists between projection and canonical tree.
func (v Value) Clone() Value {
	out := v
	switch v.Kind {
	case KindList:
		out.List = make([]Value, len(v.List))
		for i, item := range v.List {
			out.List[i] = item.Clone()
		}
	case KindStruct:
		fields := make([]Field, len(v.Struct.Fields))
		for i, f := range v.Struct.Fields {
			fields[i] = Field{Hash: f.Hash, Value: f.Value.Clone()}
		}
		out.Struct = &Struct{Fields: fields}
	}
	return out
}

// Equal reports structural equality, including struct field order.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == other.Bool
	case KindI8:
		return v.I8 == other.I8
	case KindU8:
		return v.U8 == other.U8
	case KindI16:
		return v.I16 == other.I16
	case KindU16:
		return v.U16 == other.U16
	case KindI32:
		return v.I32 == other.I32
	case KindU32:
		return v.U32 == other.U32
	case KindF32:
		return v.F32 == other.F32
	case KindHash:
		return v.Hash == other.Hash
	case KindString:
		return v.Str == other.Str
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if len(v.Struct.Fields) != len(other.Struct.Fields) {
			return false
		}
		for i := range v.Struct.Fields {
			if v.Struct.Fields[i].Hash != other.Struct.Fields[i].Hash {
				return false
			}
			if !v.Struct.Fields[i].Value.Equal(other.Struct.Fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return v.RawTag == other.RawTag && v.U32 == other.U32
	}
}
