package paracobn

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Magic is the 8-byte container signature.
var Magic = []byte("paracobn")

const headerSize = 16

// Info summarizes a container header without decoding the tree.
type Info struct {
	HashTableSize int
	RefTableSize  int
	HashCount     int
	ParamStart    int
}

// Inspect validates the header and returns section layout information.
func Inspect(data []byte) (Info, error) {
	if len(data) < headerSize {
		return Info{}, ErrTruncated
	}
	if !bytes.Equal(data[:8], Magic) {
		return Info{}, fmt.Errorf("%w: got %q", ErrBadMagic, data[:8])
	}
	hashSize := int(int32(binary.LittleEndian.Uint32(data[8:12])))
	refSize := int(int32(binary.LittleEndian.Uint32(data[12:16])))
	if hashSize < 0 || refSize < 0 || headerSize+hashSize+refSize > len(data) {
		return Info{}, fmt.Errorf("%w: section sizes hash=%d ref=%d", ErrTruncated, hashSize, refSize)
	}
	return Info{
		HashTableSize: hashSize,
		RefTableSize:  refSize,
		HashCount:     hashSize / 8,
		ParamStart:    headerSize + hashSize + refSize,
	}, nil
}

// Decode parses a full container into its canonical value tree. The root must
// be a struct; any format violation aborts with no partial result.
func Decode(data []byte) (Value, error) {
	info, err := Inspect(data)
	if err != nil {
		return Value{}, err
	}

	hashes := make([]uint64, info.HashCount)
	for i := range hashes {
		off := headerSize + i*8
		hashes[i] = binary.LittleEndian.Uint64(data[off : off+8])
	}

	if info.ParamStart >= len(data) {
		return Value{}, fmt.Errorf("%w: no parameter tree", ErrTruncated)
	}
	if Kind(data[info.ParamStart]) != KindStruct {
		return Value{}, fmt.Errorf("%w: root tag %d", ErrRootNotStruct, data[info.ParamStart])
	}

	d := &decoder{
		data:     data,
		off:      info.ParamStart,
		hashes:   hashes,
		refStart: headerSize + info.HashTableSize,
	}
	root, err := d.readValue()
	if err != nil {
		return Value{}, err
	}
	return root, nil
}

type decoder struct {
	data     []byte
	off      int
	hashes   []uint64
	refStart int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) readU8() (uint8, error) {
	if d.remaining() < 1 {
		return 0, ErrTruncated
	}
	b := d.data[d.off]
	d.off++
	return b, nil
}

func (d *decoder) readU16() (uint16, error) {
	if d.remaining() < 2 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint16(d.data[d.off:])
	d.off += 2
	return v, nil
}

func (d *decoder) readU32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) readI32() (int32, error) {
	v, err := d.readU32()
	return int32(v), err
}

func (d *decoder) readValue() (Value, error) {
	tagPos := d.off
	tag, err := d.readU8()
	if err != nil {
		return Value{}, err
	}

	switch Kind(tag) {
	case KindBool:
		b, err := d.readU8()
		return BoolValue(b != 0), err
	case KindI8:
		b, err := d.readU8()
		return I8Value(int8(b)), err
	case KindU8:
		b, err := d.readU8()
		return U8Value(b), err
	case KindI16:
		v, err := d.readU16()
		return I16Value(int16(v)), err
	case KindU16:
		v, err := d.readU16()
		return U16Value(v), err
	case KindI32:
		v, err := d.readU32()
		return I32Value(int32(v)), err
	case KindU32:
		v, err := d.readU32()
		return U32Value(v), err
	case KindF32:
		v, err := d.readU32()
		return F32Value(math.Float32frombits(v)), err
	case KindHash:
		return d.readHash()
	case KindString:
		return d.readString()
	case KindList:
		return d.readList(tagPos)
	case KindStruct:
		return d.readStruct(tagPos)
	default:
		return d.readUnknown(tag)
	}
}

func (d *decoder) readHash() (Value, error) {
	index, err := d.readU32()
	if err != nil {
		return Value{}, err
	}
	if int(index) >= len(d.hashes) {
		return Value{}, fmt.Errorf("%w: index %d, table size %d", ErrHashIndex, index, len(d.hashes))
	}
	return HashValue(d.hashes[index]), nil
}

// readString follows a reference-table offset to a NUL-terminated body, then
// restores the cursor; string bodies live outside the tree's natural flow.
func (d *decoder) readString() (Value, error) {
	offset, err := d.readI32()
	if err != nil {
		return Value{}, err
	}
	start := d.refStart + int(offset)
	if start < 0 || start >= len(d.data) {
		return Value{}, fmt.Errorf("%w: string offset %d", ErrOffsetRange, offset)
	}
	end := start
	for end < len(d.data) && d.data[end] != 0 {
		end++
	}
	if end == len(d.data) {
		return Value{}, fmt.Errorf("%w: unterminated string", ErrTruncated)
	}
	return StringValue(strings.ToValidUTF8(string(d.data[start:end]), "�")), nil
}

func (d *decoder) readList(startPos int) (Value, error) {
	count, err := d.readI32()
	if err != nil {
		return Value{}, err
	}
	if count < 0 || d.remaining() < int(count)*4 {
		return Value{}, fmt.Errorf("%w: list count %d", ErrTruncated, count)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i], _ = d.readU32()
	}

	values := make([]Value, 0, count)
	for _, offset := range offsets {
		target := startPos + int(offset)
		if target < 0 || target >= len(d.data) {
			return Value{}, fmt.Errorf("%w: list item offset %d", ErrOffsetRange, offset)
		}
		d.off = target
		v, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		values = append(values, v)
	}
	return Value{Kind: KindList, List: values}, nil
}

// readStruct reads the field pair block out of the reference table and sorts
// it by hash index ascending. That sort, not the stored pair order, is the
// deterministic read-time field order.
func (d *decoder) readStruct(startPos int) (Value, error) {
	count, err := d.readI32()
	if err != nil {
		return Value{}, err
	}
	refOffset, err := d.readI32()
	if err != nil {
		return Value{}, err
	}
	if count < 0 {
		return Value{}, fmt.Errorf("%w: struct field count %d", ErrTruncated, count)
	}

	pairStart := d.refStart + int(refOffset)
	if pairStart < 0 || pairStart+int(count)*8 > len(d.data) {
		return Value{}, fmt.Errorf("%w: struct ref offset %d", ErrOffsetRange, refOffset)
	}

	type pair struct {
		hashIndex   int32
		paramOffset int32
	}
	pairs := make([]pair, count)
	for i := range pairs {
		base := pairStart + i*8
		pairs[i] = pair{
			hashIndex:   int32(binary.LittleEndian.Uint32(d.data[base:])),
			paramOffset: int32(binary.LittleEndian.Uint32(d.data[base+4:])),
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].hashIndex < pairs[j].hashIndex })

	st := &Struct{Fields: make([]Field, 0, count)}
	for _, p := range pairs {
		if p.hashIndex < 0 || int(p.hashIndex) >= len(d.hashes) {
			continue
		}
		target := startPos + int(p.paramOffset)
		if target < 0 || target >= len(d.data) {
			return Value{}, fmt.Errorf("%w: struct field offset %d", ErrOffsetRange, p.paramOffset)
		}
		d.off = target
		v, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		st.Fields = append(st.Fields, Field{Hash: d.hashes[p.hashIndex], Value: v})
	}
	d.off = startPos + 9 // past tag + count + ref offset
	return Value{Kind: KindStruct, Struct: st}, nil
}

// readUnknown tolerates forward-incompatible tags: consume a heuristic block
// and synthesize a placeholder so downstream tooling degrades instead of
// aborting.
func (d *decoder) readUnknown(tag uint8) (Value, error) {
	size := 4
	switch {
	case tag >= 100:
		size = 12
	case tag >= 50:
		size = 8
	}
	if size > d.remaining() {
		size = d.remaining()
	}
	d.off += size
	return Value{Kind: KindUnknown, RawTag: tag, U32: uint32(tag), Skipped: size}, nil
}
