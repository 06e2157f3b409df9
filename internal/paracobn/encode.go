package paracobn

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// Encode serializes a canonical tree back into container bytes. The root must
// be a struct.
//
// The format requires two distinct traversal orders: the hash table is built
// from struct fields in their insertion order ("natural order"), while the
// write pass emits each struct's fields re-sorted by hash ascending. Strings
// and struct pair blocks go into the reference table via placeholders patched
// in a final pass.
func Encode(root Value) ([]byte, error) {
	if root.Kind != KindStruct {
		return nil, fmt.Errorf("%w: kind %s", ErrRootNotStruct, root.Kind)
	}

	e := &encoder{
		hashIndex:   make(map[uint64]int),
		stringEntry: make(map[string]int),
	}

	// Hash collection pass. Hash 0 is always table entry 0, even if unused.
	e.collectHash(0)
	e.collectHashes(root)

	// Value write pass with deferred string/struct references.
	if err := e.writeValue(root); err != nil {
		return nil, err
	}

	// Reference-table assembly in entry creation order.
	refTable, entryOffsets, stringOffsets := e.buildRefTable()

	// Backpatch pass.
	for _, p := range e.pendingStrings {
		offset, ok := stringOffsets[p.str]
		if !ok {
			return nil, fmt.Errorf("%w: string %q", ErrRefEntryMissing, p.str)
		}
		binary.LittleEndian.PutUint32(e.tree[p.pos:], uint32(offset))
	}
	for _, p := range e.pendingStructs {
		if p.entry < 0 || p.entry >= len(entryOffsets) {
			return nil, fmt.Errorf("%w: struct entry %d", ErrRefEntryMissing, p.entry)
		}
		binary.LittleEndian.PutUint32(e.tree[p.pos:], uint32(entryOffsets[p.entry]))
	}

	// Final assembly: magic, section sizes, hash table, ref table, tree.
	hashBytes := len(e.hashTable) * 8
	out := make([]byte, 0, headerSize+hashBytes+len(refTable)+len(e.tree))
	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(hashBytes))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(refTable)))
	for _, h := range e.hashTable {
		out = binary.LittleEndian.AppendUint64(out, h)
	}
	out = append(out, refTable...)
	out = append(out, e.tree...)
	return out, nil
}

type refEntry struct {
	isString bool
	str      string
	pairs    []refPair
}

type refPair struct {
	hashIndex   int32
	paramOffset int32
}

type fixup struct {
	pos   int // placeholder position in the tree buffer
	str   string
	entry int
}

type encoder struct {
	tree []byte

	hashTable []uint64
	hashIndex map[uint64]int

	refEntries  []refEntry
	stringEntry map[string]int

	pendingStrings []fixup
	pendingStructs []fixup
}

// collectHash registers a hash with first-occurrence deduplication.
func (e *encoder) collectHash(h uint64) {
	if _, ok := e.hashIndex[h]; ok {
		return
	}
	e.hashIndex[h] = len(e.hashTable)
	e.hashTable = append(e.hashTable, h)
}

// collectHashes walks the tree in natural order: struct fields as inserted,
// list items by index, leaf hashes as encountered. This order, not the
// write-pass sort, determines hash table layout.
func (e *encoder) collectHashes(v Value) {
	switch v.Kind {
	case KindStruct:
		for _, f := range v.Struct.Fields {
			e.collectHash(f.Hash)
			e.collectHashes(f.Value)
		}
	case KindList:
		for _, item := range v.List {
			e.collectHashes(item)
		}
	case KindHash:
		e.collectHash(v.Hash)
	}
}

func (e *encoder) writeValue(v Value) error {
	switch v.Kind {
	case KindBool:
		b := byte(0)
		if v.Bool {
			b = 1
		}
		e.tree = append(e.tree, byte(KindBool), b)
	case KindI8:
		e.tree = append(e.tree, byte(KindI8), byte(v.I8))
	case KindU8:
		e.tree = append(e.tree, byte(KindU8), v.U8)
	case KindI16:
		e.tree = append(e.tree, byte(KindI16))
		e.tree = binary.LittleEndian.AppendUint16(e.tree, uint16(v.I16))
	case KindU16:
		e.tree = append(e.tree, byte(KindU16))
		e.tree = binary.LittleEndian.AppendUint16(e.tree, v.U16)
	case KindI32:
		e.tree = append(e.tree, byte(KindI32))
		e.tree = binary.LittleEndian.AppendUint32(e.tree, uint32(v.I32))
	case KindU32:
		e.tree = append(e.tree, byte(KindU32))
		e.tree = binary.LittleEndian.AppendUint32(e.tree, v.U32)
	case KindF32:
		e.tree = append(e.tree, byte(KindF32))
		e.tree = binary.LittleEndian.AppendUint32(e.tree, math.Float32bits(v.F32))
	case KindHash:
		index, ok := e.hashIndex[v.Hash]
		if !ok {
			return fmt.Errorf("%w: 0x%X", ErrHashNotCollected, v.Hash)
		}
		e.tree = append(e.tree, byte(KindHash))
		e.tree = binary.LittleEndian.AppendUint32(e.tree, uint32(index))
	case KindString:
		return e.writeString(v.Str)
	case KindList:
		return e.writeList(v.List)
	case KindStruct:
		return e.writeStruct(v.Struct)
	default:
		return fmt.Errorf("%w: tag %d", ErrUnknownKind, v.RawTag)
	}
	return nil
}

func (e *encoder) writeString(s string) error {
	e.tree = append(e.tree, byte(KindString))
	if _, ok := e.stringEntry[s]; !ok {
		e.stringEntry[s] = len(e.refEntries)
		e.refEntries = append(e.refEntries, refEntry{isString: true, str: s})
	}
	e.pendingStrings = append(e.pendingStrings, fixup{pos: len(e.tree), str: s})
	e.tree = binary.LittleEndian.AppendUint32(e.tree, 0)
	return nil
}

func (e *encoder) writeList(items []Value) error {
	startPos := len(e.tree)
	e.tree = append(e.tree, byte(KindList))
	e.tree = binary.LittleEndian.AppendUint32(e.tree, uint32(len(items)))

	offsetBlock := len(e.tree)
	for range items {
		e.tree = binary.LittleEndian.AppendUint32(e.tree, 0)
	}

	for i, item := range items {
		offset := len(e.tree) - startPos
		binary.LittleEndian.PutUint32(e.tree[offsetBlock+i*4:], uint32(offset))
		if err := e.writeValue(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeStruct(s *Struct) error {
	startPos := len(e.tree)
	e.tree = append(e.tree, byte(KindStruct))
	e.tree = binary.LittleEndian.AppendUint32(e.tree, uint32(len(s.Fields)))

	// Reserve a reference-table entry now so entry creation order matches the
	// write traversal; its pair block is filled once all fields are emitted.
	entry := len(e.refEntries)
	e.refEntries = append(e.refEntries, refEntry{})
	e.pendingStructs = append(e.pendingStructs, fixup{pos: len(e.tree), entry: entry})
	e.tree = binary.LittleEndian.AppendUint32(e.tree, 0)

	// Write-time field order is hash ascending, independent of insertion
	// order and of the hash-collection traversal.
	sorted := make([]Field, len(s.Fields))
	copy(sorted, s.Fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Hash < sorted[j].Hash })

	pairs := make([]refPair, 0, len(sorted))
	for _, f := range sorted {
		index, ok := e.hashIndex[f.Hash]
		if !ok {
			return fmt.Errorf("%w: field 0x%X", ErrHashNotCollected, f.Hash)
		}
		pairs = append(pairs, refPair{
			hashIndex:   int32(index),
			paramOffset: int32(len(e.tree) - startPos),
		})
		if err := e.writeValue(f.Value); err != nil {
			return err
		}
	}
	e.refEntries[entry].pairs = pairs
	return nil
}

// buildRefTable lays out pending entries in creation order: string bodies are
// NUL-terminated, struct entries become i32/i32 pair blocks.
func (e *encoder) buildRefTable() (table []byte, entryOffsets []int, stringOffsets map[string]int) {
	entryOffsets = make([]int, len(e.refEntries))
	stringOffsets = make(map[string]int)
	for i, entry := range e.refEntries {
		entryOffsets[i] = len(table)
		if entry.isString {
			stringOffsets[entry.str] = len(table)
			table = append(table, entry.str...)
			table = append(table, 0)
			continue
		}
		for _, p := range entry.pairs {
			table = binary.LittleEndian.AppendUint32(table, uint32(p.hashIndex))
			table = binary.LittleEndian.AppendUint32(table, uint32(p.paramOffset))
		}
	}
	return table, entryOffsets, stringOffsets
}
