package hash40

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Labels is the bidirectional hash<->label dictionary. Both maps are kept
// in sync: each label has exactly one hash, each hash resolves to at most
// one label.
type Labels struct {
	byHash  map[uint64]string
	byLabel map[string]uint64
}

func NewLabels() *Labels {
	return &Labels{
		byHash:  make(map[uint64]string),
		byLabel: make(map[string]uint64),
	}
}

// resolveVariants are the compatibility reinterpretations tried, in order, when
// an exact lookup misses. Producers across tool versions have truncated or
// sign-extended hash values; trying these recovers their labels.
var resolveVariants = []func(uint64) uint64{
	func(h uint64) uint64 { return h & 0x00FFFFFFFFFFFFFF },
	func(h uint64) uint64 { return h & 0x0000FFFFFFFFFFFF },
	func(h uint64) uint64 { return h & 0x000000FFFFFFFFFF },
	func(h uint64) uint64 { return h & 0x00000000FFFFFFFF },
	func(h uint64) uint64 { return h | 0xFF00000000000000 },
	func(h uint64) uint64 { return h | 0xFFFF000000000000 },
	func(h uint64) uint64 { return h & 0x7FFFFFFFFFFFFFFF },
	func(h uint64) uint64 { return h | 0x8000000000000000 },
}

// Resolve returns the label for hash. Exact match wins; on miss the masking
// and sign-bit fallbacks are tried in order. With no hit at all the hash is
// rendered as 0x-prefixed uppercase hex.
func (l *Labels) Resolve(hash uint64) string {
	if label, ok := l.byHash[hash]; ok {
		return label
	}
	for _, variant := range resolveVariants {
		if label, ok := l.byHash[variant(hash)]; ok {
			return label
		}
	}
	return fmt.Sprintf("0x%X", hash)
}

// Lookup returns the exact label for hash, if registered.
func (l *Labels) Lookup(hash uint64) (string, bool) {
	label, ok := l.byHash[hash]
	return label, ok
}

// LookupLabel returns the hash registered for label, if any.
func (l *Labels) LookupLabel(label string) (uint64, bool) {
	hash, ok := l.byLabel[label]
	return hash, ok
}

// Register derives Hash40 for label and stores the association both ways.
// Idempotent for the same label.
func (l *Labels) Register(label string) uint64 {
	hash := Hash40(label)
	l.byHash[hash] = label
	l.byLabel[label] = hash
	return hash
}

// RegisterForHash stores an explicit association without requiring the hash
// to equal Hash40(label). Supports hashes whose generating string is unknown
// or predates the current hashing scheme.
func (l *Labels) RegisterForHash(hash uint64, label string) {
	l.byHash[hash] = label
	l.byLabel[label] = hash
}

func (l *Labels) Len() int {
	return len(l.byHash)
}

// ParseHashOrLabel accepts either a 0x-prefixed hex hash or a known label.
// Unknown labels are reported with the Hash40 they would produce so the
// caller can decide whether to register them.
func (l *Labels) ParseHashOrLabel(input string) (uint64, error) {
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		if hash, err := strconv.ParseUint(input[2:], 16, 64); err == nil {
			return hash, nil
		}
	}
	if hash, ok := l.byLabel[input]; ok {
		return hash, nil
	}
	return 0, fmt.Errorf("hash40: unknown label %q (would generate 0x%X)", input, Hash40(input))
}

// Filter returns all entries whose label or hex hash contains substr,
// case-insensitive. Empty substr returns everything.
func (l *Labels) Filter(substr string) []Entry {
	needle := strings.ToLower(substr)
	out := make([]Entry, 0, len(l.byHash))
	for hash, label := range l.byHash {
		if needle != "" &&
			!strings.Contains(strings.ToLower(label), needle) &&
			!strings.Contains(strings.ToLower(fmt.Sprintf("%x", hash)), needle) {
			continue
		}
		out = append(out, Entry{Hash: hash, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out
}

// Entry is one dictionary row.
type Entry struct {
	Hash  uint64
	Label string
}

// Load reads a two-column label table: column 0 a hex hash (0x prefix
// optional, leading zeros tolerated), column 1 the label. Rows with any other
// field count or an unparseable hash are skipped, not fatal; only read errors
// surface. Returns the number of rows loaded and the number skipped.
func (l *Labels) Load(r io.Reader) (loaded, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				skipped++
				continue
			}
			return loaded, skipped, fmt.Errorf("hash40: read label table: %w", err)
		}
		if len(record) != 2 {
			skipped++
			continue
		}
		hash, ok := parseHexHash(record[0])
		if !ok {
			skipped++
			continue
		}
		l.byHash[hash] = record[1]
		l.byLabel[record[1]] = hash
		loaded++
	}
	return loaded, skipped, nil
}

// WriteTo persists every entry as "0xHEX,label" lines sorted by ascending
// hash. Output is deterministic for diffability.
func (l *Labels) WriteTo(w io.Writer) (int64, error) {
	entries := l.Filter("")
	var n int64
	for _, e := range entries {
		written, err := fmt.Fprintf(w, "0x%X,%s\n", e.Hash, e.Label)
		n += int64(written)
		if err != nil {
			return n, fmt.Errorf("hash40: write label table: %w", err)
		}
	}
	return n, nil
}

func parseHexHash(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return 0, true
	}
	hash, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return hash, true
}
