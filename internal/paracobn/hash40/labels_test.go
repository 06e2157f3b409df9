package hash40

import (
	"bytes"
	"strings"
	"testing"
)

func TestRegisterAndResolve(t *testing.T) {
	l := NewLabels()
	h := l.Register("walk_speed")
	if got := l.Resolve(h); got != "walk_speed" {
		t.Fatalf("resolve after register: got %q", got)
	}
	// Idempotent for the same label.
	if again := l.Register("walk_speed"); again != h {
		t.Fatalf("re-register changed hash: 0x%X vs 0x%X", again, h)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", l.Len())
	}
}

func TestResolveMaskingFallbacks(t *testing.T) {
	l := NewLabels()
	l.RegisterForHash(0x00000000CAFEBABE, "masked_entry")

	// A hash that only matches after masking to the low 32 bits must still
	// resolve to the registered label, not a hex string.
	if got := l.Resolve(0x1234ABCDCAFEBABE); got != "masked_entry" {
		t.Fatalf("32-bit mask fallback: got %q", got)
	}
}

func TestResolveExactWinsOverMasked(t *testing.T) {
	l := NewLabels()
	l.RegisterForHash(0x00000000DEADBEEF, "low_entry")
	l.RegisterForHash(0x0005000CDEADBEEF, "exact_entry")
	if got := l.Resolve(0x0005000CDEADBEEF); got != "exact_entry" {
		t.Fatalf("exact match should win: got %q", got)
	}
}

func TestResolveUnknownFormatsHex(t *testing.T) {
	l := NewLabels()
	if got := l.Resolve(0xABCDEF); got != "0xABCDEF" {
		t.Fatalf("unknown hash rendering: got %q", got)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	l := NewLabels()
	table := strings.Join([]string{
		"0x1F600000042,param_root",
		"not,three,columns",
		"zzzz,bad_hash",
		"0x00000000CAFE,padded_zeros",
	}, "\n")
	loaded, skipped, err := l.Load(strings.NewReader(table))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != 2 {
		t.Fatalf("expected 2 loaded, got %d", loaded)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", skipped)
	}
	if got := l.Resolve(0xCAFE); got != "padded_zeros" {
		t.Fatalf("leading-zero normalization: got %q", got)
	}
}

func TestWriteToSortedDeterministic(t *testing.T) {
	l := NewLabels()
	l.RegisterForHash(0xBEEF, "second")
	l.RegisterForHash(0x1, "first")
	l.RegisterForHash(0xFFFF0000, "third")

	var buf bytes.Buffer
	if _, err := l.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "0x1,first\n0xBEEF,second\n0xFFFF0000,third\n"
	if buf.String() != want {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}

	// Round trip through Load restores every entry.
	reloaded := NewLabels()
	loaded, skipped, err := reloaded.Load(bytes.NewReader(buf.Bytes()))
	if err != nil || loaded != 3 || skipped != 0 {
		t.Fatalf("reload: loaded=%d skipped=%d err=%v", loaded, skipped, err)
	}
}

func TestParseHashOrLabel(t *testing.T) {
	l := NewLabels()
	h := l.Register("jump_count")

	got, err := l.ParseHashOrLabel("0x10")
	if err != nil || got != 0x10 {
		t.Fatalf("hex parse: got 0x%X err=%v", got, err)
	}
	got, err = l.ParseHashOrLabel("jump_count")
	if err != nil || got != h {
		t.Fatalf("label parse: got 0x%X err=%v", got, err)
	}
	if _, err := l.ParseHashOrLabel("never_registered"); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}

func TestFilter(t *testing.T) {
	l := NewLabels()
	l.RegisterForHash(0xA1, "attack_power")
	l.RegisterForHash(0xB2, "defense")
	if got := l.Filter("attack"); len(got) != 1 || got[0].Label != "attack_power" {
		t.Fatalf("label filter: %+v", got)
	}
	if got := l.Filter("b2"); len(got) != 1 || got[0].Hash != 0xB2 {
		t.Fatalf("hex filter: %+v", got)
	}
	if got := l.Filter(""); len(got) != 2 {
		t.Fatalf("empty filter should return all, got %d", len(got))
	}
}
