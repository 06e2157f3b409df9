package hash40

import "testing"

func TestCRCStandardVectors(t *testing.T) {
	if got := CRC(""); got != 0x00000000 {
		t.Fatalf("crc of empty string: got 0x%08X", got)
	}
	if got := CRC("123456789"); got != 0xCBF43926 {
		t.Fatalf("crc check vector: got 0x%08X want 0xCBF43926", got)
	}
}

func TestHash40Shape(t *testing.T) {
	label := "fighter_kind"
	h := Hash40(label)
	if h>>32 != uint64(len(label)) {
		t.Fatalf("high word should be length %d, got %d", len(label), h>>32)
	}
	if uint32(h) != CRC(label) {
		t.Fatalf("low word should be crc 0x%08X, got 0x%08X", CRC(label), uint32(h))
	}
}

func TestHash40Deterministic(t *testing.T) {
	for _, label := range []string{"", "a", "param_root", "0x1234"} {
		first := Hash40(label)
		for i := 0; i < 3; i++ {
			if got := Hash40(label); got != first {
				t.Fatalf("hash40(%q) unstable: 0x%X then 0x%X", label, first, got)
			}
		}
	}
}
