package hash40

import "hash/crc32"

// crcTable is the reflected CRC-32 table for polynomial 0xEDB88320
// (CRC-32/ISO-HDLC), the variant the paracobn ecosystem hashes with.
var crcTable = crc32.MakeTable(crc32.IEEE)

// CRC computes the CRC-32/ISO-HDLC checksum of label's UTF-8 bytes.
func CRC(label string) uint32 {
	return crc32.Checksum([]byte(label), crcTable)
}

// Hash40 derives the 40-bit content hash for a label: the label's byte
// length in the high 32 bits, its CRC-32 in the low 32 bits.
func Hash40(label string) uint64 {
	return uint64(len(label))<<32 | uint64(CRC(label))
}
