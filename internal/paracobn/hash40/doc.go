// Package hash40 owns content-hash derivation and the label dictionary.
//
// Ownership boundary:
// - Hash40 derivation (length<<32 | CRC-32)
// - bidirectional hash<->label dictionary
// - label table CSV load/persist
package hash40
