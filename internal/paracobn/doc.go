// Package paracobn owns the binary parameter-container wire contract.
//
// Ownership boundary:
// - typed value model (scalars, hash, string, list, struct)
// - container decoder (header, hash table, reference table, tree)
// - container encoder (hash collection, deferred reference backpatching)
//
// A container is: 8-byte magic "paracobn", two i32 LE section sizes, a flat
// u64 LE hash table, a raw reference table (string bodies and struct
// hash/offset pair blocks), then the parameter tree. Struct and list offsets
// are relative to their own tag byte; reference-table offsets are relative to
// the start of the reference table.
package paracobn
