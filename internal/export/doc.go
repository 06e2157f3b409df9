// Package export renders decoded parameter trees as structured text.
//
// Ownership boundary:
//   - owns the JSON / YAML / CBOR projections of a value tree
//   - resolves field keys and hash leaves through the label dictionary
//   - never mutates the tree it is given
//
// Exports are one-way. The binary container stays the only format that
// re-imports losslessly, so no parser lives here.
package export
