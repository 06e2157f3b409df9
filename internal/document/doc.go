// Package document owns one open parameter container: the canonical value
// tree, its label dictionary, and the display projection.
//
// Ownership boundary:
// - open/save lifecycle and their failure semantics
// - path-addressed read and mutation (get/set/rename/delete/insert)
// - canonical tree <-> display tree synchronization
//
// The display tree is recomputed wholesale after every canonical mutation;
// there is no incremental synchronization to diverge.
package document
