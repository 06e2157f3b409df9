// Package paramtree owns the name-resolved navigation projection of a
// decoded parameter tree.
//
// Ownership boundary:
// - display node model (resolved name, hash, cloned value, children)
// - top-down projection from a canonical value
// - root[i][j] path syntax
//
// The projection is a disposable cache: it is rebuilt wholesale from the
// canonical tree after any mutation or label change, never mutated into a
// divergent state of its own.
package paramtree
