// Package matrix offers the dense storage and block kernels used by the
// distributed transpose.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe At/Set accessors and
//     direct access to its flat buffer for bulk exchanges.
//   - View, a no-copy window that addresses one sub-block of a slab.
//   - TransposeSquareInPlace, an allocation-free transpose of an n×n block
//     stored in any flat slice, used once per received sub-block.
//
// A worker slab of a D×D matrix split over P workers is a D×(D/P) Dense whose
// flat buffer is exactly P contiguous (D/P)×(D/P) sub-blocks, so each
// sub-block p is View(p*(D/P), 0, D/P, D/P) and its Data is a plain
// sub-slice for TransposeSquareInPlace.
package matrix
