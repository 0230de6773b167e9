// SPDX-License-Identifier: MIT
// Package matrix - transpose kernels.
//
// Purpose:
//   - TransposeSquareInPlace: swap mirrored off-diagonal elements of an n×n
//     row-major block stored in a flat slice, with no scratch matrix.
//
// Determinism & Performance:
//   - Fixed upper-triangle walk order; zero allocations.

package matrix

import "fmt"

// Operation name for unified error wrapping.
const opTransposeInPlace = "TransposeInPlace"

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// TransposeSquareInPlace transposes the n×n row-major block held in a[:n*n].
// MAIN DESCRIPTION:
//   - Swaps element (i,j) with (j,i) for every i<j; the diagonal is untouched.
//
// Implementation:
//   - Stage 1: validate n and the buffer length.
//   - Stage 2: walk the upper triangle with two running offsets:
//     ij moves +1 along row i, ji moves +n down column i. The diagonal
//     offset d = i*(n+1) advances by n+1 per row, so no index is multiplied
//     inside the loops.
//
// Behavior highlights:
//   - n == 0 and n == 1 are no-ops (no off-diagonal pairs).
//   - Elements past n*n are never touched.
//   - Applying the kernel twice restores the block exactly.
//
// Errors:
//   - ErrBadShape when n < 0.
//   - ErrShortBuffer when len(a) < n*n, including orders whose n*n overflows int.
//
// Complexity:
//   - Time O(n²), Space O(1), zero allocations.
func TransposeSquareInPlace[T any](a []T, n int) error {
	if n < 0 {
		return matrixErrorf(opTransposeInPlace, fmt.Errorf("order %d: %w", n, ErrBadShape))
	}
	if err := ValidateBlockLen(len(a), n); err != nil {
		return matrixErrorf(opTransposeInPlace, err)
	}

	var i, j, d, ij, ji int
	for i = 0; i < n; i++ {
		ij = d + 1 // (i, i+1)
		ji = d + n // (i+1, i)
		for j = i + 1; j < n; j++ {
			a[ij], a[ji] = a[ji], a[ij]
			ij++
			ji += n
		}
		d += n + 1
	}

	return nil
}
