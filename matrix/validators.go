// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Return sentinel errors tagged with the validator name so call sites can
//    wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing on success.

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil (including a typed nil *Dense).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateBlockLen ensures a flat region of length size can hold an n×n block.
// Time: O(1). Space: O(1).
func ValidateBlockLen(size, n int) error {
	if n < 0 {
		return validatorErrorf("ValidateBlockLen", ErrBadShape)
	}
	// size/n < n is size < n*n without forming n*n.
	if n > 0 && size/n < n {
		return validatorErrorf("ValidateBlockLen", fmt.Errorf("len %d < %d*%d: %w", size, n, n, ErrShortBuffer))
	}

	return nil
}
