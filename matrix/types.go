// SPDX-License-Identifier: MIT

// Package matrix: domain types.
// This file contains ONLY the public Matrix interface and the element size
// constant used by byte accounting. Errors live in errors.go.
package matrix

import "unsafe"

// ElementSize is the size in bytes of one float64 matrix element.
const ElementSize = int(unsafe.Sizeof(float64(0)))

// Matrix represents a two-dimensional mutable array of float64 values.
// All methods are O(1).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error
}
