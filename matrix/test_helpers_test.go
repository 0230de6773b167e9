// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures for Dense and block kernels.

package matrix_test

import (
	"testing"

	"github.com/maverickz/ParallelComputing/matrix"
)

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(tb testing.TB, r, c int) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		tb.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// FillSequential returns an r×c Dense with value i*c+j at (i,j).
func FillSequential(tb testing.TB, r, c int) *matrix.Dense {
	tb.Helper()
	m := MustDense(tb, r, c)
	if err := m.Apply(func(i, j int, _ float64) float64 { return float64(i*c + j) }); err != nil {
		tb.Fatalf("Apply: %v", err)
	}

	return m
}

// sequentialBlock returns a flat n×n block with a[k] = k.
func sequentialBlock(n int) []float64 {
	a := make([]float64, n*n)
	for k := range a {
		a[k] = float64(k)
	}

	return a
}
