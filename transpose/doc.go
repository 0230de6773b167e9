// Package transpose runs a distributed transpose of a square matrix over a
// fixed cohort of workers and proves the result correct.
//
// What & Why:
//
//	A D×D matrix is split over P workers (D = P*B). Each worker owns a
//	D×B slab, which in memory is P contiguous B×B sub-blocks. One
//	personalized all-to-all moves sub-block p of every worker to worker p;
//	each worker then transposes its P received sub-blocks in place and holds
//	its slab of the transposed matrix. No worker ever sees the whole matrix.
//
// Protocol (per worker, see Worker):
//
//	Uninitialized → Initialize → Exchange → TransposeBlocks → Verify
//
// Every cell starts as 1000*row + column, so each worker can check its
// final slab analytically. The first mismatch aborts the whole cohort.
//
// Errors:
//
//   - *ConfigurationError: launched participants != Config.Workers, detected
//     before any exchange.
//   - *VerificationError: first wrong cell, with coordinates and both values.
//   - *collective.TransportError (wrapped): the exchange itself failed.
//
// All of them map to exit status 1 through ExitCode.
//
// Complexity:
//
//	Per worker: O(D*B) time and 2*D*B values of memory during the exchange,
//	D*B afterwards; P*B*B*8 bytes sent and received.
package transpose
