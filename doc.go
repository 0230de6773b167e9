// Package parallelcomputing is the root of a small toolkit for running
// bulk-synchronous matrix work over a cohort of cooperating workers.
//
// Packages:
//
//	matrix/          - row-major Dense storage and the in-place block transpose kernel
//	collective/      - Comm: personalized all-to-all, barrier and group abort over an in-process World
//	transpose/       - the distributed transpose protocol, its configuration and verification
//	cmd/slabtranspose - command-line driver; exit status 0 on a verified transpose, 1 otherwise
//
// Quick start:
//
//	rep, err := transpose.Run(ctx, transpose.DefaultConfig())
//	if err != nil {
//		os.Exit(transpose.ExitCode(err))
//	}
//	b, _ := rep.Gather() // the whole transposed matrix, for inspection
//
// Or from a shell:
//
//	go run ./cmd/slabtranspose --workers 4 --dimension 128 -v
package parallelcomputing
