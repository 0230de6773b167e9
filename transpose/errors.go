// SPDX-License-Identifier: MIT

package transpose

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to them, so callers can use
// errors.Is for the category and errors.As for the details.
var (
	// ErrConfiguration is matched by *ConfigurationError.
	ErrConfiguration = errors.New("transpose: participant count mismatch")

	// ErrVerification is matched by *VerificationError.
	ErrVerification = errors.New("transpose: verification failed")

	// ErrBadConfig is returned by Config.Validate and LoadConfig.
	ErrBadConfig = errors.New("transpose: invalid configuration")

	// ErrUnsupportedConfig is returned for config files that are neither TOML nor YAML.
	ErrUnsupportedConfig = errors.New("transpose: unsupported config file format")

	// ErrInvalidState is returned when a step is called out of order.
	ErrInvalidState = errors.New("transpose: invalid state transition")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("transpose: invalid option supplied")
)

// ConfigurationError reports that the launched participant count differs
// from the configured worker count. It is detected before any exchange.
type ConfigurationError struct {
	Expected int
	Actual   int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("transpose: number of processes must be %d, got %d", e.Expected, e.Actual)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// VerificationError reports the first cell of a slab that does not hold its
// expected transposed value.
type VerificationError struct {
	Rank     int
	Row, Col int // local coordinates in the slab
	Actual   float64
	Expected float64
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("transpose: process %d found b[%d][%d] = %f, but %f was expected",
		e.Rank, e.Row, e.Col, e.Actual, e.Expected)
}

func (e *VerificationError) Unwrap() error { return ErrVerification }

// workerErrorf tags err with the failing step and rank.
func workerErrorf(step string, rank int, err error) error {
	return fmt.Errorf("transpose: rank %d: %s: %w", rank, step, err)
}

// ExitCode maps a run outcome to the process exit status: 0 on success,
// 1 on any configuration, verification or transport failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	return 1
}
