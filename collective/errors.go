// SPDX-License-Identifier: MIT

package collective

import (
	"errors"
	"fmt"
)

// Sentinel errors for collective operations. Precondition sentinels are
// returned before any message is posted; everything that fails once the
// exchange is under way is reported as a *TransportError.
var (
	// ErrBadWorldSize is returned when a world is created with size <= 0.
	ErrBadWorldSize = errors.New("collective: world size must be > 0")

	// ErrRankOutOfRange is returned for a rank outside [0, size).
	ErrRankOutOfRange = errors.New("collective: rank out of range")

	// ErrBadCount is returned when the per-peer item count is negative.
	ErrBadCount = errors.New("collective: negative per-peer count")

	// ErrBufferLength is returned when send or receive length != count*size.
	ErrBufferLength = errors.New("collective: buffer length does not match count*size")

	// ErrAliasedBuffers is returned when the send and receive regions overlap.
	ErrAliasedBuffers = errors.New("collective: send and receive buffers overlap")

	// ErrTransport marks every failure of an exchange already in progress.
	ErrTransport = errors.New("collective: transport failure")

	// ErrAborted is the cause carried by collectives interrupted by Abort.
	ErrAborted = errors.New("collective: world aborted")

	// ErrSequenceMismatch means a peer delivered a payload of a different collective.
	ErrSequenceMismatch = errors.New("collective: peer is in a different collective")

	// ErrCountMismatch means a peer delivered a payload of a different length.
	ErrCountMismatch = errors.New("collective: peer payload length differs")
)

// TransportError describes a collective that failed after it started.
// It matches ErrTransport and its Err via errors.Is.
type TransportError struct {
	Op    string // "AllToAll" or "Barrier"
	Rank  int    // local rank
	Peer  int    // peer involved, -1 if none
	Err   error  // ErrAborted, ErrSequenceMismatch, ErrCountMismatch or a context error
	Cause error  // abort cause reported by the participant that aborted, if any
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("collective: %s on rank %d", e.Op, e.Rank)
	if e.Peer >= 0 {
		msg += fmt.Sprintf(" (peer %d)", e.Peer)
	}
	msg += ": " + e.Err.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap exposes ErrTransport and the direct failure. Cause is reported in
// the message only; it belongs to the participant that aborted.
func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }
