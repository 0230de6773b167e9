// SPDX-License-Identifier: MIT

package collective

import (
	"context"
	"unsafe"
)

// Root is the rank 0 participant, the conventional reporter.
const Root = 0

// Comm is one participant's handle on a fixed-size group of participants.
// All collective methods must be entered by every participant of the group,
// in the same order, with agreeing sizes.
type Comm interface {
	// Rank returns this participant's id, 0 <= Rank() < Size().
	Rank() int

	// Size returns the number of participants in the group.
	Size() int

	// AllToAll performs a personalized all-to-all exchange of count items
	// per peer. On return recv[p*count:(p+1)*count] holds what participant p
	// passed at send[Rank()*count:(Rank()+1)*count]. send and recv must be
	// disjoint and hold exactly count*Size() items each. AllToAll blocks
	// until every participant has contributed.
	AllToAll(ctx context.Context, send, recv []float64, count int) error

	// Barrier blocks until every participant has entered it.
	Barrier(ctx context.Context) error

	// Abort fails every pending and future collective of the whole group.
	// Only the first cause is kept.
	Abort(cause error)

	// Traffic returns a snapshot of the bytes moved by this participant.
	Traffic() Traffic
}

// Traffic counts payload bytes per peer for one participant.
type Traffic struct {
	Rank         int
	SentTo       []int64 // bytes sent to peer p, including self
	ReceivedFrom []int64 // bytes received from peer p, including self
}

// TotalSent returns the bytes sent to all peers.
func (t Traffic) TotalSent() int64 { return sum(t.SentTo) }

// TotalReceived returns the bytes received from all peers.
func (t Traffic) TotalReceived() int64 { return sum(t.ReceivedFrom) }

func sum(xs []int64) int64 {
	var s int64
	for _, x := range xs {
		s += x
	}

	return s
}

// Overlaps reports whether two slices share any element of memory.
// Empty slices never overlap.
func Overlaps[T any](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	var zero T
	sz := unsafe.Sizeof(zero)
	if sz == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	a1 := a0 + uintptr(len(a))*sz
	b1 := b0 + uintptr(len(b))*sz

	return a0 < b1 && b0 < a1
}
