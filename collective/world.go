// SPDX-License-Identifier: MIT

package collective

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/maverickz/ParallelComputing/matrix"
)

// Operation tags used in TransportError.Op.
const (
	opAllToAll = "AllToAll"
	opBarrier  = "Barrier"
)

// envelope is one payload travelling from one participant to another.
// The receiver owns data once the envelope is delivered.
type envelope struct {
	seq  uint64 // collective sequence number of the sender
	data []float64
}

// World is an in-process group of participants connected by one buffered
// mailbox per ordered pair of ranks. Each participant is driven by its own
// goroutine through the Endpoint returned by Comm.
type World struct {
	size      int
	boxes     [][]chan envelope // boxes[from][to]
	endpoints []*Endpoint

	abortOnce sync.Once
	abort     chan struct{}
	cause     error // written once before abort is closed
}

// NewWorld creates a world of size participants.
// Returns ErrBadWorldSize if size <= 0.
func NewWorld(size int) (*World, error) {
	if size <= 0 {
		return nil, fmt.Errorf("NewWorld(%d): %w", size, ErrBadWorldSize)
	}

	w := &World{
		size:      size,
		boxes:     make([][]chan envelope, size),
		endpoints: make([]*Endpoint, size),
		abort:     make(chan struct{}),
	}
	var from, to int
	for from = 0; from < size; from++ {
		w.boxes[from] = make([]chan envelope, size)
		for to = 0; to < size; to++ {
			w.boxes[from][to] = make(chan envelope, 1)
		}
	}
	for r := 0; r < size; r++ {
		w.endpoints[r] = &Endpoint{
			world:        w,
			rank:         r,
			sentTo:       make([]int64, size),
			receivedFrom: make([]int64, size),
		}
	}

	return w, nil
}

// Size returns the number of participants.
func (w *World) Size() int { return w.size }

// Comm returns the endpoint of the given rank.
func (w *World) Comm(rank int) (*Endpoint, error) {
	if rank < 0 || rank >= w.size {
		return nil, fmt.Errorf("World.Comm(%d): %w", rank, ErrRankOutOfRange)
	}

	return w.endpoints[rank], nil
}

// Abort unblocks every participant. The first cause wins.
func (w *World) Abort(cause error) {
	w.abortOnce.Do(func() {
		w.cause = cause
		close(w.abort)
	})
}

// Aborted reports whether Abort has been called.
func (w *World) Aborted() bool {
	select {
	case <-w.abort:
		return true
	default:
		return false
	}
}

// Cause returns the cause passed to the first Abort, or nil.
func (w *World) Cause() error {
	if !w.Aborted() {
		return nil
	}

	return w.cause
}

// Traffic returns a snapshot of every participant's byte counters, by rank.
func (w *World) Traffic() []Traffic {
	out := make([]Traffic, w.size)
	for r, e := range w.endpoints {
		out[r] = e.Traffic()
	}

	return out
}

// Endpoint is the Comm of one participant of a World.
// Its collective methods must be called from a single goroutine.
type Endpoint struct {
	world *World
	rank  int
	seq   uint64 // collectives entered so far

	mu           sync.Mutex
	sentTo       []int64
	receivedFrom []int64
}

var _ Comm = (*Endpoint)(nil)

// Rank returns this participant's rank.
func (e *Endpoint) Rank() int { return e.rank }

// Size returns the number of participants in the world.
func (e *Endpoint) Size() int { return e.world.size }

// Abort aborts the whole world.
func (e *Endpoint) Abort(cause error) { e.world.Abort(cause) }

// Traffic returns a copy of this participant's byte counters.
func (e *Endpoint) Traffic() Traffic {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := Traffic{
		Rank:         e.rank,
		SentTo:       make([]int64, len(e.sentTo)),
		ReceivedFrom: make([]int64, len(e.receivedFrom)),
	}
	copy(t.SentTo, e.sentTo)
	copy(t.ReceivedFrom, e.receivedFrom)

	return t
}

// AllToAll implements Comm.
// MAIN DESCRIPTION:
//   - Personalized exchange: block p of send goes to participant p, block p
//     of recv comes from participant p. Every block holds count items.
//
// Implementation:
//   - Stage 1: validate count, buffer lengths and disjointness; nothing is
//     posted when a precondition fails.
//   - Stage 2: post a private copy of each outgoing block, peers in rotated
//     order starting at self.
//   - Stage 3: take one envelope from every peer, check its sequence number
//     and length, copy it into recv.
//
// Errors:
//   - ErrBadCount, ErrBufferLength (also when count*size overflows int),
//     ErrAliasedBuffers (preconditions).
//   - *TransportError on abort, cancellation or peer disagreement.
//
// Complexity:
//   - Time O(size*count), one count-sized allocation per outgoing block.
func (e *Endpoint) AllToAll(ctx context.Context, send, recv []float64, count int) error {
	if count < 0 {
		return fmt.Errorf("%s(count=%d): %w", opAllToAll, count, ErrBadCount)
	}
	size := e.world.size
	if count > 0 && count > math.MaxInt/size {
		return fmt.Errorf("%s: count %d times %d peers overflows int: %w", opAllToAll, count, size, ErrBufferLength)
	}
	want := count * size
	if len(send) != want || len(recv) != want {
		return fmt.Errorf("%s: send %d, recv %d, want %d: %w", opAllToAll, len(send), len(recv), want, ErrBufferLength)
	}
	if Overlaps(send, recv) {
		return fmt.Errorf("%s: %w", opAllToAll, ErrAliasedBuffers)
	}

	return e.exchange(ctx, opAllToAll, send, recv, count)
}

// Barrier implements Comm as a zero-payload exchange.
func (e *Endpoint) Barrier(ctx context.Context) error {
	return e.exchange(ctx, opBarrier, nil, nil, 0)
}

func (e *Endpoint) exchange(ctx context.Context, op string, send, recv []float64, count int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.interrupted(ctx, op, -1); err != nil {
		return err
	}

	e.seq++
	size := e.world.size
	nbytes := int64(count * matrix.ElementSize)

	var k, peer int
	for k = 0; k < size; k++ {
		peer = (e.rank + k) % size
		msg := envelope{seq: e.seq}
		if count > 0 {
			msg.data = make([]float64, count)
			copy(msg.data, send[peer*count:(peer+1)*count])
		}
		if err := e.post(ctx, op, peer, msg); err != nil {
			return err
		}
		e.account(e.sentTo, peer, nbytes)
	}

	for k = 0; k < size; k++ {
		peer = (e.rank - k + size) % size
		msg, err := e.take(ctx, op, peer)
		if err != nil {
			return err
		}
		if msg.seq != e.seq {
			return e.fail(op, peer, ErrSequenceMismatch)
		}
		if len(msg.data) != count {
			return e.fail(op, peer, ErrCountMismatch)
		}
		copy(recv[peer*count:(peer+1)*count], msg.data)
		e.account(e.receivedFrom, peer, nbytes)
	}

	return nil
}

func (e *Endpoint) post(ctx context.Context, op string, peer int, msg envelope) error {
	select {
	case e.world.boxes[e.rank][peer] <- msg:
		return nil
	case <-e.world.abort:
		return e.aborted(op, peer)
	case <-ctx.Done():
		return e.fail(op, peer, ctx.Err())
	}
}

func (e *Endpoint) take(ctx context.Context, op string, peer int) (envelope, error) {
	select {
	case msg := <-e.world.boxes[peer][e.rank]:
		return msg, nil
	case <-e.world.abort:
		return envelope{}, e.aborted(op, peer)
	case <-ctx.Done():
		return envelope{}, e.fail(op, peer, ctx.Err())
	}
}

// interrupted reports an abort or cancellation that happened before entry.
func (e *Endpoint) interrupted(ctx context.Context, op string, peer int) error {
	if e.world.Aborted() {
		return e.aborted(op, peer)
	}
	if err := ctx.Err(); err != nil {
		return e.fail(op, peer, err)
	}

	return nil
}

func (e *Endpoint) aborted(op string, peer int) error {
	return &TransportError{Op: op, Rank: e.rank, Peer: peer, Err: ErrAborted, Cause: e.world.Cause()}
}

func (e *Endpoint) fail(op string, peer int, err error) error {
	return &TransportError{Op: op, Rank: e.rank, Peer: peer, Err: err}
}

func (e *Endpoint) account(counter []int64, peer int, n int64) {
	e.mu.Lock()
	counter[peer] += n
	e.mu.Unlock()
}
