package collective_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/maverickz/ParallelComputing/collective"
	"github.com/maverickz/ParallelComputing/matrix"
)

// payload encodes (sender, receiver, item) into a unique value.
func payload(from, to, k int) float64 {
	return float64(from*1_000_000 + to*1_000 + k)
}

// WorldSuite exercises the in-process World under various scenarios.
type WorldSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *WorldSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	s.T().Cleanup(cancel)
	s.ctx = ctx
}

// TestAllToAllPersonalized checks the block routing contract for several sizes.
func (s *WorldSuite) TestAllToAllPersonalized() {
	for _, size := range []int{1, 2, 3, 4, 7} {
		for _, count := range []int{0, 1, 5} {
			s.Run(fmt.Sprintf("size=%d/count=%d", size, count), func() {
				recvs := make([][]float64, size)
				err := collective.Run(s.ctx, size, func(ctx context.Context, c collective.Comm) error {
					r := c.Rank()
					send := make([]float64, size*count)
					recv := make([]float64, size*count)
					for p := 0; p < size; p++ {
						for k := 0; k < count; k++ {
							send[p*count+k] = payload(r, p, k)
						}
					}
					if err := c.AllToAll(ctx, send, recv, count); err != nil {
						return err
					}
					recvs[r] = recv
					return nil
				})
				require.NoError(s.T(), err)

				for r := 0; r < size; r++ {
					for p := 0; p < size; p++ {
						for k := 0; k < count; k++ {
							require.Equal(s.T(), payload(p, r, k), recvs[r][p*count+k])
						}
					}
				}
			})
		}
	}
}

// TestTrafficAccounting checks exact per-pair and total byte counts.
func (s *WorldSuite) TestTrafficAccounting() {
	const size, count = 4, 9
	w, err := collective.NewWorld(size)
	require.NoError(s.T(), err)

	err = w.Run(s.ctx, func(ctx context.Context, c collective.Comm) error {
		send := make([]float64, size*count)
		recv := make([]float64, size*count)
		if err := c.AllToAll(ctx, send, recv, count); err != nil {
			return err
		}
		return c.Barrier(ctx) // zero payload, must not change the counters
	})
	require.NoError(s.T(), err)

	perPair := int64(count * matrix.ElementSize)
	for _, tr := range w.Traffic() {
		for p := 0; p < size; p++ {
			require.Equal(s.T(), perPair, tr.SentTo[p])
			require.Equal(s.T(), perPair, tr.ReceivedFrom[p])
		}
		require.Equal(s.T(), int64(size)*perPair, tr.TotalSent())
		require.Equal(s.T(), tr.TotalSent(), tr.TotalReceived())
	}
}

// TestPreconditionsPostNothing checks that invalid calls fail before any message moves.
func (s *WorldSuite) TestPreconditionsPostNothing() {
	w, err := collective.NewWorld(2)
	require.NoError(s.T(), err)
	c, err := w.Comm(0)
	require.NoError(s.T(), err)

	buf := make([]float64, 8)
	require.ErrorIs(s.T(), c.AllToAll(s.ctx, buf[:4], buf[4:], -1), collective.ErrBadCount)
	require.ErrorIs(s.T(), c.AllToAll(s.ctx, buf[:4], buf[4:7], 2), collective.ErrBufferLength)
	require.ErrorIs(s.T(), c.AllToAll(s.ctx, buf[:4], buf[2:6], 2), collective.ErrAliasedBuffers)
	require.ErrorIs(s.T(), c.AllToAll(s.ctx, buf[:4], buf[:4], 2), collective.ErrAliasedBuffers)

	require.Zero(s.T(), c.Traffic().TotalSent())
}

// TestHugeCountRejected checks that a per-peer count whose total overflows
// int is a length error, not a wrapped-around size that matches empty buffers.
func (s *WorldSuite) TestHugeCountRejected() {
	w, err := collective.NewWorld(4)
	require.NoError(s.T(), err)
	c, err := w.Comm(0)
	require.NoError(s.T(), err)

	for _, count := range []int{math.MaxInt/4 + 1, math.MaxInt / 2, math.MaxInt} {
		err = c.AllToAll(s.ctx, []float64{}, []float64{}, count)
		require.ErrorIs(s.T(), err, collective.ErrBufferLength, "count=%d", count)
	}
	require.Zero(s.T(), c.Traffic().TotalSent())
}

// TestAbortReleasesPeers checks that one failing participant unblocks all others
// and that Run reports the original failure.
func (s *WorldSuite) TestAbortReleasesPeers() {
	boom := errors.New("boom")
	var released atomic.Int32

	err := collective.Run(s.ctx, 4, func(ctx context.Context, c collective.Comm) error {
		if c.Rank() == 2 {
			return boom
		}
		err := c.Barrier(ctx)
		var te *collective.TransportError
		if errors.As(err, &te) {
			released.Add(1)
		}
		return err
	})
	require.ErrorIs(s.T(), err, boom)
	require.Equal(s.T(), int32(3), released.Load())
}

// TestAbortedErrorShape checks TransportError matching.
func (s *WorldSuite) TestAbortedErrorShape() {
	w, err := collective.NewWorld(2)
	require.NoError(s.T(), err)
	cause := errors.New("verification failed")
	w.Abort(cause)
	w.Abort(errors.New("second cause is ignored"))
	require.Equal(s.T(), cause, w.Cause())

	c, err := w.Comm(1)
	require.NoError(s.T(), err)
	err = c.Barrier(s.ctx)

	var te *collective.TransportError
	require.ErrorAs(s.T(), err, &te)
	require.ErrorIs(s.T(), err, collective.ErrTransport)
	require.ErrorIs(s.T(), err, collective.ErrAborted)
	require.NotErrorIs(s.T(), err, cause)
	require.Equal(s.T(), 1, te.Rank)
	require.Contains(s.T(), err.Error(), "verification failed")
}

// TestCancelledContext checks that cancellation surfaces as a TransportError.
func (s *WorldSuite) TestCancelledContext() {
	w, err := collective.NewWorld(2)
	require.NoError(s.T(), err)
	c, err := w.Comm(0)
	require.NoError(s.T(), err)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	err = c.Barrier(ctx)
	require.ErrorIs(s.T(), err, collective.ErrTransport)
	require.ErrorIs(s.T(), err, context.Canceled)
}

// TestCountMismatch checks that disagreeing buffer sizes are detected.
func (s *WorldSuite) TestCountMismatch() {
	err := collective.Run(s.ctx, 2, func(ctx context.Context, c collective.Comm) error {
		n := 1 + c.Rank() // ranks disagree on the per-peer count
		return c.AllToAll(ctx, make([]float64, 2*n), make([]float64, 2*n), n)
	})
	require.ErrorIs(s.T(), err, collective.ErrTransport)
	require.ErrorIs(s.T(), err, collective.ErrCountMismatch)
}

// TestWorldConstruction covers size and rank validation.
func (s *WorldSuite) TestWorldConstruction() {
	_, err := collective.NewWorld(0)
	require.ErrorIs(s.T(), err, collective.ErrBadWorldSize)

	w, err := collective.NewWorld(3)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, w.Size())
	_, err = w.Comm(3)
	require.ErrorIs(s.T(), err, collective.ErrRankOutOfRange)
	c, err := w.Comm(2)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, c.Rank())
	require.Equal(s.T(), 3, c.Size())
}

func TestWorldSuite(t *testing.T) {
	suite.Run(t, new(WorldSuite))
}

// TestOverlaps covers the disjointness check.
func TestOverlaps(t *testing.T) {
	buf := make([]float64, 10)
	require.False(t, collective.Overlaps(buf[:5], buf[5:]))
	require.True(t, collective.Overlaps(buf[:6], buf[5:]))
	require.True(t, collective.Overlaps(buf, buf[3:4]))
	require.False(t, collective.Overlaps(buf[:0], buf))
	require.False(t, collective.Overlaps(make([]float64, 3), make([]float64, 3)))
	require.False(t, collective.Overlaps(make([]struct{}, 3), make([]struct{}, 3)))
}
