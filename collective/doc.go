// Package collective implements the communication substrate for a fixed
// group of cooperating participants: a personalized all-to-all exchange,
// a barrier and a group-wide abort.
//
// Every participant holds a Comm with a unique rank in [0, Size()). All
// collective calls block until every participant has contributed; there is
// no timeout, so a stalled participant stalls the group. Any failure during
// an exchange is fatal for the group and is reported as a *TransportError.
//
// World is the in-process implementation: participants are goroutines,
// connected by one buffered mailbox per ordered pair of ranks. Payloads are
// copied on send, so no participant ever sees another participant's buffers.
//
//	err := collective.Run(ctx, 4, func(ctx context.Context, c collective.Comm) error {
//		send := make([]float64, 4*n)
//		recv := make([]float64, 4*n)
//		// fill send[p*n:(p+1)*n] for each peer p
//		return c.AllToAll(ctx, send, recv, n)
//	})
package collective
