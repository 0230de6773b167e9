// SPDX-License-Identifier: MIT

package transpose

import (
	"fmt"
	"io"
	"sync"
)

// console serializes the user-facing lines of all workers of a run.
type console struct {
	mu       sync.Mutex
	w        io.Writer
	reporter int
}

func newConsole(w io.Writer, reporter int) *console {
	return &console{w: w, reporter: reporter}
}

// Printf prints only when rank is the reporter.
func (c *console) Printf(rank int, format string, args ...any) {
	if rank != c.reporter {
		return
	}
	c.AllPrintf(format, args...)
}

// AllPrintf prints from any rank.
func (c *console) AllPrintf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}
