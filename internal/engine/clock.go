package engine

import "sync/atomic"

// Clock hands out record sequence numbers.
//
// Every record an Engine processes is stamped with the next value, so
// output lines can be ordered and correlated with log entries without
// relying on wall-clock time. Dropped records consume a number too.
//
// Clock is safe for concurrent use, although an Engine only calls it from
// its own goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose first Next returns start+1. Used to
// continue numbering across several inputs.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last number handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
