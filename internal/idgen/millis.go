// Package idgen issues event ids as decimal millisecond timestamps.
package idgen

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Millis hands out ids derived from the wall clock in milliseconds. When the
// clock has not moved past the last issued id, the next id is last+1, so ids
// never repeat within a process.
type Millis struct {
	last atomic.Int64
	now  func() time.Time
}

func NewMillis() *Millis {
	return &Millis{now: time.Now}
}

// NewMillisWithClock is used by tests to pin the clock.
func NewMillisWithClock(now func() time.Time) *Millis {
	return &Millis{now: now}
}

// Next returns the next id and the instant it was taken at.
func (m *Millis) Next() (string, time.Time) {
	at := m.now()
	candidate := at.UnixMilli()
	for {
		last := m.last.Load()
		id := candidate
		if id <= last {
			id = last + 1
		}
		if m.last.CompareAndSwap(last, id) {
			return strconv.FormatInt(id, 10), at
		}
	}
}
