package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Clock is the loop's time source. Components never read the wall clock
// directly; tests substitute a synthetic clock and step it by hand.
type Clock interface {
	NowMs() int64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) NowMs() int64 { return NowMs() }

// FakeClock is a hand-stepped clock for deterministic tests.
type FakeClock struct {
	MS int64
}

func (c *FakeClock) NowMs() int64    { return c.MS }
func (c *FakeClock) Advance(d int64) { c.MS += d }
func (c *FakeClock) Set(ms int64)    { c.MS = ms }
