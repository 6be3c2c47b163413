// Package touch converts raw capacitive sensor samples into touch-session
// events. It is pure state transition over sampled input: no hardware, no
// real sleeps, every decision is a timestamp comparison against the loop
// clock, so tests drive it with synthetic time.
package touch

import "trackercode-go/types"

type EventKind uint8

const (
	SessionStarted EventKind = iota
	ThresholdCrossed
	PageAdvanceRequested
	SessionEnded
)

// Event is one classifier output. Alert is set for ThresholdCrossed only.
type Event struct {
	Kind  EventKind
	Alert types.AlertKind
}

// Threshold is a hold-duration boundary mapped to an alert category.
type Threshold struct {
	LowerMs int64
	Alert   types.AlertKind
}

// DefaultThresholds is the ascending duration-to-alert table. Each entry's
// window ends at the next entry's lower bound; the last is unbounded.
var DefaultThresholds = []Threshold{
	{LowerMs: 3000, Alert: types.AlertLowBattery},
	{LowerMs: 6000, Alert: types.AlertSOS},
	{LowerMs: 10000, Alert: types.AlertFall},
}

type Config struct {
	// Raw readings below Sensitivity count as touched.
	Sensitivity uint16
	// Consecutive released samples required to accept a release.
	ReleaseSamples int
	// Minimum spacing between counted release samples.
	ReleaseSpacingMs int64
	// Thresholds overrides DefaultThresholds when non-nil. Must be ascending.
	Thresholds []Threshold
}

// Classifier owns one touch session at a time. A session exists from the
// first touched sample until a debounced release confirms the finger is
// gone; a glitch reading mid-hold never resets the session.
type Classifier struct {
	cfg   Config
	steps []Threshold

	active  bool
	startMs int64
	fired   []bool

	releasePending bool
	releaseCount   int
	releaseFirstMs int64 // first sample of the pending release run
	releaseLastMs  int64 // last counted release sample
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = 1000
	}
	if cfg.ReleaseSamples <= 0 {
		cfg.ReleaseSamples = 5
	}
	if cfg.ReleaseSpacingMs <= 0 {
		cfg.ReleaseSpacingMs = 10
	}
	steps := cfg.Thresholds
	if steps == nil {
		steps = DefaultThresholds
	}
	return &Classifier{
		cfg:   cfg,
		steps: steps,
		fired: make([]bool, len(steps)),
	}
}

// Sample feeds one raw reading taken at loop time now and returns the events
// it produced, in order.
func (c *Classifier) Sample(raw uint16, now int64) []Event {
	if raw < c.cfg.Sensitivity {
		return c.sampleTouched(now)
	}
	return c.sampleReleased(now)
}

func (c *Classifier) sampleTouched(now int64) []Event {
	var events []Event
	if !c.active {
		c.active = true
		c.startMs = now
		for i := range c.fired {
			c.fired[i] = false
		}
		events = append(events, Event{Kind: SessionStarted})
	}
	// A touched sample cancels any pending release outright; the session
	// resumes with its original start time and fired set.
	c.releasePending = false
	c.releaseCount = 0

	dur := now - c.startMs
	for i := range c.steps {
		if c.fired[i] {
			continue
		}
		if dur < c.steps[i].LowerMs {
			break
		}
		// A delayed tick can jump the duration past a window; the skipped
		// threshold stays unfired so ordering by duration is preserved.
		if i+1 < len(c.steps) && dur >= c.steps[i+1].LowerMs {
			continue
		}
		c.fired[i] = true
		events = append(events, Event{Kind: ThresholdCrossed, Alert: c.steps[i].Alert})
	}
	return events
}

func (c *Classifier) sampleReleased(now int64) []Event {
	if !c.active {
		return nil
	}
	if !c.releasePending {
		c.releasePending = true
		c.releaseFirstMs = now
		c.releaseLastMs = now
		c.releaseCount = 1
	} else if now-c.releaseLastMs >= c.cfg.ReleaseSpacingMs {
		c.releaseCount++
		c.releaseLastMs = now
	}
	if c.releaseCount < c.cfg.ReleaseSamples {
		return nil
	}

	// Release confirmed. Duration runs to the first sample of the run, so
	// the debounce window itself never counts as holding.
	dur := c.releaseFirstMs - c.startMs
	var events []Event
	if dur < c.steps[0].LowerMs {
		events = append(events, Event{Kind: PageAdvanceRequested})
	}
	events = append(events, Event{Kind: SessionEnded})
	c.active = false
	c.releasePending = false
	c.releaseCount = 0
	return events
}

// Touching reports whether a session is live (including a pending,
// not-yet-confirmed release).
func (c *Classifier) Touching() bool { return c.active }

// HoldMs returns the current hold duration, or 0 outside a session.
func (c *Classifier) HoldMs(now int64) int64 {
	if !c.active {
		return 0
	}
	return now - c.startMs
}

// Thresholds exposes the active table for progress rendering.
func (c *Classifier) Thresholds() []Threshold { return c.steps }
