// Package uplink owns the periodic fix-upload duty.
package uplink

import "trackercode-go/types"

// Sender is the outbound side of whichever transport the supervisor
// currently designates. A nil Sender means no usable link this tick.
type Sender interface {
	Send(dest, payload string) error
}

type Config struct {
	URL        string
	IntervalMs int64
}

// Outcome reports what one tick did: nothing, or an attempt and its result.
type Outcome struct {
	Attempted bool
	OK        bool
}

// Scheduler mutates UploadState only after an actual attempt: an invalid fix
// or missing link is a silent skip that leaves the interval timer alone, so
// one bad tick can never postpone the upload past the next good one.
type Scheduler struct {
	cfg           Config
	attempted     bool
	lastAttemptMs int64
	lastResult    types.UploadResult
}

func NewScheduler(cfg Config) *Scheduler {
	if cfg.IntervalMs <= 0 {
		cfg.IntervalMs = 120000
	}
	return &Scheduler{cfg: cfg, lastResult: types.UploadNeverAttempted}
}

func (s *Scheduler) Tick(now int64, fix types.Fix, link Sender) Outcome {
	if s.attempted && now-s.lastAttemptMs < s.cfg.IntervalMs {
		return Outcome{}
	}
	if link == nil || !fix.Valid {
		// Due but not able: retry on the next tick, don't advance the timer.
		return Outcome{}
	}

	err := link.Send(s.cfg.URL, Payload(fix))
	s.attempted = true
	s.lastAttemptMs = now
	if err != nil {
		// No in-interval retry after a failed send; traffic stays bounded.
		s.lastResult = types.UploadFailure
		println("[uplink] send failed")
		return Outcome{Attempted: true}
	}
	s.lastResult = types.UploadSuccess
	return Outcome{Attempted: true, OK: true}
}

// LastResult is read by the display coordinator.
func (s *Scheduler) LastResult() types.UploadResult { return s.lastResult }
