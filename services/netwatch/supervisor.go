// Package netwatch tracks link health and designates the outbound transport.
// The reconnect cycle is a tick-driven state machine: one bounded attempt per
// retry-delay boundary, never a real sleep, so the cooperative loop keeps
// servicing touch and GPS while the link is down.
package netwatch

import "trackercode-go/types"

// Transport is one network path (primary WiFi, fallback, ...). Reconnect
// with full=false reuses cached credentials; full=true runs the slow
// re-provisioning path with the transport's own short timeout.
type Transport interface {
	IsConnected() bool
	Reconnect(full bool) bool
	Send(dest, payload string) error
}

type Config struct {
	PollMs       int64 // health poll interval
	FastRetries  int   // cached-credential attempts before the full one
	RetryDelayMs int64 // spacing between attempts within a cycle
}

func (c *Config) setDefaults() {
	if c.PollMs <= 0 {
		c.PollMs = 30000
	}
	if c.FastRetries <= 0 {
		c.FastRetries = 3
	}
	if c.RetryDelayMs <= 0 {
		c.RetryDelayMs = 2000
	}
}

// Report is the per-tick outcome handed to the loop.
type Report struct {
	Mode         types.LinkMode
	Reconnecting bool
	Changed      bool
}

// Supervisor owns ConnectivityState; nothing else mutates it.
type Supervisor struct {
	cfg       Config
	primary   Transport
	secondary Transport

	mode          types.LinkMode
	reconnecting  bool
	attempts      int
	lastCheckMs   int64
	lastAttemptMs int64
	polled        bool
}

func NewSupervisor(primary, secondary Transport, cfg Config) *Supervisor {
	cfg.setDefaults()
	return &Supervisor{
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		mode:      types.LinkNone,
	}
}

// Tick advances the state machine. Health is polled at the configured
// interval, not every tick; an in-flight reconnect cycle runs to its
// terminal mode before any new poll can start another.
func (s *Supervisor) Tick(now int64) Report {
	prevMode, prevRec := s.mode, s.reconnecting

	if s.reconnecting {
		s.stepCycle(now)
	} else if !s.polled || now-s.lastCheckMs >= s.cfg.PollMs {
		s.polled = true
		s.lastCheckMs = now
		s.poll(now)
	}

	return Report{
		Mode:         s.mode,
		Reconnecting: s.reconnecting,
		Changed:      s.mode != prevMode || s.reconnecting != prevRec,
	}
}

// poll runs at a poll boundary, outside any cycle.
func (s *Supervisor) poll(now int64) {
	if s.primary.IsConnected() {
		// Recovery to primary happens only here, on a confirmed poll,
		// never mid-cycle, so the mode cannot flap.
		s.mode = types.LinkPrimary
		return
	}
	if s.mode == types.LinkSecondary && s.secondary != nil && s.secondary.IsConnected() {
		// Fallback path still healthy: keep it, keep watching primary.
		return
	}
	s.enterCycle(now)
}

func (s *Supervisor) enterCycle(now int64) {
	println("[netwatch] primary down, reconnecting")
	s.mode = types.LinkNone
	s.reconnecting = true
	s.attempts = 0
	// First attempt fires on this same tick.
	s.lastAttemptMs = now - s.cfg.RetryDelayMs
	s.stepCycle(now)
}

// stepCycle performs at most one reconnect attempt per retry-delay boundary.
func (s *Supervisor) stepCycle(now int64) {
	if now-s.lastAttemptMs < s.cfg.RetryDelayMs {
		return
	}
	s.lastAttemptMs = now

	if s.attempts < s.cfg.FastRetries {
		s.attempts++
		if s.primary.Reconnect(false) {
			s.finishCycle(types.LinkPrimary)
		}
		return
	}

	// Fast attempts exhausted: one slow full re-provisioning attempt.
	if s.primary.Reconnect(true) {
		s.finishCycle(types.LinkPrimary)
		return
	}
	if s.secondary != nil && (s.secondary.IsConnected() || s.secondary.Reconnect(false)) {
		s.finishCycle(types.LinkSecondary)
		return
	}
	// The device keeps operating without network rather than blocking here.
	s.finishCycle(types.LinkNone)
}

func (s *Supervisor) finishCycle(mode types.LinkMode) {
	s.mode = mode
	s.reconnecting = false
	s.attempts = 0
	println("[netwatch] cycle done, mode:", string(mode))
}

// Usable reports whether outbound traffic currently has a designated path.
func (s *Supervisor) Usable() bool {
	return s.mode != types.LinkNone && !s.reconnecting
}

func (s *Supervisor) Mode() types.LinkMode { return s.mode }

func (s *Supervisor) Reconnecting() bool { return s.reconnecting }

// Active returns the transport for the current mode, or nil when none.
func (s *Supervisor) Active() Transport {
	switch s.mode {
	case types.LinkPrimary:
		return s.primary
	case types.LinkSecondary:
		return s.secondary
	}
	return nil
}
