package netwatch

import (
	"testing"

	"trackercode-go/types"
)

type fakeTransport struct {
	connected bool
	fastOK    bool
	fullOK    bool

	healthChecks int
	fastCalls    int
	fullCalls    int
}

func (f *fakeTransport) IsConnected() bool {
	f.healthChecks++
	return f.connected
}

func (f *fakeTransport) Reconnect(full bool) bool {
	if full {
		f.fullCalls++
		if f.fullOK {
			f.connected = true
		}
		return f.fullOK
	}
	f.fastCalls++
	if f.fastOK {
		f.connected = true
	}
	return f.fastOK
}

func (f *fakeTransport) Send(dest, payload string) error { return nil }

func testConfig() Config {
	return Config{PollMs: 30000, FastRetries: 3, RetryDelayMs: 2000}
}

func TestBootPicksUpHealthyPrimary(t *testing.T) {
	pri := &fakeTransport{connected: true}
	s := NewSupervisor(pri, nil, testConfig())

	r := s.Tick(0)
	if r.Mode != types.LinkPrimary || !r.Changed {
		t.Fatalf("expected changed->primary on first tick, got %+v", r)
	}
	if !s.Usable() {
		t.Error("healthy primary not usable")
	}
}

func TestHealthPollIsThrottled(t *testing.T) {
	pri := &fakeTransport{connected: true}
	s := NewSupervisor(pri, nil, testConfig())

	for now := int64(0); now < 29000; now += 50 {
		s.Tick(now)
	}
	if pri.healthChecks != 1 {
		t.Errorf("expected 1 health check before the poll interval, got %d", pri.healthChecks)
	}
	s.Tick(30000)
	if pri.healthChecks != 2 {
		t.Errorf("expected second health check at the poll boundary, got %d", pri.healthChecks)
	}
}

func TestFailoverAfterFastAndFullRetries(t *testing.T) {
	pri := &fakeTransport{connected: true}
	sec := &fakeTransport{connected: true}
	s := NewSupervisor(pri, sec, testConfig())

	s.Tick(0) // primary healthy
	pri.connected = false

	// Poll boundary: cycle entered, first fast attempt fires immediately.
	r := s.Tick(30000)
	if !r.Reconnecting || r.Mode != types.LinkNone {
		t.Fatalf("expected reconnecting after failed poll, got %+v", r)
	}
	if s.Usable() {
		t.Error("link usable while reconnecting")
	}

	// One attempt per retry-delay boundary; ticks in between do nothing.
	r = s.Tick(30050)
	if !r.Reconnecting || pri.fastCalls != 1 {
		t.Fatalf("attempt fired between delay boundaries: %d fast calls", pri.fastCalls)
	}
	s.Tick(32000) // fast #2
	s.Tick(34000) // fast #3
	if pri.fastCalls != 3 || pri.fullCalls != 0 {
		t.Fatalf("expected 3 fast attempts before full, got fast=%d full=%d", pri.fastCalls, pri.fullCalls)
	}

	r = s.Tick(36000) // full attempt, then failover
	if pri.fullCalls != 1 {
		t.Fatalf("expected exactly 1 full attempt, got %d", pri.fullCalls)
	}
	if r.Mode != types.LinkSecondary || r.Reconnecting || !r.Changed {
		t.Fatalf("expected terminal secondary, got %+v", r)
	}
	if !s.Usable() {
		t.Error("secondary mode not usable")
	}
	if s.Active() != sec {
		t.Error("active transport is not the secondary path")
	}
}

func TestNoFlapBackWithinSamePollCycle(t *testing.T) {
	pri := &fakeTransport{connected: true}
	sec := &fakeTransport{connected: true}
	s := NewSupervisor(pri, sec, testConfig())

	s.Tick(0)
	pri.connected = false
	s.Tick(30000)
	s.Tick(32000)
	s.Tick(34000)
	r := s.Tick(36000)
	if r.Mode != types.LinkSecondary {
		t.Fatalf("expected secondary, got %+v", r)
	}

	// Primary comes back right after the switch: the mode must hold until
	// the next poll boundary confirms recovery.
	pri.connected = true
	for now := int64(36050); now < 60000; now += 1000 {
		if got := s.Tick(now); got.Mode != types.LinkSecondary {
			t.Fatalf("flapped to %v before the next poll", got.Mode)
		}
	}
	r = s.Tick(60000)
	if r.Mode != types.LinkPrimary || !r.Changed {
		t.Fatalf("expected recovery to primary at poll boundary, got %+v", r)
	}
}

func TestNoNetworkLeavesModeNone(t *testing.T) {
	pri := &fakeTransport{connected: false}
	s := NewSupervisor(pri, nil, testConfig())

	s.Tick(0)     // poll fails, cycle entered, fast #1
	s.Tick(2000)  // fast #2
	s.Tick(4000)  // fast #3
	r := s.Tick(6000) // full, terminal
	if r.Mode != types.LinkNone || r.Reconnecting {
		t.Fatalf("expected terminal none, got %+v", r)
	}
	if s.Usable() || s.Active() != nil {
		t.Error("mode none must not be usable")
	}

	// A new cycle starts only from the next poll boundary.
	before := pri.fastCalls
	s.Tick(10000)
	if pri.fastCalls != before {
		t.Error("cycle restarted before the next poll boundary")
	}
	s.Tick(30000)
	if pri.fastCalls != before+1 {
		t.Error("expected a fresh cycle at the next poll boundary")
	}
}

func TestHealthySecondaryIsKeptWithoutNewCycle(t *testing.T) {
	pri := &fakeTransport{connected: false}
	sec := &fakeTransport{connected: true}
	s := NewSupervisor(pri, sec, testConfig())

	s.Tick(0)
	s.Tick(2000)
	s.Tick(4000)
	r := s.Tick(6000)
	if r.Mode != types.LinkSecondary {
		t.Fatalf("expected secondary, got %+v", r)
	}

	fast := pri.fastCalls
	r = s.Tick(36000) // poll: primary still down, secondary healthy
	if r.Mode != types.LinkSecondary || r.Reconnecting {
		t.Fatalf("expected secondary kept, got %+v", r)
	}
	if pri.fastCalls != fast {
		t.Error("reconnect cycle started while the fallback path was healthy")
	}
}

func TestFastRecoveryWithinCycle(t *testing.T) {
	pri := &fakeTransport{connected: true}
	s := NewSupervisor(pri, nil, testConfig())

	s.Tick(0)
	pri.connected = false
	pri.fastOK = true

	r := s.Tick(30000) // cycle entered, fast #1 succeeds immediately
	if r.Mode != types.LinkPrimary || r.Reconnecting {
		t.Fatalf("expected primary after successful fast reconnect, got %+v", r)
	}
	if pri.fastCalls != 1 || pri.fullCalls != 0 {
		t.Errorf("unexpected attempt counts fast=%d full=%d", pri.fastCalls, pri.fullCalls)
	}
}
