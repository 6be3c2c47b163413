package hal

import (
	"time"

	"trackercode-go/errcode"
	"trackercode-go/services/display"
	"trackercode-go/types"
	"trackercode-go/x/conv"
	"trackercode-go/x/timex"
)

// Host-side stand-ins for the device adaptors. They satisfy the same loop
// collaborator interfaces, so the real scheduler, classifier and supervisor
// run unmodified on a workstation.

// Raw touch levels the fakes report; the classifier's sensitivity sits
// between them.
const (
	FakeRawTouched  uint16 = 200
	FakeRawReleased uint16 = 40000
)

// ScriptGPS replays a canned route, one point per StepMs of loop time.
type ScriptGPS struct {
	Route  []types.Fix
	StepMs int64

	idx    int
	lastMs int64
	primed bool
}

func (g *ScriptGPS) Poll(now int64) (types.Fix, bool) {
	if g.idx >= len(g.Route) {
		return types.Fix{}, false
	}
	if g.primed && now-g.lastMs < g.StepMs {
		return types.Fix{}, false
	}
	g.primed = true
	g.lastMs = now
	fix := g.Route[g.idx]
	fix.TS = now
	g.idx++
	return fix, true
}

// Press is one scripted touch window in loop time.
type Press struct {
	FromMs int64
	ToMs   int64
}

// ScriptTouch reports the touched level inside any scheduled press window.
type ScriptTouch struct {
	Clock   timex.Clock
	Presses []Press
}

func (s *ScriptTouch) Read() uint16 {
	now := s.Clock.NowMs()
	for _, p := range s.Presses {
		if now >= p.FromMs && now < p.ToMs {
			return FakeRawTouched
		}
	}
	return FakeRawReleased
}

// FlakyTransport is a scriptable network path. Sends are logged, not sent.
type FlakyTransport struct {
	Name      string
	Connected bool
	FailSends int // fail this many sends before succeeding

	Sends int
}

func (f *FlakyTransport) IsConnected() bool { return f.Connected }

func (f *FlakyTransport) Reconnect(full bool) bool {
	if full {
		println("[fake]", f.Name, "full reconnect:", f.Connected)
	} else {
		println("[fake]", f.Name, "fast reconnect:", f.Connected)
	}
	return f.Connected
}

func (f *FlakyTransport) Send(dest, payload string) error {
	f.Sends++
	if f.FailSends > 0 {
		f.FailSends--
		println("[fake]", f.Name, "send dropped ->", dest)
		return errcode.DeliveryFailed
	}
	println("[fake]", f.Name, "send ->", dest, payload)
	return nil
}

// FakeBattery reports a fixed pack voltage.
type FakeBattery struct {
	Mv uint16
}

func (f *FakeBattery) ReadMilliVolts() uint16 { return f.Mv }

// WallTime reports host wall-clock time, always synced.
type WallTime struct{}

func (WallTime) Now() (string, bool) {
	return time.Now().UTC().Format(time.RFC3339), true
}

// ConsoleScreen prints one line per frame instead of driving pixels.
type ConsoleScreen struct{}

func (ConsoleScreen) Draw(page types.Page, ctx display.RenderContext) {
	line := "[screen] " + page.String() + " link=" + string(ctx.Mode)
	if ctx.Reconnecting {
		line += " (reconnecting)"
	}
	if ctx.Fix.Valid {
		line += " pos=" + conv.CoordString(ctx.Fix.Lat) + "," + conv.CoordString(ctx.Fix.Lon)
	}
	if ctx.HoldMs > 0 {
		line += " hold=" + conv.ItoaString(ctx.HoldMs) + "ms"
	}
	if ctx.Failure != "" {
		line += " !" + ctx.Failure
	}
	println(line)
}
