package hal

import (
	"testing"

	"trackercode-go/types"
	"trackercode-go/x/timex"
)

func TestScriptGPSReplaysAtStepRate(t *testing.T) {
	g := &ScriptGPS{
		Route: []types.Fix{
			{Lat: 1, Lon: 1, Valid: true},
			{Lat: 2, Lon: 2, Valid: true},
		},
		StepMs: 1000,
	}

	fix, ok := g.Poll(0)
	if !ok || fix.Lat != 1 {
		t.Fatalf("first poll = %+v, %v", fix, ok)
	}
	if _, ok := g.Poll(500); ok {
		t.Fatal("point emitted before the step elapsed")
	}
	fix, ok = g.Poll(1000)
	if !ok || fix.Lat != 2 || fix.TS != 1000 {
		t.Fatalf("second poll = %+v, %v", fix, ok)
	}
	if _, ok := g.Poll(2000); ok {
		t.Fatal("exhausted route still emitting")
	}
}

func TestScriptTouchWindows(t *testing.T) {
	clk := &timex.FakeClock{}
	s := &ScriptTouch{Clock: clk, Presses: []Press{{FromMs: 100, ToMs: 400}}}

	if s.Read() != FakeRawReleased {
		t.Error("touched before the window")
	}
	clk.Set(250)
	if s.Read() != FakeRawTouched {
		t.Error("released inside the window")
	}
	clk.Set(400)
	if s.Read() != FakeRawReleased {
		t.Error("window end is exclusive")
	}
}

func TestFlakyTransportFailsThenRecovers(t *testing.T) {
	f := &FlakyTransport{Name: "test", Connected: true, FailSends: 2}

	if err := f.Send("http://x/a", "{}"); err == nil {
		t.Fatal("first send should fail")
	}
	if err := f.Send("http://x/a", "{}"); err == nil {
		t.Fatal("second send should fail")
	}
	if err := f.Send("http://x/a", "{}"); err != nil {
		t.Fatalf("third send failed: %v", err)
	}
	if f.Sends != 3 {
		t.Errorf("sends = %d", f.Sends)
	}
}
