package serialmon

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"trackercode-go/bus"
	"trackercode-go/types"
)

// lockedBuffer keeps the test writer race-free under the mirror goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

func waitFor(t *testing.T, out *lockedBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("output %q never contained %q", out.String(), want)
}

func TestMirrorsMatchingTraffic(t *testing.T) {
	b := bus.NewBus(16)
	out := &lockedBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	New(out, bus.T("tracker", "#")).Start(ctx, b.NewConnection("serialmon"))

	pub := b.NewConnection("pub")
	pub.Publish(pub.NewMessage(bus.T("tracker", "fix"),
		types.Fix{Lat: 51.5074, Lon: -0.1278, Valid: true, Satellites: 7}, true))
	pub.Publish(pub.NewMessage(bus.T("tracker", "link"),
		types.LinkStatus{Mode: types.LinkPrimary}, true))
	pub.Publish(pub.NewMessage(bus.T("other", "noise"), "x", false))

	waitFor(t, out, "tracker/fix pos=51.507")
	waitFor(t, out, "tracker/link mode=primary")
	if strings.Contains(out.String(), "other/noise") {
		t.Error("non-matching topic mirrored")
	}
}

func TestAlertLine(t *testing.T) {
	b := bus.NewBus(16)
	out := &lockedBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	New(out, bus.T("tracker", "alert", "+")).Start(ctx, b.NewConnection("serialmon"))

	pub := b.NewConnection("pub")
	pub.Publish(pub.NewMessage(bus.T("tracker", "alert", "sos"),
		types.Alert{Kind: types.AlertSOS, DeliveredAt: types.TimeSentinel}, false))

	waitFor(t, out, "tracker/alert/sos alert=sos at="+types.TimeSentinel)
}
