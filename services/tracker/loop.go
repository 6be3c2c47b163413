// Package tracker runs the cooperative scheduler: one thread, five duties,
// a fixed tick order, and no blocking call longer than a bounded budget.
// Every component owns its own state record; the loop only moves read-only
// snapshots between them.
package tracker

import (
	"context"
	"time"

	"trackercode-go/bus"
	"trackercode-go/errcode"
	"trackercode-go/services/display"
	"trackercode-go/services/netwatch"
	"trackercode-go/services/touch"
	"trackercode-go/services/uplink"
	"trackercode-go/types"
	"trackercode-go/x/timex"
)

// GPSSource is the NMEA-side collaborator. Poll drains whatever arrived
// since the last tick and reports the newest fix, if any.
type GPSSource interface {
	Poll(now int64) (types.Fix, bool)
}

// TouchReader returns the raw capacitive reading for this tick.
type TouchReader interface {
	Read() uint16
}

// TimeSource is the time-sync collaborator: a calendar timestamp and
// whether sync has completed. Alerts substitute the sentinel when it
// has not, rather than failing.
type TimeSource interface {
	Now() (string, bool)
}

type Config struct {
	TickMs   int64  // loop sleep per iteration
	AlertURL string // destination for alert deliveries
	QRText   string // payload shown on the QR page
}

type Loop struct {
	cfg Config

	clock      timex.Clock
	gps        GPSSource
	touchIn    TouchReader
	classifier *touch.Classifier
	net        *netwatch.Supervisor
	uplink     *uplink.Scheduler
	display    *display.Coordinator
	renderer   display.Renderer
	timeSrc    TimeSource
	conn       *bus.Connection

	fix     types.Fix
	failure string // un-acknowledged failure, shown once on the status page
}

type Deps struct {
	Clock      timex.Clock
	GPS        GPSSource
	Touch      TouchReader
	Classifier *touch.Classifier
	Net        *netwatch.Supervisor
	Uplink     *uplink.Scheduler
	Display    *display.Coordinator
	Renderer   display.Renderer
	Time       TimeSource
	Conn       *bus.Connection
}

func NewLoop(cfg Config, d Deps) *Loop {
	if cfg.TickMs <= 0 {
		cfg.TickMs = 50
	}
	if d.Clock == nil {
		d.Clock = timex.SystemClock{}
	}
	return &Loop{
		cfg:        cfg,
		clock:      d.Clock,
		gps:        d.GPS,
		touchIn:    d.Touch,
		classifier: d.Classifier,
		net:        d.Net,
		uplink:     d.Uplink,
		display:    d.Display,
		renderer:   d.Renderer,
		timeSrc:    d.Time,
		conn:       d.Conn,
	}
}

// Run ticks until the context is cancelled. The sleep bounds the tick rate;
// everything inside Step is non-blocking.
func (l *Loop) Run(ctx context.Context) {
	println("[tracker] loop started")
	for {
		select {
		case <-ctx.Done():
			println("[tracker] loop stopped")
			return
		default:
		}
		l.Step(l.clock.NowMs())
		time.Sleep(time.Duration(l.cfg.TickMs) * time.Millisecond)
	}
}

// Step executes one scheduler iteration in the fixed duty order:
// GPS ingest, touch, connectivity, upload, display.
func (l *Loop) Step(now int64) {
	// (1) GPS ingest.
	if fix, ok := l.gps.Poll(now); ok {
		l.fix = fix
		l.conn.Publish(l.conn.NewMessage(topicFix(), fix, true))
	}

	// (2) Touch classification.
	for _, ev := range l.classifier.Sample(l.touchIn.Read(), now) {
		switch ev.Kind {
		case touch.SessionStarted, touch.SessionEnded:
			// Show or clear the hold progress right away.
			l.display.ForceRefresh()
		case touch.ThresholdCrossed:
			l.dispatchAlert(ev.Alert, now)
			l.display.ForceRefresh()
		case touch.PageAdvanceRequested:
			l.display.AdvancePage()
		}
	}

	// (3) Connectivity.
	rep := l.net.Tick(now)
	if rep.Changed {
		l.conn.Publish(l.conn.NewMessage(topicLink(),
			types.LinkStatus{Mode: rep.Mode, TS: now}, true))
		l.display.ForceRefresh()
	}

	// (4) Upload.
	out := l.uplink.Tick(now, l.fix, l.sender())
	if out.Attempted {
		l.conn.Publish(l.conn.NewMessage(topicUpload(),
			types.UploadStatus{Result: l.uplink.LastResult(), TS: now}, true))
		if !out.OK {
			l.noteFailure("upload failed")
		}
		l.display.ForceRefresh()
	}

	// (5) Display.
	if l.display.ShouldRedraw(now, l.classifier.Touching()) {
		page := l.display.CurrentPage()
		ctx := l.renderContext(now)
		l.display.Render(now, l.renderer, ctx)
		if page == types.PageStatus && ctx.Failure != "" {
			// Shown once, then acknowledged.
			l.failure = ""
		}
	}
}

// sender returns the active transport as the uplink's Sender, or nil when
// no path is usable this tick.
func (l *Loop) sender() uplink.Sender {
	if !l.net.Usable() {
		return nil
	}
	if tr := l.net.Active(); tr != nil {
		return tr
	}
	return nil
}

// dispatchAlert is fire-and-forget: the classifier never waits on delivery;
// a failure is recorded for the status page only.
func (l *Loop) dispatchAlert(kind types.AlertKind, now int64) {
	title, message := alertText(kind)
	deliveredAt, synced := l.timeSrc.Now()
	if !synced {
		deliveredAt = types.TimeSentinel
	}
	alert := types.Alert{Kind: kind, Title: title, Message: message, DeliveredAt: deliveredAt}

	l.conn.Publish(l.conn.NewMessage(topicAlert(string(kind)), alert, false))

	tr := l.net.Active()
	if tr == nil {
		l.noteFailure("alert not delivered: no link")
		return
	}
	if err := tr.Send(l.cfg.AlertURL, alertPayload(alert)); err != nil {
		println("[tracker] alert send error:", string(errcode.Of(err)))
		l.noteFailure("alert not delivered: " + string(kind))
		return
	}
	println("[tracker] alert delivered:", string(kind))
}

func (l *Loop) noteFailure(line string) {
	l.failure = line
	l.display.ForceRefresh()
	println("[tracker] failure:", line)
}

func (l *Loop) renderContext(now int64) display.RenderContext {
	return display.RenderContext{
		Fix:          l.fix,
		Mode:         l.net.Mode(),
		Reconnecting: l.net.Reconnecting(),
		Upload:       l.uplink.LastResult(),
		Failure:      l.failure,
		HoldMs:       l.classifier.HoldMs(now),
		NextAlertMs:  l.nextThresholdMs(now),
		QRPayload:    l.cfg.QRText,
	}
}

// nextThresholdMs returns the lower bound the current hold is approaching,
// for the progress bar; 0 when idle or past the last threshold.
func (l *Loop) nextThresholdMs(now int64) int64 {
	hold := l.classifier.HoldMs(now)
	if hold == 0 {
		return 0
	}
	for _, step := range l.classifier.Thresholds() {
		if hold < step.LowerMs {
			return step.LowerMs
		}
	}
	return 0
}

// Fix exposes the loop's latest snapshot (read-only) for host tooling.
func (l *Loop) Fix() types.Fix { return l.fix }
