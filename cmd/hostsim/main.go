// hostsim drives the real tracker loop on a workstation: real classifier,
// supervisor, uplink scheduler and display coordinator, scripted hardware.
// Simulated time advances one tick per iteration, so a full scenario runs
// in milliseconds.
package main

import (
	"context"
	"flag"
	"time"

	"trackercode-go/bus"
	"trackercode-go/services/display"
	"trackercode-go/services/hal"
	"trackercode-go/services/health"
	"trackercode-go/services/netwatch"
	"trackercode-go/services/touch"
	"trackercode-go/services/tracker"
	"trackercode-go/services/uplink"
	"trackercode-go/types"
	"trackercode-go/x/conv"
	"trackercode-go/x/timex"
)

func main() {
	seconds := flag.Int64("seconds", 300, "simulated runtime")
	outageFrom := flag.Int64("outage-from", 40, "primary outage start, seconds (0 = none)")
	outageTo := flag.Int64("outage-to", 130, "primary outage end, seconds")
	sosAt := flag.Int64("sos-at", 60, "start of a 6.5s hold, seconds (0 = none)")
	flag.Parse()

	clk := &timex.FakeClock{}
	b := bus.NewBus(64)

	primary := &hal.FlakyTransport{Name: "wifi0", Connected: true}
	secondary := &hal.FlakyTransport{Name: "wifi1", Connected: true}

	gps := &hal.ScriptGPS{
		Route: []types.Fix{
			{Lat: 51.5074, Lon: -0.1278, Valid: true, Satellites: 7},
			{Lat: 51.5079, Lon: -0.1283, Valid: true, Satellites: 8},
			{Lat: 51.5085, Lon: -0.1289, Valid: true, Satellites: 8},
			{Lat: 51.5090, Lon: -0.1295, Valid: true, Satellites: 9},
		},
		StepMs: 30000,
	}

	presses := []hal.Press{
		{FromMs: 10000, ToMs: 10400}, // short tap: page advance
	}
	if *sosAt > 0 {
		presses = append(presses, hal.Press{FromMs: *sosAt * 1000, ToMs: *sosAt*1000 + 6500})
	}
	pad := &hal.ScriptTouch{Clock: clk, Presses: presses}

	loop := tracker.NewLoop(
		tracker.Config{TickMs: 50, AlertURL: "http://track.example/alert", QRText: "http://track.example/d/sim"},
		tracker.Deps{
			Clock:      clk,
			GPS:        gps,
			Touch:      pad,
			Classifier: touch.NewClassifier(touch.Config{Sensitivity: 600}),
			Net:        netwatch.NewSupervisor(primary, secondary, netwatch.Config{}),
			Uplink:     uplink.NewScheduler(uplink.Config{URL: "http://track.example/report"}),
			Display:    display.NewCoordinator(display.Config{}),
			Renderer:   hal.ConsoleScreen{},
			Time:       hal.WallTime{},
			Conn:       b.NewConnection("tracker"),
		},
	)

	monitor(b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	health.NewService(&hal.FakeBattery{Mv: 3900}).Start(ctx, b.NewConnection("health"), time.Hour)

	println("[sim] running", int(*seconds), "simulated seconds")
	end := *seconds * 1000
	for now := int64(0); now <= end; now += 50 {
		if *outageFrom > 0 {
			primary.Connected = now < *outageFrom*1000 || now >= *outageTo*1000
		}
		clk.Set(now)
		loop.Step(now)
	}
	println("[sim] done; primary sends:", primary.Sends, "secondary sends:", secondary.Sends)
}

// monitor echoes everything the loop publishes.
func monitor(b *bus.Bus) {
	sub := b.NewConnection("monitor").Subscribe(bus.T("tracker", "#"))
	go func() {
		for m := range sub.Channel() {
			println("[bus]", topicString(m.Topic), payloadString(m.Payload))
		}
	}()
}

func topicString(t bus.Topic) string {
	s := ""
	for i, tok := range t {
		if i > 0 {
			s += "/"
		}
		s += tok
	}
	return s
}

func payloadString(p any) string {
	switch v := p.(type) {
	case types.Fix:
		return conv.CoordString(v.Lat) + "," + conv.CoordString(v.Lon)
	case types.LinkStatus:
		return string(v.Mode)
	case types.UploadStatus:
		return string(v.Result)
	case types.Alert:
		return string(v.Kind) + " @ " + v.DeliveredAt
	case health.Status:
		return conv.ItoaString(int64(v.Percent)) + "%"
	}
	return ""
}
