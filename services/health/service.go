// Package health publishes periodic device telemetry: battery level and
// uptime, retained on tracker/battery. It runs beside the tracker loop in
// its own goroutine; nothing in the loop depends on it.
package health

import (
	"context"
	"time"

	"trackercode-go/bus"
	"trackercode-go/services/config"
	"trackercode-go/x/mathx"
)

var topicConfigHealth = bus.T("config", "health")

// Battery voltage window for the percent estimate, millivolts. A single
// LiPo cell; below Empty the regulator browns out anyway.
const (
	batteryEmptyMv uint16 = 3300
	batteryFullMv  uint16 = 4200
)

// BatteryReader reports the pack voltage in millivolts.
type BatteryReader interface {
	ReadMilliVolts() uint16
}

// Status is the retained tracker/battery payload.
type Status struct {
	Percent  uint16 `json:"percent"`
	MilliV   uint16 `json:"mv"`
	UptimeMs int64  `json:"uptime_ms"`
}

type Service struct {
	battery BatteryReader
	started time.Time
}

func NewService(battery BatteryReader) *Service {
	return &Service{battery: battery, started: time.Now()}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, interval time.Duration) {
	cfgSub := conn.Subscribe(topicConfigHealth)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(interval)
	defer tick.Stop()

	s.publish(conn)
	for {
		select {
		case <-ctx.Done():
			println("[health] stopping")
			return
		case <-tick.C:
			s.publish(conn)
		case msg := <-cfgSub.Channel():
			// Retained config/health may arrive after start; reconfigure.
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := config.Num(m, "interval_ms"); ok && iv > 0 {
					tick.Reset(time.Duration(iv) * time.Millisecond)
					println("[health] interval set:", int(iv), "ms")
				}
			}
		}
	}
}

func (s *Service) publish(conn *bus.Connection) {
	mv := s.battery.ReadMilliVolts()
	st := Status{
		Percent:  mathx.MapU16(mv, batteryEmptyMv, batteryFullMv, 0, 100),
		MilliV:   mv,
		UptimeMs: time.Since(s.started).Milliseconds(),
	}
	conn.Publish(conn.NewMessage(bus.T("tracker", "battery"), st, true))
}

// Start launches the telemetry loop. interval is the initial cadence;
// config/health can change it at runtime.
func (s *Service) Start(ctx context.Context, conn *bus.Connection, interval time.Duration) {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	go s.serviceLoop(ctx, conn, interval)
}
