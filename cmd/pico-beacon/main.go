//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/netlink/probe"

	"trackercode-go/bus"
	"trackercode-go/services/config"
	"trackercode-go/services/display"
	"trackercode-go/services/hal"
	"trackercode-go/services/health"
	"trackercode-go/services/netwatch"
	"trackercode-go/services/serialmon"
	"trackercode-go/services/touch"
	"trackercode-go/services/tracker"
	"trackercode-go/services/uplink"
	"trackercode-go/types"
)

const (
	deviceID = "beacon"
	alertURL = "http://track.example/alert"
	qrText   = "http://track.example/d/" + deviceID
)

func main() {
	time.Sleep(3 * time.Second) // let USB CDC settle

	println("[main] bootstrapping bus ...")
	b := bus.NewBus(8)
	mainConn := b.NewConnection("main")
	loopConn := b.NewConnection("tracker")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)
	println("[main] publishing embedded config ...")
	config.NewConfigService().Start(ctx, mainConn)
	touchCfg, netCfg, upCfg, dispCfg := awaitConfig(mainConn)

	println("[main] bringing up peripherals ...")
	machine.InitADC()
	pad := hal.NewTouchPad(machine.ADC0)

	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.GP4,
		SCL:       machine.GP5,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		println("[main] i2c configure failed")
	}
	screen := hal.NewOledScreen(machine.I2C0)

	if err := uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 9600,
		TX:       machine.GP0,
		RX:       machine.GP1,
	}); err != nil {
		println("[main] gps uart configure failed")
	}
	gps := hal.NewGPSReceiver(uartx.UART0)

	println("[main] probing wifi ...")
	link, _ := probe.Probe()
	primary := hal.NewWifiLink(link, netCfg)
	var secondary netwatch.Transport
	if netCfg.FallbackSSID != "" {
		fb := netCfg
		fb.SSID, fb.Passphrase = netCfg.FallbackSSID, netCfg.FallbackPass
		secondary = hal.NewWifiLink(link, fb)
	}

	health.NewService(hal.NewVsysBattery()).Start(ctx, b.NewConnection("health"), time.Minute)
	serialmon.New(machine.Serial, bus.T("tracker", "#")).Start(ctx, b.NewConnection("serialmon"))

	loop := tracker.NewLoop(
		tracker.Config{TickMs: 50, AlertURL: alertURL, QRText: qrText},
		tracker.Deps{
			GPS:        gps,
			Touch:      pad,
			Classifier: touch.NewClassifier(touch.Config{
				Sensitivity:      touchCfg.Sensitivity,
				ReleaseSamples:   touchCfg.ReleaseSamples,
				ReleaseSpacingMs: touchCfg.ReleaseSpacingMs,
			}),
			Net: netwatch.NewSupervisor(primary, secondary, netwatch.Config{
				PollMs:       netCfg.PollMs,
				FastRetries:  netCfg.FastRetries,
				RetryDelayMs: netCfg.RetryDelayMs,
			}),
			Uplink: uplink.NewScheduler(uplink.Config{
				URL:        upCfg.URL,
				IntervalMs: upCfg.IntervalMs,
			}),
			Display: display.NewCoordinator(display.Config{
				IdleRefreshMs:  dispCfg.IdleRefreshMs,
				TouchRefreshMs: dispCfg.TouchRefreshMs,
			}),
			Renderer: screen,
			Time:     gps,
			Conn:     loopConn,
		},
	)

	println("[main] starting tracker loop ...")
	loop.Run(ctx)
}

// awaitConfig collects the retained config sections the config service just
// published. Missing sections fall through as zero values; every component
// substitutes its own defaults.
func awaitConfig(conn *bus.Connection) (types.TouchConfig, types.NetConfig, types.UplinkConfig, types.DisplayConfig) {
	var (
		touchCfg types.TouchConfig
		netCfg   types.NetConfig
		upCfg    types.UplinkConfig
		dispCfg  types.DisplayConfig
	)

	sub := conn.Subscribe(bus.T("config", "+"))
	defer conn.Unsubscribe(sub)

	deadline := time.After(2 * time.Second)
	for got := 0; got < 4; {
		select {
		case m := <-sub.Channel():
			switch m.Topic.At(1) {
			case "touch":
				touchCfg = config.TouchFromPayload(m.Payload)
			case "net":
				netCfg = config.NetFromPayload(m.Payload)
			case "uplink":
				upCfg = config.UplinkFromPayload(m.Payload)
			case "display":
				dispCfg = config.DisplayFromPayload(m.Payload)
			default:
				continue
			}
			got++
		case <-deadline:
			println("[main] config wait timed out, using defaults")
			return touchCfg, netCfg, upCfg, dispCfg
		}
	}
	return touchCfg, netCfg, upCfg, dispCfg
}
