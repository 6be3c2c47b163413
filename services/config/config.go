package config

import (
	"context"
	"errors"

	"trackercode-go/bus"
	"trackercode-go/types"

	"github.com/andreyvit/tinyjson"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig reads the device config from embedded data and publishes each
// section as a retained message under config/<section>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errors.New("no embedded config for device: " + device)
	}

	r := tinyjson.Raw(raw)
	val := r.Value() // should be a map[string]any
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return errors.New("embedded config is not a JSON object")
	}

	for k, v := range m {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}

	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config]", err.Error())
		}
	}()
}

// -----------------------------------------------------------------------------
// Typed section decoding
//
// tinyjson hands back map[string]any with float64 numbers; the helpers below
// turn sections into the typed configs the tracker services take, falling
// back to each component's own defaults for anything absent.
// -----------------------------------------------------------------------------

func section(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Num reads a numeric field regardless of how the decoder typed it.
// Exported for services that take their sections straight off the bus.
func Num(m map[string]any, key string) (int64, bool) {
	if m == nil {
		return 0, false
	}
	switch x := m[key].(type) {
	case float64:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// TouchFromPayload decodes a config/touch payload.
func TouchFromPayload(v any) types.TouchConfig {
	m := section(v)
	var cfg types.TouchConfig
	if n, ok := Num(m, "sensitivity"); ok {
		cfg.Sensitivity = uint16(n)
	}
	if n, ok := Num(m, "release_samples"); ok {
		cfg.ReleaseSamples = int(n)
	}
	if n, ok := Num(m, "release_spacing_ms"); ok {
		cfg.ReleaseSpacingMs = n
	}
	return cfg
}

// NetFromPayload decodes a config/net payload.
func NetFromPayload(v any) types.NetConfig {
	m := section(v)
	cfg := types.NetConfig{
		SSID:         str(m, "ssid"),
		Passphrase:   str(m, "passphrase"),
		FallbackSSID: str(m, "fallback_ssid"),
		FallbackPass: str(m, "fallback_pass"),
	}
	if n, ok := Num(m, "poll_ms"); ok {
		cfg.PollMs = n
	}
	if n, ok := Num(m, "fast_retries"); ok {
		cfg.FastRetries = int(n)
	}
	if n, ok := Num(m, "retry_delay_ms"); ok {
		cfg.RetryDelayMs = n
	}
	return cfg
}

// UplinkFromPayload decodes a config/uplink payload.
func UplinkFromPayload(v any) types.UplinkConfig {
	m := section(v)
	cfg := types.UplinkConfig{URL: str(m, "url")}
	if n, ok := Num(m, "interval_ms"); ok {
		cfg.IntervalMs = n
	}
	return cfg
}

// DisplayFromPayload decodes a config/display payload.
func DisplayFromPayload(v any) types.DisplayConfig {
	m := section(v)
	var cfg types.DisplayConfig
	if n, ok := Num(m, "idle_refresh_ms"); ok {
		cfg.IdleRefreshMs = n
	}
	if n, ok := Num(m, "touch_refresh_ms"); ok {
		cfg.TouchRefreshMs = n
	}
	return cfg
}
