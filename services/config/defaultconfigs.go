package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgBeacon = `{
  "touch": {
      "sensitivity": 600,
      "release_samples": 5,
      "release_spacing_ms": 10
  },
  "net": {
      "ssid": "beacon-net",
      "passphrase": "",
      "fallback_ssid": "beacon-net-2",
      "fallback_pass": "",
      "poll_ms": 30000,
      "fast_retries": 3,
      "retry_delay_ms": 2000
  },
  "uplink": {
      "url": "http://track.example/report",
      "interval_ms": 120000
  },
  "display": {
      "idle_refresh_ms": 1000,
      "touch_refresh_ms": 250
  },
  "health": {
      "interval_ms": 60000
  }
}`

var embeddedConfigs = map[string][]byte{
	"beacon": []byte(cfgBeacon),
}
