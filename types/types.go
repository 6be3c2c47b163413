package types

// ---- Alerts ----

// AlertKind identifies one of the three touch-raised alert categories.
type AlertKind string

const (
	AlertLowBattery AlertKind = "low_battery"
	AlertSOS        AlertKind = "sos"
	AlertFall       AlertKind = "fall"
)

// Alert is the logical alert payload handed to the transport. DeliveredAt is
// a calendar timestamp from the time-sync collaborator; when time has never
// been synced it carries the sentinel value instead of failing the alert.
type Alert struct {
	Kind        AlertKind `json:"kind"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	DeliveredAt string    `json:"delivered_at"` // RFC3339, or TimeSentinel
}

// TimeSentinel is substituted for DeliveredAt before the first time sync.
const TimeSentinel = "2000-01-01T00:00:00Z"

// ---- GPS fix ----

// Fix is the validated position snapshot written by the GPS collaborator.
// Read-only to every core component. Float32 and int16 match the NMEA
// driver's own types and keep the struct small on MCU.
type Fix struct {
	Lat        float32 `json:"lat"`
	Lon        float32 `json:"lon"`
	Valid      bool    `json:"valid"`
	Satellites int16   `json:"sats,omitempty"`
	TS         int64   `json:"ts_ms"` // loop clock time of the last update
}

// ---- Connectivity ----

// LinkMode designates which transport currently carries outbound traffic.
type LinkMode string

const (
	LinkPrimary   LinkMode = "primary"
	LinkSecondary LinkMode = "secondary"
	LinkNone      LinkMode = "none"
)

// LinkStatus is published retained on tracker/link whenever the mode changes.
type LinkStatus struct {
	Mode LinkMode `json:"mode"`
	TS   int64    `json:"ts_ms"`
}

// ---- Uploads ----

type UploadResult string

const (
	UploadNeverAttempted UploadResult = "never"
	UploadSuccess        UploadResult = "success"
	UploadFailure        UploadResult = "failure"
)

// UploadStatus is published retained on tracker/upload after each attempt.
type UploadStatus struct {
	Result UploadResult `json:"result"`
	TS     int64        `json:"ts_ms"`
}

// ---- Display ----

// Page identifies one of the cyclic display pages.
type Page uint8

const (
	PageGps Page = iota
	PageQr
	PageStatus

	PageCount = 3
)

func (p Page) String() string {
	switch p {
	case PageGps:
		return "gps"
	case PageQr:
		return "qr"
	case PageStatus:
		return "status"
	}
	return "unknown"
}

// ---- Device configuration (embedded JSON, published via config service) ----

type TouchConfig struct {
	// Raw readings below Sensitivity count as touched.
	Sensitivity uint16 `json:"sensitivity"`
	// Consecutive released samples required to accept a release.
	ReleaseSamples int `json:"release_samples"`
	// Minimum spacing between counted release samples.
	ReleaseSpacingMs int64 `json:"release_spacing_ms"`
}

type NetConfig struct {
	SSID         string `json:"ssid"`
	Passphrase   string `json:"passphrase"`
	FallbackSSID string `json:"fallback_ssid"` // secondary network, optional
	FallbackPass string `json:"fallback_pass"`
	PollMs       int64  `json:"poll_ms"`      // health poll interval
	FastRetries  int    `json:"fast_retries"` // cached-credential attempts
	RetryDelayMs int64  `json:"retry_delay_ms"`
}

type UplinkConfig struct {
	URL        string `json:"url"`
	IntervalMs int64  `json:"interval_ms"`
}

type DisplayConfig struct {
	IdleRefreshMs  int64 `json:"idle_refresh_ms"`
	TouchRefreshMs int64 `json:"touch_refresh_ms"`
}
