//go:build rp2040 || rp2350

package hal

import (
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/gps"

	"trackercode-go/types"
	"trackercode-go/x/timex"
)

// GPSReceiver drains NMEA bytes from a UART each tick and keeps the newest
// parsed state. Poll never blocks: only bytes already buffered by the UART
// are consumed, so a tick costs microseconds even mid-sentence.
type GPSReceiver struct {
	uart   *uartx.UART
	parser gps.Parser

	buf  [64]byte
	line []byte

	fix       types.Fix
	fresh     bool
	wall      time.Time
	wallAtMs  int64
	satellite int16
}

func NewGPSReceiver(uart *uartx.UART) *GPSReceiver {
	return &GPSReceiver{
		uart:   uart,
		parser: gps.NewParser(),
		line:   make([]byte, 0, 96),
	}
}

// Poll implements the loop's GPS collaborator. It returns the newest fix
// exactly once; subsequent calls report nothing until another sentence
// completes.
func (g *GPSReceiver) Poll(now int64) (types.Fix, bool) {
	g.drain(now)
	if !g.fresh {
		return types.Fix{}, false
	}
	g.fresh = false
	return g.fix, true
}

// Now implements the time-sync collaborator: calendar time from the last
// RMC sentence plus the loop time elapsed since it arrived.
func (g *GPSReceiver) Now() (string, bool) {
	if g.wall.IsZero() {
		return "", false
	}
	elapsed := time.Duration(timex.NowMs()-g.wallAtMs) * time.Millisecond
	return g.wall.Add(elapsed).UTC().Format(time.RFC3339), true
}

func (g *GPSReceiver) drain(now int64) {
	for {
		n, _ := g.uart.Read(g.buf[:])
		if n == 0 {
			return
		}
		for _, b := range g.buf[:n] {
			switch {
			case b == '\n':
				g.parse(string(g.line), now)
				g.line = g.line[:0]
			case b == '\r':
				// dropped, sentences end CRLF
			case len(g.line) >= 90:
				// NMEA caps at 82 chars; a longer line is garbage
				g.line = g.line[:0]
			default:
				g.line = append(g.line, b)
			}
		}
	}
}

func (g *GPSReceiver) parse(sentence string, now int64) {
	fix, err := g.parser.Parse(sentence)
	if err != nil {
		return
	}
	if fix.Satellites > 0 {
		g.satellite = fix.Satellites
	}
	if !fix.Time.IsZero() {
		g.wall = fix.Time
		g.wallAtMs = now
	}
	if !fix.Valid {
		return
	}
	g.fix = types.Fix{
		Lat:        fix.Latitude,
		Lon:        fix.Longitude,
		Valid:      true,
		Satellites: g.satellite,
		TS:         now,
	}
	g.fresh = true
}
