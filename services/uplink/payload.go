package uplink

import (
	"trackercode-go/types"
	"trackercode-go/x/conv"
)

// Payload renders the position report body. Assembled by hand so MCU builds
// never pull in encoding/json for a four-field object.
func Payload(fix types.Fix) string {
	buf := make([]byte, 0, 80)
	buf = append(buf, `{"lat":`...)
	buf = conv.AppendCoord(buf, fix.Lat)
	buf = append(buf, `,"lon":`...)
	buf = conv.AppendCoord(buf, fix.Lon)
	buf = append(buf, `,"sats":`...)
	buf = conv.AppendInt(buf, int64(fix.Satellites))
	buf = append(buf, `,"ts_ms":`...)
	buf = conv.AppendInt(buf, fix.TS)
	buf = append(buf, '}')
	return string(buf)
}
