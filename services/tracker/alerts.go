package tracker

import (
	"trackercode-go/types"
)

// Alert copy shown to whoever receives the report. Titles stay short for
// constrained downstream displays.
func alertText(kind types.AlertKind) (title, message string) {
	switch kind {
	case types.AlertLowBattery:
		return "Low battery", "Wearer signalled low battery"
	case types.AlertSOS:
		return "SOS", "Wearer requests immediate help"
	case types.AlertFall:
		return "Fall", "Wearer signalled a fall"
	}
	return "Alert", "Unknown alert"
}

// alertPayload renders the alert body by hand, same reasoning as the
// uplink payload: no encoding/json on MCU builds.
func alertPayload(a types.Alert) string {
	buf := make([]byte, 0, 128)
	buf = append(buf, `{"kind":"`...)
	buf = append(buf, string(a.Kind)...)
	buf = append(buf, `","title":"`...)
	buf = append(buf, a.Title...)
	buf = append(buf, `","message":"`...)
	buf = append(buf, a.Message...)
	buf = append(buf, `","delivered_at":"`...)
	buf = append(buf, a.DeliveredAt...)
	buf = append(buf, `"}`...)
	return string(buf)
}
