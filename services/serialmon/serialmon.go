// Package serialmon mirrors bus traffic as single-line records over a byte
// link, one record per message. On the device the writer is the USB CDC
// serial, so a bench terminal sees every state change without a debugger.
package serialmon

import (
	"context"
	"io"

	"trackercode-go/bus"
	"trackercode-go/services/health"
	"trackercode-go/types"
	"trackercode-go/x/conv"
)

type Service struct {
	w       io.Writer
	pattern bus.Topic
	line    []byte
}

// New mirrors messages matching pattern (wildcards allowed) to w.
func New(w io.Writer, pattern bus.Topic) *Service {
	return &Service{w: w, pattern: pattern, line: make([]byte, 0, 128)}
}

// Start subscribes before returning, then mirrors until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(s.pattern)
	go func() {
		defer conn.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				println("[serialmon] stopping")
				return
			case m, ok := <-sub.Channel():
				if !ok {
					return
				}
				s.emit(m)
			}
		}
	}()
}

func (s *Service) emit(m *bus.Message) {
	line := s.line[:0]
	for i := 0; i < len(m.Topic); i++ {
		if i > 0 {
			line = append(line, '/')
		}
		line = append(line, m.Topic[i]...)
	}
	line = append(line, ' ')
	line = appendPayload(line, m.Payload)
	line = append(line, '\r', '\n')
	s.line = line
	if _, err := s.w.Write(line); err != nil {
		println("[serialmon] write error")
	}
}

func appendPayload(dst []byte, p any) []byte {
	switch v := p.(type) {
	case types.Fix:
		dst = append(dst, "pos="...)
		dst = conv.AppendCoord(dst, v.Lat)
		dst = append(dst, ',')
		dst = conv.AppendCoord(dst, v.Lon)
		dst = append(dst, " sats="...)
		dst = conv.AppendInt(dst, int64(v.Satellites))
	case types.LinkStatus:
		dst = append(dst, "mode="...)
		dst = append(dst, v.Mode...)
	case types.UploadStatus:
		dst = append(dst, "result="...)
		dst = append(dst, v.Result...)
	case types.Alert:
		dst = append(dst, "alert="...)
		dst = append(dst, v.Kind...)
		dst = append(dst, " at="...)
		dst = append(dst, v.DeliveredAt...)
	case health.Status:
		dst = append(dst, "batt="...)
		dst = conv.AppendInt(dst, int64(v.Percent))
		dst = append(dst, "% mv="...)
		dst = conv.AppendInt(dst, int64(v.MilliV))
	case string:
		dst = append(dst, v...)
	default:
		dst = append(dst, '-')
	}
	return dst
}
