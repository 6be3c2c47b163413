//go:build rp2040 || rp2350

package hal

import (
	"net"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers/netlink"

	"trackercode-go/errcode"
	"trackercode-go/types"
	"trackercode-go/x/conv"
)

const (
	fastConnectTimeout = 3 * time.Second
	fullConnectTimeout = 12 * time.Second
	sendDeadline       = 5 * time.Second
)

// WifiLink is one WiFi association (one SSID) on the board's radio. Primary
// and secondary transports are two WifiLinks over the same netlink device
// with different credentials; only one is associated at a time, which the
// supervisor already guarantees by reconnecting on failover.
type WifiLink struct {
	link netlink.Netlinker
	cfg  types.NetConfig
	up   atomic.Bool
}

func NewWifiLink(link netlink.Netlinker, cfg types.NetConfig) *WifiLink {
	w := &WifiLink{link: link, cfg: cfg}
	link.NetNotify(func(e netlink.Event) {
		switch e {
		case netlink.EventNetUp:
			w.up.Store(true)
		case netlink.EventNetDown:
			w.up.Store(false)
		}
	})
	return w
}

func (w *WifiLink) IsConnected() bool { return w.up.Load() }

// Reconnect is bounded by the connect timeout; full drops the association
// first and allows the driver its slow re-provisioning path.
func (w *WifiLink) Reconnect(full bool) bool {
	timeout := fastConnectTimeout
	if full {
		w.link.NetDisconnect()
		w.up.Store(false)
		timeout = fullConnectTimeout
	}
	err := w.link.NetConnect(&netlink.ConnectParams{
		ConnectMode:    netlink.ConnectModeSTA,
		Ssid:           w.cfg.SSID,
		Passphrase:     w.cfg.Passphrase,
		ConnectTimeout: timeout,
	})
	if err != nil {
		println("[hal] wifi connect failed:", w.cfg.SSID)
		return false
	}
	w.up.Store(true)
	return true
}

// Send delivers one payload as an HTTP POST and reports whether the server
// accepted it. Plain HTTP over the netdev socket layer; hand-assembled
// request, no net/http on the device.
func (w *WifiLink) Send(dest, payload string) error {
	if !w.up.Load() {
		return errcode.LinkUnusable
	}
	host, port, path := splitURL(dest)
	if host == "" {
		return &errcode.E{C: errcode.InvalidPayload, Op: "url", Msg: dest}
	}

	conn, err := net.Dial("tcp", host+":"+port)
	if err != nil {
		return &errcode.E{C: errcode.DeliveryFailed, Op: "dial", Err: err}
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(sendDeadline))

	req := make([]byte, 0, 256+len(payload))
	req = append(req, "POST "...)
	req = append(req, path...)
	req = append(req, " HTTP/1.1\r\nHost: "...)
	req = append(req, host...)
	req = append(req, "\r\nContent-Type: application/json\r\nContent-Length: "...)
	req = conv.AppendInt(req, int64(len(payload)))
	req = append(req, "\r\nConnection: close\r\n\r\n"...)
	req = append(req, payload...)
	if _, err := conn.Write(req); err != nil {
		return &errcode.E{C: errcode.DeliveryFailed, Op: "write", Err: err}
	}

	// "HTTP/1.1 NNN" is all that matters; the body is discarded.
	var status [12]byte
	if _, err := readFull(conn, status[:]); err != nil {
		return &errcode.E{C: errcode.DeliveryFailed, Op: "status", Err: err}
	}
	if status[9] != '2' {
		return &errcode.E{C: errcode.DeliveryFailed, Op: "status", Msg: "non-2xx"}
	}
	return nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	read := 0
	for read < len(buf) {
		n, err := conn.Read(buf[read:])
		if err != nil {
			return read, err
		}
		read += n
	}
	return read, nil
}

// splitURL picks apart "http://host[:port]/path". TLS is out of reach on
// this target, so https URLs are refused rather than sent in the clear.
func splitURL(dest string) (host, port, path string) {
	const scheme = "http://"
	if len(dest) <= len(scheme) || dest[:len(scheme)] != scheme {
		return "", "", ""
	}
	rest := dest[len(scheme):]
	path = "/"
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			path = rest[i:]
			rest = rest[:i]
			break
		}
	}
	host, port = rest, "80"
	for i := 0; i < len(rest); i++ {
		if rest[i] == ':' {
			host, port = rest[:i], rest[i+1:]
			break
		}
	}
	return host, port, path
}
