package scanner

import (
	"context"
	"net"
	"strconv"
	"time"
)

type PortState string

const (
	PortOpen    PortState = "open"
	PortClosed  PortState = "closed"
	PortUnknown PortState = "unknown"
)

// dialState connects once. A refusal proves the host is up; timeouts and
// every other failure carry no information.
func dialState(ctx context.Context, d Dialer, host string, port int, timeout time.Duration) PortState {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err == nil {
		conn.Close()
		return PortOpen
	}
	if isRefused(err) {
		return PortClosed
	}
	return PortUnknown
}
