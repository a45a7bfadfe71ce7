// Package scanner discovers live hosts and open services, either through nmap
// or through plain TCP connects.
package scanner

import (
	"context"
	"errors"
	"net"

	"bytemomo/harpoon/internal/domain"
)

const (
	ScannerTypeNmap     = "nmap"
	ScannerTypeSocket   = "socket"
	ScannerTypeFallback = "fallback"
)

// ErrNativeToolFailed marks a failed nmap invocation. The partial result
// accompanying it is always valid, possibly empty.
var ErrNativeToolFailed = errors.New("native scanner failed")

// Request is a validated seek request.
type Request struct {
	Target string // original spec, handed to nmap verbatim
	Hosts  []string
	Ports  []int
}

// Scanner runs one discovery pass and returns a result without a scan id.
type Scanner interface {
	Scan(ctx context.Context, req Request, progress domain.ProgressFunc) (domain.SeekResult, error)
	Type() string
}

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}
