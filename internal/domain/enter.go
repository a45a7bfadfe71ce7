package domain

import (
	"fmt"
	"net/netip"
)

// AutoExploit asks the selector to pick a module from service and port.
const AutoExploit = "auto"

type AccessLevel string

const (
	AccessNone  AccessLevel = "none"
	AccessUser  AccessLevel = "user"
	AccessAdmin AccessLevel = "admin"
	AccessRoot  AccessLevel = "root"
)

// EnterRequest describes one exploit run against a discovered service. When
// ScanID is set the endpoint must appear in that scan's results.
type EnterRequest struct {
	ScanID    string         `json:"scan_id,omitempty"`
	TargetIP  string         `json:"target_ip"`
	Port      uint16         `json:"port"`
	Service   string         `json:"service"`
	ExploitID string         `json:"exploit_id"`
	Options   map[string]any `json:"options,omitempty"`
}

// Validate rejects requests that cannot address a TCP endpoint.
func (r EnterRequest) Validate() error {
	if _, err := netip.ParseAddr(r.TargetIP); err != nil {
		return fmt.Errorf("target_ip %q is not an IP address", r.TargetIP)
	}
	if r.Port == 0 {
		return fmt.Errorf("port is required")
	}
	return nil
}

// Target returns the endpoint the request addresses.
func (r EnterRequest) Target() ServiceTarget {
	return ServiceTarget{
		HostPort: HostPort{Host: r.TargetIP, Port: r.Port},
		Service:  r.Service,
	}
}

// EnterResult is the immutable outcome of an exploit session.
type EnterResult struct {
	SessionID   string      `json:"session_id"`
	ScanID      string      `json:"scan_id,omitempty"`
	TargetIP    string      `json:"target_ip"`
	Port        uint16      `json:"port"`
	Service     string      `json:"service"`
	Success     bool        `json:"success"`
	Method      string      `json:"method"`
	AccessLevel AccessLevel `json:"access_level"`
	Loot        []string    `json:"loot"`
}

func (r EnterResult) Severity() string {
	if r.Success {
		return "critical"
	}
	return "info"
}
