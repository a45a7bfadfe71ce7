package domain

import (
	"net"
	"strconv"
)

// HostPort is a single network endpoint.
type HostPort struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

// String returns the host:port representation.
func (h HostPort) String() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(int(h.Port)))
}

// ServiceTarget is the endpoint an exploit module runs against.
type ServiceTarget struct {
	HostPort
	Service string `json:"service"`
}

type HostState string

const (
	HostUp      HostState = "up"
	HostUnknown HostState = "unknown"
)

// DiscoveredService is one open port on a discovered host.
type DiscoveredService struct {
	Port      uint16 `json:"port"`
	Protocol  string `json:"protocol"`
	Service   string `json:"service"`
	Product   string `json:"product,omitempty"`
	Version   string `json:"version,omitempty"`
	ExtraInfo string `json:"extrainfo,omitempty"`
	CPE       string `json:"cpe,omitempty"`
}

// ServiceVulnerability is produced by the vulners mapper only.
type ServiceVulnerability struct {
	ID               string  `json:"cve_id"`
	CVSS             float64 `json:"cvss"`
	ExploitAvailable bool    `json:"exploit_available"`
	ExploitID        string  `json:"exploit_id,omitempty"`
}

type DiscoveredHost struct {
	IP       string                 `json:"ip"`
	Hostname string                 `json:"hostname,omitempty"`
	OSGuess  string                 `json:"os_guess,omitempty"`
	State    HostState              `json:"state"`
	Services []DiscoveredService    `json:"services"`
	Vulns    []ServiceVulnerability `json:"vulns"`
}

// SeekResult is the outcome of one discovery scan.
type SeekResult struct {
	ScanID       string           `json:"scan_id"`
	Target       string           `json:"cidr"`
	HostsScanned int              `json:"hosts_scanned"`
	HostsAlive   int              `json:"hosts_alive"`
	Hosts        []DiscoveredHost `json:"hosts"`
}

// Severity grades a scan: high when any vulnerability scores 7.0 or more,
// medium when anything was found at all.
func (r SeekResult) Severity() string {
	for _, h := range r.Hosts {
		for _, v := range h.Vulns {
			if v.CVSS >= 7.0 {
				return "high"
			}
		}
	}
	if len(r.Hosts) > 0 {
		return "medium"
	}
	return "info"
}

// Findings counts services plus vulnerabilities over all hosts.
func (r SeekResult) Findings() int {
	n := 0
	for _, h := range r.Hosts {
		n += len(h.Services) + len(h.Vulns)
	}
	return n
}

// ServiceAt finds the service discovered on ip:port.
func (r SeekResult) ServiceAt(ip string, port uint16) (DiscoveredService, bool) {
	for _, h := range r.Hosts {
		if h.IP != ip {
			continue
		}
		for _, svc := range h.Services {
			if svc.Port == port {
				return svc, true
			}
		}
	}
	return DiscoveredService{}, false
}

// Clone returns a deep copy so stored results cannot be mutated by callers.
func (r SeekResult) Clone() SeekResult {
	out := r
	out.Hosts = make([]DiscoveredHost, len(r.Hosts))
	for i, h := range r.Hosts {
		h.Services = append([]DiscoveredService(nil), h.Services...)
		h.Vulns = append([]ServiceVulnerability(nil), h.Vulns...)
		out.Hosts[i] = h
	}
	return out
}
