package scanner

import (
	"context"
	"fmt"
	"net/netip"
	"sort"

	"bytemomo/harpoon/internal/domain"

	"github.com/sirupsen/logrus"
)

// SocketScanner is the pure TCP-connect discovery path used when nmap is not
// available: a liveness probe over every host, then a full sweep of the
// alive ones.
type SocketScanner struct {
	Log      *logrus.Entry
	Liveness LivenessProber
	Ports    PortScanner
	Resolver HostnameResolver // optional
}

func (s *SocketScanner) Type() string { return ScannerTypeSocket }

func (s *SocketScanner) Scan(ctx context.Context, req Request, progress domain.ProgressFunc) (domain.SeekResult, error) {
	result := domain.SeekResult{Target: req.Target, Hosts: []domain.DiscoveredHost{}}
	if len(req.Hosts) == 0 {
		s.Log.WithField("target", req.Target).Warn("No hosts expanded from target")
		return result, nil
	}
	result.HostsScanned = len(req.Hosts)

	progress.Report(5, fmt.Sprintf("Socket scan: %d hosts, phase 1: liveness probe", len(req.Hosts)))

	alive := s.Liveness.Probe(ctx, req.Hosts, func(probed, total, up int) {
		pct := probed*40/total + 5
		progress.Report(min(pct, 45), fmt.Sprintf("Probed %d/%d hosts, %d alive", probed, total, up))
	})

	s.Log.WithFields(logrus.Fields{
		"target":  req.Target,
		"scanned": len(req.Hosts),
		"alive":   len(alive),
	}).Info("Liveness probe complete")

	progress.Report(50, fmt.Sprintf("Phase 2: Full port scan on %d alive hosts", len(alive)))

	if len(alive) == 0 {
		progress.Report(100, fmt.Sprintf("Seek complete: 0 alive hosts out of %d scanned", len(req.Hosts)))
		return result, ctx.Err()
	}

	sortAddrs(alive)
	total := len(alive) * len(req.Ports)
	completed := 0

	for _, ip := range alive {
		if ctx.Err() != nil {
			break
		}
		var services []domain.DiscoveredService

		found := s.Ports.Scan(ctx, ip, req.Ports, func(checked int) {
			completed += checked
			if total > 0 {
				pct := completed*45/total + 50
				progress.Report(min(pct, 95), fmt.Sprintf("Scanning %s: %d/%d checks", ip, completed, total))
			}
		})
		for _, r := range OpenPorts(found) {
			services = append(services, domain.DiscoveredService{
				Port:     uint16(r.Port),
				Protocol: "tcp",
				Service:  r.Service,
			})
		}

		if len(services) == 0 {
			continue
		}

		host := domain.DiscoveredHost{
			IP:       ip,
			State:    domain.HostUp,
			Services: services,
			Vulns:    []domain.ServiceVulnerability{},
		}
		if s.Resolver != nil {
			name, err := s.Resolver.LookupHostname(ctx, ip)
			if err != nil {
				s.Log.WithError(err).WithField("host", ip).Debug("Reverse lookup failed")
			}
			host.Hostname = name
		}

		s.Log.WithFields(logrus.Fields{
			"host":     ip,
			"services": len(services),
		}).Debug("Host has open services")
		result.Hosts = append(result.Hosts, host)
	}

	result.HostsAlive = len(result.Hosts)
	progress.Report(100, fmt.Sprintf("Seek complete: %d hosts with services (no vuln data without nmap)", len(result.Hosts)))
	return result, ctx.Err()
}

func sortAddrs(hosts []string) {
	sort.Slice(hosts, func(i, j int) bool {
		a, errA := netip.ParseAddr(hosts[i])
		b, errB := netip.ParseAddr(hosts[j])
		if errA != nil || errB != nil {
			return hosts[i] < hosts[j]
		}
		return a.Less(b)
	})
}
