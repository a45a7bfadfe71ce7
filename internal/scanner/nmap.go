package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/targets"
	"bytemomo/harpoon/internal/vuln"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/sirupsen/logrus"
)

// RunFunc executes nmap with the given options.
type RunFunc func(ctx context.Context, opts ...nmap.Option) (*nmap.Run, error)

// NmapScanner delegates discovery, fingerprinting and vulners scripting to
// nmap in two passes: a ping sweep, then a service/OS/script scan of the
// live hosts only.
type NmapScanner struct {
	Log        *logrus.Entry
	Config     domain.ScannerConfig
	BinaryPath string
	Lookup     vuln.Lookup
	Run        RunFunc // nil runs the real binary
}

func (s *NmapScanner) Type() string { return ScannerTypeNmap }

func (s *NmapScanner) Scan(ctx context.Context, req Request, progress domain.ProgressFunc) (domain.SeekResult, error) {
	result := domain.SeekResult{
		Target:       req.Target,
		HostsScanned: len(req.Hosts),
		Hosts:        []domain.DiscoveredHost{},
	}

	progress.Report(5, "Phase 1: Host discovery (ping scan)")

	ping, err := s.run(ctx, "discovery",
		nmap.WithTargets(req.Target),
		nmap.WithPingScan(), // -sn
	)
	if err != nil {
		return result, fmt.Errorf("%w: host discovery: %v", ErrNativeToolFailed, err)
	}

	var live []string
	for _, h := range ping.Hosts {
		if !strings.EqualFold(h.Status.State, "up") {
			continue
		}
		if addr := pickHostAddress(h); addr != "" {
			live = append(live, addr)
		}
	}

	progress.Report(25, fmt.Sprintf("Found %d live hosts. Phase 2: Service detection", len(live)))

	if len(live) == 0 {
		return result, nil
	}

	full, err := s.run(ctx, "services",
		nmap.WithTargets(live...),
		nmap.WithPorts(targets.FormatPorts(req.Ports)),
		nmap.WithServiceInfo(), // -sV
		nmap.WithOSDetection(), // -O
		nmap.WithScripts("vulners"),
	)
	if err != nil {
		return result, fmt.Errorf("%w: service detection: %v", ErrNativeToolFailed, err)
	}

	progress.Report(70, "Phase 3: Parsing results and mapping vulnerabilities")

	result.Hosts = hostsFromRun(full, s.Lookup)
	result.HostsAlive = len(result.Hosts)

	vulns := 0
	for _, h := range result.Hosts {
		vulns += len(h.Vulns)
	}
	progress.Report(100, fmt.Sprintf("Seek complete: %d hosts, %d vulnerabilities", len(result.Hosts), vulns))
	return result, nil
}

func (s *NmapScanner) run(ctx context.Context, phase string, opts ...nmap.Option) (*nmap.Run, error) {
	opts = append(opts, timingOption(s.Log, s.Config.Timing))
	if s.BinaryPath != "" {
		opts = append(opts, nmap.WithBinaryPath(s.BinaryPath))
	}

	log := s.Log.WithField("phase", phase)
	log.WithField("options", len(opts)).Debug("Executing nmap")

	run := s.Run
	if run == nil {
		run = runNmap
	}
	res, err := run(ctx, opts...)
	if err != nil {
		log.WithError(err).Warn("Nmap scan failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"hosts":   len(res.Hosts),
		"summary": res.Stats.Finished.Summary,
	}).Info("Nmap phase complete")
	return res, nil
}

func runNmap(ctx context.Context, opts ...nmap.Option) (*nmap.Run, error) {
	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create nmap scanner: %w", err)
	}
	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("run nmap: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		logrus.WithField("warnings", *warnings).Warn("Nmap scan produced warnings")
	}
	return result, nil
}

func timingOption(log *logrus.Entry, timing string) nmap.Option {
	switch timing {
	case "T0": // paranoid
		return nmap.WithTimingTemplate(nmap.TimingSlowest)
	case "T1": // sneaky
		return nmap.WithTimingTemplate(nmap.TimingSneaky)
	case "T2": // polite
		return nmap.WithTimingTemplate(nmap.TimingPolite)
	case "T3": // normal
		return nmap.WithTimingTemplate(nmap.TimingNormal)
	case "T4", "": // aggressive
		return nmap.WithTimingTemplate(nmap.TimingAggressive)
	case "T5": // insane
		return nmap.WithTimingTemplate(nmap.TimingFastest)
	default:
		log.Errorf("Wrong timing for scanner: %s, using T4", timing)
		return nmap.WithTimingTemplate(nmap.TimingAggressive)
	}
}

// hostsFromRun normalizes nmap output into the same shapes the socket path
// produces.
func hostsFromRun(run *nmap.Run, lookup vuln.Lookup) []domain.DiscoveredHost {
	out := []domain.DiscoveredHost{}
	if run == nil {
		return out
	}

	for _, h := range run.Hosts {
		ip := pickHostAddress(h)
		if ip == "" {
			continue
		}

		host := domain.DiscoveredHost{
			IP:       ip,
			State:    domain.HostUp,
			Services: []domain.DiscoveredService{},
			Vulns:    []domain.ServiceVulnerability{},
		}
		if len(h.OS.Matches) > 0 {
			host.OSGuess = h.OS.Matches[0].Name
		}
		for _, hn := range h.Hostnames {
			if hn.Name != "" {
				host.Hostname = hn.Name
				break
			}
		}

		ports := append([]nmap.Port(nil), h.Ports...)
		sort.SliceStable(ports, func(i, j int) bool { return ports[i].ID < ports[j].ID })

		for _, p := range ports {
			if !strings.EqualFold(p.State.State, "open") {
				continue
			}
			svc := domain.DiscoveredService{
				Port:      p.ID,
				Protocol:  p.Protocol,
				Service:   p.Service.Name,
				Product:   p.Service.Product,
				Version:   p.Service.Version,
				ExtraInfo: p.Service.ExtraInfo,
			}
			if len(p.Service.CPEs) > 0 {
				svc.CPE = string(p.Service.CPEs[0])
			}
			host.Services = append(host.Services, svc)

			for _, script := range p.Scripts {
				if script.ID == "vulners" && script.Output != "" {
					host.Vulns = append(host.Vulns, vuln.ParseVulners(script.Output, lookup)...)
				}
			}
		}
		out = append(out, host)
	}
	return out
}

func pickHostAddress(h nmap.Host) string {
	for _, a := range h.Addresses {
		if a.AddrType == "ipv4" {
			return a.Addr
		}
	}
	for _, a := range h.Addresses {
		if a.AddrType == "ipv6" {
			return a.Addr
		}
	}
	if len(h.Addresses) > 0 {
		return h.Addresses[0].Addr
	}
	return ""
}
