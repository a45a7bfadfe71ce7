package scanner

import (
	"fmt"
	"net"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/vuln"

	"github.com/sirupsen/logrus"
)

// NewScanner picks the discovery strategy from configuration and the
// capabilities detected at startup.
func NewScanner(log *logrus.Entry, cfg domain.ScannerConfig, caps domain.Capabilities, lookup vuln.Lookup) (Scanner, error) {
	socket := NewSocketScanner(log, cfg)

	switch cfg.Type {
	case domain.ScannerSocket:
		return socket, nil

	case domain.ScannerNmap:
		if !caps.HasNmap() {
			return nil, fmt.Errorf("nmap scanner requested but nmap was not found")
		}
		return &FallbackScanner{
			Log:       log.WithField("scanner", ScannerTypeFallback),
			Primary:   newNmapScanner(log, cfg, caps, lookup),
			Secondary: socket,
			Fallback:  cfg.FallsBack(),
		}, nil

	case domain.ScannerAuto, "":
		if !caps.HasNmap() {
			log.Info("nmap not available, using socket scanner")
			return socket, nil
		}
		return &FallbackScanner{
			Log:       log.WithField("scanner", ScannerTypeFallback),
			Primary:   newNmapScanner(log, cfg, caps, lookup),
			Secondary: socket,
			Fallback:  cfg.FallsBack(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown scanner type: %s", cfg.Type)
	}
}

// NewSocketScanner builds the TCP-connect scanner from configuration.
func NewSocketScanner(log *logrus.Entry, cfg domain.ScannerConfig) *SocketScanner {
	dialer := &net.Dialer{}
	s := &SocketScanner{
		Log: log.WithField("scanner", ScannerTypeSocket),
		Liveness: LivenessProber{
			Dialer:    dialer,
			Ports:     cfg.ProbePorts,
			Timeout:   cfg.ProbeTimeout,
			BatchSize: cfg.HostBatch,
		},
		Ports: PortScanner{
			Dialer:    dialer,
			Timeout:   cfg.PortTimeout,
			BatchSize: cfg.PortBatch,
		},
	}

	if cfg.ResolveHostnames {
		r, err := NewPTRResolver(cfg.DNSServer, cfg.DNSTimeout)
		if err != nil {
			log.WithError(err).Warn("Hostname resolution disabled")
		} else {
			s.Resolver = r
		}
	}
	return s
}

func newNmapScanner(log *logrus.Entry, cfg domain.ScannerConfig, caps domain.Capabilities, lookup vuln.Lookup) *NmapScanner {
	return &NmapScanner{
		Log:        log.WithField("scanner", ScannerTypeNmap),
		Config:     cfg,
		BinaryPath: caps.NmapPath,
		Lookup:     lookup,
	}
}
