// Package service ties discovery, module selection and execution together
// and records their results in the session store.
package service

import (
	"context"
	"errors"
	"fmt"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/exploit"
	"bytemomo/harpoon/internal/scanner"
	"bytemomo/harpoon/internal/session"
	"bytemomo/harpoon/internal/targets"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownScan   = errors.New("unknown scan id")
	ErrNotDiscovered = errors.New("service not found in scan")
)

// Service is the entry point used by the CLI.
type Service struct {
	Log      *logrus.Entry
	Config   domain.Config
	Registry *exploit.Registry
	Scanner  scanner.Scanner
	Engine   *exploit.Engine
	Store    *session.Store
}

// New wires a service from configuration and detected capabilities. The
// registry must already be populated.
func New(log *logrus.Entry, cfg domain.Config, caps domain.Capabilities, registry *exploit.Registry) (*Service, error) {
	sc, err := scanner.NewScanner(log, cfg.Scanner, caps, registry.ModuleForCVE)
	if err != nil {
		return nil, fmt.Errorf("configure scanner: %w", err)
	}
	return &Service{
		Log:      log,
		Config:   cfg,
		Registry: registry,
		Scanner:  sc,
		Engine: &exploit.Engine{
			Log:    log.WithField("component", "engine"),
			Caps:   caps,
			Config: cfg.Exploit,
		},
		Store: session.NewStore(),
	}, nil
}

// StartSeek validates the request, runs discovery and stores the result
// under a fresh scan id. Invalid specs fail before any probe is sent. An
// empty portSpec uses the configured default.
func (s *Service) StartSeek(ctx context.Context, targetSpec, portSpec string, progress domain.ProgressFunc) (domain.SeekResult, error) {
	hosts, err := targets.Expand(targetSpec, s.Config.Seek.MaxHosts)
	if err != nil {
		return domain.SeekResult{}, fmt.Errorf("invalid target: %w", err)
	}
	if portSpec == "" {
		portSpec = s.Config.Seek.DefaultPorts
	}
	ports, err := targets.ParsePorts(portSpec)
	if err != nil {
		return domain.SeekResult{}, fmt.Errorf("invalid ports: %w", err)
	}

	scanID := uuid.NewString()
	log := s.Log.WithFields(logrus.Fields{
		"scan_id": scanID,
		"target":  targetSpec,
		"scanner": s.Scanner.Type(),
	})
	log.WithFields(logrus.Fields{"hosts": len(hosts), "ports": len(ports)}).Info("Seek started")

	res, err := s.Scanner.Scan(ctx, scanner.Request{Target: targetSpec, Hosts: hosts, Ports: ports}, progress)
	res.ScanID = scanID
	res.Target = targetSpec
	if err != nil {
		log.WithError(err).Error("Seek failed")
		return res, fmt.Errorf("seek %s: %w", scanID, err)
	}

	s.Store.PutSeek(res)
	log.WithFields(logrus.Fields{
		"severity": res.Severity(),
		"alive":    res.HostsAlive,
		"findings": res.Findings(),
	}).Info("Seek complete")
	return res, nil
}

func (s *Service) GetSeekResult(scanID string) (domain.SeekResult, bool) {
	return s.Store.GetSeek(scanID)
}

// ImportSeek stores a seek result produced elsewhere, typically one saved by
// an earlier run, so enter requests can refer to it by scan id.
func (s *Service) ImportSeek(res domain.SeekResult) error {
	if res.ScanID == "" {
		return fmt.Errorf("import seek: %w: empty", ErrUnknownScan)
	}
	s.Store.PutSeek(res)
	s.Log.WithFields(logrus.Fields{"scan_id": res.ScanID, "hosts": len(res.Hosts)}).Debug("Seek result imported")
	return nil
}

// resolve checks a request that names a scan against that scan's results
// and fills the service name from the discovery when the request has none.
func (s *Service) resolve(req domain.EnterRequest) (domain.EnterRequest, error) {
	if req.ScanID == "" {
		return req, nil
	}
	res, ok := s.Store.GetSeek(req.ScanID)
	if !ok {
		return req, fmt.Errorf("%w: %s", ErrUnknownScan, req.ScanID)
	}
	found, ok := res.ServiceAt(req.TargetIP, req.Port)
	if !ok {
		return req, fmt.Errorf("%w: %s in %s", ErrNotDiscovered, req.Target().String(), req.ScanID)
	}
	if req.Service == "" {
		req.Service = found.Service
	}
	return req, nil
}

// EnterSession is a running exploit session. Events must be drained until
// closed, or the context passed to StartEnter cancelled.
type EnterSession struct {
	ID     string
	Module string
	Events <-chan domain.Event
}

// StartEnter selects a module and starts it. A request carrying a scan id
// must address a service that scan discovered. Selection errors are returned
// before any event is produced.
func (s *Service) StartEnter(ctx context.Context, req domain.EnterRequest) (*EnterSession, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid enter request: %w", err)
	}
	req, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	desc, err := s.Registry.Select(req.Service, req.Port, req.ExploitID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	out := make(chan domain.Event)
	go s.relay(ctx, id, req, desc, out)

	return &EnterSession{ID: id, Module: desc.ID, Events: out}, nil
}

func (s *Service) GetEnterResult(sessionID string) (domain.EnterResult, bool) {
	return s.Store.GetEnter(sessionID)
}

// relay prefixes the engine stream with the session events and stores the
// result before the complete event is forwarded.
func (s *Service) relay(ctx context.Context, id string, req domain.EnterRequest, desc exploit.Descriptor, out chan<- domain.Event) {
	defer close(out)

	log := s.Log.WithFields(logrus.Fields{
		"session_id": id,
		"module":     desc.ID,
		"target":     req.Target().String(),
	})
	if req.ScanID != "" {
		log = log.WithField("scan_id", req.ScanID)
	}

	send := func(ev domain.Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send(domain.NewEvent(domain.EventInfo, "[*] Session ID: "+id, desc.ID)) ||
		!send(domain.NewEvent(domain.EventInfo, "[*] Selected module: "+desc.ID, desc.ID)) {
		log.Info("Enter session cancelled before start")
		return
	}

	run := s.Engine.Start(ctx, desc, req.Target(), req.Options)
	for ev := range run.Events() {
		if ev.Kind == domain.EventComplete {
			outcome := run.Wait()
			result := domain.EnterResult{
				SessionID:   id,
				ScanID:      req.ScanID,
				TargetIP:    req.TargetIP,
				Port:        req.Port,
				Service:     req.Service,
				Success:     outcome.Success,
				Method:      outcome.Method,
				AccessLevel: outcome.AccessLevel,
				Loot:        outcome.Loot,
			}
			s.Store.PutEnter(result)
			log.WithFields(logrus.Fields{
				"severity": result.Severity(),
				"access":   result.AccessLevel,
			}).Info("Enter session complete")
		}
		// Keep draining after the consumer leaves so the engine can finish.
		send(ev)
	}

	if ctx.Err() != nil {
		log.Info("Enter session cancelled")
	}
}
