package scanner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type PortResult struct {
	Port    int
	State   PortState
	Service string
}

// PortScanner sweeps a port list on one host in fixed-size concurrent batches.
type PortScanner struct {
	Dialer    Dialer
	Timeout   time.Duration
	BatchSize int
}

// Scan returns open and closed ports in ascending order; ports that did not
// answer are left out. onBatch receives the number of ports just checked.
func (s PortScanner) Scan(ctx context.Context, host string, ports []int, onBatch func(checked int)) []PortResult {
	batch := max(1, s.BatchSize)
	var out []PortResult

	for i := 0; i < len(ports); i += batch {
		if ctx.Err() != nil {
			break
		}
		chunk := ports[i:min(i+batch, len(ports))]
		states := make([]PortState, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		for j, port := range chunk {
			g.Go(func() error {
				states[j] = dialState(gctx, s.Dialer, host, port, s.Timeout)
				return nil
			})
		}
		_ = g.Wait()

		for j, st := range states {
			switch st {
			case PortOpen:
				out = append(out, PortResult{Port: chunk[j], State: st, Service: ServiceName(chunk[j])})
			case PortClosed:
				out = append(out, PortResult{Port: chunk[j], State: st})
			}
		}
		if onBatch != nil {
			onBatch(len(chunk))
		}
	}
	return out
}

// OpenPorts filters a scan down to the open entries.
func OpenPorts(results []PortResult) []PortResult {
	var out []PortResult
	for _, r := range results {
		if r.State == PortOpen {
			out = append(out, r)
		}
	}
	return out
}
