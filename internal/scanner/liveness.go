package scanner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// LivenessProber decides which hosts are up by connecting to a few
// well-known ports instead of sweeping the full port set.
type LivenessProber struct {
	Dialer    Dialer
	Ports     []int
	Timeout   time.Duration
	BatchSize int
}

// BatchFunc is called after every host batch.
type BatchFunc func(probed, total, alive int)

// Probe returns the alive hosts in input order. Hosts are handled in batches
// of BatchSize so that open sockets stay bounded by BatchSize*len(Ports).
func (p LivenessProber) Probe(ctx context.Context, hosts []string, onBatch BatchFunc) []string {
	batch := max(1, p.BatchSize)
	var alive []string

	for i := 0; i < len(hosts); i += batch {
		if ctx.Err() != nil {
			break
		}
		chunk := hosts[i:min(i+batch, len(hosts))]
		up := make([]bool, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		for j, host := range chunk {
			g.Go(func() error {
				up[j] = p.probeHost(gctx, host)
				return nil
			})
		}
		_ = g.Wait()

		for j, ok := range up {
			if ok {
				alive = append(alive, chunk[j])
			}
		}
		if onBatch != nil {
			onBatch(i+len(chunk), len(hosts), len(alive))
		}
	}
	return alive
}

// probeHost dials every probe port at once and stops at the first open or
// refused answer.
func (p LivenessProber) probeHost(ctx context.Context, host string) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	answers := make(chan PortState, len(p.Ports))
	for _, port := range p.Ports {
		go func() {
			answers <- dialState(ctx, p.Dialer, host, port, p.Timeout)
		}()
	}

	for range p.Ports {
		if st := <-answers; st == PortOpen || st == PortClosed {
			return true
		}
	}
	return false
}
