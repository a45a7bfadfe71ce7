package exploit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/toolexec"

	"github.com/sirupsen/logrus"
)

var separator = strings.Repeat("=", 60)

// Engine runs exploit modules as cancellable event streams.
type Engine struct {
	Log    *logrus.Entry
	Caps   domain.Capabilities
	Config domain.ExploitConfig
	// Exec runs external helpers; toolexec.Exec when nil.
	Exec toolexec.Runner
}

// Outcome is what a run established, aggregated from its success events.
type Outcome struct {
	Success     bool
	AccessLevel domain.AccessLevel
	Loot        []string
	Crashed     bool
	Method      string
}

// Run is one module execution. Events must be drained (or the context
// cancelled) for the module to make progress.
type Run struct {
	events chan domain.Event
	done   chan struct{}

	mu      sync.Mutex
	outcome Outcome
}

func (r *Run) Events() <-chan domain.Event { return r.events }

// Wait blocks until the outcome is final, which happens before the complete
// event is sent.
func (r *Run) Wait() Outcome {
	<-r.done
	return r.Outcome()
}

func (r *Run) Outcome() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.outcome
	out.Loot = append([]string{}, r.outcome.Loot...)
	return out
}

// observe folds success events into the outcome. Every success message is
// loot; the access level follows the latest claim.
func (r *Run) observe(ev domain.Event) {
	if ev.Kind != domain.EventSuccess {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcome.Success = true
	r.outcome.Loot = append(r.outcome.Loot, ev.Message)
	if lvl, ok := claimedAccess(ev.Message); ok {
		r.outcome.AccessLevel = lvl
	}
}

func claimedAccess(msg string) (domain.AccessLevel, bool) {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "root"):
		return domain.AccessRoot, true
	case strings.Contains(m, "admin"):
		return domain.AccessAdmin, true
	case strings.Contains(m, "access level: user"):
		return domain.AccessUser, true
	}
	return "", false
}

// Start launches desc against target. The stream is: module banner, the
// module's own events, a closing banner and exactly one complete event,
// unless ctx ends first, in which case the stream is closed early.
func (e *Engine) Start(ctx context.Context, desc Descriptor, target domain.ServiceTarget, params map[string]any) *Run {
	run := &Run{
		events:  make(chan domain.Event),
		done:    make(chan struct{}),
		outcome: Outcome{AccessLevel: domain.AccessNone, Method: desc.ID},
	}

	log := e.logger().WithFields(logrus.Fields{
		"module": desc.ID,
		"target": target.String(),
	})
	res := Resources{
		Log:    log,
		Caps:   e.Caps,
		Config: e.Config,
		Params: params,
		Exec:   e.Exec,
	}
	if res.Exec == nil {
		res.Exec = toolexec.Exec{}
	}

	go func() {
		defer close(run.events)

		emit := newEmitter(ctx, desc.ID, run.events, run.observe)
		emit.Infof("[*] Initializing module: %s", desc.Name)
		emit.Infof("[*] Target: %s (%s)", target.String(), target.Service)
		emit.Infof("%s", separator)

		if err := invoke(ctx, desc, target, res, emit); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Module crashed")
			run.mu.Lock()
			run.outcome.Crashed = true
			run.mu.Unlock()
			emit.Errorf("[!] Module crashed: %v", err)
		}

		emit.Infof("%s", separator)
		emit.Infof("[*] Module execution finished")

		outcome := run.Outcome()
		close(run.done)

		log.WithFields(logrus.Fields{
			"success": outcome.Success,
			"access":  outcome.AccessLevel,
			"loot":    len(outcome.Loot),
		}).Info("Module execution complete")

		status := "FAILED"
		if outcome.Success {
			status = "SUCCESS"
		}
		emit.emit(domain.EventComplete, fmt.Sprintf("[*] Result: %s | Access: %s | Method: %s", status, outcome.AccessLevel, outcome.Method))
	}()

	return run
}

func (e *Engine) logger() *logrus.Entry {
	if e.Log != nil {
		return e.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// invoke converts panics into errors so that the stream always completes.
func invoke(ctx context.Context, desc Descriptor, target domain.ServiceTarget, res Resources, emit *Emitter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	err = desc.Run(ctx, target, res, emit)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}
