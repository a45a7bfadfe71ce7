package exploit

import (
	"context"
	"fmt"

	"bytemomo/harpoon/internal/domain"
)

// Emitter delivers a module's events in order. A send blocks until the
// consumer takes the event or the run's context ends; after that every
// emit is dropped.
type Emitter struct {
	ctx     context.Context
	module  string
	out     chan<- domain.Event
	observe func(domain.Event)
}

func newEmitter(ctx context.Context, module string, out chan<- domain.Event, observe func(domain.Event)) *Emitter {
	return &Emitter{ctx: ctx, module: module, out: out, observe: observe}
}

func (e *Emitter) emit(kind domain.EventKind, msg string) bool {
	if e.ctx.Err() != nil {
		return false
	}
	ev := domain.NewEvent(kind, msg, e.module)
	select {
	case e.out <- ev:
		if e.observe != nil {
			e.observe(ev)
		}
		return true
	case <-e.ctx.Done():
		return false
	}
}

func (e *Emitter) Infof(format string, args ...any) bool {
	return e.emit(domain.EventInfo, fmt.Sprintf(format, args...))
}

func (e *Emitter) Commandf(format string, args ...any) bool {
	return e.emit(domain.EventCommand, fmt.Sprintf(format, args...))
}

func (e *Emitter) Outputf(format string, args ...any) bool {
	return e.emit(domain.EventOutput, fmt.Sprintf(format, args...))
}

func (e *Emitter) Successf(format string, args ...any) bool {
	return e.emit(domain.EventSuccess, fmt.Sprintf(format, args...))
}

func (e *Emitter) Errorf(format string, args ...any) bool {
	return e.emit(domain.EventError, fmt.Sprintf(format, args...))
}
