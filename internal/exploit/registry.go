// Package exploit holds the module registry, the selector and the execution
// engine that turns a module run into an ordered event stream.
package exploit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"bytemomo/harpoon/internal/domain"
)

// FallbackModuleID is the generic module used when nothing else matches.
const FallbackModuleID = "banner_grab"

// Wildcard in Descriptor.Services matches any service.
const Wildcard = "*"

var ErrUnknownModule = errors.New("unknown exploit module")

// ModuleFunc is the signature implemented by every exploit module. It reports
// through emit and returns an error only for faults it could not handle.
type ModuleFunc func(ctx context.Context, target domain.ServiceTarget, res Resources, emit *Emitter) error

// Descriptor declares a module and what it targets.
type Descriptor struct {
	ID          string
	Name        string
	Services    []string
	Ports       []uint16
	CVEs        []string
	Description string
	Run         ModuleFunc
}

// Matches reports whether the module declares the service or the port.
func (d Descriptor) Matches(service string, port uint16) bool {
	return slices.Contains(d.Services, service) || slices.Contains(d.Ports, port)
}

// Registry keeps descriptors in registration order, which is also the
// selection order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	modules map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Descriptor)}
}

// Default is the process-wide registry populated by modules.Init.
var Default = NewRegistry()

// Register stores the module under its ID. Registering an existing ID
// replaces it in place.
func (r *Registry) Register(desc Descriptor) {
	if desc.ID == "" || desc.Run == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[desc.ID]; !exists {
		r.order = append(r.order, desc.ID)
	}
	r.modules[desc.ID] = desc
}

// Lookup returns the registered module.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.modules[id]
	return d, ok
}

// List returns every module in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.modules[id])
	}
	return out
}

// Select picks the module for a service/port pair. "auto" (or empty) returns
// the first non-fallback module declaring the service or the port, and the
// fallback module otherwise. An explicit ID must be registered.
func (r *Registry) Select(service string, port uint16, id string) (Descriptor, error) {
	if id != "" && id != domain.AutoExploit {
		d, ok := r.Lookup(id)
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownModule, id)
		}
		return d, nil
	}

	for _, d := range r.List() {
		if d.ID == FallbackModuleID {
			continue
		}
		if d.Matches(service, port) {
			return d, nil
		}
	}

	d, ok := r.Lookup(FallbackModuleID)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: fallback %s not registered", ErrUnknownModule, FallbackModuleID)
	}
	return d, nil
}

// ModuleForCVE returns the first module, in registry order, whose CVE list
// contains id.
func (r *Registry) ModuleForCVE(id string) (string, bool) {
	for _, d := range r.List() {
		if slices.Contains(d.CVEs, id) {
			return d.ID, true
		}
	}
	return "", false
}

// Register adds a module to the default registry.
func Register(desc Descriptor) { Default.Register(desc) }

// Lookup reads from the default registry.
func Lookup(id string) (Descriptor, bool) { return Default.Lookup(id) }

// List returns the default registry's modules in order.
func List() []Descriptor { return Default.List() }
