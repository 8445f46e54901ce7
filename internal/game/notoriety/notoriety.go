// Package notoriety implements the process-wide hostility resolution
// dispatch. Subsystems register named handlers with a numeric priority;
// every pairwise hostility or permission query walks the handlers in
// priority order and stops at the first one that claims it.
package notoriety

import (
	"fmt"
	"sort"
	"sync"
)

// Classification is the alignment between two participants.
type Classification int32

const (
	Neutral  Classification = 0
	Friendly Classification = 1
	Hostile  Classification = 2
)

// String returns a human-readable classification name.
func (c Classification) String() string {
	switch c {
	case Friendly:
		return "Friendly"
	case Hostile:
		return "Hostile"
	default:
		return "Neutral"
	}
}

// PriorityBattles is the dispatch priority of the battle engine.
// Higher values run later, so server-wide alignment rules registered
// at lower values always see the query first.
const PriorityBattles int32 = 1000

// Handler decides hostility and action permission for an ordered pair
// of participants. A false handled flag means "defer to the next
// handler / global default" and must leave the decision untouched.
// Implementations must not block and must not fail: an unresolvable
// query degrades to handled=false.
type Handler interface {
	ResolveHostility(a, b uint32) (Classification, bool)
	AllowBeneficial(a, b uint32) (allow, handled bool)
	AllowHarmful(a, b uint32) (allow, handled bool)
}

// entry is a registered handler with its dispatch priority.
type entry struct {
	name     string
	priority int32
	handler  Handler
}

// Dispatcher is the ordered handler list. Registration happens at host
// startup; the resolve path is read-mostly and takes only a short
// read lock to snapshot the list.
type Dispatcher struct {
	mu      sync.RWMutex
	entries []entry // sorted by priority asc, then name
}

// New creates an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Register adds a handler under a unique name.
func (d *Dispatcher) Register(name string, priority int32, h Handler) error {
	if name == "" || h == nil {
		return fmt.Errorf("registering notoriety handler: empty name or nil handler")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if e.name == name {
			return fmt.Errorf("notoriety handler %q already registered", name)
		}
	}
	d.entries = append(d.entries, entry{name: name, priority: priority, handler: h})
	sort.SliceStable(d.entries, func(i, j int) bool {
		return d.entries[i].priority < d.entries[j].priority
	})
	return nil
}

// Unregister removes a handler by name.
// Returns false if no handler with that name is registered.
func (d *Dispatcher) Unregister(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.entries {
		if e.name == name {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of registered handlers.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// snapshot returns the current handler list for lock-free iteration.
func (d *Dispatcher) snapshot() []entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries
}

// ResolveHostility classifies the ordered pair (a, b).
// Returns def if no handler claims the pair.
func (d *Dispatcher) ResolveHostility(a, b uint32, def Classification) Classification {
	for _, e := range d.snapshot() {
		if c, handled := e.handler.ResolveHostility(a, b); handled {
			return c
		}
	}
	return def
}

// AllowBeneficial decides whether a may perform a beneficial action on b.
// Returns def if no handler claims the pair.
func (d *Dispatcher) AllowBeneficial(a, b uint32, def bool) bool {
	for _, e := range d.snapshot() {
		if allow, handled := e.handler.AllowBeneficial(a, b); handled {
			return allow
		}
	}
	return def
}

// AllowHarmful decides whether a may perform a harmful action on b.
// Returns def if no handler claims the pair.
func (d *Dispatcher) AllowHarmful(a, b uint32, def bool) bool {
	for _, e := range d.snapshot() {
		if allow, handled := e.handler.AllowHarmful(a, b); handled {
			return allow
		}
	}
	return def
}
