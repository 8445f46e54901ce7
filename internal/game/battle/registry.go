package battle

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vita-nex/autopvp/internal/game/notoriety"
)

// Registry is the process-wide battle collection. It resolves which
// battle (if any) owns a participant and dispatches global hostility
// queries to the owning battle's resolver.
//
// The participant map is guarded by a single narrow critical section,
// taken before any battle-local roster mutation and released before the
// battle lock is acquired, so two locks are never held simultaneously.
type Registry struct {
	mu       sync.RWMutex
	battles  map[int32]*Battle
	byMember map[uint32]int32 // objectID → battleID

	nextID atomic.Int32
}

// NewRegistry creates an empty battle registry.
func NewRegistry() *Registry {
	return &Registry{
		battles:  make(map[int32]*Battle, 16),
		byMember: make(map[uint32]int32, 64),
	}
}

// NextID returns an identifier for a new battle, above every ID seen
// so far (loaded or created).
func (r *Registry) NextID() int32 {
	return r.nextID.Add(1)
}

// Add registers a battle and claims its current roster (battles loaded
// from persistence may already have members).
func (r *Registry) Add(b *Battle) error {
	if b == nil {
		return ErrConfiguration
	}
	if b.IsDeleted() {
		return ErrInvalidState
	}

	members := make([]uint32, 0, b.ParticipantCount())
	for _, t := range b.Teams() {
		for _, p := range t.Members() {
			members = append(members, p.ObjectID())
		}
	}

	r.mu.Lock()
	if _, ok := r.battles[b.ID()]; ok {
		r.mu.Unlock()
		return ErrConfiguration
	}
	for _, id := range members {
		if owner, ok := r.byMember[id]; ok && owner != b.ID() {
			r.mu.Unlock()
			return ErrAlreadyMember
		}
	}
	r.battles[b.ID()] = b
	for _, id := range members {
		r.byMember[id] = b.ID()
	}
	r.mu.Unlock()

	// Keep NextID above loaded identifiers.
	for {
		cur := r.nextID.Load()
		if cur >= b.ID() || r.nextID.CompareAndSwap(cur, b.ID()) {
			break
		}
	}

	b.setTracker(r)
	slog.Debug("battle registered", "battle", b.Name(), "id", b.ID())
	return nil
}

// Delete removes a battle from the registry and tears it down.
func (r *Registry) Delete(battleID int32) error {
	r.mu.Lock()
	b, ok := r.battles[battleID]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.battles, battleID)
	r.mu.Unlock()

	// Battle.Delete releases members through the tracker, which only
	// touches the participant map.
	b.Delete()
	return nil
}

// Battle returns a battle by ID, or nil.
func (r *Registry) Battle(battleID int32) *Battle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.battles[battleID]
}

// BattleByName returns a battle by name (case-insensitive), or nil.
func (r *Registry) BattleByName(name string) *Battle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.battles {
		if equalFoldASCII(b.Name(), name) {
			return b
		}
	}
	return nil
}

// Battles returns a snapshot of all registered battles.
func (r *Registry) Battles() []*Battle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Battle, 0, len(r.battles))
	for _, b := range r.battles {
		out = append(out, b)
	}
	return out
}

// BattleOf returns the battle a participant belongs to, or nil.
func (r *Registry) BattleOf(objectID uint32) *Battle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byMember[objectID]
	if !ok {
		return nil
	}
	return r.battles[id]
}

// IsMember reports whether a participant is in any battle.
func (r *Registry) IsMember(objectID uint32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byMember[objectID]
	return ok
}

// Count returns the number of registered battles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.battles)
}

// Tick advances every registered battle's state machine. Called by the
// host driver at a fixed interval; the registry lock is not held while
// battles advance.
func (r *Registry) Tick(now time.Time) {
	for _, b := range r.Battles() {
		b.Advance(now)
	}
}

// RegisterNotoriety hooks the registry into the global hostility
// dispatch at the battle priority, below server-wide alignment rules.
func (r *Registry) RegisterNotoriety(d *notoriety.Dispatcher) error {
	return d.Register("battles", notoriety.PriorityBattles, r)
}

// --- notoriety.Handler ---

// sharedBattle returns the battle owning both participants, or nil.
func (r *Registry) sharedBattle(a, b uint32) *Battle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ida, ok := r.byMember[a]
	if !ok {
		return nil
	}
	idb, ok := r.byMember[b]
	if !ok || ida != idb {
		return nil
	}
	return r.battles[ida]
}

// ResolveHostility dispatches the pair to the owning battle.
func (r *Registry) ResolveHostility(a, b uint32) (notoriety.Classification, bool) {
	bt := r.sharedBattle(a, b)
	if bt == nil {
		return notoriety.Neutral, false
	}
	return bt.ResolveHostility(a, b)
}

// AllowBeneficial dispatches the pair to the owning battle.
func (r *Registry) AllowBeneficial(a, b uint32) (bool, bool) {
	bt := r.sharedBattle(a, b)
	if bt == nil {
		return false, false
	}
	return bt.AllowBeneficial(a, b)
}

// AllowHarmful dispatches the pair to the owning battle.
func (r *Registry) AllowHarmful(a, b uint32) (bool, bool) {
	bt := r.sharedBattle(a, b)
	if bt == nil {
		return false, false
	}
	return bt.AllowHarmful(a, b)
}

// --- membership ---

func (r *Registry) reserve(objectID uint32, battleID int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMember[objectID]; ok {
		return ErrAlreadyMember
	}
	r.byMember[objectID] = battleID
	return nil
}

func (r *Registry) release(objectID uint32) {
	r.mu.Lock()
	delete(r.byMember, objectID)
	r.mu.Unlock()
}

// equalFoldASCII compares two ASCII strings case-insensitively.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
