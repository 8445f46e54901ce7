// Package battle implements the automated PvP battle engine: the battle
// lifecycle state machine, recurring-schedule activation, team and invite
// bookkeeping, and the per-battle notoriety resolver.
package battle

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vita-nex/autopvp/internal/model"
)

// membership is the cross-battle bookkeeping contract the registry
// provides. reserve claims a participant for a battle and fails with
// ErrAlreadyMember if the participant is claimed elsewhere; release
// frees the claim.
type membership interface {
	reserve(objectID uint32, battleID int32) error
	release(objectID uint32)
}

// Config describes a battle to create.
type Config struct {
	ID          int32
	Name        string
	Category    string
	Description string
	Timing      Timing
	Rules       Rules
	Schedule    Schedule // zero value = no recurring schedule
	Variant     Variant  // nil = LastTeamStanding
}

// Battle is one configurable, stateful PvP competition instance.
// Thread-safe: config, teams and invites are protected by mu; the state
// and deleted flags are atomic so the read paths never block.
type Battle struct {
	mu sync.RWMutex

	id          int32
	name        string
	category    string
	description string

	state   atomic.Int32
	deleted atomic.Bool
	dirty   atomic.Bool

	teams    []*Team
	timing   Timing
	rules    Rules
	schedule Schedule
	variant  Variant

	invites  map[uint32]*Team // objectID → invited team
	phaseEnd time.Time        // when the current timed phase elapses
	winner   *Team            // set on Running → Ended when decided

	tracker membership // nil for standalone battles
}

// New creates a battle in the Internal state.
func New(cfg Config) (*Battle, error) {
	if cfg.ID <= 0 || cfg.Name == "" {
		return nil, ErrConfiguration
	}
	if err := cfg.Timing.Validate(); err != nil {
		return nil, err
	}

	variant := cfg.Variant
	if variant == nil {
		variant = LastTeamStanding{}
	}

	return &Battle{
		id:          cfg.ID,
		name:        cfg.Name,
		category:    cfg.Category,
		description: cfg.Description,
		timing:      cfg.Timing,
		rules:       cfg.Rules,
		schedule:    cfg.Schedule,
		variant:     variant,
		invites:     make(map[uint32]*Team, 8),
	}, nil
}

// ID returns the stable battle identifier.
func (b *Battle) ID() int32 { return b.id }

// Name returns the battle name.
func (b *Battle) Name() string { return b.name }

// Category returns the battle category.
func (b *Battle) Category() string { return b.category }

// Description returns the battle description.
func (b *Battle) Description() string { return b.description }

// State returns the current lifecycle phase.
func (b *Battle) State() State { return State(b.state.Load()) }

// IsDeleted reports whether the battle has been deleted.
func (b *Battle) IsDeleted() bool { return b.deleted.Load() }

// Timing returns the phase durations.
func (b *Battle) Timing() Timing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.timing
}

// Rules returns the permission table.
func (b *Battle) Rules() Rules {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rules
}

// Schedule returns the recurring activation schedule (zero = unbound).
func (b *Battle) Schedule() Schedule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.schedule
}

// Variant returns the battle variant behavior.
func (b *Battle) Variant() Variant {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.variant
}

// PhaseEnd returns when the current timed phase elapses (zero if the
// current phase is not timed).
func (b *Battle) PhaseEnd() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.phaseEnd
}

// Winner returns the winning team of the last run, or nil.
func (b *Battle) Winner() *Team {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.winner
}

// Teams returns a snapshot of the team list.
func (b *Battle) Teams() []*Team {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Team, len(b.teams))
	copy(out, b.teams)
	return out
}

// Team returns the team with the given name, or nil.
func (b *Battle) Team(name string) *Team {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.teamLocked(name)
}

// TeamOf returns the team a participant belongs to, or nil.
func (b *Battle) TeamOf(objectID uint32) *Team {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.teamOfLocked(objectID)
}

// ParticipantCount returns the total roster size across teams.
func (b *Battle) ParticipantCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, t := range b.teams {
		n += t.Size()
	}
	return n
}

// Dirty reports whether the battle changed since the last save.
func (b *Battle) Dirty() bool { return b.dirty.Load() }

// ClearDirty resets the dirty flag after a successful save.
func (b *Battle) ClearDirty() { b.dirty.Store(false) }

func (b *Battle) markDirty() { b.dirty.Store(true) }

// AddTeam registers a team. Teams can only be added before the battle
// locks its configuration, i.e. in Internal or Queueing.
func (b *Battle) AddTeam(t *Team) error {
	if t == nil {
		return ErrConfiguration
	}
	if b.deleted.Load() {
		return ErrInvalidState
	}
	switch b.State() {
	case StateInternal, StateQueueing:
	default:
		return ErrInvalidState
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.teamLocked(t.Name()) != nil {
		return ErrConfiguration
	}
	b.teams = append(b.teams, t)
	b.markDirty()
	return nil
}

// Join adds a participant to the named team.
// The cross-battle membership invariant is checked through the registry
// before the roster mutation; on roster failure the claim is rolled back.
func (b *Battle) Join(p *model.Participant, teamName string) error {
	if p == nil {
		return ErrNotFound
	}
	if b.deleted.Load() {
		return ErrInvalidState
	}
	switch b.State() {
	case StateQueueing, StatePreparing:
	default:
		return ErrInvalidState
	}

	if err := b.reserve(p.ObjectID()); err != nil {
		return err
	}

	b.mu.Lock()
	team := b.teamLocked(teamName)
	if team == nil {
		b.mu.Unlock()
		b.release(p.ObjectID())
		return ErrNotFound
	}
	if b.teamOfLocked(p.ObjectID()) != nil {
		b.mu.Unlock()
		b.release(p.ObjectID())
		return ErrAlreadyMember
	}
	err := team.Add(p)
	b.mu.Unlock()

	if err != nil {
		b.release(p.ObjectID())
		return err
	}

	b.markDirty()
	slog.Debug("participant joined battle",
		"battle", b.name, "team", teamName, "participant", p.Name())
	return nil
}

// Leave removes a participant from the battle.
// Idempotent: leaving when not a member succeeds trivially.
// A win-condition re-check happens on the next driver tick.
func (b *Battle) Leave(objectID uint32) {
	b.mu.Lock()
	removed := false
	for _, t := range b.teams {
		if t.Remove(objectID) {
			removed = true
			break
		}
	}
	b.mu.Unlock()

	if removed {
		b.release(objectID)
		b.markDirty()
		slog.Debug("participant left battle", "battle", b.name, "participant", objectID)
	}
}

// Start explicitly activates an idle battle (Internal → Queueing).
func (b *Battle) Start(now time.Time) error {
	if b.deleted.Load() || b.State() != StateInternal {
		return ErrInvalidState
	}
	b.mu.Lock()
	b.enterQueueingLocked()
	b.mu.Unlock()
	return nil
}

// ForceStart skips the minimum-roster gate (Queueing → Preparing).
func (b *Battle) ForceStart(now time.Time) error {
	if b.deleted.Load() || b.State() != StateQueueing {
		return ErrInvalidState
	}
	b.mu.Lock()
	b.enterPreparingLocked(now)
	b.mu.Unlock()
	return nil
}

// Stop explicitly ends a running battle (Running → Ended).
func (b *Battle) Stop(now time.Time) error {
	if b.deleted.Load() || b.State() != StateRunning {
		return ErrInvalidState
	}
	b.mu.Lock()
	b.winner = nil
	b.enterEndedLocked(now)
	b.mu.Unlock()
	return nil
}

// Delete irrevocably removes the battle: cancels outstanding invites
// and returns all participants to their unaffiliated state.
func (b *Battle) Delete() {
	if !b.deleted.CompareAndSwap(false, true) {
		return
	}

	b.mu.Lock()
	b.state.Store(int32(StateDeleted))
	b.invites = make(map[uint32]*Team)
	var released []uint32
	for _, t := range b.teams {
		for _, p := range t.Clear() {
			released = append(released, p.ObjectID())
		}
	}
	b.mu.Unlock()

	for _, id := range released {
		b.release(id)
	}
	slog.Info("battle deleted", "battle", b.name, "id", b.id)
}

// Advance drives the state machine one tick. Called by the central
// driver for every registered battle; zero-duration phases are skipped
// within the same tick.
func (b *Battle) Advance(now time.Time) {
	// A full cycle is bounded by the number of states; with all-zero
	// timings one tick must not spin forever.
	for cycle := 0; cycle < 6; cycle++ {
		if !b.advanceOnce(now) {
			return
		}
	}
}

// advanceOnce applies at most one transition. Returns true if the
// state changed.
func (b *Battle) advanceOnce(now time.Time) bool {
	if b.deleted.Load() {
		return false
	}

	switch b.State() {
	case StateInternal:
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.schedule.IsZero() || !b.schedule.Matches(now) {
			return false
		}
		b.enterQueueingLocked()
		return true

	case StateQueueing:
		b.mu.Lock()
		defer b.mu.Unlock()
		if !b.minimumsMetLocked() {
			return false
		}
		b.enterPreparingLocked(now)
		return true

	case StatePreparing:
		b.mu.Lock()
		if !b.minimumsMetLocked() {
			// Roster dropped below minimum, reopen the queue.
			b.state.Store(int32(StateQueueing))
			b.phaseEnd = time.Time{}
			b.markDirty()
			b.mu.Unlock()
			slog.Debug("battle back to queueing", "battle", b.name)
			return true
		}
		if now.Before(b.phaseEnd) {
			b.mu.Unlock()
			return false
		}
		teams, rules, variant := b.snapshotLocked()
		b.enterRunningLocked(now)
		b.mu.Unlock()
		variant.OnStart(teams, rules)
		return true

	case StateRunning:
		b.mu.RLock()
		end := b.phaseEnd
		teams, rules, variant := b.snapshotLocked()
		b.mu.RUnlock()

		winner, decided := variant.Decided(teams, rules)
		if !decided && now.Before(end) {
			return false
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if State(b.state.Load()) != StateRunning {
			return false
		}
		b.winner = winner
		b.enterEndedLocked(now)
		return true

	case StateEnded:
		b.mu.Lock()
		if now.Before(b.phaseEnd) {
			b.mu.Unlock()
			return false
		}
		scheduled := !b.schedule.IsZero()
		var released []uint32
		for _, t := range b.teams {
			for _, p := range t.Clear() {
				released = append(released, p.ObjectID())
			}
		}
		b.invites = make(map[uint32]*Team, 8)
		b.phaseEnd = time.Time{}
		if scheduled {
			b.state.Store(int32(StateQueueing))
		} else {
			b.state.Store(int32(StateInternal))
		}
		b.markDirty()
		b.mu.Unlock()

		for _, id := range released {
			b.release(id)
		}
		slog.Info("battle cooldown finished",
			"battle", b.name, "rearmed", scheduled)
		return true
	}

	return false
}

// --- transition helpers, caller must hold mu ---

func (b *Battle) enterQueueingLocked() {
	b.state.Store(int32(StateQueueing))
	b.phaseEnd = time.Time{}
	b.winner = nil
	b.markDirty()
	slog.Info("battle queueing", "battle", b.name)
}

func (b *Battle) enterPreparingLocked(now time.Time) {
	b.state.Store(int32(StatePreparing))
	b.phaseEnd = now.Add(b.timing.PreparePeriod)
	b.winner = nil
	b.markDirty()
	slog.Info("battle preparing",
		"battle", b.name, "starts_in", b.timing.PreparePeriod)
}

func (b *Battle) enterRunningLocked(now time.Time) {
	b.state.Store(int32(StateRunning))
	b.phaseEnd = now.Add(b.timing.RunningPeriod)
	b.invites = make(map[uint32]*Team, 8)
	b.markDirty()
	slog.Info("battle running",
		"battle", b.name, "teams", len(b.teams), "ends_in", b.timing.RunningPeriod)
}

func (b *Battle) enterEndedLocked(now time.Time) {
	b.state.Store(int32(StateEnded))
	b.phaseEnd = now.Add(b.timing.EndedPeriod)
	b.markDirty()
	winner := "none"
	if b.winner != nil {
		winner = b.winner.Name()
	}
	slog.Info("battle ended", "battle", b.name, "winner", winner)
}

// minimumsMetLocked reports whether every team reached its minimum
// roster size. Caller must hold mu.
func (b *Battle) minimumsMetLocked() bool {
	if len(b.teams) == 0 {
		return false
	}
	for _, t := range b.teams {
		if !t.HasMinimum() {
			return false
		}
	}
	return true
}

// snapshotLocked returns the variant inputs. Caller must hold mu.
func (b *Battle) snapshotLocked() ([]*Team, Rules, Variant) {
	teams := make([]*Team, len(b.teams))
	copy(teams, b.teams)
	return teams, b.rules, b.variant
}

func (b *Battle) teamLocked(name string) *Team {
	for _, t := range b.teams {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

func (b *Battle) teamOfLocked(objectID uint32) *Team {
	for _, t := range b.teams {
		if t.Contains(objectID) {
			return t
		}
	}
	return nil
}

func (b *Battle) setTracker(m membership) {
	b.mu.Lock()
	b.tracker = m
	b.mu.Unlock()
}

func (b *Battle) reserve(objectID uint32) error {
	b.mu.RLock()
	tracker := b.tracker
	b.mu.RUnlock()
	if tracker == nil {
		return nil
	}
	return tracker.reserve(objectID, b.id)
}

func (b *Battle) release(objectID uint32) {
	b.mu.RLock()
	tracker := b.tracker
	b.mu.RUnlock()
	if tracker != nil {
		tracker.release(objectID)
	}
}
