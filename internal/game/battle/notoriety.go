package battle

import (
	"github.com/vita-nex/autopvp/internal/game/notoriety"
)

// Per-battle notoriety resolution. All three resolvers share the same
// contract: both participants must belong to this battle while it is
// in an overriding phase, otherwise handled=false is returned and the
// global alignment logic stays authoritative. The resolvers never
// fail; contradictory rule combinations take the restrictive reading.

// resolverActive reports whether battle-scoped rules currently
// override the global alignment logic.
func (b *Battle) resolverActive() bool {
	if b.deleted.Load() {
		return false
	}
	switch b.State() {
	case StatePreparing, StateRunning, StateEnded:
		return true
	}
	return false
}

// pairTeams resolves both participants to their teams.
// handled is false unless both belong to this battle.
func (b *Battle) pairTeams(x, y uint32) (tx, ty *Team, handled bool) {
	if !b.resolverActive() {
		return nil, nil, false
	}
	b.mu.RLock()
	tx = b.teamOfLocked(x)
	ty = b.teamOfLocked(y)
	b.mu.RUnlock()
	if tx == nil || ty == nil {
		return nil, nil, false
	}
	return tx, ty, true
}

// ResolveHostility classifies the ordered pair (x, y): teammates are
// never mutually hostile, members of different teams always are.
func (b *Battle) ResolveHostility(x, y uint32) (notoriety.Classification, bool) {
	tx, ty, handled := b.pairTeams(x, y)
	if !handled {
		return notoriety.Neutral, false
	}
	if tx == ty {
		return notoriety.Friendly, true
	}
	return notoriety.Hostile, true
}

// AllowBeneficial decides whether x may heal or buff y.
func (b *Battle) AllowBeneficial(x, y uint32) (bool, bool) {
	tx, ty, handled := b.pairTeams(x, y)
	if !handled {
		return false, false
	}

	r := b.Rules()
	if !r.AllowBeneficial || !r.CanHeal {
		return false, true
	}
	if tx == ty {
		return r.CanHealOwnTeam, true
	}
	return r.CanHealEnemyTeam, true
}

// AllowHarmful decides whether x may attack y. Harmful actions are
// only permitted during the Running phase; damage permission does not
// imply elimination (CanDie is interpreted separately).
func (b *Battle) AllowHarmful(x, y uint32) (bool, bool) {
	tx, ty, handled := b.pairTeams(x, y)
	if !handled {
		return false, false
	}

	if b.State() != StateRunning {
		return false, true
	}
	r := b.Rules()
	if !r.AllowHarmful || !r.CanBeDamaged {
		return false, true
	}
	if tx == ty {
		return r.CanDamageOwnTeam, true
	}
	return r.CanDamageEnemyTeam, true
}
