package battle

import (
	"log/slog"

	"github.com/vita-nex/autopvp/internal/model"
)

// Invite records a pending invitation of a participant to a team.
// Only valid while the battle is Queueing. A repeated invite replaces
// the earlier pending entry. Invites are transient workflow state and
// are never persisted.
func (b *Battle) Invite(objectID uint32, teamName string) error {
	if b.deleted.Load() || b.State() != StateQueueing {
		return ErrInvalidState
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	team := b.teamLocked(teamName)
	if team == nil {
		return ErrNotFound
	}
	if b.teamOfLocked(objectID) != nil {
		return ErrAlreadyMember
	}

	b.invites[objectID] = team
	slog.Debug("battle invite issued",
		"battle", b.name, "team", teamName, "participant", objectID)
	return nil
}

// Accept consumes the pending invite and joins the invited team.
// Join failures propagate; the invite is consumed either way.
func (b *Battle) Accept(p *model.Participant) error {
	if p == nil {
		return ErrNotFound
	}

	b.mu.Lock()
	team, ok := b.invites[p.ObjectID()]
	if ok {
		delete(b.invites, p.ObjectID())
	}
	b.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return b.Join(p, team.Name())
}

// Decline consumes the pending invite with no further effect.
// Returns false if no invite was pending.
func (b *Battle) Decline(objectID uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.invites[objectID]; !ok {
		return false
	}
	delete(b.invites, objectID)
	return true
}

// PendingInvite returns the team a participant is invited to.
func (b *Battle) PendingInvite(objectID uint32) (*Team, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.invites[objectID]
	return t, ok
}

// PendingInviteCount returns the number of outstanding invites.
func (b *Battle) PendingInviteCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.invites)
}
