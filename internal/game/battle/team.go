package battle

import (
	"sync"

	"github.com/vita-nex/autopvp/internal/model"
)

// Team is a named, colored group of battle participants.
// Roster order is join order and is used for deterministic tiebreaks.
// Thread-safe: protected by mu.
type Team struct {
	mu sync.RWMutex

	name        string
	color       uint16 // client display hue
	minCapacity int
	maxCapacity int

	members []*model.Participant
}

// NewTeam creates a team with the given capacity bounds.
func NewTeam(name string, minCapacity, maxCapacity int, color uint16) (*Team, error) {
	if name == "" || maxCapacity < 1 || minCapacity < 0 || minCapacity > maxCapacity {
		return nil, ErrConfiguration
	}
	return &Team{
		name:        name,
		color:       color,
		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
		members:     make([]*model.Participant, 0, maxCapacity),
	}, nil
}

// Name returns the team name.
func (t *Team) Name() string { return t.name }

// Color returns the display hue.
func (t *Team) Color() uint16 { return t.color }

// MinCapacity returns the minimum roster size to start.
func (t *Team) MinCapacity() int { return t.minCapacity }

// MaxCapacity returns the maximum roster size.
func (t *Team) MaxCapacity() int { return t.maxCapacity }

// Size returns the current roster size.
func (t *Team) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.members)
}

// IsFull reports whether the roster reached maxCapacity.
func (t *Team) IsFull() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.members) >= t.maxCapacity
}

// HasMinimum reports whether the roster reached minCapacity.
func (t *Team) HasMinimum() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.members) >= t.minCapacity
}

// Contains reports whether the participant is on this team.
func (t *Team) Contains(objectID uint32) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.indexOf(objectID) >= 0
}

// Member returns the participant with the given objectID, or nil.
func (t *Team) Member(objectID uint32) *model.Participant {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.indexOf(objectID); i >= 0 {
		return t.members[i]
	}
	return nil
}

// Members returns a snapshot of the roster in join order.
func (t *Team) Members() []*model.Participant {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*model.Participant, len(t.members))
	copy(out, t.members)
	return out
}

// AliveCount returns the number of members not marked dead.
func (t *Team) AliveCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, m := range t.members {
		if !m.IsDead() {
			n++
		}
	}
	return n
}

// Add appends a participant to the roster.
// Returns ErrCapacityExceeded when the roster is full and
// ErrAlreadyMember when the participant is already on the team.
// Join is the entry point for battle membership; Add only guards the
// roster invariant.
func (t *Team) Add(p *model.Participant) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indexOf(p.ObjectID()) >= 0 {
		return ErrAlreadyMember
	}
	if len(t.members) >= t.maxCapacity {
		return ErrCapacityExceeded
	}
	t.members = append(t.members, p)
	return nil
}

// Remove removes a participant from the roster.
// Returns false if the participant was not a member.
func (t *Team) Remove(objectID uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(objectID)
	if i < 0 {
		return false
	}
	t.members = append(t.members[:i], t.members[i+1:]...)
	return true
}

// Clear empties the roster and returns the removed participants.
func (t *Team) Clear() []*model.Participant {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.members
	t.members = make([]*model.Participant, 0, t.maxCapacity)
	return out
}

// indexOf returns the roster index of objectID, or -1.
// Caller must hold mu.
func (t *Team) indexOf(objectID uint32) int {
	for i, m := range t.members {
		if m.ObjectID() == objectID {
			return i
		}
	}
	return -1
}
