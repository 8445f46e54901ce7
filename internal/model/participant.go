// Package model holds the slim entity views the battle engine works with.
// The full game entity model (stats, movement, combat math) lives in the
// host server; the engine only needs identity and liveness.
package model

import (
	"sync/atomic"
)

// Participant is the engine's handle for a combat-capable game entity.
type Participant struct {
	objectID uint32
	name     string

	dead atomic.Bool
}

// NewParticipant creates a participant handle.
func NewParticipant(objectID uint32, name string) *Participant {
	return &Participant{
		objectID: objectID,
		name:     name,
	}
}

// ObjectID returns the world object identifier.
func (p *Participant) ObjectID() uint32 { return p.objectID }

// Name returns the display name.
func (p *Participant) Name() string { return p.name }

// IsDead reports whether the participant is currently dead.
func (p *Participant) IsDead() bool { return p.dead.Load() }

// SetDead marks the participant dead or alive.
func (p *Participant) SetDead(dead bool) { p.dead.Store(dead) }
