package battle

// Variant is the pluggable behavior of a concrete battle type.
// OnStart runs once when the battle enters Running; Decided is polled
// every driver tick while Running. Implementations receive roster
// snapshots and must not call back into the owning Battle.
type Variant interface {
	Name() string
	OnStart(teams []*Team, rules Rules)
	Decided(teams []*Team, rules Rules) (winner *Team, decided bool)
}

// variants maps a serialized variant name to its factory.
var variants = map[string]func() Variant{
	"last_team_standing": func() Variant { return LastTeamStanding{} },
}

// RegisterVariant adds a variant factory under a unique name.
// Later registrations under the same name replace earlier ones.
func RegisterVariant(name string, factory func() Variant) {
	variants[name] = factory
}

// VariantByName returns a new variant instance for the given name.
// Unknown names fall back to LastTeamStanding.
func VariantByName(name string) Variant {
	if f, ok := variants[name]; ok {
		return f()
	}
	return LastTeamStanding{}
}

// LastTeamStanding decides the battle when exactly one team still has
// living members. When the rules disable death, elimination never
// happens and the battle only ends by timeout.
type LastTeamStanding struct{}

// Name returns the serialized variant name.
func (LastTeamStanding) Name() string { return "last_team_standing" }

// OnStart is a no-op for the default variant.
func (LastTeamStanding) OnStart(teams []*Team, rules Rules) {}

// Decided returns the sole surviving team, if any.
func (LastTeamStanding) Decided(teams []*Team, rules Rules) (*Team, bool) {
	if !rules.CanDie {
		return nil, false
	}
	if len(teams) < 2 {
		return nil, false
	}

	var alive *Team
	for _, t := range teams {
		if t.Size() == 0 || t.AliveCount() == 0 {
			continue
		}
		if alive != nil {
			return nil, false
		}
		alive = t
	}
	if alive == nil {
		return nil, false
	}
	return alive, true
}
