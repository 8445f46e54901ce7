package battle

import "testing"

func standingTeams(t *testing.T, sizes ...int) []*Team {
	t.Helper()
	teams := make([]*Team, 0, len(sizes))
	next := uint32(1)
	for i, n := range sizes {
		team, err := NewTeam([]string{"Red", "Blue", "Green"}[i], 0, 10, 0)
		if err != nil {
			t.Fatalf("NewTeam: %v", err)
		}
		for j := 0; j < n; j++ {
			team.Add(testParticipant(t, next, "p"))
			next++
		}
		teams = append(teams, team)
	}
	return teams
}

func TestLastTeamStanding(t *testing.T) {
	v := LastTeamStanding{}

	teams := standingTeams(t, 2, 1)
	if _, decided := v.Decided(teams, DefaultRules()); decided {
		t.Error("decided with two living teams")
	}

	// Blue is wiped out.
	for _, p := range teams[1].Members() {
		p.SetDead(true)
	}
	winner, decided := v.Decided(teams, DefaultRules())
	if !decided || winner == nil || winner.Name() != "Red" {
		t.Errorf("Decided = (%v, %v); want Red win", winner, decided)
	}
}

func TestLastTeamStanding_NoDecision(t *testing.T) {
	v := LastTeamStanding{}

	// Death disabled means elimination cannot decide.
	rules := DefaultRules()
	rules.CanDie = false
	teams := standingTeams(t, 1, 0)
	if _, decided := v.Decided(teams, rules); decided {
		t.Error("decided with CanDie=false")
	}

	// Fewer than two teams is not a contest.
	if _, decided := v.Decided(standingTeams(t, 3), DefaultRules()); decided {
		t.Error("decided with a single team")
	}

	// Everyone dead: no survivor to award.
	teams = standingTeams(t, 1, 1)
	for _, team := range teams {
		for _, p := range team.Members() {
			p.SetDead(true)
		}
	}
	if _, decided := v.Decided(teams, DefaultRules()); decided {
		t.Error("decided with no living team")
	}
}

func TestLastTeamStanding_EmptyTeamIgnored(t *testing.T) {
	v := LastTeamStanding{}

	// An empty team never blocks the decision.
	teams := standingTeams(t, 2, 0)
	winner, decided := v.Decided(teams, DefaultRules())
	if !decided || winner.Name() != "Red" {
		t.Errorf("Decided = (%v, %v); want Red win over an empty team", winner, decided)
	}
}

func TestVariantByName(t *testing.T) {
	if _, ok := VariantByName("last_team_standing").(LastTeamStanding); !ok {
		t.Error("known name did not resolve")
	}
	if _, ok := VariantByName("no_such_variant").(LastTeamStanding); !ok {
		t.Error("unknown name must fall back to LastTeamStanding")
	}
}
