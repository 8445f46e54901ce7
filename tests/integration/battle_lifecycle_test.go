package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vita-nex/autopvp/internal/game/battle"
	"github.com/vita-nex/autopvp/internal/game/notoriety"
	"github.com/vita-nex/autopvp/internal/model"
)

// newArena builds a registered two-team battle driven by the registry.
func newArena(t *testing.T, r *battle.Registry, name string, schedule battle.Schedule) *battle.Battle {
	t.Helper()

	b, err := battle.New(battle.Config{
		ID:       r.NextID(),
		Name:     name,
		Category: "Team Deathmatch",
		Timing: battle.Timing{
			PreparePeriod: 5 * time.Minute,
			RunningPeriod: 15 * time.Minute,
			EndedPeriod:   10 * time.Minute,
		},
		Rules:    battle.DefaultRules(),
		Schedule: schedule,
	})
	require.NoError(t, err)

	for i, tn := range []string{"Red", "Blue"} {
		team, err := battle.NewTeam(tn, 1, 10, uint16(i))
		require.NoError(t, err)
		require.NoError(t, b.AddTeam(team))
	}
	require.NoError(t, r.Add(b))
	return b
}

// TestBattleLifecycle drives a scheduled battle through a full cycle on a
// simulated clock: activation by schedule, preparation countdown, combat,
// win by elimination, cooldown and re-arm.
func TestBattleLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	t.Parallel()

	r := battle.NewRegistry()
	d := notoriety.New()
	require.NoError(t, r.RegisterNotoriety(d))

	// Saturday 20:00 activation window.
	schedule := battle.Schedule{
		Months: battle.EveryMonth,
		Days:   battle.DayBit(time.Saturday),
		Hours:  battle.HourBit(20),
	}
	b := newArena(t, r, "Coliseum", schedule)

	// Saturday 2026-01-03 19:59 is outside the window.
	clock := time.Date(2026, time.January, 3, 19, 59, 0, 0, time.UTC)
	r.Tick(clock)
	assert.Equal(t, battle.StateInternal, b.State(), "battle must stay idle outside its window")

	clock = clock.Add(time.Minute) // 20:00
	r.Tick(clock)
	require.Equal(t, battle.StateQueueing, b.State(), "schedule match must open the queue")

	alice := model.NewParticipant(1, "Alice")
	bob := model.NewParticipant(2, "Bob")
	carol := model.NewParticipant(3, "Carol")
	require.NoError(t, b.Join(alice, "Red"))
	require.NoError(t, b.Join(carol, "Red"))
	require.NoError(t, b.Join(bob, "Blue"))

	r.Tick(clock)
	require.Equal(t, battle.StatePreparing, b.State())

	// Hostility is claimed during preparation, but no harm yet.
	c := d.ResolveHostility(alice.ObjectID(), bob.ObjectID(), notoriety.Neutral)
	assert.Equal(t, notoriety.Hostile, c)
	assert.False(t, d.AllowHarmful(alice.ObjectID(), bob.ObjectID(), true),
		"harm must be denied before the battle starts")

	clock = clock.Add(5 * time.Minute)
	r.Tick(clock)
	require.Equal(t, battle.StateRunning, b.State())

	assert.True(t, d.AllowHarmful(alice.ObjectID(), bob.ObjectID(), false))
	assert.False(t, d.AllowHarmful(alice.ObjectID(), carol.ObjectID(), true),
		"friendly fire is off under the default rules")
	assert.True(t, d.AllowBeneficial(alice.ObjectID(), carol.ObjectID(), false))
	assert.False(t, d.AllowBeneficial(alice.ObjectID(), bob.ObjectID(), true),
		"healing the enemy is off under the default rules")

	// Blue is eliminated.
	bob.SetDead(true)
	clock = clock.Add(time.Minute)
	r.Tick(clock)
	require.Equal(t, battle.StateEnded, b.State())
	require.NotNil(t, b.Winner())
	assert.Equal(t, "Red", b.Winner().Name())

	clock = clock.Add(10 * time.Minute)
	r.Tick(clock)
	assert.Equal(t, battle.StateQueueing, b.State(),
		"a scheduled battle re-arms after cooldown")
	assert.False(t, r.IsMember(alice.ObjectID()),
		"rosters are returned once the cooldown elapses")
}

// TestBattleLifecycle_Unscheduled checks that a manually started battle
// returns to idle after its cooldown instead of re-arming.
func TestBattleLifecycle_Unscheduled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	t.Parallel()

	r := battle.NewRegistry()
	b := newArena(t, r, "Duel Grounds", battle.Schedule{})

	clock := time.Now()
	require.NoError(t, b.Start(clock))

	require.NoError(t, b.Join(model.NewParticipant(1, "Alice"), "Red"))
	require.NoError(t, b.Join(model.NewParticipant(2, "Bob"), "Blue"))

	r.Tick(clock)
	require.Equal(t, battle.StatePreparing, b.State())

	clock = clock.Add(5 * time.Minute)
	r.Tick(clock)
	require.Equal(t, battle.StateRunning, b.State())

	// Nobody wins; the running period runs out.
	clock = clock.Add(15 * time.Minute)
	r.Tick(clock)
	require.Equal(t, battle.StateEnded, b.State())
	assert.Nil(t, b.Winner(), "a timed-out battle has no winner")

	clock = clock.Add(10 * time.Minute)
	r.Tick(clock)
	assert.Equal(t, battle.StateInternal, b.State())
}

// TestBattlePersistenceRoundTrip restores a mid-queue battle from its
// serialized form into a fresh registry and resumes the lifecycle.
func TestBattlePersistenceRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	t.Parallel()

	r := battle.NewRegistry()
	b := newArena(t, r, "Coliseum", battle.Hourly())

	clock := time.Now()
	r.Tick(clock)
	require.Equal(t, battle.StateQueueing, b.State())
	require.NoError(t, b.Join(model.NewParticipant(1, "Alice"), "Red"))

	data := b.Serialize()

	restored, err := battle.Deserialize(data)
	require.NoError(t, err)

	r2 := battle.NewRegistry()
	require.NoError(t, r2.Add(restored))

	assert.Equal(t, b.ID(), restored.ID())
	assert.Equal(t, battle.StateQueueing, restored.State())
	assert.True(t, r2.IsMember(1), "restored rosters must be claimed")
	assert.GreaterOrEqual(t, r2.NextID(), b.ID()+1, "identifiers must stay unique after a restore")

	require.NoError(t, restored.Join(model.NewParticipant(2, "Bob"), "Blue"))
	r2.Tick(clock)
	require.Equal(t, battle.StatePreparing, restored.State())
}

// TestRegistryConcurrency exercises concurrent joins, leaves and ticks
// across several battles sharing one participant pool.
func TestRegistryConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	t.Parallel()

	r := battle.NewRegistry()
	battles := make([]*battle.Battle, 4)
	for i := range battles {
		battles[i] = newArena(t, r, fmt.Sprintf("Arena %d", i+1), battle.Schedule{})
		require.NoError(t, battles[i].Start(time.Now()))
	}

	const participants = 100
	var wg sync.WaitGroup
	for i := 0; i < participants; i++ {
		objectID := uint32(i + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := model.NewParticipant(objectID, fmt.Sprintf("player_%d", objectID))
			for attempt := range battles {
				b := battles[(int(objectID)+attempt)%len(battles)]
				team := "Red"
				if objectID%2 == 0 {
					team = "Blue"
				}
				if err := b.Join(p, team); err == nil {
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				r.Tick(time.Now())
			}
		}
	}()

	wg.Wait()
	close(done)

	// Every participant landed in at most one battle.
	claimed := 0
	for i := 0; i < participants; i++ {
		objectID := uint32(i + 1)
		owners := 0
		for _, b := range battles {
			if b.TeamOf(objectID) != nil {
				owners++
			}
		}
		assert.LessOrEqual(t, owners, 1, "participant %d claimed by %d battles", objectID, owners)
		if owners == 1 {
			claimed++
			assert.True(t, r.IsMember(objectID))
		}
	}
	assert.Positive(t, claimed, "some joins must have succeeded")
}
