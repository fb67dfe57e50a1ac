package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/world"
)

func TestAttributeSetClamps(t *testing.T) {
	var s AttributeSet

	s.Set(Strength, 150)
	assert.Equal(t, 100, s.Get(Strength))

	s.Set(Strength, -5)
	assert.Equal(t, 0, s.Get(Strength))

	s.Set(Courage, 60)
	s.Adjust(Courage, 70)
	assert.Equal(t, 100, s.Get(Courage))
}

func TestAttributeSetAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var s AttributeSet
		attr := Attribute(rapid.IntRange(0, NumAttributes-1).Draw(t, "attr"))
		v := rapid.Int().Draw(t, "value")

		s.Set(attr, v)
		got := s.Get(attr)
		if got < MinAttribute || got > MaxAttribute {
			t.Fatalf("Set(%d) stored %d", v, got)
		}
		if v >= MinAttribute && v <= MaxAttribute && got != v {
			t.Fatalf("in-range value %d stored as %d", v, got)
		}
	})
}

func TestRandomizeStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		var s AttributeSet
		s.Randomize(entropy.New(seed))
		for i, v := range s {
			if v < 0 || v > 100 {
				t.Fatalf("attribute %d = %d", i, v)
			}
		}
	})
}

func TestPreferencesLearn(t *testing.T) {
	p := make(Preferences)
	for range 10 {
		p.Learn(ActivityCook, 0.2)
	}
	assert.Equal(t, MaxPreference, p.Get(ActivityCook))

	for range 20 {
		p.Learn(ActivityCook, -0.1)
	}
	assert.Equal(t, MinPreference, p.Get(ActivityCook))

	p.Learn(ActivitySleep, 0)
	assert.Zero(t, p.Get(ActivitySleep))
}

func TestConditionGates(t *testing.T) {
	tests := []struct {
		name   string
		cond   Condition
		exert  bool
		hungry bool
	}{
		{"rested", Condition{}, true, false},
		{"exhausted", Condition{Fatigue: 1001}, false, false},
		{"stressed", Condition{Stress: 51}, false, false},
		{"starving", Condition{Hunger: 600}, false, true},
		{"peckish", Condition{Hunger: 300}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exert, tt.cond.CanExert())
			assert.Equal(t, tt.hungry, tt.cond.IsHungry())
		})
	}
}

func TestPerformanceRating(t *testing.T) {
	h := Human{}
	assert.Equal(t, 1.0, h.PerformanceRating(Condition{}))
	assert.Less(t, h.PerformanceRating(Condition{Fatigue: 1500}), 1.0)
	assert.Equal(t, 0.0, h.PerformanceRating(Condition{Ailment: 1}))

	r := NewRobot(ActivityCook)
	assert.Equal(t, 1.0, r.PerformanceRating(Condition{Fatigue: 5000, Hunger: 5000}))
	assert.True(t, r.CanPerform(ActivityCook))
	assert.False(t, r.CanPerform(ActivityEat))
}

func TestConditionDecayAndRecovery(t *testing.T) {
	var c Condition
	c.Decay(100, false)
	assert.InDelta(t, 60, c.Fatigue, 1e-9)
	assert.InDelta(t, 30, c.Hunger, 1e-9)

	c.Sleep(1000)
	assert.Zero(t, c.Fatigue)

	c.Eat(1)
	assert.Zero(t, c.Hunger)
	assert.Zero(t, c.Thirst)
}

func TestSpawnCrew(t *testing.T) {
	sp := NewSpawner(7)
	sp.MainDishes = []string{"Kidney Bean Fried Rice"}
	crew := sp.SpawnCrew(5, 1, world.HexCoord{Q: 1, R: 1})

	require.Len(t, crew, 6)
	seen := make(map[AgentID]bool)
	for _, a := range crew {
		assert.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
		assert.Equal(t, uint64(1), a.SettlementID)
		assert.NotEmpty(t, a.Name)
	}

	robot := crew[len(crew)-1]
	assert.True(t, robot.IsRobot())
	assert.True(t, robot.CanPerform(ActivityCook))
	assert.False(t, crew[0].IsRobot())
	assert.Equal(t, "Kidney Bean Fried Rice", crew[0].Favorite.MainDish)
}

func TestActivityStateProgress(t *testing.T) {
	a := &Agent{Variant: Human{}}
	a.Assign(ActivityResearch, 10, 100)
	require.False(t, a.Idle())

	assert.False(t, a.Activity.Progress(60))
	assert.InDelta(t, 40, a.Activity.Remaining(), 1e-9)
	assert.True(t, a.Activity.Progress(40))

	a.ClearActivity()
	assert.True(t, a.Idle())
}
