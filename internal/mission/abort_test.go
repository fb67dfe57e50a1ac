package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/vehicle"
)

// drain empties the rover of consumables, cached or stowed.
func drain(rover *vehicle.Rover) {
	rover.LifeSupport.Release()
	for _, id := range resources.LifeSupport {
		rover.Cargo.Retrieve(id, rover.Cargo.AmountStored(id))
	}
}

func TestAbortsReleaseReservations(t *testing.T) {
	underway := func(f *fixture, m *Mission, home *social.Settlement, rover *vehicle.Rover) {
		f.run(m, 500, func() bool {
			return m.Phase() == PhaseTravelling && f.ctx.Map.DistanceKm(rover.Position, home.Position) > 0
		})
	}

	tests := []struct {
		name  string
		setup func(f *fixture, m *Mission, home *social.Settlement, rover *vehicle.Rover)
		want  []StatusCode
	}{
		{
			name: "home out of food",
			setup: func(f *fixture, m *Mission, home *social.Settlement, rover *vehicle.Rover) {
				home.Inventory.Retrieve(resources.Food, home.Inventory.AmountStored(resources.Food))
			},
			want: []StatusCode{StatusVehicleNotLoadable},
		},
		{
			name: "no suits and no garage",
			setup: func(f *fixture, m *Mission, home *social.Settlement, rover *vehicle.Rover) {
				home.Garage = false
				home.Inventory.Retrieve(resources.EVASuit, home.Inventory.AmountStored(resources.EVASuit))
			},
			want: []StatusCode{StatusEVASuitCannotBeLoaded},
		},
		{
			name: "home uninhabitable on return",
			setup: func(f *fixture, m *Mission, home *social.Settlement, rover *vehicle.Rover) {
				f.run(m, 500, func() bool { return m.Phase() == PhaseResearchSite })
				home.Inhabitable = false
			},
			want: []StatusCode{StatusNoInhabitableBuilding},
		},
		{
			name: "supplies lost with nothing in reach",
			setup: func(f *fixture, m *Mission, home *social.Settlement, rover *vehicle.Rover) {
				underway(f, m, home, rover)
				drain(rover)
			},
			want: []StatusCode{StatusNotEnoughResources},
		},
		{
			name: "emergency then supplies lost",
			setup: func(f *fixture, m *Mission, home *social.Settlement, rover *vehicle.Rover) {
				underway(f, m, home, rover)
				home.Inhabitable = false
				f.world.Agent(1).Condition.Ailment = agents.EmergencyHurtAt
				f.clock.t++
				m.Perform(f.ctx, 1)
				require.False(f.t, m.Done())
				require.Contains(f.t, m.Statuses(), StatusMedicalEmergency)
				drain(rover)
			},
			want: []StatusCode{StatusMedicalEmergency, StatusNotEnoughResources},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			m, home, rover, _ := fieldParty(t, f)

			tt.setup(f, m, home, rover)
			f.run(m, 3000, m.Done)

			assert.Equal(t, PhaseAborted, m.Phase())
			assert.Equal(t, tt.want, m.Statuses())
			assert.Empty(t, rover.ReservedBy())
			assert.Nil(t, rover.Towing())
			for _, id := range resources.LifeSupport {
				assert.Zero(t, rover.LifeSupport.Cached(id), "%s still cached", id)
			}
			for _, id := range m.Members() {
				assert.False(t, f.world.Agent(id).OnMission(), "agent %d", id)
			}
			assert.Contains(t, f.eventTypes(), EventEnded)
		})
	}
}

func TestEndMissionReleasesBeforeEnding(t *testing.T) {
	f := newFixture(t)
	m, home, rover, _ := fieldParty(t, f)
	f.run(m, 500, func() bool {
		return m.Phase() == PhaseTravelling && f.ctx.Map.DistanceKm(rover.Position, home.Position) > 0
	})

	var held []string
	f.ctx.OnEvent = func(e Event) {
		if m.Done() {
			held = append(held, rover.ReservedBy())
		}
	}
	m.EndMission(f.ctx, StatusUserAborted)

	require.NotEmpty(t, held)
	for _, r := range held {
		assert.Empty(t, r)
	}
}
