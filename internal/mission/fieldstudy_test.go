package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/science"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

func fieldParty(t *testing.T, f *fixture) (*Mission, *social.Settlement, *vehicle.Rover, *science.Study) {
	t.Helper()
	home := f.settlement(1, world.HexCoord{})
	rover := f.rover(home, vehicle.ExplorerSpec())
	crew := []*agents.Agent{f.human(1, home), f.human(2, home)}
	study := f.world.studies.Propose(science.Areology, 1)
	require.True(t, f.world.studies.Start(study.ID))

	m, err := NewFieldStudyParty(f.ctx, crew, study, world.HexCoord{Q: 2}, rover)
	require.NoError(t, err)
	return m, home, rover, study
}

func TestFieldStudyRunsEveryPhase(t *testing.T) {
	f := newFixture(t)
	m, home, rover, study := fieldParty(t, f)

	f.run(m, 2000, m.Done)

	assert.Equal(t, []Phase{
		PhaseReviewing,
		PhaseEmbarking,
		PhaseTravelling,
		PhaseResearchSite,
		PhaseTravelling,
		PhaseDisembarking,
		PhaseCompleted,
	}, phases(m))
	assert.Equal(t, []StatusCode{StatusMissionAccomplished}, m.Statuses())

	assert.Empty(t, rover.ReservedBy())
	assert.Equal(t, home.ID, rover.SettlementID)
	assert.Positive(t, study.PrimaryWork)
	assert.Positive(t, study.Samples)
	assert.Positive(t, home.Inventory.AmountStored(resources.RockSample))
	for _, id := range m.Members() {
		a := f.world.Agent(id)
		assert.False(t, a.OnMission())
		assert.Equal(t, agents.InSettlement, a.Location)
		assert.False(t, rover.Aboard(id))
	}
	assert.Contains(t, f.eventTypes(), EventEnded)
}

func TestEndMissionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	m, _, rover, _ := fieldParty(t, f)
	f.run(m, 2000, m.Done)

	statuses := m.Statuses()
	history := m.History()
	require.NoError(t, rover.Reserve("other"))

	m.EndMission(f.ctx, StatusUserAborted)

	assert.Equal(t, statuses, m.Statuses())
	assert.Equal(t, history, m.History())
	assert.Equal(t, PhaseCompleted, m.Phase())
	assert.Equal(t, "other", rover.ReservedBy())
}

func TestEndMissionReleasesEverything(t *testing.T) {
	f := newFixture(t)
	m, _, rover, _ := fieldParty(t, f)
	f.run(m, 100, func() bool { return m.Phase() == PhaseTravelling })
	require.Zero(t, rover.SettlementID)

	m.EndMission(f.ctx, StatusUserAborted)

	assert.Equal(t, PhaseAborted, m.Phase())
	assert.Empty(t, rover.ReservedBy())
	assert.Zero(t, rover.LifeSupport.Cached(resources.Food))
	for _, id := range m.Members() {
		a := f.world.Agent(id)
		assert.False(t, a.OnMission())
		assert.Equal(t, agents.InVehicle, a.Location)
	}
	assert.Equal(t, []StatusCode{StatusUserAborted}, m.Statuses())
}

func TestFieldSiteEndsWithoutDaylight(t *testing.T) {
	f := newFixture(t)
	m, _, _, _ := fieldParty(t, f)
	f.run(m, 500, func() bool { return m.Phase() == PhaseResearchSite })

	// Dark but not polar: the crew waits for light.
	f.world.env.irradiance = 0
	for range 5 {
		f.clock.t++
		m.Perform(f.ctx, 1)
	}
	assert.Equal(t, PhaseResearchSite, m.Phase())

	f.world.env.polarDark = true
	f.run(m, 10, func() bool { return m.Phase() != PhaseResearchSite })
	assert.Contains(t, m.Statuses(), StatusNoFieldWorkCapability)
	assert.False(t, m.Outbound())
	assert.Equal(t, PhaseTravelling, m.Phase())
}

func TestFieldStudyRedirectsOnEmergency(t *testing.T) {
	f := newFixture(t)
	home := f.settlement(1, world.HexCoord{})
	near := f.settlement(2, world.HexCoord{Q: 6})
	rover := f.rover(home, vehicle.ExplorerSpec())
	crew := []*agents.Agent{f.human(1, home), f.human(2, home)}
	study := f.world.studies.Propose(science.Areology, 1)
	require.True(t, f.world.studies.Start(study.ID))

	m, err := NewFieldStudyParty(f.ctx, crew, study, world.HexCoord{Q: 8}, rover)
	require.NoError(t, err)
	f.run(m, 500, func() bool {
		return m.Phase() == PhaseTravelling && f.ctx.Map.DistanceKm(rover.Position, home.Position) >= 125
	})

	crew[1].Condition.Ailment = agents.EmergencyHurtAt
	f.clock.t++
	m.Perform(f.ctx, 1)

	require.True(t, m.Emergency())
	assert.Contains(t, m.Statuses(), StatusMedicalEmergency)
	dest, ok := m.Destination()
	require.True(t, ok)
	assert.Equal(t, near.ID, dest.SettlementID)
	assert.Contains(t, f.eventTypes(), EventRedirected)

	f.run(m, 2000, m.Done)
	assert.Equal(t, PhaseCompleted, m.Phase())
	assert.Equal(t, near.ID, rover.SettlementID)
	assert.Contains(t, near.Rovers, rover)
	assert.NotContains(t, home.Rovers, rover)
	assert.Equal(t, near.ID, crew[0].SettlementID)
}

func TestNewFieldStudyPartyValidates(t *testing.T) {
	f := newFixture(t)
	home := f.settlement(1, world.HexCoord{})
	rover := f.rover(home, vehicle.ExplorerSpec())
	study := f.world.studies.Propose(science.Areology, 1)
	a, b := f.human(1, home), f.human(2, home)

	_, err := NewFieldStudyParty(f.ctx, []*agents.Agent{a}, study, world.HexCoord{Q: 1}, rover)
	assert.Equal(t, StatusNotEnoughMembers, CodeOf(err))

	_, err = NewFieldStudyParty(f.ctx, []*agents.Agent{a, b}, nil, world.HexCoord{Q: 1}, rover)
	assert.Equal(t, StatusNoOngoingScientificStudy, CodeOf(err))

	b.MissionID = "busy"
	_, err = NewFieldStudyParty(f.ctx, []*agents.Agent{a, b}, study, world.HexCoord{Q: 1}, rover)
	assert.Equal(t, StatusNotEnoughMembers, CodeOf(err))
	assert.Empty(t, rover.ReservedBy())
}

func TestNewFieldStudyNeedsStudy(t *testing.T) {
	f := newFixture(t)
	home := f.settlement(1, world.HexCoord{})
	f.rover(home, vehicle.ExplorerSpec())
	leader := f.human(1, home)
	f.human(2, home)

	_, err := NewFieldStudy(f.ctx, leader)
	assert.Equal(t, StatusNoOngoingScientificStudy, CodeOf(err))
	assert.False(t, leader.OnMission())
}
