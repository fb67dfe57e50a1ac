package engine

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/mission"
	"github.com/talgya/outpost/internal/resources"
)

func testTuning() config.Tuning {
	t := config.Default()
	t.World.Radius = 6
	t.World.MaxLatitude = 85
	t.World.Outposts = 3
	t.World.OutpostSpacing = 3
	t.World.CrewPerOutpost = 4
	return t
}

func newTestSim(t *testing.T) *Simulation {
	t.Helper()
	sim, err := Generate(testTuning(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, sim.Settlements)
	return sim
}

func TestGenerateDeterministic(t *testing.T) {
	a := newTestSim(t)
	b := newTestSim(t)

	require.Len(t, b.Settlements, len(a.Settlements))
	for i := range a.Settlements {
		assert.Equal(t, a.Settlements[i].Name, b.Settlements[i].Name)
		assert.Equal(t, a.Settlements[i].Position, b.Settlements[i].Position)
	}
	require.Len(t, b.Agents, len(a.Agents))
	for i := range a.Agents {
		assert.Equal(t, a.Agents[i].Name, b.Agents[i].Name)
	}
}

func TestGenerateStocksOutposts(t *testing.T) {
	sim := newTestSim(t)
	rates := sim.Tuning.LifeSupport.Rates()

	for _, st := range sim.Settlements {
		humans := sim.humansIn(st.ID)
		require.Positive(t, humans, st.Name)
		b, err := st.SustainableSols(rates, humans)
		require.NoError(t, err)
		assert.InDelta(t, startLifeSupportSols, b.Sols, 0.5, st.Name)
		assert.Equal(t, suitsPerCrew*humans, st.EVASuits())
		assert.Len(t, st.Rovers, 2)

		hex := sim.Map.Get(st.Position)
		require.NotNil(t, hex)
		require.NotNil(t, hex.SettlementID)
		assert.Equal(t, st.ID, *hex.SettlementID)
	}
}

func TestAgentsStaySorted(t *testing.T) {
	sim := newTestSim(t)
	assert.True(t, slices.IsSortedFunc(sim.Agents, func(x, y *agents.Agent) int {
		return cmpID(uint64(x.ID), uint64(y.ID))
	}))

	a := sim.Spawner.SpawnHuman(agents.JobDriver, sim.Settlements[0].ID, sim.Settlements[0].Position)
	sim.addAgent(a)
	b := sim.Spawner.SpawnHuman(agents.JobDriver, sim.Settlements[0].ID, sim.Settlements[0].Position)
	assert.Greater(t, b.ID, a.ID)
}

func TestRunTwoSols(t *testing.T) {
	sim := newTestSim(t)
	pop := len(sim.Agents)
	e := NewEngine(1)
	sim.Attach(e)

	e.Advance(2 * TicksPerSol)

	assert.Equal(t, uint64(2*TicksPerSol), sim.CurrentTick())
	status := sim.Status()
	assert.Equal(t, pop, status.Stats.Population)
	assert.Equal(t, len(sim.Settlements), status.Settlements)
	assert.Positive(t, status.Stats.Studies)

	for _, m := range sim.MissionList() {
		assert.NotEmpty(t, m.Members, m.ID)
	}
}

func TestResupplyLandsLifeSupport(t *testing.T) {
	sim := newTestSim(t)
	st := sim.Settlements[0]
	st.Inventory.Retrieve(resources.Water, st.Inventory.AmountStored(resources.Water))

	sim.resupply(st, 1000)

	humans := sim.humansIn(st.ID)
	want := sim.Tuning.LifeSupport.Rates()[resources.Water] * float64(humans) * resupplyToSols
	assert.InDelta(t, want, st.Inventory.AmountStored(resources.Water), 1e-6)
	require.NotEmpty(t, sim.Events)
	assert.Equal(t, "supply", sim.Events[len(sim.Events)-1].Category)
}

func TestResupplySkipsStockedOutpost(t *testing.T) {
	sim := newTestSim(t)
	st := sim.Settlements[0]
	before := st.Inventory.AmountStored(resources.Oxygen)

	sim.resupply(st, 1000)

	assert.Equal(t, before, st.Inventory.AmountStored(resources.Oxygen))
	assert.Empty(t, sim.Events)
}

func TestConsumeLifeSupport(t *testing.T) {
	sim := newTestSim(t)
	st := sim.Settlements[0]
	humans := float64(sim.humansIn(st.ID))
	rates := sim.Tuning.LifeSupport.Rates()
	water := st.Inventory.AmountStored(resources.Water)

	sim.consumeLifeSupport(1000)
	assert.InDelta(t, water-rates[resources.Water]*humans, st.Inventory.AmountStored(resources.Water), 1e-6)

	st.Inventory.Retrieve(resources.Oxygen, st.Inventory.AmountStored(resources.Oxygen))
	sim.consumeLifeSupport(2000)
	require.NotEmpty(t, sim.Events)
	assert.Equal(t, "supply", sim.Events[len(sim.Events)-1].Category)
}

func TestRunPlantsFavoursSpecialty(t *testing.T) {
	sim := newTestSim(t)
	st := sim.Settlements[0]
	spec := Specialty(st)
	before := make(map[resources.ID]float64)
	for _, c := range greenhouseCrops {
		before[c] = st.Inventory.AmountStored(c)
	}

	sim.runPlants(1)

	grown := st.Inventory.AmountStored(spec) - before[spec]
	for _, c := range greenhouseCrops {
		if c == spec {
			continue
		}
		assert.Greater(t, grown, st.Inventory.AmountStored(c)-before[c], c.String())
	}
}

func TestProposeStudies(t *testing.T) {
	sim := newTestSim(t)
	sim.proposeStudies(1000)
	n := len(sim.Studies.All())
	require.Positive(t, n)

	// Every scientist already leads one.
	sim.proposeStudies(2000)
	assert.Len(t, sim.Studies.All(), n)
}

func TestProvisionSettlement(t *testing.T) {
	sim := newTestSim(t)
	st := sim.Settlements[0]
	before := st.Inventory.AmountStored(resources.Methane)

	desc, err := sim.ProvisionSettlement(st.Name, "methane", 250)
	require.NoError(t, err)
	assert.Contains(t, desc, st.Name)
	assert.InDelta(t, before+250, st.Inventory.AmountStored(resources.Methane), 1e-6)

	_, err = sim.ProvisionSettlement("Nowhere", "methane", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = sim.ProvisionSettlement(st.Name, "unobtainium", 1)
	assert.Error(t, err)
	_, err = sim.ProvisionSettlement(st.Name, "rover", 1)
	assert.Error(t, err)
	_, err = sim.ProvisionSettlement(st.Name, "water", -3)
	assert.Error(t, err)
}

func TestLaunchAndAbort(t *testing.T) {
	sim := newTestSim(t)

	_, err := sim.LaunchMission(mission.KindTrade, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, sim.AbortMission("missing"), ErrNotFound)

	var (
		view MissionView
		ok   bool
	)
	for _, a := range sim.Agents {
		if a.IsRobot() || a.Job != agents.JobAreologist {
			continue
		}
		if v, err := sim.LaunchMission(mission.KindFieldStudy, a.ID); err == nil {
			view, ok = v, true
			break
		}
	}
	if !ok {
		t.Skip("no outpost could field a study on this map")
	}
	assert.Equal(t, mission.KindFieldStudy, view.Kind)

	require.NoError(t, sim.AbortMission(view.ID))
	d, found := sim.MissionDetail(view.ID)
	require.True(t, found)
	assert.Contains(t, d.Statuses, mission.StatusUserAborted)
	assert.Error(t, sim.AbortMission(view.ID), "second abort")
}

func TestTakeSnapshotDrainsEvents(t *testing.T) {
	sim := newTestSim(t)
	sim.EmitEvent(Event{Tick: 1, Description: "one", Category: "test"})
	sim.EmitEvent(Event{Tick: 2, Description: "two", Category: "test"})

	snap := sim.TakeSnapshot()
	assert.Len(t, snap.Events, 2)
	assert.Equal(t, int64(42), snap.Seed)

	snap = sim.TakeSnapshot()
	assert.Empty(t, snap.Events)
	assert.Len(t, sim.RecentEvents(10), 2)
	assert.Equal(t, "two", sim.RecentEvents(1)[0].Description)
}

func TestSettlementList(t *testing.T) {
	sim := newTestSim(t)
	views := sim.SettlementList()
	require.Len(t, views, len(sim.Settlements))
	for _, v := range views {
		assert.Positive(t, v.Residents)
		assert.Positive(t, v.SustainableSols)
		assert.Len(t, v.LifeSupport, len(resources.LifeSupport))
		for _, r := range v.Rovers {
			assert.True(t, r.Parked)
			assert.Empty(t, r.ReservedBy)
		}
	}
}
