package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

func TestSettlementRovers(t *testing.T) {
	s := NewSettlement(1, "Tharsis Base", world.HexCoord{Q: 2, R: 1}, 10000)
	explorer := vehicle.New("Explorer 1", vehicle.ExplorerSpec(), 0, world.HexCoord{})
	transport := vehicle.New("Transport 1", vehicle.TransportSpec(), 0, world.HexCoord{})
	s.AddRover(explorer)
	s.AddRover(transport)

	assert.Equal(t, s.Position, explorer.Position)
	assert.Len(t, s.ParkedRovers(), 2)
	assert.Same(t, transport, s.AvailableRover(vehicle.PurposeTrade))

	require.NoError(t, transport.Reserve("m1"))
	assert.Same(t, explorer, s.AvailableRover(vehicle.PurposeTrade))
	assert.Same(t, explorer, s.SpareRover(transport))

	transport.Depart()
	assert.Len(t, s.ParkedRovers(), 1)

	assert.True(t, s.RemoveRover(transport))
	assert.False(t, s.RemoveRover(transport))
	assert.Len(t, s.Rovers, 1)
}

func TestRoversNeedingUnload(t *testing.T) {
	s := NewSettlement(1, "Tharsis Base", world.HexCoord{}, 10000)
	r := vehicle.New("Explorer 1", vehicle.ExplorerSpec(), 0, world.HexCoord{})
	s.AddRover(r)
	assert.Empty(t, s.RoversNeedingUnload())

	r.Cargo.Store(resources.RockSample, 20)
	assert.Len(t, s.RoversNeedingUnload(), 1)
}

func TestEVA(t *testing.T) {
	s := NewSettlement(1, "Tharsis Base", world.HexCoord{}, 10000)
	assert.False(t, s.CanEVA())
	s.Inventory.Store(resources.EVASuit, 3)
	assert.Equal(t, 3, s.EVASuits())
	assert.True(t, s.CanEVA())
	s.Airlocks = 0
	assert.False(t, s.CanEVA())
}

func TestSustainableSols(t *testing.T) {
	s := NewSettlement(1, "Tharsis Base", world.HexCoord{}, 10000)
	s.Inventory.Store(resources.Food, 100)
	s.Inventory.Store(resources.Water, 50)
	s.Inventory.Store(resources.Oxygen, 5)

	b, err := s.SustainableSols(resources.Rates{resources.Food: 0.6, resources.Water: 1, resources.Oxygen: 0.2}, 2)
	require.NoError(t, err)
	assert.Equal(t, resources.Oxygen, b.Binding)
	assert.InDelta(t, 12.5, b.Sols, 1e-9)

	_, err = s.SustainableSols(resources.Rates{resources.Food: 0.6}, 0)
	assert.ErrorIs(t, err, resources.ErrNoMembers)
}

func TestNearest(t *testing.T) {
	m := world.NewMap(10, 10, 60)
	a := NewSettlement(1, "A", world.HexCoord{Q: 4, R: 0}, 100)
	b := NewSettlement(2, "B", world.HexCoord{Q: -2, R: 0}, 100)
	c := NewSettlement(3, "C", world.HexCoord{Q: 1, R: 0}, 100)
	c.Inhabitable = false

	assert.Same(t, b, Nearest(m, world.HexCoord{}, []*Settlement{a, b, c}))
	assert.Nil(t, Nearest(m, world.HexCoord{}, []*Settlement{c}))
}

func TestObservationFactor(t *testing.T) {
	s := NewSettlement(1, "A", world.HexCoord{}, 100)
	assert.InDelta(t, 2/1.5, s.ObservationFactor(), 1e-9)
}
