package vehicle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/world"
)

// constSource always draws the same value.
type constSource float64

func (c constSource) Intn(n int) int   { return int(float64(c) * float64(n)) }
func (c constSource) Float64() float64 { return float64(c) }

func TestReservation(t *testing.T) {
	r := New("Opportunity", ExplorerSpec(), 1, world.HexCoord{})

	require.NoError(t, r.Reserve("m1"))
	assert.Equal(t, "m1", r.ReservedBy())
	assert.False(t, r.Available())

	// Re-reserving for the same mission is fine.
	require.NoError(t, r.Reserve("m1"))

	err := r.Reserve("m2")
	assert.True(t, errors.Is(err, ErrReserved))

	err = r.Release("m2")
	assert.True(t, errors.Is(err, ErrNotReserved))

	require.NoError(t, r.Release("m1"))
	assert.True(t, r.Available())
	assert.ErrorIs(t, r.Release("m1"), ErrNotReserved)
}

func TestCompareAndBestAvailable(t *testing.T) {
	small := New("Small", ExplorerSpec(), 1, world.HexCoord{})
	big := New("Big", TransportSpec(), 1, world.HexCoord{})

	assert.Positive(t, Compare(big, small, PurposeFieldStudy))
	assert.Negative(t, Compare(small, big, PurposeFieldStudy))

	same := New("Same", ExplorerSpec(), 1, world.HexCoord{})
	same.BaseRange = small.BaseRange + 100
	assert.Positive(t, Compare(same, small, PurposeTrade))

	assert.Equal(t, big, BestAvailable([]*Rover{small, big}, PurposeFieldStudy))

	require.NoError(t, big.Reserve("m"))
	assert.Equal(t, small, BestAvailable([]*Rover{small, big}, PurposeFieldStudy))

	assert.Nil(t, BestAvailable(nil, PurposeTrade))
}

func TestTowing(t *testing.T) {
	a := New("A", TransportSpec(), 1, world.HexCoord{})
	b := New("B", ExplorerSpec(), 1, world.HexCoord{})

	require.NoError(t, a.Tow(b))
	assert.False(t, b.Available())
	assert.Error(t, a.Tow(b))

	a.Depart()
	a.Position = world.HexCoord{Q: 2}
	a.Park(2)

	got := a.Untow()
	assert.Equal(t, b, got)
	assert.Equal(t, uint64(2), b.SettlementID)
	assert.True(t, b.Available())
	assert.Nil(t, a.Untow())
}

func TestBoardRespectsCapacity(t *testing.T) {
	r := New("T", TransportSpec(), 1, world.HexCoord{})
	assert.True(t, r.Board(1))
	assert.True(t, r.Board(2))
	assert.False(t, r.Board(3))
	assert.True(t, r.Board(1), "already aboard")

	r.Alight(1)
	assert.True(t, r.Board(3))
	assert.Equal(t, 2, r.CrewCount())
}

func TestDrive(t *testing.T) {
	m := world.NewMap(10, 10, 80)
	r := New("D", ExplorerSpec(), 1, world.HexCoord{})
	r.Cargo.Store(resources.Methane, 500)
	r.Depart()
	r.SetDestination(m, world.HexCoord{Q: 3})
	require.InDelta(t, 30, r.RemainingKm(), 1e-9)

	src := constSource(0.9)
	var total float64
	arrived := false
	for i := 0; i < 1000 && !arrived; i++ {
		km, done, err := r.Drive(m, 10, 1, src)
		require.NoError(t, err)
		total += km
		arrived = done
	}
	assert.True(t, arrived)
	assert.InDelta(t, 30, total, 1e-6)
	assert.Equal(t, world.HexCoord{Q: 3}, r.Position)
}

func TestDriveWithoutFuel(t *testing.T) {
	m := world.NewMap(10, 10, 80)
	r := New("D", ExplorerSpec(), 1, world.HexCoord{})
	r.SetDestination(m, world.HexCoord{Q: 3})

	_, done, err := r.Drive(m, 10, 1, constSource(0.9))
	assert.False(t, done)
	assert.ErrorIs(t, err, ErrNoFuel)
}

func TestStuckRoverFreesItself(t *testing.T) {
	m := world.NewMap(10, 10, 80)
	r := New("D", ExplorerSpec(), 1, world.HexCoord{})
	r.Cargo.Store(resources.Methane, 100)
	r.SetDestination(m, world.HexCoord{Q: 2})
	r.Stuck = true

	km, _, err := r.Drive(m, 10, 1, constSource(0.9))
	require.NoError(t, err)
	assert.Zero(t, km)
	assert.True(t, r.Stuck)

	_, _, err = r.Drive(m, 10, 1, constSource(0.1))
	require.NoError(t, err)
	assert.False(t, r.Stuck)
}

func TestCargoBoundByCargoCapacity(t *testing.T) {
	r := New("Spirit", ExplorerSpec(), 1, world.HexCoord{})

	assert.Zero(t, r.Cargo.Store(resources.Ice, 3900))
	assert.InDelta(t, 100, r.Cargo.Capacity(resources.Water), 1e-9)
	assert.InDelta(t, 300, r.Cargo.Store(resources.Water, 400), 1e-9)
	assert.InDelta(t, r.CargoCapacity, r.Cargo.Total(), 1e-9)
}
