package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

func TestLoadValidate(t *testing.T) {
	assert.NoError(t, Load{resources.Food: 3}.Validate())
	assert.Error(t, Load{resources.Food: -1}.Validate())
	assert.True(t, Load{resources.Water: 0}.Empty())
	assert.False(t, Load{resources.Water: 1}.Empty())

	l := Load{resources.Food: 2, resources.RoverUnit: 1, resources.EVASuit: 3}
	c := l.Clone()
	c[resources.Food] = 9
	assert.Equal(t, 2, l[resources.Food])
	assert.Equal(t, 1, l.Vehicles())
	assert.Equal(t, 2.0, l.Mass())
}

func TestResolvePriceBounds(t *testing.T) {
	tests := []struct {
		name           string
		supply, demand float64
		want           float64
	}{
		{"balanced", 10, 10, 5},
		{"scarce", 1, 1000, 50},
		{"glut", 1000, 1, 0.5},
		{"double demand", 10, 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &MarketEntry{BasePrice: 5, Supply: tt.supply, Demand: tt.demand}
			assert.InDelta(t, tt.want, e.ResolvePrice(), 1e-9)
		})
	}
}

func testValuation() (*MarketValuation, *resources.Store, *resources.Store) {
	v := NewMarketValuation(resources.Rates{
		resources.Food:   0.62,
		resources.Water:  1.0,
		resources.Oxygen: 0.84,
	})
	home := resources.NewStore(100000)
	remote := resources.NewStore(100000)
	home.Store(resources.Ice, 5000)
	remote.Store(resources.Food, 2000)

	mh := NewMarket(1)
	mh.Update(home, 10, 4)
	mr := NewMarket(2)
	mr.Update(remote, 10, 0)
	v.Markets[1] = mh
	v.Markets[2] = mr
	return v, home, remote
}

func TestLoadValue(t *testing.T) {
	v, _, _ := testValuation()
	load := Load{resources.Ice: 100}

	buy, err := v.LoadValue(load, 2, true)
	require.NoError(t, err)
	sell, err := v.LoadValue(load, 2, false)
	require.NoError(t, err)
	assert.InDelta(t, buy*sellerShare, sell, 1e-9)

	_, err = v.LoadValue(load, 99, true)
	assert.ErrorIs(t, err, ErrUnknownSettlement)

	_, err = v.LoadValue(Load{resources.Ice: -1}, 1, true)
	assert.Error(t, err)
}

func TestDesiredLoad(t *testing.T) {
	v, _, _ := testValuation()

	// Home has surplus ice that remote lacks, and a spare rover.
	load, err := v.DesiredLoad(1, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000, load[resources.Ice])
	assert.Equal(t, 1, load[resources.RoverUnit])
	assert.Zero(t, load[resources.Food])

	back, err := v.DesiredLoad(2, 1, 5000)
	require.NoError(t, err)
	assert.Positive(t, back[resources.Food])
	assert.Zero(t, back[resources.Ice])
}

func TestDesiredLoadFitsItemsToCapacity(t *testing.T) {
	v := NewMarketValuation(resources.Rates{resources.Food: 0.62})
	home := resources.NewStore(100000)
	home.Store(resources.EVASuit, 30)
	mh := NewMarket(1)
	mh.Update(home, 1, 0)
	mr := NewMarket(2)
	mr.Update(resources.NewStore(100000), 10, 0)
	v.Markets[1] = mh
	v.Markets[2] = mr

	load, err := v.DesiredLoad(1, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, load[resources.EVASuit])

	load, err = v.DesiredLoad(1, 2, 30)
	require.NoError(t, err)
	assert.NotContains(t, load, resources.EVASuit)

	load, err = v.DesiredLoad(1, 2, 1e6)
	require.NoError(t, err)
	assert.Equal(t, 29, load[resources.EVASuit])
}

func TestEstimatedMissionCost(t *testing.T) {
	v, _, _ := testValuation()
	r := vehicle.New("T", vehicle.TransportSpec(), 1, world.HexCoord{})

	near, err := v.EstimatedMissionCost(1, r, 100)
	require.NoError(t, err)
	far, err := v.EstimatedMissionCost(1, r, 400)
	require.NoError(t, err)
	assert.Greater(t, far, near)

	_, err = v.EstimatedMissionCost(1, nil, 100)
	assert.Error(t, err)
}

func TestCreditManager(t *testing.T) {
	c := NewCreditManager(100)
	c.Adjust(1, 2, 60)
	assert.Equal(t, 60.0, c.Credit(1, 2))
	assert.Equal(t, -60.0, c.Credit(2, 1))

	c.Adjust(2, 1, -50)
	assert.Equal(t, 110.0, c.Credit(1, 2))
	assert.False(t, c.CanSell(1, 2))
	assert.True(t, c.CanBuy(1, 2))
	assert.False(t, c.CanBuy(2, 1))
}

func TestProfitCacheInvalidate(t *testing.T) {
	c := NewProfitCache()
	c.Put(1, 2, 500, 10)
	c.Put(2, 3, 200, 10)
	c.Put(3, 4, 100, 10)

	c.InvalidateSettlement(2)
	_, ok := c.Get(1, 2)
	assert.False(t, ok)
	assert.False(t, c.Has(2))
	assert.True(t, c.Has(3))
	assert.Equal(t, 1, c.Len())

	e, ok := c.Get(3, 4)
	require.True(t, ok)
	assert.Equal(t, 100.0, e.Profit)
}

func TestTradeSettlementCache(t *testing.T) {
	c := NewTradeSettlementCache()
	c.Put(1, TradeTarget{Partner: 2, Profit: 10})
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.Partner)

	c.Remove(1)
	_, ok = c.Get(1)
	assert.False(t, ok)
}
