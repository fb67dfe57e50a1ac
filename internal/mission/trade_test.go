package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

type tradeSetup struct {
	home, remote *social.Settlement
	rover        *vehicle.Rover
	crew         []*agents.Agent
}

func newTradeSetup(f *fixture) tradeSetup {
	home := f.settlement(1, world.HexCoord{})
	remote := f.settlement(2, world.HexCoord{Q: 2})
	return tradeSetup{
		home:   home,
		remote: remote,
		rover:  f.rover(home, vehicle.TransportSpec()),
		crew:   []*agents.Agent{f.human(1, home), f.human(2, home)},
	}
}

func setPrice(s *social.Settlement, good resources.ID, price, supply, demand float64) {
	e := s.Market.Entries[good]
	e.Price, e.Supply, e.Demand = price, supply, demand
}

func TestTradeRunsEveryPhase(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	spare := f.rover(s.home, vehicle.ExplorerSpec())
	f.human(10, s.remote).Skills[agents.SkillTrading] = 5

	// The remote has rice to spare that fetches more at home.
	setPrice(s.remote, resources.Rice, 3, 500, 10)
	setPrice(s.home, resources.Rice, 10, 1, 1)
	s.remote.Inventory.Store(resources.Rice, 1000)
	s.home.Inventory.Store(resources.Potato, 500)

	sell := economy.Load{resources.Potato: 100, resources.RoverUnit: 1}
	m, err := NewTradeParty(f.ctx, s.crew, s.home, s.remote, sell, nil, s.rover)
	require.NoError(t, err)

	f.run(m, 3000, m.Done)

	assert.Equal(t, []Phase{
		PhaseReviewing,
		PhaseEmbarking,
		PhaseTravelling,
		PhaseTradeDisembarking,
		PhaseTradeNegotiating,
		PhaseUnloadGoods,
		PhaseLoadGoods,
		PhaseTradeEmbarking,
		PhaseTravelling,
		PhaseDisembarking,
		PhaseCompleted,
	}, phases(m))
	assert.Equal(t, []StatusCode{StatusMissionAccomplished}, m.Statuses())

	_, _, buy, _, ok := m.Trade()
	require.True(t, ok)
	assert.Equal(t, economy.Load{resources.Rice: 490}, buy)
	assert.InDelta(t, 490, s.home.Inventory.AmountStored(resources.Rice), 1e-9)
	assert.InDelta(t, 100, s.remote.Inventory.AmountStored(resources.Potato), 1e-9)

	assert.Contains(t, s.remote.Rovers, spare)
	assert.NotContains(t, s.home.Rovers, spare)
	assert.Empty(t, spare.ReservedBy())
	assert.Equal(t, s.home.ID, s.rover.SettlementID)

	sold, err := f.val.LoadValue(sell, s.remote.ID, true)
	require.NoError(t, err)
	bought, err := f.val.LoadValue(buy, s.remote.ID, false)
	require.NoError(t, err)
	assert.InDelta(t, sold-bought, f.ctx.Credit.Credit(s.home.ID, s.remote.ID), 1e-9)

	assert.Contains(t, f.eventTypes(), EventProfitChanged)
}

func TestExplicitBuyLoadSkipsNegotiation(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	f.human(10, s.remote).Skills[agents.SkillTrading] = 5
	s.home.Inventory.Store(resources.Potato, 500)
	buy := economy.Load{resources.Water: 10}

	m, err := NewTradeParty(f.ctx, s.crew, s.home, s.remote, economy.Load{resources.Potato: 20}, buy, s.rover)
	require.NoError(t, err)
	f.run(m, 1000, func() bool { return m.Phase() == PhaseUnloadGoods })

	_, _, got, _, ok := m.Trade()
	require.True(t, ok)
	assert.Equal(t, buy, got)
	assert.Nil(t, m.Negotiation())
	assert.NotContains(t, m.Statuses(), StatusNegotiationTimeout)
	assert.False(t, m.Outbound())

	h := m.History()
	require.GreaterOrEqual(t, len(h), 2)
	neg, unload := h[len(h)-2], h[len(h)-1]
	assert.Equal(t, PhaseTradeNegotiating, neg.Phase)
	assert.Less(t, unload.Started-neg.Started, f.ctx.Tuning.Mission.NegotiationDuration)
}

func TestNegotiationInvalidatesProfitCache(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	f.settlement(3, world.HexCoord{R: 3})
	f.human(10, s.remote)
	s.home.Inventory.Store(resources.Potato, 500)

	m, err := NewTradeParty(f.ctx, s.crew, s.home, s.remote, economy.Load{resources.Potato: 50}, nil, s.rover)
	require.NoError(t, err)
	f.run(m, 500, func() bool { return m.Phase() == PhaseTradeNegotiating })

	f.ctx.Profits.Put(1, 2, 100, f.clock.t)
	f.ctx.Profits.Put(2, 1, 80, f.clock.t)
	f.ctx.Profits.Put(1, 3, 40, f.clock.t)
	f.ctx.Profits.Put(3, 4, 10, f.clock.t)

	f.run(m, 500, func() bool { return m.Phase() != PhaseTradeNegotiating })

	n := m.Negotiation()
	require.NotNil(t, n)
	assert.True(t, n.Resolved())
	assert.False(t, n.TimedOut())
	assert.Equal(t, agents.AgentID(10), n.Counterpart())
	assert.False(t, f.ctx.Profits.Has(1))
	assert.False(t, f.ctx.Profits.Has(2))
	assert.True(t, f.ctx.Profits.Has(3))
	assert.False(t, m.Outbound())

	dest, ok := m.Destination()
	require.True(t, ok)
	assert.Equal(t, s.home.ID, dest.SettlementID)
}

func TestEstimateProfit(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	setPrice(s.remote, resources.Potato, 8, 1, 1)
	setPrice(s.remote, resources.Rice, 0.5, 1, 1)
	setPrice(s.home, resources.Potato, 5, 1, 1)
	setPrice(s.home, resources.Rice, 1, 1, 1)

	sell := economy.Load{resources.Potato: 10}
	buy := economy.Load{resources.Rice: 20}
	cost, err := f.val.EstimatedMissionCost(s.home.ID, s.rover, 100)
	require.NoError(t, err)

	profit, err := EstimateProfit(f.val, s.home.ID, s.remote.ID, sell, buy, s.rover, 50)
	require.NoError(t, err)
	assert.InDelta(t, (80-45)+(20-9)-cost, profit, 1e-9)

	_, err = EstimateProfit(f.val, s.home.ID, 99, sell, buy, s.rover, 50)
	assert.ErrorIs(t, err, economy.ErrUnknownSettlement)
}

func TestFindTradePartner(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	far := f.settlement(3, world.HexCoord{Q: 50})
	setPrice(s.home, resources.Potato, 5, 1000, 100)
	setPrice(s.remote, resources.Potato, 20, 1, 1)
	setPrice(far, resources.Potato, 200, 1, 1)

	target, err := FindTradePartner(f.ctx, s.home, s.rover)
	require.NoError(t, err)

	assert.Equal(t, s.remote.ID, target.Partner)
	assert.Positive(t, target.Profit)
	entry, ok := f.ctx.Profits.Get(s.home.ID, s.remote.ID)
	require.True(t, ok)
	assert.InDelta(t, target.Profit, entry.Profit, 1e-9)
	_, ok = f.ctx.Profits.Get(s.home.ID, far.ID)
	assert.False(t, ok, "out of range partner must not be costed")
}

func TestFindTradePartnerWrapsValuationErrors(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	delete(f.val.Markets, s.remote.ID)

	_, err := FindTradePartner(f.ctx, s.home, s.rover)
	assert.Equal(t, StatusCouldNotEstimateTradeProfit, CodeOf(err))
	assert.ErrorIs(t, err, economy.ErrUnknownSettlement)
}

func TestNewTradeWithoutProfitablePartner(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)

	_, err := NewTrade(f.ctx, s.crew[0])
	assert.Equal(t, StatusNoTradingSettlement, CodeOf(err))
	assert.Empty(t, s.rover.ReservedBy())
	assert.False(t, s.crew[0].OnMission())
}

func TestNewTradeRecruitsTraders(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	f.human(3, s.home).Skills[agents.SkillTrading] = 7
	setPrice(s.home, resources.Potato, 5, 1000, 100)
	setPrice(s.remote, resources.Potato, 20, 1, 1)
	s.home.Inventory.Store(resources.Potato, 1000)

	m, err := NewTrade(f.ctx, s.crew[0])
	require.NoError(t, err)

	assert.Equal(t, []agents.AgentID{1, 3}, m.Members())
	remote, sell, _, profit, ok := m.Trade()
	require.True(t, ok)
	assert.Equal(t, s.remote.ID, remote)
	assert.Equal(t, 900, sell[resources.Potato])
	assert.Positive(t, profit)
	assert.Equal(t, m.ID, s.rover.ReservedBy())
	assert.False(t, f.ctx.Profits.Has(s.home.ID))
}

func TestTradeAbortsWithoutRoverToSell(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)

	m, err := NewTradeParty(f.ctx, s.crew, s.home, s.remote, economy.Load{resources.RoverUnit: 1}, nil, s.rover)
	require.NoError(t, err)
	f.run(m, 100, m.Done)

	assert.Equal(t, []StatusCode{StatusSellingVehicleNotAvailableForTrade}, m.Statuses())
	assert.Equal(t, PhaseAborted, m.Phase())
	assert.Empty(t, s.rover.ReservedBy())
}

func TestCreditLimitBlocksBuying(t *testing.T) {
	f := newFixture(t)
	s := newTradeSetup(f)
	setPrice(s.remote, resources.Rice, 3, 500, 10)
	setPrice(s.home, resources.Rice, 10, 1, 1)
	f.ctx.Credit.Adjust(s.home.ID, s.remote.ID, -f.ctx.Tuning.Mission.CreditLimit)

	sell, buy, err := desiredLoads(f.ctx, s.home.ID, s.remote.ID, s.rover)
	require.NoError(t, err)
	assert.True(t, buy.Empty())
	assert.NotNil(t, sell)
}
