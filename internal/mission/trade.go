package mission

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/vehicle"
)

// tradeCargoShare is the part of a rover's cargo space offered to goods.
// The rest carries life support and fuel.
const tradeCargoShare = 0.8

// trade hauls goods to a partner settlement and brings back what it buys.
type trade struct {
	remote uint64
	sell   economy.Load
	buy    economy.Load
	profit float64

	negotiate   bool // false when the buy load was given up front
	negotiation *Negotiation
	negotiated  bool

	sellLeft map[resources.ID]float64
	buyLeft  map[resources.ID]float64
	sold     *vehicle.Rover // Towed out for sale
	bought   *vehicle.Rover // Towed home after purchase
}

// NewTrade plans a trade run from starter's settlement to the most
// profitable partner in range.
func NewTrade(ctx *Context, starter *agents.Agent) (*Mission, error) {
	home := ctx.World.Settlement(starter.SettlementID)
	if home == nil || starter.Location != agents.InSettlement {
		return nil, NewMissionError(StatusNoInhabitableBuilding, "starter is not in a settlement").
			WithContext("agent", starter.ID)
	}
	rover := home.AvailableRover(vehicle.PurposeTrade)
	if rover == nil {
		return nil, NewMissionError(StatusNoAvailableVehicles, "no rover available").
			WithContext("settlement", home.ID)
	}

	target, ok := ctx.TradeTargets.Get(home.ID)
	if !ok {
		var err error
		if target, err = FindTradePartner(ctx, home, rover); err != nil {
			return nil, err
		}
	}
	ctx.Profits.InvalidateSettlement(home.ID)
	ctx.TradeTargets.Remove(home.ID)
	if target.Partner != 0 {
		ctx.Profits.InvalidateSettlement(target.Partner)
		ctx.TradeTargets.Remove(target.Partner)
	}

	remote := ctx.World.Settlement(target.Partner)
	if remote == nil || target.Profit <= 0 {
		return nil, NewMissionError(StatusNoTradingSettlement, "no profitable partner in range").
			WithContext("settlement", home.ID)
	}
	sell, buy, err := desiredLoads(ctx, home.ID, remote.ID, rover)
	if err != nil {
		return nil, couldNotEstimate(err, home.ID, remote.ID)
	}

	crew := recruitTraders(ctx, home, starter, min(ctx.Tuning.Mission.MaxTradeMembers, rover.CrewCapacity))
	return newTradeParty(ctx, crew, home, remote, sell, buy, rover, true)
}

// NewTradeParty starts a trade with explicit members and loads. The first
// member leads. A nil buy load is settled by negotiation at the remote;
// any other buy load, empty included, is bought as given.
func NewTradeParty(ctx *Context, members []*agents.Agent, home, remote *social.Settlement, sell, buy economy.Load, rover *vehicle.Rover) (*Mission, error) {
	return newTradeParty(ctx, members, home, remote, sell, buy, rover, buy == nil)
}

func newTradeParty(ctx *Context, members []*agents.Agent, home, remote *social.Settlement, sell, buy economy.Load, rover *vehicle.Rover, negotiate bool) (*Mission, error) {
	switch {
	case rover == nil:
		return nil, NewMissionError(StatusNoAvailableVehicles, "no rover")
	case home == nil:
		return nil, NewMissionError(StatusNoInhabitableBuilding, "no home settlement")
	case remote == nil || remote.ID == home.ID:
		return nil, NewMissionError(StatusNoTradingSettlement, "no partner")
	case len(members) == 0:
		return nil, NewMissionError(StatusNotEnoughMembers, "no members")
	case len(members) > rover.CrewCapacity:
		return nil, NewMissionError(StatusCannotEnterRover, fmt.Sprintf("%d members for %d seats", len(members), rover.CrewCapacity))
	}
	if err := checkFree(members); err != nil {
		return nil, err
	}
	if sell == nil {
		sell = economy.Load{}
	}
	if buy == nil {
		buy = economy.Load{}
	}
	if err := errors.Join(sell.Validate(), buy.Validate()); err != nil {
		return nil, couldNotEstimate(err, home.ID, remote.ID)
	}

	distance := ctx.Map.DistanceKm(home.Position, remote.Position)
	profit, err := EstimateProfit(ctx.Valuation, home.ID, remote.ID, sell, buy, rover, distance)
	if err != nil {
		return nil, couldNotEstimate(err, home.ID, remote.ID)
	}

	v := &trade{remote: remote.ID, sell: sell.Clone(), buy: buy.Clone(), profit: profit, negotiate: negotiate}
	nav := []NavPoint{{Coord: remote.Position, SettlementID: remote.ID, Description: remote.Name}}
	m := newMission(ctx, v, home.ID, rover, nav)
	if err := rover.Reserve(m.ID); err != nil {
		return nil, WrapMissionError(StatusNoAvailableVehicles, "reserve rover", err)
	}
	ctx.Profits.InvalidateSettlement(home.ID)
	ctx.Profits.InvalidateSettlement(remote.ID)
	m.enlist(ctx, members)
	slog.Info("trade planned", "mission", m.ID, "home", home.Name, "remote", remote.Name, "sell", sell.String(), "buy", buy.String(), "profit", profit)
	return m, nil
}

// FindTradePartner estimates the profit of trading with every settlement
// in round trip range, records each estimate in the profit cache and
// returns the best. Partner is zero when none is profitable.
func FindTradePartner(ctx *Context, home *social.Settlement, rover *vehicle.Rover) (economy.TradeTarget, error) {
	now := ctx.now()
	best := economy.TradeTarget{ComputedAt: now}
	for _, remote := range ctx.World.Settlements() {
		if remote.ID == home.ID || !remote.Inhabitable {
			continue
		}
		distance := ctx.Map.DistanceKm(home.Position, remote.Position)
		if distance*2 > rover.Range(vehicle.PurposeTrade) {
			continue
		}
		sell, buy, err := desiredLoads(ctx, home.ID, remote.ID, rover)
		if err != nil {
			return best, couldNotEstimate(err, home.ID, remote.ID)
		}
		profit, err := EstimateProfit(ctx.Valuation, home.ID, remote.ID, sell, buy, rover, distance)
		if err != nil {
			return best, couldNotEstimate(err, home.ID, remote.ID)
		}
		ctx.Profits.Put(home.ID, remote.ID, profit, now)
		if profit > best.Profit {
			best.Partner, best.Profit = remote.ID, profit
		}
	}
	return best, nil
}

// EstimateProfit values a round trip trade: what the sell load gains at
// remote over home, plus what the buy load gains at home over remote, less
// the cost of driving there and back.
func EstimateProfit(val economy.Valuation, home, remote uint64, sell, buy economy.Load, rover *vehicle.Rover, distanceKm float64) (float64, error) {
	sellRemote, err := val.LoadValue(sell, remote, true)
	if err != nil {
		return 0, fmt.Errorf("value sell load at %d: %w", remote, err)
	}
	sellHome, err := val.LoadValue(sell, home, false)
	if err != nil {
		return 0, fmt.Errorf("value sell load at %d: %w", home, err)
	}
	buyHome, err := val.LoadValue(buy, home, true)
	if err != nil {
		return 0, fmt.Errorf("value buy load at %d: %w", home, err)
	}
	buyRemote, err := val.LoadValue(buy, remote, false)
	if err != nil {
		return 0, fmt.Errorf("value buy load at %d: %w", remote, err)
	}
	cost, err := val.EstimatedMissionCost(home, rover, distanceKm*2)
	if err != nil {
		return 0, fmt.Errorf("mission cost: %w", err)
	}
	return (sellRemote - sellHome) + (buyHome - buyRemote) - cost, nil
}

// desiredLoads asks the valuation for both loads, leaving out a side the
// credit limit blocks.
func desiredLoads(ctx *Context, home, remote uint64, rover *vehicle.Rover) (sell, buy economy.Load, err error) {
	capacity := rover.CargoCapacity * tradeCargoShare
	sell, buy = economy.Load{}, economy.Load{}
	if ctx.Credit.CanSell(home, remote) {
		if sell, err = ctx.Valuation.DesiredLoad(home, remote, capacity); err != nil {
			return nil, nil, fmt.Errorf("sell load: %w", err)
		}
	}
	if ctx.Credit.CanBuy(home, remote) {
		if buy, err = ctx.Valuation.DesiredLoad(remote, home, capacity); err != nil {
			return nil, nil, fmt.Errorf("buy load: %w", err)
		}
	}
	return sell, buy, nil
}

func couldNotEstimate(err error, home, remote uint64) *MissionError {
	slog.Error("trade profit estimate failed", "home", home, "remote", remote, "err", err)
	return WrapMissionError(StatusCouldNotEstimateTradeProfit, "estimate trade profit", err).
		WithContext("home", home).
		WithContext("remote", remote)
}

// recruitTraders returns starter followed by the best traders free to go.
func recruitTraders(ctx *Context, home *social.Settlement, starter *agents.Agent, seats int) []*agents.Agent {
	var pool []*agents.Agent
	for _, a := range ctx.World.Residents(home.ID) {
		if a.ID == starter.ID || a.OnMission() || !a.CanPerform(agents.ActivityNegotiateTrade) || a.Condition.Emergency() {
			continue
		}
		pool = append(pool, a)
	}
	slices.SortStableFunc(pool, func(x, y *agents.Agent) int {
		return cmp.Compare(y.Skills.Level(agents.SkillTrading), x.Skills.Level(agents.SkillTrading))
	})

	crew := []*agents.Agent{starter}
	for _, a := range pool {
		if len(crew) >= seats {
			break
		}
		crew = append(crew, a)
	}
	return crew
}

// Trade reports a trade mission's partner, loads and current profit
// estimate. ok is false for other kinds.
func (m *Mission) Trade() (remote uint64, sell, buy economy.Load, profit float64, ok bool) {
	v, ok := m.variant.(*trade)
	if !ok {
		return 0, nil, nil, 0, false
	}
	return v.remote, v.sell.Clone(), v.buy.Clone(), v.profit, true
}

// Negotiation returns the trade negotiation once it has started.
func (m *Mission) Negotiation() *Negotiation {
	if v, ok := m.variant.(*trade); ok {
		return v.negotiation
	}
	return nil
}

func (v *trade) kind() Kind { return KindTrade }

func (v *trade) enter(m *Mission, ctx *Context, p Phase) {
	switch p {
	case PhaseEmbarking:
		if v.sell.Vehicles() > 0 && v.sold == nil {
			home := ctx.World.Settlement(m.Home)
			v.sold = v.hitch(m, home.SpareRover(m.Rover))
			if v.sold == nil {
				m.EndMission(ctx, StatusSellingVehicleNotAvailableForTrade)
			}
		}
	case PhaseTradeDisembarking:
		remote := ctx.World.Settlement(v.remote)
		if remote == nil || !remote.Inhabitable {
			m.EndMission(ctx, StatusNoInhabitableBuilding)
			return
		}
		if remote.Garage {
			m.Rover.Park(remote.ID)
		}
	case PhaseTradeNegotiating:
		if v.negotiate {
			v.negotiation = newNegotiation(m, v)
			v.negotiation.Start(ctx.now())
		}
	case PhaseUnloadGoods:
		v.sellLeft = goods(v.sell)
	case PhaseLoadGoods:
		v.enterLoadGoods(m, ctx)
	}
}

// hitch reserves r and hooks it behind the mission rover. It returns nil
// when r is nil or cannot be towed.
func (v *trade) hitch(m *Mission, r *vehicle.Rover) *vehicle.Rover {
	if r == nil {
		return nil
	}
	if err := r.Reserve(m.ID); err != nil {
		slog.Warn("reserve rover for sale", "mission", m.ID, "rover", r.Name, "err", err)
		return nil
	}
	if err := m.Rover.Tow(r); err != nil {
		_ = r.Release(m.ID)
		slog.Warn("tow rover", "mission", m.ID, "rover", r.Name, "err", err)
		return nil
	}
	return r
}

func (v *trade) enterLoadGoods(m *Mission, ctx *Context) {
	remote := ctx.World.Settlement(v.remote)
	v.buyLeft = goods(v.buy)
	need := m.ResourcesNeededForRemaining(ctx, true)
	for _, id := range resources.SortedIDs(need) {
		if short := need[id] - m.Rover.LifeSupport.Available(id); short > loadEpsilon {
			v.buyLeft[id] += short
		}
	}

	if v.buy.Vehicles() > 0 && v.bought == nil {
		v.bought = v.hitch(m, remote.SpareRover(nil))
		if v.bought == nil {
			m.EndMission(ctx, StatusSellingVehicleNotAvailableForTrade)
			return
		}
		remote.RemoveRover(v.bought)
	}
}

// goods returns the stored part of a load; rovers travel by towing.
func goods(l economy.Load) map[resources.ID]float64 {
	out := make(map[resources.ID]float64, len(l))
	for id, q := range l {
		if q > 0 && id.Category() != resources.CategoryVehicle {
			out[id] = float64(q)
		}
	}
	return out
}

func (v *trade) perform(m *Mission, ctx *Context, a *agents.Agent, dt float64) {
	remote := ctx.World.Settlement(v.remote)
	if remote == nil {
		return
	}
	switch m.phase {
	case PhaseTradeDisembarking:
		m.Rover.Alight(a.ID)
		enterSettlement(a, remote)
	case PhaseTradeNegotiating:
		if a.Activity != nil {
			ctx.Scheduler.Progress(a, dt, ctx.now(), ctx.Rand)
			return
		}
		m.rest(ctx, a, dt)
	case PhaseUnloadGoods:
		m.shuttle(ctx, a, dt, unloadKind(remote), remote, m.Rover.Cargo, remote.Inventory, v.sellLeft)
	case PhaseLoadGoods:
		m.shuttle(ctx, a, dt, loadKind(remote), remote, remote.Inventory, m.Rover.Cargo, v.buyLeft)
	case PhaseTradeEmbarking:
		a.ClearActivity()
		m.board(ctx, a)
	}
}

func (v *trade) check(m *Mission, ctx *Context) {
	switch m.phase {
	case PhaseTradeDisembarking:
		if m.everyoneIn(ctx, v.remote) {
			m.endPhase()
		}
	case PhaseTradeNegotiating:
		if v.negotiation == nil {
			m.endPhase()
			return
		}
		if v.negotiation.Poll(ctx, ctx.now()) && !m.ended {
			m.endPhase()
		}
	case PhaseUnloadGoods:
		dropUnavailable(v.sellLeft, m.Rover.Cargo)
		if len(v.sellLeft) > 0 {
			return
		}
		if v.sold != nil {
			m.Rover.Untow()
			m.handOver(ctx, v.sold, ctx.World.Settlement(v.remote))
			v.sold = nil
		}
		m.endPhase()
	case PhaseLoadGoods:
		dropUnavailable(v.buyLeft, ctx.World.Settlement(v.remote).Inventory)
		if len(v.buyLeft) > 0 {
			return
		}
		v.settle(m, ctx)
		m.endPhase()
	case PhaseTradeEmbarking:
		if m.everyoneAboard(ctx) {
			m.endPhase()
		}
	}
}

// dropUnavailable forgets wanted goods the source no longer holds.
func dropUnavailable(want map[resources.ID]float64, from resources.Inventory) {
	for _, id := range resources.SortedIDs(want) {
		if from.AmountStored(id) <= loadEpsilon {
			delete(want, id)
		}
	}
}

// settle moves the value of the exchange into the pair's credit.
func (v *trade) settle(m *Mission, ctx *Context) {
	sold, errSell := ctx.Valuation.LoadValue(v.sell, v.remote, true)
	bought, errBuy := ctx.Valuation.LoadValue(v.buy, v.remote, false)
	if err := errors.Join(errSell, errBuy); err != nil {
		slog.Error("settle trade", "mission", m.ID, "err", err)
		return
	}
	ctx.Credit.Adjust(m.Home, v.remote, sold-bought)
	slog.Info("trade settled", "mission", m.ID, "sold", sold, "bought", bought, "credit", ctx.Credit.Credit(m.Home, v.remote))
}

func (v *trade) leave(m *Mission, ctx *Context, p Phase) {
	if p != PhaseTradeNegotiating {
		return
	}
	v.negotiated = true
	m.setOutbound(false)
	m.addHomeNav(ctx)
	ctx.Profits.InvalidateSettlement(m.Home)
	ctx.Profits.InvalidateSettlement(v.remote)
}

func (v *trade) extraTime(m *Mission, ctx *Context) float64 {
	if v.negotiated {
		return 0
	}
	extra := 2 * agents.ActivityLoadVehicleGarage.Info().Duration
	if v.negotiate {
		extra += ctx.Tuning.Mission.NegotiationDuration
	}
	return extra
}

func (v *trade) cargo(m *Mission, ctx *Context) map[resources.ID]float64 {
	if !m.outbound {
		return nil
	}
	return goods(v.sell)
}
