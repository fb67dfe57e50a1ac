package mission

import (
	"log/slog"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
)

// Negotiation settles what a trade mission buys at the remote settlement.
// The mission's best trader sits down with the settlement's best trader for
// a fixed time. If no one sits down before the timeout the mission leaves
// with nothing bought; a negotiation under way always runs to the end.
type Negotiation struct {
	m *Mission
	t *trade

	started     float64
	active      bool
	trader      agents.AgentID
	counterpart agents.AgentID
	assigned    bool
	resolved    bool
	timedOut    bool
}

func newNegotiation(m *Mission, t *trade) *Negotiation {
	return &Negotiation{m: m, t: t}
}

// Start begins the timer.
func (n *Negotiation) Start(now float64) {
	n.started = now
	n.active = true
}

// Resolved reports whether the negotiation is over, by agreement or timeout.
func (n *Negotiation) Resolved() bool {
	return n.resolved
}

// TimedOut reports whether the negotiation gave up.
func (n *Negotiation) TimedOut() bool {
	return n.timedOut
}

// Counterpart returns the settlement's negotiator, zero until one is found.
func (n *Negotiation) Counterpart() agents.AgentID {
	return n.counterpart
}

// Poll advances the negotiation and reports whether it has resolved.
func (n *Negotiation) Poll(ctx *Context, now float64) bool {
	if n.resolved || !n.active {
		return n.resolved
	}
	if !n.assigned && now-n.started > ctx.Tuning.Mission.NegotiationTimeout {
		n.timeout(ctx)
		return true
	}

	if n.counterpart == 0 {
		n.counterpart = n.findCounterpart(ctx)
		if n.counterpart == 0 {
			return false
		}
		slog.Debug("negotiation counterpart found", "mission", n.m.ID, "agent", n.counterpart)
	}

	trader := ctx.World.Agent(n.trader)
	if !n.assigned {
		trader = n.chooseTrader(ctx)
		if trader == nil {
			return false
		}
		n.trader = trader.ID
		ctx.Scheduler.AssignFor(trader, agents.ActivityNegotiateTrade, now, ctx.Tuning.Mission.NegotiationDuration)
		n.assigned = true
		return false
	}
	if trader != nil && trader.Activity != nil && trader.Activity.Kind == agents.ActivityNegotiateTrade {
		return false
	}
	n.complete(ctx)
	return true
}

// findCounterpart returns the best trader among remote residents who are
// not on a mission.
func (n *Negotiation) findCounterpart(ctx *Context) agents.AgentID {
	var (
		best  agents.AgentID
		skill = -1
	)
	for _, a := range ctx.World.Residents(n.t.remote) {
		if a.OnMission() || a.Location != agents.InSettlement || a.Condition.Emergency() {
			continue
		}
		if l := a.Skills.Level(agents.SkillTrading); l > skill {
			best, skill = a.ID, l
		}
	}
	return best
}

// chooseTrader returns the member inside the remote settlement with the
// best trading skill, lowest ID first.
func (n *Negotiation) chooseTrader(ctx *Context) *agents.Agent {
	var best *agents.Agent
	for _, id := range n.m.members {
		a := ctx.World.Agent(id)
		if a == nil || a.Location != agents.InSettlement || !a.CanPerform(agents.ActivityNegotiateTrade) {
			continue
		}
		if best == nil || a.Skills.Level(agents.SkillTrading) > best.Skills.Level(agents.SkillTrading) {
			best = a
		}
	}
	return best
}

func (n *Negotiation) complete(ctx *Context) {
	m, t := n.m, n.t
	n.resolved = true

	buy := economy.Load{}
	rover := m.Rover
	if ctx.Credit.CanBuy(m.Home, t.remote) {
		var err error
		if buy, err = ctx.Valuation.DesiredLoad(t.remote, m.Home, rover.CargoCapacity*tradeCargoShare); err != nil {
			couldNotEstimate(err, m.Home, t.remote)
			m.EndMission(ctx, StatusCouldNotEstimateTradeProfit)
			return
		}
	}

	home, remote := ctx.World.Settlement(m.Home), ctx.World.Settlement(t.remote)
	distance := ctx.Map.DistanceKm(home.Position, remote.Position)
	profit, err := EstimateProfit(ctx.Valuation, m.Home, t.remote, t.sell, buy, rover, distance)
	if err != nil {
		couldNotEstimate(err, m.Home, t.remote)
		m.EndMission(ctx, StatusCouldNotEstimateTradeProfit)
		return
	}

	t.buy, t.profit = buy, profit
	ctx.Profits.InvalidateSettlement(m.Home)
	ctx.Profits.InvalidateSettlement(t.remote)
	slog.Info("trade negotiated", "mission", m.ID, "buy", buy.String(), "profit", profit)
	ctx.emit(m, EventProfitChanged, "negotiated %s for profit %.0f", buy, profit)
}

func (n *Negotiation) timeout(ctx *Context) {
	m, t := n.m, n.t
	n.resolved = true
	n.timedOut = true
	t.buy = economy.Load{}
	t.profit = 0
	if a := ctx.World.Agent(n.trader); a != nil && a.Activity != nil && a.Activity.Kind == agents.ActivityNegotiateTrade {
		a.ClearActivity()
	}
	slog.Warn("trade negotiation timed out", "mission", m.ID, "remote", t.remote, "counterpart", n.counterpart != 0)
	m.addStatus(ctx, StatusNegotiationTimeout)
	ctx.emit(m, EventProfitChanged, "negotiation timed out, profit 0")
}
