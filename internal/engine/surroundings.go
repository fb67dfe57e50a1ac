package engine

import (
	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/science"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/tasks"
	"github.com/talgya/outpost/internal/world"
)

// Agent returns the agent with id, or nil.
func (s *Simulation) Agent(id agents.AgentID) *agents.Agent {
	return s.AgentIndex[id]
}

// Settlement returns the settlement with id, or nil.
func (s *Simulation) Settlement(id uint64) *social.Settlement {
	return s.SettlementIndex[id]
}

// Residents returns the agents inside a settlement in ascending ID order,
// mission members included.
func (s *Simulation) Residents(settlementID uint64) []*agents.Agent {
	var out []*agents.Agent
	for _, a := range s.Agents {
		if a.Location == agents.InSettlement && a.SettlementID == settlementID {
			out = append(out, a)
		}
	}
	return out
}

// humansIn counts the humans inside a settlement.
func (s *Simulation) humansIn(settlementID uint64) int {
	n := 0
	for _, a := range s.Residents(settlementID) {
		if !a.IsRobot() {
			n++
		}
	}
	return n
}

// worldView implements mission.World.
type worldView struct{ s *Simulation }

func (w worldView) Agent(id agents.AgentID) *agents.Agent { return w.s.Agent(id) }

func (w worldView) Settlement(id uint64) *social.Settlement { return w.s.Settlement(id) }

func (w worldView) Settlements() []*social.Settlement { return w.s.Settlements }

func (w worldView) Residents(settlementID uint64) []*agents.Agent {
	return w.s.Residents(settlementID)
}

// surroundings answers the scheduler's questions about the world. It runs
// under the simulation's write lock.
type surroundings struct{ s *Simulation }

func (w surroundings) Environment() world.Environment { return w.s.Surface }

func (w surroundings) Settlement(id uint64) *social.Settlement { return w.s.SettlementIndex[id] }

func (w surroundings) Studies() *science.Registry { return w.s.Studies }

func (w surroundings) LoadingDemand(settlementID uint64) tasks.LoadingDemand {
	var d tasks.LoadingDemand
	for _, m := range w.s.active {
		if m.Home != settlementID || m.Rover.SettlementID != settlementID {
			continue
		}
		if active, suits := m.Loading(); active {
			d.Missions++
			d.SuitsWanted = d.SuitsWanted || suits
		}
	}
	return d
}

func (w surroundings) ContributeLoading(settlementID uint64, kg float64) float64 {
	st := w.s.SettlementIndex[settlementID]
	if st == nil {
		return 0
	}
	left := kg
	for _, m := range w.s.active {
		if left <= 0 {
			break
		}
		if m.Home != settlementID || m.Rover.SettlementID != settlementID {
			continue
		}
		left -= m.LoadCargo(st.Inventory, left)
	}
	return kg - left
}

func (w surroundings) BestTradeProfit(settlementID uint64) (float64, bool) {
	t, ok := w.s.TradeTargets.Get(settlementID)
	if !ok || t.Partner == 0 {
		return 0, false
	}
	return t.Profit, true
}

func (w surroundings) Residents(settlementID uint64) int {
	n := 0
	for _, a := range w.s.Residents(settlementID) {
		if !a.OnMission() {
			n++
		}
	}
	return n
}

func (w surroundings) MsolOfSol() float64 {
	return float64(w.s.LastTick % TicksPerSol)
}
