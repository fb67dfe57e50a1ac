// Package tasks scores candidate activities for agents and schedules the
// best one. Scoring is a pure function of agent state, surroundings and an
// injected random source.
package tasks

import (
	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/science"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/world"
)

// LoadingDemand is the rover loading work waiting at a settlement.
type LoadingDemand struct {
	Missions    int  // Embarking missions whose rover still needs cargo
	SuitsWanted bool // Those rovers still lack EVA suits
}

// Surroundings answers what scoring and scheduling need to know about the
// world around an agent.
type Surroundings interface {
	Environment() world.Environment
	Settlement(id uint64) *social.Settlement
	Studies() *science.Registry

	LoadingDemand(settlementID uint64) LoadingDemand
	// ContributeLoading loads up to kg into embarking rovers at the
	// settlement and returns the amount loaded.
	ContributeLoading(settlementID uint64, kg float64) float64

	// BestTradeProfit is the cached profit of the settlement's best trade.
	BestTradeProfit(settlementID uint64) (float64, bool)
	// Residents counts agents inside the settlement and not on a mission.
	Residents(settlementID uint64) int

	MsolOfSol() float64
}

// scoreContext bundles what a meta task looks at for one agent.
type scoreContext struct {
	agent  *agents.Agent
	here   *social.Settlement // nil unless inside a settlement
	env    world.Environment
	where  Surroundings
	tuning config.Tuning
}

func (c *scoreContext) pos() world.HexCoord {
	return c.agent.Position
}

func (c *scoreContext) daylight() bool {
	return c.env.SolarIrradiance(c.pos()) > 0
}
