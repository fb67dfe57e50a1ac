package tasks

import (
	"math"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/science"
	"github.com/talgya/outpost/internal/vehicle"
)

// leadFieldStudy scores starting a field study from the agent's own study.
type leadFieldStudy struct{}

func (leadFieldStudy) Kind() agents.ActivityKind { return agents.ActivityLeadFieldStudy }

func (leadFieldStudy) Gates(c *scoreContext) bool {
	if c.here == nil || c.agent.OnMission() {
		return false
	}
	if c.here.AvailableRover(vehicle.PurposeFieldStudy) == nil {
		return false
	}
	return c.where.Residents(c.here.ID) >= c.tuning.Mission.MinFieldMembers
}

func (leadFieldStudy) Base(c *scoreContext) float64 {
	s := c.where.Studies().OngoingPrimary(c.agent.ID)
	if s == nil || s.Science != science.Areology {
		return 0
	}
	return 50
}

// leadTrade scores starting a trade run from the best cached profit.
type leadTrade struct{}

func (leadTrade) Kind() agents.ActivityKind { return agents.ActivityLeadTrade }

func (leadTrade) Gates(c *scoreContext) bool {
	if c.here == nil || c.agent.OnMission() {
		return false
	}
	return c.here.AvailableRover(vehicle.PurposeTrade) != nil
}

func (leadTrade) Base(c *scoreContext) float64 {
	profit, ok := c.where.BestTradeProfit(c.here.ID)
	if !ok || profit <= 0 {
		return 0
	}
	return math.Min(profit*0.1, c.tuning.Scoring.TradeProfitCap)
}

// missionOnly covers kinds that only a mission assigns.
type missionOnly agents.ActivityKind

func (m missionOnly) Kind() agents.ActivityKind { return agents.ActivityKind(m) }
func (missionOnly) Gates(*scoreContext) bool    { return false }
func (missionOnly) Base(*scoreContext) float64  { return 0 }

func metaTasks() []MetaTask {
	return []MetaTask{
		loadVehicle{eva: false},
		loadVehicle{eva: true},
		unloadVehicle{eva: false},
		unloadVehicle{eva: true},
		observeAstronomy{},
		research{},
		cook{},
		eat{},
		sleep{},
		relax{},
		missionOnly(agents.ActivityFieldWork),
		missionOnly(agents.ActivityNegotiateTrade),
		leadFieldStudy{},
		leadTrade{},
	}
}
