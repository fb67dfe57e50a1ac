package tasks

import "github.com/talgya/outpost/internal/agents"

// loadVehicle scores loading embarking rovers, in the garage or by EVA.
type loadVehicle struct {
	eva bool
}

func (m loadVehicle) Kind() agents.ActivityKind {
	if m.eva {
		return agents.ActivityLoadVehicleEVA
	}
	return agents.ActivityLoadVehicleGarage
}

func (m loadVehicle) Gates(c *scoreContext) bool {
	if c.here == nil {
		return false
	}
	// Garage settlements load indoors; the rest need an EVA.
	return c.here.Garage != m.eva
}

func (m loadVehicle) Base(c *scoreContext) float64 {
	d := c.where.LoadingDemand(c.here.ID)
	if d.Missions == 0 {
		return 0
	}
	result := c.tuning.Scoring.UnitWeight * float64(d.Missions)
	if m.eva && d.SuitsWanted {
		suits := c.here.EVASuits()
		if suits == 0 {
			return 0
		}
		if suits >= 2 {
			result += c.tuning.Scoring.UnitWeight
		}
	}
	return result
}

// unloadVehicle scores emptying rovers back from a mission.
type unloadVehicle struct {
	eva bool
}

func (m unloadVehicle) Kind() agents.ActivityKind {
	if m.eva {
		return agents.ActivityUnloadVehicleEVA
	}
	return agents.ActivityUnloadVehicleGarage
}

func (m unloadVehicle) Gates(c *scoreContext) bool {
	if c.here == nil || c.here.Garage == m.eva {
		return false
	}
	return !m.eva || c.daylight()
}

func (m unloadVehicle) Base(c *scoreContext) float64 {
	return c.tuning.Scoring.UnitWeight * float64(len(c.here.RoversNeedingUnload()))
}
