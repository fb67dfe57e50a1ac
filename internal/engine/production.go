// Life support production and consumption at the outposts. Plants run
// hourly; the crew's water and oxygen draw is settled once per sol.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
)

// Plant output per resident human per sol, kg.
const (
	iceWaterPerHuman  = 1.3  // Scaled by the hex's ice, see waterYield
	oxygenPerHuman    = 0.95 // Electrolysis
	waterPerOxygen    = 1.125
	methanePerSol     = 12.0 // Sabatier reactor, per settlement
	cropsPerHuman     = 0.9
	specialtyShare    = 0.6 // Of crop output going to the settlement's specialty
	minWaterYieldFrac = 0.5
)

// greenhouseCrops are grown at every outpost; each settlement specializes
// in one of them so that markets differ.
var greenhouseCrops = []resources.ID{
	resources.Potato, resources.Rice, resources.Soybean, resources.Lettuce, resources.WheatFlour,
}

// Specialty returns the crop a settlement grows most of.
func Specialty(st *social.Settlement) resources.ID {
	return greenhouseCrops[int(st.ID)%len(greenhouseCrops)]
}

// runPlants produces solFrac of a sol's output at every settlement.
func (s *Simulation) runPlants(solFrac float64) {
	yield := greenhouseYield(s.CurrentSeason)
	for _, st := range s.Settlements {
		humans := float64(s.humansIn(st.ID))
		if humans == 0 {
			continue
		}
		inv := st.Inventory

		inv.Store(resources.Water, humans*iceWaterPerHuman*s.waterYield(st)*solFrac)

		o2 := humans * oxygenPerHuman * solFrac
		if inv.Retrieve(resources.Water, o2*waterPerOxygen) {
			inv.Store(resources.Oxygen, o2)
		}
		inv.Store(resources.Methane, methanePerSol*solFrac)

		crops := humans * cropsPerHuman * yield * solFrac
		specialty := Specialty(st)
		rest := crops * (1 - specialtyShare) / float64(len(greenhouseCrops)-1)
		for _, crop := range greenhouseCrops {
			if crop == specialty {
				inv.Store(crop, crops*specialtyShare)
			} else {
				inv.Store(crop, rest)
			}
		}
	}
}

// waterYield scales ice mining by the ice in the settlement's hex.
func (s *Simulation) waterYield(st *social.Settlement) float64 {
	hex := s.Map.Get(st.Position)
	if hex == nil {
		return 1
	}
	return minWaterYieldFrac + hex.Ice
}

// consumeLifeSupport draws a sol of water and oxygen for every human inside
// a settlement. Food is eaten through meals.
func (s *Simulation) consumeLifeSupport(tick uint64) {
	rates := s.Tuning.LifeSupport.Rates()
	for _, st := range s.Settlements {
		humans := float64(s.humansIn(st.ID))
		if humans == 0 {
			continue
		}
		for _, id := range []resources.ID{resources.Water, resources.Oxygen} {
			need := rates[id] * humans
			if st.Inventory.Retrieve(id, need) {
				continue
			}
			have := st.Inventory.AmountStored(id)
			st.Inventory.Retrieve(id, have)
			slog.Warn("life support shortfall", "settlement", st.Name, "resource", id.String(), "need", need, "had", have)
			s.EmitEvent(Event{
				Tick:        tick,
				Description: fmt.Sprintf("%s ran short of %s (%.1f of %.1f kg)", st.Name, id, have, need),
				Category:    "supply",
			})
		}
	}
}

// expireMeals preserves or discards meals past their shelf life.
func (s *Simulation) expireMeals(tick uint64) {
	now := float64(tick)
	for _, st := range s.Settlements {
		preserved, discarded := st.Kitchen.ExpireMeals(now, s.rng)
		if preserved+discarded > 0 {
			slog.Debug("meals expired", "settlement", st.Name, "preserved", preserved, "discarded", discarded)
		}
	}
}
