// Package social provides settlements: their stores, rover fleet, facilities
// and the economic factors that weigh agent work.
package social

import (
	"fmt"
	"math"

	"github.com/talgya/outpost/internal/cooking"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

// SettlementID is a unique identifier for a settlement.
type SettlementID = uint64

// Factors are the settlement's economic weights on kinds of work. 1 is
// neutral.
type Factors struct {
	Transportation float64 `json:"transportation"`
	Research       float64 `json:"research"`
	Tourism        float64 `json:"tourism"`
}

// NeutralFactors weighs all work equally.
func NeutralFactors() Factors {
	return Factors{Transportation: 1, Research: 1, Tourism: 1}
}

// Settlement is an outpost on the hex grid.
type Settlement struct {
	ID       SettlementID   `json:"id"`
	Name     string         `json:"name"`
	Position world.HexCoord `json:"position"`

	// Facilities
	Garage      bool `json:"garage"`      // Rovers load and unload indoors
	Airlocks    int  `json:"airlocks"`    // 0 means no EVA is possible
	Observatory bool `json:"observatory"` // Astronomy observations
	Inhabitable bool `json:"inhabitable"` // Has living quarters

	Factors Factors `json:"factors"`

	// MaxServings is how many cooked meals the kitchen keeps ready.
	MaxServings int `json:"max_servings"`

	Inventory *resources.Store `json:"-"`
	Rovers    []*vehicle.Rover `json:"-"`
	Kitchen   *cooking.Kitchen `json:"-"`
	Market    *economy.Market  `json:"-"`
}

// NewSettlement creates an inhabitable settlement with an empty store of the
// given general capacity, a kitchen and a market.
func NewSettlement(id SettlementID, name string, pos world.HexCoord, capacity float64) *Settlement {
	store := resources.NewStore(capacity)
	return &Settlement{
		ID:          id,
		Name:        name,
		Position:    pos,
		Garage:      true,
		Airlocks:    2,
		Inhabitable: true,
		Factors:     NeutralFactors(),
		MaxServings: 6,
		Inventory:   store,
		Kitchen:     cooking.NewKitchen(name+" galley", store),
		Market:      economy.NewMarket(id),
	}
}

func (s *Settlement) String() string {
	return fmt.Sprintf("%s (#%d)", s.Name, s.ID)
}

// EVASuits returns the number of suits in storage.
func (s *Settlement) EVASuits() int {
	return int(s.Inventory.AmountStored(resources.EVASuit))
}

// CanEVA reports whether members can go outside from here.
func (s *Settlement) CanEVA() bool {
	return s.Airlocks > 0 && s.EVASuits() > 0
}

// AddRover parks r here.
func (s *Settlement) AddRover(r *vehicle.Rover) {
	r.Park(s.ID)
	r.Position = s.Position
	s.Rovers = append(s.Rovers, r)
}

// RemoveRover takes r out of the fleet, e.g. when it is sold. It reports
// whether r was here.
func (s *Settlement) RemoveRover(r *vehicle.Rover) bool {
	for i, have := range s.Rovers {
		if have == r {
			s.Rovers = append(s.Rovers[:i], s.Rovers[i+1:]...)
			return true
		}
	}
	return false
}

// ParkedRovers returns the rovers currently at the settlement.
func (s *Settlement) ParkedRovers() []*vehicle.Rover {
	var out []*vehicle.Rover
	for _, r := range s.Rovers {
		if r.SettlementID == s.ID {
			out = append(out, r)
		}
	}
	return out
}

// AvailableRover returns the best parked, unreserved rover for p, or nil.
func (s *Settlement) AvailableRover(p vehicle.Purpose) *vehicle.Rover {
	return vehicle.BestAvailable(s.ParkedRovers(), p)
}

// SpareRover returns a parked rover that is neither reserved nor towing, for
// sale. nil if none.
func (s *Settlement) SpareRover(exclude *vehicle.Rover) *vehicle.Rover {
	for _, r := range s.ParkedRovers() {
		if r != exclude && r.Available() && r.Towing() == nil {
			return r
		}
	}
	return nil
}

// RoversNeedingUnload returns parked rovers with cargo and no mission.
func (s *Settlement) RoversNeedingUnload() []*vehicle.Rover {
	var out []*vehicle.Rover
	for _, r := range s.ParkedRovers() {
		if r.Available() && r.Cargo.Total() > 0 {
			out = append(out, r)
		}
	}
	return out
}

// UpdateMarket refreshes market prices from the settlement's stock.
func (s *Settlement) UpdateMarket(members int) {
	s.Market.Update(s.Inventory, members, len(s.ParkedRovers()))
}

// SustainableSols returns how long stored life support lasts for members,
// and the binding resource.
func (s *Settlement) SustainableSols(rates resources.Rates, members int) (resources.Budget, error) {
	stock := make(map[resources.ID]float64, len(resources.LifeSupport))
	for _, id := range resources.LifeSupport {
		stock[id] = s.Inventory.AmountStored(id)
	}
	b, err := resources.SustainableSols(rates, stock, members)
	if err != nil {
		return resources.Budget{}, fmt.Errorf("settlement %d budget: %w", s.ID, err)
	}
	return b, nil
}

// ObservationFactor is the economic weight on astronomy.
func (s *Settlement) ObservationFactor() float64 {
	return (s.Factors.Tourism + s.Factors.Research) / 1.5
}

// Nearest returns the settlement in candidates closest to c on m, skipping
// uninhabitable ones. Ties go to the lower ID.
func Nearest(m *world.Map, c world.HexCoord, candidates []*Settlement) *Settlement {
	var best *Settlement
	bestKm := math.Inf(1)
	for _, s := range candidates {
		if !s.Inhabitable {
			continue
		}
		km := m.DistanceKm(c, s.Position)
		if km < bestKm || (km == bestKm && best != nil && s.ID < best.ID) {
			best, bestKm = s, km
		}
	}
	return best
}
