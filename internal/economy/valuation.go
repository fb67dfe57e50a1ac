package economy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/vehicle"
)

// ErrUnknownSettlement is returned when a settlement has no market.
var ErrUnknownSettlement = errors.New("unknown settlement")

// sellerShare is the fraction of market price a seller realizes.
const sellerShare = 0.9

// Valuation prices trade loads and missions.
type Valuation interface {
	// LoadValue values load at a settlement. buy is true when the settlement
	// receives the goods.
	LoadValue(load Load, settlementID uint64, buy bool) (float64, error)
	EstimatedMissionCost(settlementID uint64, rover *vehicle.Rover, distanceKm float64) (float64, error)
	// DesiredLoad is what from would ship to to within capacity kg.
	DesiredLoad(from, to uint64, capacity float64) (Load, error)
}

// MarketValuation values loads from settlement markets.
type MarketValuation struct {
	Markets map[uint64]*Market
	// Per person per sol life support rates for mission costing.
	Rates resources.Rates
}

// NewMarketValuation creates an empty valuation.
func NewMarketValuation(rates resources.Rates) *MarketValuation {
	return &MarketValuation{
		Markets: make(map[uint64]*Market),
		Rates:   rates,
	}
}

func (v *MarketValuation) market(id uint64) (*Market, error) {
	m, ok := v.Markets[id]
	if !ok {
		return nil, fmt.Errorf("market %d: %w", id, ErrUnknownSettlement)
	}
	return m, nil
}

// LoadValue implements Valuation.
func (v *MarketValuation) LoadValue(load Load, settlementID uint64, buy bool) (float64, error) {
	if err := load.Validate(); err != nil {
		return 0, err
	}
	m, err := v.market(settlementID)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, good := range resources.SortedIDs(load) {
		total += float64(load[good]) * m.Price(good)
	}
	if !buy {
		total *= sellerShare
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("load value at %d: not finite", settlementID)
	}
	return total, nil
}

// EstimatedMissionCost implements Valuation: fuel plus crew life support
// for a drive of distanceKm, priced at the settlement.
func (v *MarketValuation) EstimatedMissionCost(settlementID uint64, rover *vehicle.Rover, distanceKm float64) (float64, error) {
	if rover == nil {
		return 0, errors.New("mission cost: no rover")
	}
	m, err := v.market(settlementID)
	if err != nil {
		return 0, err
	}

	cost := distanceKm * rover.FuelPerKm * m.Price(resources.Methane)

	msol := resources.TravelMillisols(distanceKm, rover.AvgSpeed)
	needed := resources.ResourcesNeeded(msol, rover.CrewCapacity, v.Rates, 1, false)
	for _, id := range resources.SortedIDs(needed) {
		cost += needed[id] * m.Price(id)
	}
	return cost, nil
}

// DesiredLoad implements Valuation: goods from has in surplus that fetch a
// better price at to, most profitable first, within capacity.
func (v *MarketValuation) DesiredLoad(from, to uint64, capacity float64) (Load, error) {
	src, err := v.market(from)
	if err != nil {
		return nil, err
	}
	dst, err := v.market(to)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		good   resources.ID
		margin float64
	}
	var cands []candidate
	for _, good := range TradedGoods() {
		se, de := src.Entries[good], dst.Entries[good]
		if se == nil || de == nil || se.Surplus() < 1 {
			continue
		}
		margin := de.Price*sellerShare - se.Price
		if margin > 0 {
			cands = append(cands, candidate{good, margin})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].margin > cands[j].margin })

	load := make(Load)
	free := capacity
	for _, c := range cands {
		surplus := src.Entries[c.good].Surplus()
		switch c.good.Category() {
		case resources.CategoryVehicle:
			// A towed rover does not take cargo space.
			load[c.good] = min(int(surplus), 1)
		default:
			mass := c.good.UnitMass()
			q := int(math.Min(surplus, math.Floor(free/mass)))
			if q <= 0 {
				continue
			}
			load[c.good] = q
			free -= float64(q) * mass
		}
	}
	for id, q := range load {
		if q <= 0 {
			delete(load, id)
		}
	}
	return load, nil
}
