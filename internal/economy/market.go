package economy

import (
	"math"

	"github.com/talgya/outpost/internal/resources"
)

// Price bounds relative to the base price.
const (
	PriceFloor   = 0.1
	PriceCeiling = 10.0
)

// MarketEntry is the supply/demand state for one good in one settlement.
type MarketEntry struct {
	Good      resources.ID `json:"good"`
	Supply    float64      `json:"supply"`
	Demand    float64      `json:"demand"`
	Price     float64      `json:"price"`
	BasePrice float64      `json:"base_price"`
}

// ResolvePrice sets the price from supply and demand pressure.
func (e *MarketEntry) ResolvePrice() float64 {
	supply := math.Max(e.Supply, 1)
	demand := math.Max(e.Demand, 1)

	price := e.BasePrice * demand / supply
	price = math.Max(price, e.BasePrice*PriceFloor)
	price = math.Min(price, e.BasePrice*PriceCeiling)
	e.Price = price
	return price
}

// Surplus returns supply above demand, or 0.
func (e *MarketEntry) Surplus() float64 {
	return math.Max(0, e.Supply-e.Demand)
}

// Market holds the trade state of one settlement.
type Market struct {
	SettlementID uint64                        `json:"settlement_id"`
	Entries      map[resources.ID]*MarketEntry `json:"entries"`
}

// NewMarket creates a market with every traded good at base price.
func NewMarket(settlementID uint64) *Market {
	entries := make(map[resources.ID]*MarketEntry, len(basePrices))
	for good, base := range basePrices {
		entries[good] = &MarketEntry{
			Good:      good,
			Supply:    1,
			Demand:    1,
			Price:     base,
			BasePrice: base,
		}
	}
	return &Market{SettlementID: settlementID, Entries: entries}
}

// demandPerMember is what a settlement wants on hand per resident.
var demandPerMember = map[resources.ID]float64{
	resources.Food:       20,
	resources.Water:      50,
	resources.Oxygen:     15,
	resources.Methane:    60,
	resources.Ice:        40,
	resources.Regolith:   10,
	resources.RockSample: 2,
	resources.TableSalt:  1,
	resources.SoybeanOil: 1,
	resources.WheatFlour: 5,
	resources.Potato:     5,
	resources.Soybean:    5,
	resources.Rice:       5,
	resources.Lettuce:    2,
	resources.Spirulina:  2,
	resources.EVASuit:    1,
	resources.RoverUnit:  0.25,
}

// Update recomputes supply, demand and prices from a settlement's stock.
func (m *Market) Update(inv resources.Inventory, members, rovers int) {
	for good, e := range m.Entries {
		if good == resources.RoverUnit {
			e.Supply = float64(rovers)
		} else {
			e.Supply = inv.AmountStored(good)
		}
		e.Demand = demandPerMember[good] * float64(max(members, 1))
		e.ResolvePrice()
	}
}

// Price returns the current price of a good, or 0 if it is not traded here.
func (m *Market) Price(good resources.ID) float64 {
	if e, ok := m.Entries[good]; ok {
		return e.Price
	}
	return 0
}
