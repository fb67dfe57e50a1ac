// Package resources provides consumable resource identifiers, in-memory
// inventories, the batching ledger and life-support time budgets.
package resources

import (
	"fmt"
	"sort"
)

// ID identifies a stored resource or tradable item.
type ID uint16

const (
	Food       ID = iota // Preserved food, kg
	Water                // kg
	Oxygen               // kg
	Methane              // Rover fuel, kg
	FoodWaste            // kg
	Ice                  // kg
	Regolith             // kg
	RockSample           // Field study samples, kg
	TableSalt            // kg
	SoybeanOil           // kg
	WheatFlour           // kg
	Potato               // kg
	Soybean              // kg
	Rice                 // kg
	Lettuce              // kg
	Spirulina            // kg
	EVASuit              // Item count
	RoverUnit            // A whole rover, traded by towing
)

// NumResources is the number of resource IDs.
const NumResources = 18

// Category distinguishes how a resource is stored and moved.
type Category uint8

const (
	CategoryAmount  Category = iota // Bulk mass
	CategoryItem                    // Discrete equipment
	CategoryVehicle                 // Moved by towing, never stored
)

var names = [NumResources]string{
	"food", "water", "oxygen", "methane", "food waste", "ice", "regolith",
	"rock sample", "table salt", "soybean oil", "wheat flour", "potato",
	"soybean", "rice", "lettuce", "spirulina", "eva suit", "rover",
}

// String returns the resource name.
func (id ID) String() string {
	if int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("resource(%d)", id)
}

// Category returns how the resource is stored.
func (id ID) Category() Category {
	switch id {
	case EVASuit:
		return CategoryItem
	case RoverUnit:
		return CategoryVehicle
	default:
		return CategoryAmount
	}
}

// evaSuitMass is the cargo mass of one suit, kg.
const evaSuitMass = 45

// UnitMass returns the cargo mass of one unit, kg. Towed vehicles take none.
func (id ID) UnitMass() float64 {
	switch id.Category() {
	case CategoryItem:
		return evaSuitMass
	case CategoryVehicle:
		return 0
	default:
		return 1
	}
}

// Parse looks up a resource by name.
func Parse(name string) (ID, bool) {
	for i, n := range names {
		if n == name {
			return ID(i), true
		}
	}
	return 0, false
}

// LifeSupport lists the consumables that bound mission duration.
var LifeSupport = []ID{Food, Water, Oxygen}

// Rates maps a consumable to its usage per member per sol.
type Rates map[ID]float64

// SortedIDs returns the keys of m in ascending order.
func SortedIDs[V any](m map[ID]V) []ID {
	ids := make([]ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
