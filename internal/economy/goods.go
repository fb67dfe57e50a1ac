// Package economy provides trade loads, settlement markets, valuation,
// inter-settlement credit and the trade profit caches.
package economy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/outpost/internal/resources"
)

// LoadRole says which side of a trade a load is on.
type LoadRole uint8

const (
	RoleSell LoadRole = iota
	RoleBuy
)

func (r LoadRole) String() string {
	if r == RoleBuy {
		return "buy"
	}
	return "sell"
}

// Load maps a tradable good to a whole quantity (kg or items).
type Load map[resources.ID]int

// Validate rejects negative quantities.
func (l Load) Validate() error {
	for _, id := range resources.SortedIDs(l) {
		if l[id] < 0 {
			return fmt.Errorf("load: negative quantity %d of %s", l[id], id)
		}
	}
	return nil
}

// Empty reports whether the load holds nothing.
func (l Load) Empty() bool {
	for _, q := range l {
		if q > 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy.
func (l Load) Clone() Load {
	out := make(Load, len(l))
	for id, q := range l {
		out[id] = q
	}
	return out
}

// Vehicles returns the number of whole rovers in the load.
func (l Load) Vehicles() int {
	return l[resources.RoverUnit]
}

// Mass returns the summed bulk mass, excluding items and vehicles.
func (l Load) Mass() float64 {
	total := 0.0
	for id, q := range l {
		if id.Category() == resources.CategoryAmount {
			total += float64(q)
		}
	}
	return total
}

func (l Load) String() string {
	if l.Empty() {
		return "(empty)"
	}
	var parts []string
	for _, id := range resources.SortedIDs(l) {
		if l[id] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", id, l[id]))
		}
	}
	return strings.Join(parts, ", ")
}

// basePrices holds the production cost floor of each tradable good.
var basePrices = map[resources.ID]float64{
	resources.Food:       5,
	resources.Water:      1,
	resources.Oxygen:     2,
	resources.Methane:    1.5,
	resources.Ice:        0.5,
	resources.Regolith:   0.05,
	resources.RockSample: 20,
	resources.TableSalt:  3,
	resources.SoybeanOil: 8,
	resources.WheatFlour: 4,
	resources.Potato:     3,
	resources.Soybean:    3,
	resources.Rice:       3,
	resources.Lettuce:    6,
	resources.Spirulina:  10,
	resources.EVASuit:    500,
	resources.RoverUnit:  20000,
}

// BasePrice returns the base price of a good, and false if it is not traded.
func BasePrice(id resources.ID) (float64, bool) {
	p, ok := basePrices[id]
	return p, ok
}

// TradedGoods returns the tradable goods in ID order.
func TradedGoods() []resources.ID {
	ids := make([]resources.ID, 0, len(basePrices))
	for id := range basePrices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
