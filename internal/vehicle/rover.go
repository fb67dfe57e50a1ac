// Package vehicle models pressurized rovers: capacities, reservation by
// missions, towing and terrain-aware driving.
package vehicle

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/world"
)

var (
	ErrReserved    = errors.New("rover already reserved")
	ErrNotReserved = errors.New("rover not reserved by this mission")
	ErrNoFuel      = errors.New("rover out of fuel")
)

// Purpose is the kind of mission a range is computed for.
type Purpose uint8

const (
	PurposeFieldStudy Purpose = iota
	PurposeTrade
)

// Spec is a rover model.
type Spec struct {
	Model           string
	CrewCapacity    int
	CargoCapacity   float64                  // kg
	Capacities      map[resources.ID]float64 // Per-resource tank/locker capacity, kg
	BaseRange       float64                  // km on a full tank
	AvgSpeed        float64                  // km/h on flat ground
	FuelPerKm       float64                  // kg methane
	TerrainHandling float64                  // 0 poor, 1 excellent
}

// ExplorerSpec is the standard long range crew rover.
func ExplorerSpec() Spec {
	return Spec{
		Model:         "explorer",
		CrewCapacity:  4,
		CargoCapacity: 4000,
		Capacities: map[resources.ID]float64{
			resources.Food:    150,
			resources.Water:   400,
			resources.Oxygen:  150,
			resources.Methane: 500,
		},
		BaseRange:       2000,
		AvgSpeed:        30,
		FuelPerKm:       0.25,
		TerrainHandling: 0.6,
	}
}

// TransportSpec is the light two seat trade rover.
func TransportSpec() Spec {
	return Spec{
		Model:         "transport",
		CrewCapacity:  2,
		CargoCapacity: 6000,
		Capacities: map[resources.ID]float64{
			resources.Food:    100,
			resources.Water:   250,
			resources.Oxygen:  100,
			resources.Methane: 600,
		},
		BaseRange:       2500,
		AvgSpeed:        35,
		FuelPerKm:       0.24,
		TerrainHandling: 0.4,
	}
}

// Rover is a pressurized ground vehicle.
type Rover struct {
	Name string
	Spec

	Cargo       *resources.Store
	LifeSupport *resources.Ledger // Consumables drawn from Cargo

	SettlementID uint64 // 0 while on the surface
	Position     world.HexCoord
	Stuck        bool
	Odometer     float64 // km

	reservedBy string
	towing     *Rover
	towedBy    *Rover
	occupants  map[agents.AgentID]bool

	// Current leg.
	legFrom   world.HexCoord
	legTo     world.HexCoord
	legKm     float64
	legDriven float64
}

// New creates a parked rover.
func New(name string, spec Spec, settlementID uint64, pos world.HexCoord) *Rover {
	cargo := resources.NewStore(spec.CargoCapacity)
	for id, c := range spec.Capacities {
		cargo.SetCapacity(id, c)
	}
	cargo.SetTotalCapacity(spec.CargoCapacity)
	return &Rover{
		Name:         name,
		Spec:         spec,
		Cargo:        cargo,
		LifeSupport:  resources.NewLedger(cargo),
		SettlementID: settlementID,
		Position:     pos,
		occupants:    make(map[agents.AgentID]bool),
	}
}

func (r *Rover) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Model)
}

// Range returns the one way range in km for a purpose. A loaded trade rover
// goes less far on a tank.
func (r *Rover) Range(p Purpose) float64 {
	rng := r.BaseRange
	if p == PurposeTrade {
		rng *= 0.9
	}
	return rng
}

// Capacity returns the rover's capacity for a resource.
func (r *Rover) Capacity(id resources.ID) float64 {
	return r.Cargo.Capacity(id)
}

// Reserve claims the rover for a mission.
func (r *Rover) Reserve(missionID string) error {
	if r.reservedBy != "" && r.reservedBy != missionID {
		return fmt.Errorf("reserve %s: %w", r.Name, ErrReserved)
	}
	r.reservedBy = missionID
	return nil
}

// Release drops a mission's reservation.
func (r *Rover) Release(missionID string) error {
	if r.reservedBy != missionID || missionID == "" {
		return fmt.Errorf("release %s: %w", r.Name, ErrNotReserved)
	}
	r.reservedBy = ""
	return nil
}

// ReservedBy returns the reserving mission ID, or "".
func (r *Rover) ReservedBy() string {
	return r.reservedBy
}

// Available reports whether the rover is parked, unreserved and not in tow.
func (r *Rover) Available() bool {
	return r.reservedBy == "" && r.towedBy == nil && r.SettlementID != 0
}

// Tow hooks other behind r.
func (r *Rover) Tow(other *Rover) error {
	if other == r || other == nil {
		return fmt.Errorf("tow: invalid rover")
	}
	if r.towing != nil || other.towedBy != nil {
		return fmt.Errorf("tow %s: already hitched", other.Name)
	}
	r.towing = other
	other.towedBy = r
	return nil
}

// Untow unhooks and returns the towed rover, if any.
func (r *Rover) Untow() *Rover {
	t := r.towing
	if t == nil {
		return nil
	}
	t.towedBy = nil
	t.Position = r.Position
	t.SettlementID = r.SettlementID
	r.towing = nil
	return t
}

// Towing returns the towed rover, or nil.
func (r *Rover) Towing() *Rover {
	return r.towing
}

// Board puts an agent aboard. Returns false when full.
func (r *Rover) Board(id agents.AgentID) bool {
	if r.occupants[id] {
		return true
	}
	if len(r.occupants) >= r.CrewCapacity {
		return false
	}
	r.occupants[id] = true
	return true
}

// Alight removes an agent.
func (r *Rover) Alight(id agents.AgentID) {
	delete(r.occupants, id)
}

// Aboard reports whether id is inside.
func (r *Rover) Aboard(id agents.AgentID) bool {
	return r.occupants[id]
}

// CrewCount returns the number aboard.
func (r *Rover) CrewCount() int {
	return len(r.occupants)
}

// Depart leaves the current settlement.
func (r *Rover) Depart() {
	r.SettlementID = 0
	if r.towing != nil {
		r.towing.SettlementID = 0
	}
}

// Park arrives at a settlement.
func (r *Rover) Park(settlementID uint64) {
	r.SettlementID = settlementID
	if r.towing != nil {
		r.towing.SettlementID = settlementID
	}
}

// SetDestination starts a new leg from the current position.
func (r *Rover) SetDestination(m *world.Map, to world.HexCoord) {
	r.legFrom = r.Position
	r.legTo = to
	r.legKm = m.DistanceKm(r.Position, to)
	r.legDriven = 0
}

// Destination returns the current leg's end.
func (r *Rover) Destination() world.HexCoord {
	return r.legTo
}

// RemainingKm returns what is left of the current leg.
func (r *Rover) RemainingKm() float64 {
	return math.Max(0, r.legKm-r.legDriven)
}

// Drive advances along the current leg for dt millisols at the given terrain
// factor. It returns the km covered and whether the leg is complete. A stuck
// rover covers nothing and frees itself with probability one half.
func (r *Rover) Drive(m *world.Map, dt, terrain float64, src entropy.Source) (float64, bool, error) {
	if r.RemainingKm() <= 0 {
		r.Position = r.legTo
		return 0, true, nil
	}
	if r.Stuck {
		if entropy.Chance(src, 0.5) {
			r.Stuck = false
		}
		return 0, false, nil
	}

	// Poor handling on bad ground risks getting stuck.
	if risk := (0.5 - terrain) * (1 - r.TerrainHandling) * 0.05; risk > 0 && entropy.Chance(src, risk) {
		r.Stuck = true
		return 0, false, nil
	}

	speed := r.AvgSpeed * terrain
	if r.towing != nil {
		speed *= 0.75
	}
	km := math.Min(resources.RangeKm(dt, speed), r.RemainingKm())
	if km <= 0 {
		return 0, false, nil
	}
	if fuel := km * r.FuelPerKm; !r.LifeSupport.Retrieve(resources.Methane, fuel) {
		return 0, false, fmt.Errorf("drive %s: %w", r.Name, ErrNoFuel)
	}

	r.legDriven += km
	r.Odometer += km
	done := r.RemainingKm() <= 0
	if done {
		r.Position = r.legTo
	} else {
		r.Position = m.Toward(r.legFrom, world.Bearing(r.legFrom, r.legTo), r.legDriven)
	}
	if r.towing != nil {
		r.towing.Position = r.Position
	}
	return km, done, nil
}

// Compare orders rovers for mission use: more cargo capacity first, then
// longer range. It returns a positive number when a is better.
func Compare(a, b *Rover, p Purpose) int {
	switch {
	case a.CargoCapacity > b.CargoCapacity:
		return 1
	case a.CargoCapacity < b.CargoCapacity:
		return -1
	case a.Range(p) > b.Range(p):
		return 1
	case a.Range(p) < b.Range(p):
		return -1
	}
	return 0
}

// BestAvailable returns the best available rover from rovers, or nil.
func BestAvailable(rovers []*Rover, p Purpose) *Rover {
	var best *Rover
	for _, r := range rovers {
		if !r.Available() {
			continue
		}
		if best == nil || Compare(r, best, p) > 0 {
			best = r
		}
	}
	return best
}
