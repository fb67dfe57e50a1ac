package resources

import "math"

// Inventory is the backing store a ledger or loader draws from.
type Inventory interface {
	AmountStored(id ID) float64
	Capacity(id ID) float64
	Retrieve(id ID, amount float64) bool
	// Store adds up to the free capacity and returns the amount that did not fit.
	Store(id ID, amount float64) float64
}

// Store is an in-memory inventory with per-resource capacities and a general
// capacity for resources without one. An optional total caps the summed mass
// of bulk resources on top of that.
type Store struct {
	amounts    map[ID]float64
	capacities map[ID]float64
	general    float64
	total      float64 // 0 for no cap
}

// NewStore creates an empty store with the given general capacity.
func NewStore(general float64) *Store {
	return &Store{
		amounts:    make(map[ID]float64),
		capacities: make(map[ID]float64),
		general:    general,
	}
}

// SetCapacity fixes the capacity for one resource.
func (s *Store) SetCapacity(id ID, capacity float64) {
	if capacity < 0 {
		capacity = 0
	}
	s.capacities[id] = capacity
}

// SetTotalCapacity caps the summed mass of bulk resources. Zero removes the cap.
func (s *Store) SetTotalCapacity(kg float64) {
	s.total = math.Max(kg, 0)
}

// AmountStored returns the stored quantity.
func (s *Store) AmountStored(id ID) float64 {
	return s.amounts[id]
}

// Capacity returns the capacity for a resource, shrunk to what the total
// cap still leaves room for.
func (s *Store) Capacity(id ID) float64 {
	c, ok := s.capacities[id]
	if !ok {
		c = s.general
	}
	if s.total > 0 && id.Category() == CategoryAmount {
		room := math.Max(s.total-s.Total(), 0)
		c = math.Min(c, s.amounts[id]+room)
	}
	return c
}

// Retrieve removes amount if fully available. Partial retrievals never happen.
func (s *Store) Retrieve(id ID, amount float64) bool {
	if !validAmount(amount) {
		return false
	}
	stored := s.amounts[id]
	if stored < amount {
		return false
	}
	s.amounts[id] = stored - amount
	return true
}

// Store adds amount up to capacity and returns the overflow.
func (s *Store) Store(id ID, amount float64) float64 {
	if !validAmount(amount) {
		return 0
	}
	free := s.Capacity(id) - s.amounts[id]
	if free <= 0 {
		return amount
	}
	if amount > free {
		s.amounts[id] += free
		return amount - free
	}
	s.amounts[id] += amount
	return 0
}

// Snapshot returns a copy of all non-zero amounts.
func (s *Store) Snapshot() map[ID]float64 {
	out := make(map[ID]float64, len(s.amounts))
	for id, v := range s.amounts {
		if v > 0 {
			out[id] = v
		}
	}
	return out
}

// Total returns the summed mass of bulk resources.
func (s *Store) Total() float64 {
	total := 0.0
	for id, v := range s.amounts {
		if id.Category() == CategoryAmount {
			total += v
		}
	}
	return total
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

// Transfer moves up to amount of id from one inventory to another, bounded by
// what is stored and what fits. It returns the amount moved.
func Transfer(from, to Inventory, id ID, amount float64) float64 {
	if !validAmount(amount) {
		return 0
	}
	free := to.Capacity(id) - to.AmountStored(id)
	move := math.Min(amount, math.Min(from.AmountStored(id), free))
	if move <= 0 || !from.Retrieve(id, move) {
		return 0
	}
	if overflow := to.Store(id, move); overflow > 0 {
		from.Store(id, overflow)
		move -= overflow
	}
	return move
}

// Drain moves up to kg of everything in from into to, in ID order, and
// returns the mass moved.
func Drain(from *Store, to Inventory, kg float64) float64 {
	moved := 0.0
	for _, id := range SortedIDs(from.amounts) {
		if moved >= kg {
			break
		}
		moved += Transfer(from, to, id, kg-moved)
	}
	return moved
}
