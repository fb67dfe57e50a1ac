package resources

// Withdrawal batching: a cache miss pulls bulkFactor×amount from the backing
// inventory, keeps keepFactor×amount cached and consumes the rest.
const (
	bulkFactor = 5
	keepFactor = 4
)

// Ledger is a per-facility cache of consumables backed by a larger inventory.
// Cached quantities never go negative and never exceed what was withdrawn and
// not yet consumed.
type Ledger struct {
	backing Inventory
	cache   map[ID]float64
}

// NewLedger creates an empty ledger over backing.
func NewLedger(backing Inventory) *Ledger {
	return &Ledger{
		backing: backing,
		cache:   make(map[ID]float64),
	}
}

// Retrieve consumes amount of id, refilling the cache from the backing
// inventory when short. It returns false without changing any state when
// neither the bulk nor the exact withdrawal succeeds.
func (l *Ledger) Retrieve(id ID, amount float64) bool {
	if !validAmount(amount) {
		return false
	}

	cached := l.cache[id]
	if cached >= amount {
		l.cache[id] = cached - amount
		return true
	}

	if l.backing.Retrieve(id, amount*bulkFactor) {
		l.cache[id] = cached + amount*keepFactor
		return true
	}

	return l.backing.Retrieve(id, amount)
}

// Cached returns the cached quantity of id.
func (l *Ledger) Cached(id ID) float64 {
	return l.cache[id]
}

// Available returns the cached plus backing quantity of id.
func (l *Ledger) Available(id ID) float64 {
	return l.cache[id] + l.backing.AmountStored(id)
}

// Release returns cached quantities to the backing inventory. Anything that
// no longer fits stays cached.
func (l *Ledger) Release() {
	for _, id := range SortedIDs(l.cache) {
		overflow := l.backing.Store(id, l.cache[id])
		if overflow > 0 {
			l.cache[id] = overflow
		} else {
			delete(l.cache, id)
		}
	}
}
