package economy

// DefaultCreditLimit caps what one settlement may owe another.
const DefaultCreditLimit = 10000.0

type pair struct{ a, b uint64 }

func orderedPair(x, y uint64) (pair, float64) {
	if x <= y {
		return pair{x, y}, 1
	}
	return pair{y, x}, -1
}

// CreditManager tracks the running trade balance between settlement pairs.
// Credit(home, remote) > 0 means remote owes home.
type CreditManager struct {
	Limit   float64
	balance map[pair]float64
}

// NewCreditManager creates a manager with the given limit.
func NewCreditManager(limit float64) *CreditManager {
	if limit <= 0 {
		limit = DefaultCreditLimit
	}
	return &CreditManager{Limit: limit, balance: make(map[pair]float64)}
}

// Credit returns home's credit with remote.
func (c *CreditManager) Credit(home, remote uint64) float64 {
	p, sign := orderedPair(home, remote)
	return c.balance[p] * sign
}

// Adjust adds delta to home's credit with remote.
func (c *CreditManager) Adjust(home, remote uint64, delta float64) {
	p, sign := orderedPair(home, remote)
	c.balance[p] += delta * sign
}

// CanBuy reports whether home may take goods from remote.
func (c *CreditManager) CanBuy(home, remote uint64) bool {
	return c.Credit(home, remote) > -c.Limit
}

// CanSell reports whether home may ship goods to remote.
func (c *CreditManager) CanSell(home, remote uint64) bool {
	return c.Credit(home, remote) < c.Limit
}
