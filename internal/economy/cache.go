package economy

import "sort"

// ProfitEntry is a cached trade profit estimate.
type ProfitEntry struct {
	Home       uint64  `json:"home"`
	Remote     uint64  `json:"remote"`
	Profit     float64 `json:"profit"`
	ComputedAt float64 `json:"computed_at"` // msol
}

// ProfitCache holds profit estimates per (home, remote) pair. Entries are
// removed whenever either settlement starts or settles a trade.
type ProfitCache struct {
	entries map[[2]uint64]ProfitEntry
}

// NewProfitCache creates an empty cache.
func NewProfitCache() *ProfitCache {
	return &ProfitCache{entries: make(map[[2]uint64]ProfitEntry)}
}

// Get returns the entry for home trading with remote.
func (c *ProfitCache) Get(home, remote uint64) (ProfitEntry, bool) {
	e, ok := c.entries[[2]uint64{home, remote}]
	return e, ok
}

// Put stores an estimate.
func (c *ProfitCache) Put(home, remote uint64, profit, now float64) {
	c.entries[[2]uint64{home, remote}] = ProfitEntry{
		Home: home, Remote: remote, Profit: profit, ComputedAt: now,
	}
}

// Has reports whether any entry involves settlement id.
func (c *ProfitCache) Has(id uint64) bool {
	for k := range c.entries {
		if k[0] == id || k[1] == id {
			return true
		}
	}
	return false
}

// InvalidateSettlement removes every entry involving id.
func (c *ProfitCache) InvalidateSettlement(id uint64) {
	for k := range c.entries {
		if k[0] == id || k[1] == id {
			delete(c.entries, k)
		}
	}
}

// Entries returns all entries ordered by home then remote.
func (c *ProfitCache) Entries() []ProfitEntry {
	out := make([]ProfitEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Home != out[j].Home {
			return out[i].Home < out[j].Home
		}
		return out[i].Remote < out[j].Remote
	})
	return out
}

// Len returns the number of entries.
func (c *ProfitCache) Len() int {
	return len(c.entries)
}

// TradeTarget is the best known trading partner for a settlement.
type TradeTarget struct {
	Partner    uint64  `json:"partner"`
	Profit     float64 `json:"profit"`
	ComputedAt float64 `json:"computed_at"`
}

// TradeSettlementCache maps a home settlement to its best trading partner.
type TradeSettlementCache struct {
	targets map[uint64]TradeTarget
}

// NewTradeSettlementCache creates an empty cache.
func NewTradeSettlementCache() *TradeSettlementCache {
	return &TradeSettlementCache{targets: make(map[uint64]TradeTarget)}
}

// Get returns home's cached partner.
func (c *TradeSettlementCache) Get(home uint64) (TradeTarget, bool) {
	t, ok := c.targets[home]
	return t, ok
}

// Put records home's best partner.
func (c *TradeSettlementCache) Put(home uint64, t TradeTarget) {
	c.targets[home] = t
}

// Remove drops home's entry.
func (c *TradeSettlementCache) Remove(home uint64) {
	delete(c.targets, home)
}
