package resources

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLedgerRetrieve(t *testing.T) {
	t.Run("cache miss withdraws five and keeps four", func(t *testing.T) {
		store := NewStore(1000)
		store.Store(Food, 100)
		l := NewLedger(store)

		require.True(t, l.Retrieve(Food, 2))
		assert.InDelta(t, 90, store.AmountStored(Food), 1e-9)
		assert.InDelta(t, 8, l.Cached(Food), 1e-9)
	})

	t.Run("cache hit leaves backing untouched", func(t *testing.T) {
		store := NewStore(1000)
		store.Store(Food, 100)
		l := NewLedger(store)
		require.True(t, l.Retrieve(Food, 2))

		require.True(t, l.Retrieve(Food, 3))
		assert.InDelta(t, 90, store.AmountStored(Food), 1e-9)
		assert.InDelta(t, 5, l.Cached(Food), 1e-9)
	})

	t.Run("bulk failure falls back to exact amount", func(t *testing.T) {
		store := NewStore(1000)
		store.Store(Water, 4)
		l := NewLedger(store)

		require.True(t, l.Retrieve(Water, 3))
		assert.InDelta(t, 1, store.AmountStored(Water), 1e-9)
		assert.Zero(t, l.Cached(Water))
	})

	t.Run("existing cache is kept on refill", func(t *testing.T) {
		store := NewStore(1000)
		store.Store(Oxygen, 100)
		l := NewLedger(store)
		require.True(t, l.Retrieve(Oxygen, 1)) // cache 4
		require.True(t, l.Retrieve(Oxygen, 5)) // miss: withdraw 25, cache 4+20

		assert.InDelta(t, 24, l.Cached(Oxygen), 1e-9)
		assert.InDelta(t, 70, store.AmountStored(Oxygen), 1e-9)
	})

	t.Run("shortfall fails cleanly", func(t *testing.T) {
		store := NewStore(1000)
		store.Store(Food, 2)
		l := NewLedger(store)

		assert.False(t, l.Retrieve(Food, 3))
		assert.InDelta(t, 2, store.AmountStored(Food), 1e-9)
		assert.Zero(t, l.Cached(Food))
	})

	t.Run("invalid amounts are rejected", func(t *testing.T) {
		store := NewStore(1000)
		store.Store(Food, 10)
		l := NewLedger(store)

		for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			assert.False(t, l.Retrieve(Food, amount))
		}
		assert.InDelta(t, 10, store.AmountStored(Food), 1e-9)
	})
}

func TestLedgerNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Float64Range(0, 500).Draw(t, "initial")
		store := NewStore(1000)
		store.Store(Food, initial)
		l := NewLedger(store)

		consumed := 0.0
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			amount := rapid.Float64Range(0.01, 40).Draw(t, "amount")
			cacheBefore := l.Cached(Food)
			backingBefore := store.AmountStored(Food)

			ok := l.Retrieve(Food, amount)
			if ok {
				consumed += amount
			} else if l.Cached(Food) != cacheBefore || store.AmountStored(Food) != backingBefore {
				t.Fatalf("failed retrieve changed state")
			}

			if l.Cached(Food) < 0 {
				t.Fatalf("cache went negative: %v", l.Cached(Food))
			}
			withdrawn := initial - store.AmountStored(Food)
			if l.Cached(Food) > withdrawn-consumed+1e-6 {
				t.Fatalf("cache %v exceeds withdrawn %v minus consumed %v", l.Cached(Food), withdrawn, consumed)
			}
		}
	})
}

func TestLedgerRelease(t *testing.T) {
	store := NewStore(1000)
	store.Store(Food, 50)
	l := NewLedger(store)
	require.True(t, l.Retrieve(Food, 5))

	l.Release()
	assert.Zero(t, l.Cached(Food))
	assert.InDelta(t, 45, store.AmountStored(Food), 1e-9)
	assert.InDelta(t, 45, l.Available(Food), 1e-9)
}

func TestStoreCapacity(t *testing.T) {
	store := NewStore(10)
	store.SetCapacity(Water, 3)

	assert.InDelta(t, 2, store.Store(Water, 5), 1e-9)
	assert.InDelta(t, 3, store.AmountStored(Water), 1e-9)
	assert.InDelta(t, 0, store.Store(Food, 10), 1e-9)
	assert.InDelta(t, 1, store.Store(Food, 1), 1e-9)
	assert.InDelta(t, 13, store.Total(), 1e-9)
}

func TestStoreTotalCapacity(t *testing.T) {
	store := NewStore(100)
	store.SetCapacity(Water, 8)
	store.SetTotalCapacity(10)

	assert.Zero(t, store.Store(Food, 6))
	assert.InDelta(t, 4, store.Capacity(Water), 1e-9)
	assert.InDelta(t, 2, store.Store(Water, 6), 1e-9)
	assert.InDelta(t, 10, store.Total(), 1e-9)
	assert.InDelta(t, 5, store.Store(Ice, 5), 1e-9)

	// Items do not count against the bulk cap.
	assert.Zero(t, store.Store(EVASuit, 2))

	require.True(t, store.Retrieve(Food, 6))
	assert.InDelta(t, 8, store.Capacity(Water), 1e-9)

	from := NewStore(100)
	from.Store(Ice, 50)
	assert.InDelta(t, 6, Transfer(from, store, Ice, 50), 1e-9)
	assert.InDelta(t, 44, from.AmountStored(Ice), 1e-9)
}

func TestStoreTotalNeverExceeded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.Float64Range(1, 500).Draw(t, "total")
		store := NewStore(1000)
		store.SetTotalCapacity(total)
		ids := []ID{Food, Water, Oxygen, Ice, Regolith}
		for i := range rapid.IntRange(1, 40).Draw(t, "ops") {
			id := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "id")]
			amount := rapid.Float64Range(0.1, 200).Draw(t, "amount")
			if rapid.Bool().Draw(t, "store") {
				overflow := store.Store(id, amount)
				if overflow < 0 || overflow > amount {
					t.Fatalf("op %d: overflow %v out of range for %v", i, overflow, amount)
				}
			} else {
				store.Retrieve(id, math.Min(amount, store.AmountStored(id)))
			}
			if store.Total() > total+1e-9 {
				t.Fatalf("op %d: total %v over cap %v", i, store.Total(), total)
			}
		}
	})
}

func TestTransferAndDrain(t *testing.T) {
	from := NewStore(100)
	to := NewStore(100)
	to.SetCapacity(Water, 4)
	from.Store(Food, 10)
	from.Store(Water, 10)

	assert.InDelta(t, 4, Transfer(from, to, Water, 6), 1e-9)
	assert.InDelta(t, 6, from.AmountStored(Water), 1e-9)
	assert.Zero(t, Transfer(from, to, Oxygen, 1))
	assert.Zero(t, Transfer(from, to, Food, -1))

	moved := Drain(from, to, 8)
	assert.InDelta(t, 8, moved, 1e-9)
	assert.InDelta(t, 2, from.AmountStored(Food), 1e-9)
	assert.InDelta(t, 6, from.AmountStored(Water), 1e-9)
}
