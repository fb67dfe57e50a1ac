package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// fixedSource replays a fixed float and int sequence.
type fixedSource struct {
	floats []float64
	ints   []int
}

func (f *fixedSource) Float64() float64 {
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func (f *fixedSource) Intn(n int) int {
	v := f.ints[0] % n
	f.ints = f.ints[1:]
	return v
}

func TestRandomInt(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.IntRange(-100, 100).Draw(t, "lo")
		hi := rapid.IntRange(-100, 100).Draw(t, "hi")
		src := New(rapid.Int64().Draw(t, "seed"))

		v := RandomInt(src, lo, hi)
		if lo > hi {
			lo, hi = hi, lo
		}
		if v < lo || v > hi {
			t.Fatalf("RandomInt(%d, %d) = %d out of range", lo, hi, v)
		}
	})
}

func TestRandomDouble(t *testing.T) {
	assert.Equal(t, 0.0, RandomDouble(New(1), 0))
	assert.Equal(t, 0.0, RandomDouble(New(1), -3))
	assert.InDelta(t, 2.5, RandomDouble(&fixedSource{floats: []float64{0.25}}, 10), 1e-9)
}

func TestChance(t *testing.T) {
	src := &fixedSource{floats: []float64{0.4, 0.6}}
	assert.True(t, Chance(src, 0.5))
	assert.False(t, Chance(src, 0.5))
	assert.False(t, Chance(New(1), 0))
	assert.True(t, Chance(New(1), 1))
}

func TestWeightedPick(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		draw    float64
		want    int
	}{
		{"first bucket", []float64{2, 1}, 0.1, 0},
		{"second bucket", []float64{2, 1}, 0.9, 1},
		{"skips non-positive", []float64{0, -1, 3}, 0.5, 2},
		{"none positive", []float64{0, 0}, 0.5, -1},
		{"empty", nil, 0.5, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fixedSource{floats: []float64{tt.draw}}
			assert.Equal(t, tt.want, WeightedPick(src, tt.weights))
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive(7, 300)
	b := Derive(7, 300)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}
