package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/outpost/internal/world"
)

func TestFetchUsesCacheWithinTTL(t *testing.T) {
	m := NewModel(3, 100)
	c := world.HexCoord{Q: 1, R: 2}

	m.SetTime(10)
	first := m.Fetch(c)
	m.SetTime(90)
	assert.Equal(t, first, m.Fetch(c))

	m.SetTime(5000)
	assert.Equal(t, uint64(5000), m.Fetch(c).SampledAt)
}

func TestOpacityRange(t *testing.T) {
	m := NewModel(11, 0)
	for tick := uint64(0); tick < 20000; tick += 700 {
		m.SetTime(tick)
		for _, c := range []world.HexCoord{{Q: 0, R: 0}, {Q: 5, R: -3}, {Q: -7, R: 2}} {
			op := m.Opacity(c)
			assert.GreaterOrEqual(t, op, 0.1)
			assert.LessOrEqual(t, op, 0.9)
		}
	}
}

func TestTravelPenalty(t *testing.T) {
	tests := []struct {
		name string
		cond Conditions
		want float64
	}{
		{"clear", Conditions{Opacity: 0.2}, 1.0},
		{"hazy", Conditions{Opacity: 0.4}, 1.1},
		{"local storm", Conditions{Opacity: 0.65, IsStorm: true}, 1.5},
		{"regional storm", Conditions{Opacity: 0.85, IsStorm: true}, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TravelPenalty(tt.cond))
		})
	}
}
