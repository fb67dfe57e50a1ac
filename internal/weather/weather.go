// Package weather models Martian atmospheric dust. Opacity attenuates solar
// irradiance and dust storms slow surface travel.
package weather

import (
	"sync"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/outpost/internal/world"
)

// StormOpacity is the opacity at and above which conditions count as a storm.
const StormOpacity = 0.6

// Conditions holds sampled dust conditions for one hex.
type Conditions struct {
	Opacity     float64 `json:"opacity"` // 0 clear, 1 opaque
	IsStorm     bool    `json:"is_storm"`
	Description string  `json:"description"`
	SampledAt   uint64  `json:"sampled_at"` // tick
}

// Model samples a noise driven dust field and caches per-hex conditions for
// cacheTTL ticks. Safe for concurrent readers.
type Model struct {
	noise    opensimplex.Noise
	cacheTTL uint64

	mu     sync.Mutex
	tick   uint64
	cached map[world.HexCoord]Conditions
}

// NewModel creates a dust model. A zero ttl samples on every call.
func NewModel(seed int64, ttl uint64) *Model {
	return &Model{
		noise:    opensimplex.NewNormalized(seed + 600),
		cacheTTL: ttl,
		cached:   make(map[world.HexCoord]Conditions),
	}
}

// SetTime moves the model clock to tick.
func (m *Model) SetTime(tick uint64) {
	m.mu.Lock()
	m.tick = tick
	m.mu.Unlock()
}

// Fetch returns the conditions at c, using the cache if fresh.
func (m *Model) Fetch(c world.HexCoord) Conditions {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cond, ok := m.cached[c]; ok && m.tick-cond.SampledAt < m.cacheTTL && m.tick >= cond.SampledAt {
		return cond
	}

	cond := m.sample(c, m.tick)
	m.cached[c] = cond
	return cond
}

// Opacity implements world.DustSource.
func (m *Model) Opacity(c world.HexCoord) float64 {
	return m.Fetch(c).Opacity
}

func (m *Model) sample(c world.HexCoord, tick uint64) Conditions {
	x := float64(c.Q) + float64(c.R)*0.5
	y := float64(c.R) * 0.866
	// Storms evolve over a few sols.
	t := float64(tick) / 1000

	v := m.noise.Eval3(x*0.04, y*0.04, t*0.2)
	opacity := 0.1 + 0.8*v*v

	cond := Conditions{
		Opacity:   opacity,
		IsStorm:   opacity >= StormOpacity,
		SampledAt: tick,
	}
	cond.Description = describe(opacity)
	return cond
}

func describe(opacity float64) string {
	switch {
	case opacity >= 0.8:
		return "regional dust storm"
	case opacity >= StormOpacity:
		return "local dust storm"
	case opacity >= 0.35:
		return "hazy"
	default:
		return "clear"
	}
}

// TravelPenalty returns the multiplier on travel time for conditions.
func TravelPenalty(c Conditions) float64 {
	switch {
	case c.Opacity >= 0.8:
		return 2.0
	case c.IsStorm:
		return 1.5
	case c.Opacity >= 0.35:
		return 1.1
	default:
		return 1.0
	}
}
