package agents

import "math"

// Condition thresholds.
const (
	HungryAt        = 250.0  // Hunger at which an agent wants a meal
	TiredAt         = 500.0  // Fatigue at which sleep starts to score
	ExhaustedAt     = 1000.0 // Fatigue above which exertion is refused
	StressedAt      = 50.0
	StarvingAt      = 500.0 // Hunger above which exertion is refused
	MaxStress       = 100.0
	EmergencyHurtAt = 0.75 // Ailment at which a member needs medical care
)

// Condition tracks physical and mental state. Fatigue and hunger count
// millisols since the last sleep or meal; stress runs 0–100; ailment runs
// 0 (healthy) to 1 (incapacitated).
type Condition struct {
	Fatigue float64 `json:"fatigue"`
	Stress  float64 `json:"stress"`
	Hunger  float64 `json:"hunger"`
	Thirst  float64 `json:"thirst"`
	Ailment float64 `json:"ailment"`
}

// Decay advances the condition by dt millisols of waking time.
func (c *Condition) Decay(dt float64, exertion bool) {
	if dt <= 0 {
		return
	}
	rate := 0.6
	if exertion {
		rate = 0.9
	}
	c.Fatigue += rate * dt
	c.Hunger += 0.3 * dt
	c.Thirst += 0.4 * dt

	switch {
	case exertion || c.Hunger > StarvingAt:
		c.Stress += 0.01 * dt
	default:
		c.Stress -= 0.005 * dt
	}
	c.clamp()
}

// Sleep recovers fatigue.
func (c *Condition) Sleep(dt float64) {
	c.Fatigue -= 2 * dt
	c.Stress -= 0.01 * dt
	c.clamp()
}

// Eat recovers hunger and thirst by the given fraction of a full meal.
func (c *Condition) Eat(portion float64) {
	c.Hunger -= 1000 * portion
	c.Thirst -= 1000 * portion
	c.clamp()
}

// Relax recovers stress.
func (c *Condition) Relax(dt float64) {
	c.Stress -= 0.05 * dt
	c.clamp()
}

// IsHungry reports whether the agent wants a meal.
func (c Condition) IsHungry() bool {
	return c.Hunger >= HungryAt
}

// CanExert reports whether the agent can take on physical work.
func (c Condition) CanExert() bool {
	return c.Fatigue <= ExhaustedAt && c.Stress <= StressedAt && c.Hunger <= StarvingAt
}

// Emergency reports a life threatening condition.
func (c Condition) Emergency() bool {
	return c.Ailment >= EmergencyHurtAt || c.Hunger > 5000 || c.Thirst > 3000
}

// performance returns the human performance rating in [0,1].
func (c Condition) performance() float64 {
	perf := 1 - c.Ailment
	if c.Fatigue > TiredAt {
		perf -= (c.Fatigue - TiredAt) / 2000
	}
	if c.Hunger > 1000 {
		perf -= (c.Hunger - 1000) / 4000
	}
	if c.Stress > StressedAt {
		perf -= (c.Stress - StressedAt) / 100
	}
	if math.IsNaN(perf) {
		return 0
	}
	return math.Max(0, math.Min(1, perf))
}

func (c *Condition) clamp() {
	c.Fatigue = math.Max(0, c.Fatigue)
	c.Hunger = math.Max(0, c.Hunger)
	c.Thirst = math.Max(0, c.Thirst)
	c.Stress = math.Max(0, math.Min(MaxStress, c.Stress))
	c.Ailment = math.Max(0, math.Min(1, c.Ailment))
}
