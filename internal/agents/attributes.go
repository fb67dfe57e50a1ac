package agents

import (
	"github.com/talgya/outpost/internal/entropy"
)

// Attribute is an innate trait.
type Attribute uint8

const (
	AcademicAptitude Attribute = iota
	Agility
	Artistry
	Attractiveness
	Conversation
	Courage
	EmotionalStability
	Endurance
	ExperienceAptitude
	Leadership
	Spirituality
	Strength
	StressResilience
	Teaching
)

// NumAttributes is the number of attributes.
const NumAttributes = 14

const (
	MinAttribute = 0
	MaxAttribute = 100
)

// AttributeSet holds attribute values, each kept in [0,100].
type AttributeSet [NumAttributes]int

// Get returns the value of attr.
func (s *AttributeSet) Get(attr Attribute) int {
	if int(attr) >= len(s) {
		return 0
	}
	return s[attr]
}

// Set stores value clamped to [0,100].
func (s *AttributeSet) Set(attr Attribute, value int) {
	if int(attr) >= len(s) {
		return
	}
	s[attr] = clampAttribute(value)
}

// Adjust adds delta to attr, clamped.
func (s *AttributeSet) Adjust(attr Attribute, delta int) {
	s.Set(attr, s.Get(attr)+delta)
}

// Randomize draws every attribute as the average of three uniform draws,
// which centres values near 50, then applies settler modifiers.
func (s *AttributeSet) Randomize(src entropy.Source) {
	for i := range s {
		sum := 0
		for range 3 {
			sum += entropy.RandomInt(src, 0, 100)
		}
		s[i] = sum / 3
	}

	// First generation settlers are selected for these.
	for _, m := range settlerModifiers {
		s.addModifier(src, m.attr, m.mod)
	}
}

// addModifier adds a random amount up to |mod| in the direction of mod.
func (s *AttributeSet) addModifier(src entropy.Source, attr Attribute, mod int) {
	var r int
	if mod < 0 {
		r = -entropy.RandomInt(src, 0, -mod)
	} else {
		r = entropy.RandomInt(src, 0, mod)
	}
	s.Adjust(attr, r)
}

// Applied in order so draws are reproducible for a seed.
var settlerModifiers = []struct {
	attr Attribute
	mod  int
}{
	{AcademicAptitude, 10},
	{Agility, 30},
	{Artistry, -10},
	{Courage, 30},
	{Attractiveness, 20},
	{Conversation, -10},
	{EmotionalStability, 20},
	{Endurance, 5},
	{ExperienceAptitude, 10},
	{Leadership, 20},
	{Spirituality, 10},
	{Strength, 5},
	{StressResilience, 30},
	{Teaching, 10},
}

func clampAttribute(v int) int {
	return max(MinAttribute, min(MaxAttribute, v))
}
