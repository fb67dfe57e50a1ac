package tasks

import (
	"math"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/cooking"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/world"
)

// MetaTask scores one activity kind. Gates may veto the kind; Base is the
// score before the shared multipliers.
type MetaTask interface {
	Kind() agents.ActivityKind
	Gates(c *scoreContext) bool
	Base(c *scoreContext) float64
}

// Scorer turns agent state and surroundings into activity priorities.
type Scorer struct {
	Surroundings Surroundings
	Tuning       config.Tuning

	tasks [agents.NumActivityKinds]MetaTask
}

// NewScorer registers every meta task.
func NewScorer(s Surroundings, t config.Tuning) *Scorer {
	sc := &Scorer{Surroundings: s, Tuning: t}
	for _, mt := range metaTasks() {
		sc.tasks[mt.Kind()] = mt
	}
	return sc
}

// Score returns the non-negative priority of kind for a. Ineligible kinds and
// non-finite results score 0. src feeds the favorite activity bonus only.
func (s *Scorer) Score(a *agents.Agent, kind agents.ActivityKind, src entropy.Source) float64 {
	if a == nil || int(kind) >= len(s.tasks) || s.tasks[kind] == nil {
		return 0
	}
	if !a.CanPerform(kind) {
		return 0
	}
	mt := s.tasks[kind]
	c := s.context(a)
	info := kind.Info()

	if !s.sharedGates(c, kind, info) || !mt.Gates(c) {
		return 0
	}

	result := mt.Base(c)
	if !finite(result) || result <= 0 {
		return 0
	}

	result *= agents.JobModifier(a.Job, kind) * economicFactor(c, kind)
	result *= a.PerformanceRating()
	result = favoriteBonus(a, info, result, src)
	result += preferenceTerm(a, kind, result)

	if info.Outdoor {
		switch c.env.RadiationExposure(c.pos()) {
		case world.RadiationBaseline:
			result /= 3
		case world.RadiationGCR:
			result /= 6
		case world.RadiationSEP:
			return 0
		}
	}

	if !finite(result) || result < 0 {
		return 0
	}
	return result
}

// Scores returns the score of every schedulable kind, indexed by kind.
func (s *Scorer) Scores(a *agents.Agent, src entropy.Source) [agents.NumActivityKinds]float64 {
	var out [agents.NumActivityKinds]float64
	for _, k := range agents.Kinds() {
		out[k] = s.Score(a, k, src)
	}
	return out
}

func (s *Scorer) context(a *agents.Agent) *scoreContext {
	c := &scoreContext{
		agent:  a,
		env:    s.Surroundings.Environment(),
		where:  s.Surroundings,
		tuning: s.Tuning,
	}
	if a.Location == agents.InSettlement {
		c.here = s.Surroundings.Settlement(a.SettlementID)
	}
	return c
}

func (s *Scorer) sharedGates(c *scoreContext, kind agents.ActivityKind, info agents.ActivityInfo) bool {
	a := c.agent

	if info.IndoorOnly && a.Location == agents.Outside {
		return false
	}

	if info.Outdoor {
		if a.Location == agents.Outside {
			// Already out; the mission that put them there decides.
			if c.env.RadiationExposure(c.pos()) == world.RadiationSEP {
				return false
			}
		} else {
			if c.here == nil || !c.here.CanEVA() {
				return false
			}
			if c.env.IsGettingDark(c.pos()) {
				return false
			}
			if c.env.RadiationExposure(c.pos()) == world.RadiationSEP {
				return false
			}
		}
	}

	if info.Exertion && !a.Condition.CanExert() {
		return false
	}

	if kind != agents.ActivityEat && kind != agents.ActivityCook && a.Condition.IsHungry() &&
		cooking.IsMealTime(s.Surroundings.MsolOfSol(), s.Tuning.Scoring.MealWindow) {
		return false
	}
	return true
}

func economicFactor(c *scoreContext, kind agents.ActivityKind) float64 {
	if c.here == nil {
		return 1
	}
	switch kind {
	case agents.ActivityLoadVehicleGarage, agents.ActivityLoadVehicleEVA,
		agents.ActivityUnloadVehicleGarage, agents.ActivityUnloadVehicleEVA,
		agents.ActivityLeadTrade:
		return c.here.Factors.Transportation
	case agents.ActivityObserveAstronomy:
		return c.here.ObservationFactor()
	case agents.ActivityResearch, agents.ActivityLeadFieldStudy:
		return c.here.Factors.Research
	default:
		return 1
	}
}

func favoriteBonus(a *agents.Agent, info agents.ActivityInfo, result float64, src entropy.Source) float64 {
	if info.Group == agents.FavoriteNone || a.Favorite.Activity != info.Group {
		return result
	}
	switch info.Group {
	case agents.FavoriteOperation:
		return result * float64(entropy.RandomInt(src, 1, 2))
	case agents.FavoriteAstronomy:
		return result + float64(entropy.RandomInt(src, 1, 20))
	default:
		return result * 1.2
	}
}

// preferenceTerm is the learned preference adjustment, never larger in
// magnitude than result.
func preferenceTerm(a *agents.Agent, kind agents.ActivityKind, result float64) float64 {
	pref := a.Preferences.Get(kind)
	if pref == 0 {
		return 0
	}
	term := result * float64(pref) / preferenceDivisor(kind)
	return math.Max(-math.Abs(result), math.Min(math.Abs(result), term))
}

func preferenceDivisor(kind agents.ActivityKind) float64 {
	switch kind {
	case agents.ActivityLoadVehicleGarage, agents.ActivityLoadVehicleEVA,
		agents.ActivityUnloadVehicleGarage, agents.ActivityUnloadVehicleEVA:
		return 6
	case agents.ActivityObserveAstronomy:
		return 2
	default:
		return 4
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
