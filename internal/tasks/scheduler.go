package tasks

import (
	"log/slog"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/science"
)

// foodPortion is the packaged food eaten when no cooked meal is ready, kg.
const foodPortion = 0.2

// Scheduler picks and runs agent activities.
type Scheduler struct {
	Scorer *Scorer
	Tuning config.Tuning
}

// NewScheduler creates a scheduler scoring against s.
func NewScheduler(s Surroundings, t config.Tuning) *Scheduler {
	return &Scheduler{Scorer: NewScorer(s, t), Tuning: t}
}

// BestActivity returns the highest scoring kind for a. Ties go to the kind
// declared first. It returns false when nothing scores above zero.
func (s *Scheduler) BestActivity(a *agents.Agent, src entropy.Source) (agents.ActivityKind, bool) {
	best, bestScore := agents.ActivityNone, 0.0
	for _, k := range agents.Kinds() {
		if score := s.Scorer.Score(a, k, src); score > bestScore {
			best, bestScore = k, score
		}
	}
	return best, best != agents.ActivityNone
}

// Assign starts kind on a for its default duration.
func (s *Scheduler) Assign(a *agents.Agent, kind agents.ActivityKind, now float64) {
	s.AssignFor(a, kind, now, kind.Info().Duration)
}

// AssignFor starts kind on a for duration millisols.
func (s *Scheduler) AssignFor(a *agents.Agent, kind agents.ActivityKind, now, duration float64) {
	a.Assign(kind, now, duration)
	slog.Debug("activity assigned", "agent", a.Name, "activity", kind.String(), "duration", duration)
}

// Decay ages a's condition by dt. Robots do not tire.
func (s *Scheduler) Decay(a *agents.Agent, dt float64) {
	if a.IsRobot() {
		return
	}
	exertion := a.Activity != nil && a.Activity.Kind.Info().Exertion
	a.Condition.Decay(dt, exertion)
}

// Progress advances a's activity by dt and applies its effects. It returns
// the kind that finished this tick, or ActivityNone.
func (s *Scheduler) Progress(a *agents.Agent, dt, now float64, src entropy.Source) agents.ActivityKind {
	act := a.Activity
	if act == nil {
		return agents.ActivityNone
	}
	done := act.Progress(dt)
	s.apply(a, act.Kind, dt, now, done, src)
	if !done {
		return agents.ActivityNone
	}

	a.Preferences.Learn(act.Kind, a.PerformanceRating()-act.StartPerformance)
	a.ClearActivity()
	return act.Kind
}

func (s *Scheduler) apply(a *agents.Agent, kind agents.ActivityKind, dt, now float64, done bool, src entropy.Source) {
	perf := a.PerformanceRating()
	where := s.Scorer.Surroundings

	switch kind {
	case agents.ActivitySleep:
		a.Condition.Sleep(dt)
	case agents.ActivityRelax:
		a.Condition.Relax(dt)
	case agents.ActivityEat:
		if done {
			s.eat(a)
		}
	case agents.ActivityCook:
		st := where.Settlement(a.SettlementID)
		if st == nil || st.Kitchen == nil {
			return
		}
		if name := st.Kitchen.AddWork(dt*perf, a, now, st.MaxServings, src); name != "" {
			slog.Debug("meal ready", "settlement", st.Name, "meal", name, "cook", a.Name)
		}
	case agents.ActivityResearch:
		addResearch(where.Studies(), a, dt*perf, science.None)
	case agents.ActivityObserveAstronomy:
		addResearch(where.Studies(), a, dt*perf, science.Astronomy)
	case agents.ActivityLoadVehicleGarage, agents.ActivityLoadVehicleEVA:
		if a.OnMission() {
			return // The mission moves its own cargo.
		}
		where.ContributeLoading(a.SettlementID, s.Tuning.Mission.LoadRate*dt*perf)
	case agents.ActivityUnloadVehicleGarage, agents.ActivityUnloadVehicleEVA:
		st := where.Settlement(a.SettlementID)
		if st == nil || a.OnMission() {
			return
		}
		if rovers := st.RoversNeedingUnload(); len(rovers) > 0 {
			resources.Drain(rovers[0].Cargo, st.Inventory, s.Tuning.Mission.LoadRate*dt*perf)
		}
	}
}

func (s *Scheduler) eat(a *agents.Agent) {
	st := s.Scorer.Surroundings.Settlement(a.SettlementID)
	if st == nil {
		return
	}
	if st.Kitchen != nil {
		if meal, ok := st.Kitchen.ChooseMeal(a); ok {
			a.Condition.Eat(1)
			a.Condition.Stress = max(0, a.Condition.Stress-meal.Quality*2)
			slog.Debug("meal eaten", "agent", a.Name, "meal", meal.Name, "quality", meal.Quality)
			return
		}
		if st.Kitchen.Ledger().Retrieve(resources.Food, foodPortion) {
			a.Condition.Eat(0.8)
		}
		return
	}
	if st.Inventory.Retrieve(resources.Food, foodPortion) {
		a.Condition.Eat(0.8)
	}
}

// addResearch credits work to the first study a still needs to research,
// primary role first. sci restricts the study science unless None.
func addResearch(reg *science.Registry, a *agents.Agent, work float64, sci science.Science) {
	if work <= 0 {
		return
	}
	if st := reg.OngoingPrimary(a.ID); st != nil && st.NeedsResearch(a.ID) && (sci == science.None || st.Science == sci) {
		st.AddResearch(a.ID, work)
		return
	}
	for _, st := range reg.OngoingCollaborative(a.ID) {
		if st.NeedsResearch(a.ID) && (sci == science.None || st.Collaborators[a.ID] == sci) {
			st.AddResearch(a.ID, work)
			return
		}
	}
}
