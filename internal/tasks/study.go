package tasks

import (
	"slices"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/science"
)

// ChooseStudy picks a researching study for a to take into the field. The
// agent's primary study counts twice, each collaboration once. Only studies
// in one of sciences qualify. It returns nil when none does.
func ChooseStudy(a *agents.Agent, reg *science.Registry, src entropy.Source, sciences ...science.Science) *science.Study {
	var (
		picks   []*science.Study
		weights []float64
	)
	if st := reg.OngoingPrimary(a.ID); st != nil && slices.Contains(sciences, st.Science) {
		picks = append(picks, st)
		weights = append(weights, 2)
	}
	for _, st := range reg.OngoingCollaborative(a.ID) {
		if slices.Contains(sciences, st.Collaborators[a.ID]) {
			picks = append(picks, st)
			weights = append(weights, 1)
		}
	}

	i := entropy.WeightedPick(src, weights)
	if i < 0 {
		return nil
	}
	return picks[i]
}
