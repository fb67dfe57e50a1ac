package tasks

import (
	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/science"
)

type observeAstronomy struct{}

func (observeAstronomy) Kind() agents.ActivityKind { return agents.ActivityObserveAstronomy }

func (observeAstronomy) Gates(c *scoreContext) bool {
	return c.here != nil && c.here.Observatory && !c.daylight()
}

func (observeAstronomy) Base(c *scoreContext) float64 {
	reg := c.where.Studies()
	id := c.agent.ID
	jobSci := science.JobScience(c.agent.Job)

	result := 0.0
	if s := reg.OngoingPrimary(id); s != nil && s.Science == science.Astronomy && s.NeedsResearch(id) {
		result += 100
	}
	for _, s := range reg.OngoingCollaborative(id) {
		if s.Collaborators[id] == science.Astronomy && s.NeedsResearch(id) {
			result += 50
		}
	}
	if jobSci != science.Astronomy {
		result /= 2
	}
	return result
}

type research struct{}

func (research) Kind() agents.ActivityKind { return agents.ActivityResearch }

func (research) Gates(c *scoreContext) bool {
	return c.here != nil
}

func (research) Base(c *scoreContext) float64 {
	reg := c.where.Studies()
	id := c.agent.ID

	roles := 0
	if s := reg.OngoingPrimary(id); s != nil && s.NeedsResearch(id) {
		roles++
	}
	for _, s := range reg.OngoingCollaborative(id) {
		if s.NeedsResearch(id) {
			roles++
		}
	}
	return 50 * float64(roles)
}
