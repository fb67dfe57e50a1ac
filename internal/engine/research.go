// Scientific studies: scientists propose studies in their field, pull in
// collaborators from their outpost and announce finished papers.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/science"
)

// maxCollaborators is how many colleagues join a new study.
const maxCollaborators = 2

// proposeStudies starts a study for every scientist without an unfinished
// one and announces studies completed since the last sol.
func (s *Simulation) proposeStudies(tick uint64) {
	leading := make(map[agents.AgentID]bool)
	for _, st := range s.Studies.All() {
		if st.Phase == science.PhaseCompleted {
			if !s.announced[st.ID] {
				s.announced[st.ID] = true
				s.EmitEvent(Event{
					Tick:        tick,
					Description: fmt.Sprintf("A %s study led by %s is published", st.Science, s.agentName(st.Primary)),
					Category:    "science",
				})
			}
			continue
		}
		leading[st.Primary] = true
	}

	for _, a := range s.Agents {
		sci := science.JobScience(a.Job)
		if a.IsRobot() || sci == science.None || leading[a.ID] {
			continue
		}
		study := s.Studies.Propose(sci, a.ID)
		for _, c := range s.Residents(a.SettlementID) {
			if len(study.Collaborators) >= maxCollaborators {
				break
			}
			if c.ID == a.ID || c.IsRobot() || science.JobScience(c.Job) == science.None {
				continue
			}
			study.AddCollaborator(c.ID, science.JobScience(c.Job))
		}
		s.Studies.Start(study.ID)
		leading[a.ID] = true
		slog.Debug("study started", "science", sci, "primary", a.Name, "collaborators", len(study.Collaborators))
	}
}

func (s *Simulation) agentName(id agents.AgentID) string {
	if a := s.AgentIndex[id]; a != nil {
		return a.Name
	}
	return fmt.Sprintf("agent %d", id)
}
