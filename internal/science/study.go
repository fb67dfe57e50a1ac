// Package science tracks scientific studies, their researchers and the
// research time put into them.
package science

import (
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/outpost/internal/agents"
)

// Science is a field of study.
type Science uint8

const (
	None Science = iota
	Areology
	Astronomy
	Botany
	Medicine
	Engineering
)

var scienceNames = [...]string{"none", "areology", "astronomy", "botany", "medicine", "engineering"}

func (s Science) String() string {
	if int(s) < len(scienceNames) {
		return scienceNames[s]
	}
	return "unknown"
}

// JobScience returns the science a job practices, or None.
func JobScience(j agents.Job) Science {
	switch j {
	case agents.JobAreologist:
		return Areology
	case agents.JobAstronomer:
		return Astronomy
	case agents.JobBotanist:
		return Botany
	case agents.JobDoctor:
		return Medicine
	case agents.JobEngineer, agents.JobTechnician:
		return Engineering
	default:
		return None
	}
}

// Phase is a study's lifecycle stage.
type Phase uint8

const (
	PhaseProposal Phase = iota
	PhaseResearch
	PhasePaper
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseResearch:
		return "research"
	case PhasePaper:
		return "paper"
	case PhaseCompleted:
		return "completed"
	default:
		return "proposal"
	}
}

// Research time required, in millisols.
const (
	PrimaryWorkRequired       = 5000.0
	CollaborativeWorkRequired = 2000.0
	PaperWorkRequired         = 1000.0
)

// Study is one scientific study.
type Study struct {
	ID            string                     `json:"id"`
	Science       Science                    `json:"science"`
	Primary       agents.AgentID             `json:"primary"`
	Collaborators map[agents.AgentID]Science `json:"collaborators"`
	Phase         Phase                      `json:"phase"`
	PrimaryWork   float64                    `json:"primary_work"`
	CollabWork    map[agents.AgentID]float64 `json:"collab_work"`
	PaperWork     float64                    `json:"paper_work"`
	Samples       float64                    `json:"samples"` // kg collected in the field
}

// AddCollaborator adds a researcher contributing in sci.
func (s *Study) AddCollaborator(id agents.AgentID, sci Science) {
	if id == s.Primary {
		return
	}
	s.Collaborators[id] = sci
}

// IsResearcher reports whether id is primary or a collaborator.
func (s *Study) IsResearcher(id agents.AgentID) bool {
	if id == s.Primary {
		return true
	}
	_, ok := s.Collaborators[id]
	return ok
}

// PrimaryResearchDone reports whether the primary researcher has finished.
func (s *Study) PrimaryResearchDone() bool {
	return s.PrimaryWork >= PrimaryWorkRequired
}

// CollaborativeResearchDone reports whether collaborator id has finished.
func (s *Study) CollaborativeResearchDone(id agents.AgentID) bool {
	return s.CollabWork[id] >= CollaborativeWorkRequired
}

// NeedsResearch reports whether id still has research to do on s.
func (s *Study) NeedsResearch(id agents.AgentID) bool {
	if s.Phase != PhaseResearch {
		return false
	}
	if id == s.Primary {
		return !s.PrimaryResearchDone()
	}
	if _, ok := s.Collaborators[id]; ok {
		return !s.CollaborativeResearchDone(id)
	}
	return false
}

// AddResearch credits msol of work by id and advances the phase when all
// research is in.
func (s *Study) AddResearch(id agents.AgentID, msol float64) {
	if msol <= 0 {
		return
	}
	switch s.Phase {
	case PhaseResearch:
		if id == s.Primary {
			s.PrimaryWork += msol
		} else if _, ok := s.Collaborators[id]; ok {
			s.CollabWork[id] += msol
		}
		if s.researchComplete() {
			s.Phase = PhasePaper
		}
	case PhasePaper:
		if id == s.Primary {
			s.PaperWork += msol
			if s.PaperWork >= PaperWorkRequired {
				s.Phase = PhaseCompleted
			}
		}
	}
}

func (s *Study) researchComplete() bool {
	if !s.PrimaryResearchDone() {
		return false
	}
	for id := range s.Collaborators {
		if !s.CollaborativeResearchDone(id) {
			return false
		}
	}
	return true
}

// Registry holds all studies in proposal order.
type Registry struct {
	studies map[string]*Study
	order   []*Study
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{studies: make(map[string]*Study)}
}

// Propose creates a study led by primary.
func (r *Registry) Propose(sci Science, primary agents.AgentID) *Study {
	s := &Study{
		ID:            uuid.NewString(),
		Science:       sci,
		Primary:       primary,
		Collaborators: make(map[agents.AgentID]Science),
		CollabWork:    make(map[agents.AgentID]float64),
		Phase:         PhaseProposal,
	}
	r.studies[s.ID] = s
	r.order = append(r.order, s)
	return s
}

// Start moves a proposed study into research.
func (r *Registry) Start(id string) bool {
	s, ok := r.studies[id]
	if !ok || s.Phase != PhaseProposal {
		return false
	}
	s.Phase = PhaseResearch
	return true
}

// Get returns a study by ID.
func (r *Registry) Get(id string) (*Study, bool) {
	s, ok := r.studies[id]
	return s, ok
}

// All returns every study in proposal order.
func (r *Registry) All() []*Study {
	return slices.Clone(r.order)
}

// OngoingPrimary returns the researching study led by id, or nil.
func (r *Registry) OngoingPrimary(id agents.AgentID) *Study {
	for _, s := range r.All() {
		if s.Primary == id && s.Phase == PhaseResearch {
			return s
		}
	}
	return nil
}

// OngoingCollaborative returns the researching studies id collaborates on.
func (r *Registry) OngoingCollaborative(id agents.AgentID) []*Study {
	var out []*Study
	for _, s := range r.All() {
		if _, ok := s.Collaborators[id]; ok && s.Phase == PhaseResearch {
			out = append(out, s)
		}
	}
	return out
}

// Qualification returns the mission qualification bonus a study gives a
// researcher: primary +2 (+1 more in the job's science), collaborator +1
// (+1 more in the job's science).
func Qualification(s *Study, a *agents.Agent) float64 {
	if s == nil || a == nil {
		return 0
	}
	jobSci := JobScience(a.Job)
	if a.ID == s.Primary {
		if jobSci == s.Science {
			return 3
		}
		return 2
	}
	if sci, ok := s.Collaborators[a.ID]; ok {
		if jobSci == sci {
			return 2
		}
		return 1
	}
	return 0
}
