// Package agents provides the agent data model: attributes, physical
// condition, jobs, skills, activities and the human/robot capability variants.
package agents

import (
	"github.com/talgya/outpost/internal/world"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Job is an agent's assigned role in the outpost.
type Job uint8

const (
	JobAreologist Job = iota
	JobAstronomer
	JobBotanist
	JobChef
	JobDoctor
	JobDriver
	JobEngineer
	JobTechnician
	JobTrader
)

// NumJobs is the number of jobs.
const NumJobs = 9

var jobNames = [NumJobs]string{
	"areologist", "astronomer", "botanist", "chef", "doctor",
	"driver", "engineer", "technician", "trader",
}

func (j Job) String() string {
	if int(j) < len(jobNames) {
		return jobNames[j]
	}
	return "unknown"
}

// Location is where an agent physically is.
type Location uint8

const (
	InSettlement Location = iota
	InVehicle
	Outside // On the surface in an EVA suit
)

func (l Location) String() string {
	switch l {
	case InVehicle:
		return "vehicle"
	case Outside:
		return "outside"
	default:
		return "settlement"
	}
}

// Skill enumerates trained abilities.
type Skill uint8

const (
	SkillAreology Skill = iota
	SkillAstronomy
	SkillBotany
	SkillCooking
	SkillDriving
	SkillEVA
	SkillMechanics
	SkillMedicine
	SkillTrading
)

// NumSkills is the number of skills.
const NumSkills = 9

// SkillSet holds skill levels (0 untrained, 10 master).
type SkillSet [NumSkills]int

// Level returns the level of s.
func (ss SkillSet) Level(s Skill) int {
	if int(s) >= len(ss) {
		return 0
	}
	return ss[s]
}

// FavoriteGroup is a family of activities an agent enjoys.
type FavoriteGroup uint8

const (
	FavoriteNone FavoriteGroup = iota
	FavoriteOperation
	FavoriteAstronomy
	FavoriteResearch
	FavoriteCooking
	FavoriteLounging
)

// Favorite holds an agent's favorite activity group and dishes.
type Favorite struct {
	Activity FavoriteGroup `json:"activity"`
	MainDish string        `json:"main_dish,omitempty"`
	SideDish string        `json:"side_dish,omitempty"`
}

// Agent is a person or robot living in an outpost.
type Agent struct {
	ID   AgentID `json:"id"`
	Name string  `json:"name"`

	Variant Variant `json:"-"`

	Job        Job          `json:"job"`
	Skills     SkillSet     `json:"skills"`
	Attributes AttributeSet `json:"attributes"`
	Condition  Condition    `json:"condition"`

	Favorite    Favorite    `json:"favorite"`
	Preferences Preferences `json:"preferences,omitempty"`

	// Activity is nil when the agent is idle.
	Activity  *ActivityState `json:"activity,omitempty"`
	MissionID string         `json:"mission_id,omitempty"`

	Location     Location       `json:"location"`
	SettlementID uint64         `json:"settlement_id"` // Current (or last) settlement
	Position     world.HexCoord `json:"position"`
}

// IsRobot reports whether the agent is a robot.
func (a *Agent) IsRobot() bool {
	return a.Variant != nil && a.Variant.Kind() == KindRobot
}

// CanPerform reports whether the agent's variant can perform kind.
func (a *Agent) CanPerform(kind ActivityKind) bool {
	if a.Variant == nil {
		return false
	}
	return a.Variant.CanPerform(kind)
}

// PerformanceRating returns the agent's current work effectiveness in [0,1].
func (a *Agent) PerformanceRating() float64 {
	if a.Variant == nil {
		return 0
	}
	return a.Variant.PerformanceRating(a.Condition)
}

// Idle reports whether the agent has no activity.
func (a *Agent) Idle() bool {
	return a.Activity == nil
}

// OnMission reports whether the agent belongs to a mission.
func (a *Agent) OnMission() bool {
	return a.MissionID != ""
}

// Assign starts a new activity, replacing any current one.
func (a *Agent) Assign(kind ActivityKind, now, duration float64) {
	a.Activity = &ActivityState{
		Kind:             kind,
		Started:          now,
		Duration:         duration,
		StartPerformance: a.PerformanceRating(),
	}
}

// ClearActivity ends the current activity without completing it.
func (a *Agent) ClearActivity() {
	a.Activity = nil
}
