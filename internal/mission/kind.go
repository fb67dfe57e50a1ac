package mission

import (
	"fmt"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/resources"
)

// Kind tags a mission type.
type Kind string

const (
	KindFieldStudy Kind = "field_study"
	KindTrade      Kind = "trade"
)

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts a kind name as used by the API.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindFieldStudy, KindTrade:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown mission kind %q", s)
}

// variant holds the state and hooks of one mission kind. The generic
// skeleton in mission.go calls the hooks; phases the skeleton does not know
// are run entirely by the variant.
type variant interface {
	kind() Kind

	// enter runs when the mission enters p, including generic phases.
	enter(m *Mission, ctx *Context, p Phase)
	// perform runs one member's share of a kind-specific phase.
	perform(m *Mission, ctx *Context, member *agents.Agent, dt float64)
	// check tests the exit predicate of a kind-specific phase.
	check(m *Mission, ctx *Context)
	// leave runs when p has ended, before the next phase is chosen.
	leave(m *Mission, ctx *Context, p Phase)

	// extraTime is the stop time still ahead, msol.
	extraTime(m *Mission, ctx *Context) float64
	// cargo is what must be loaded at home on top of life support.
	cargo(m *Mission, ctx *Context) map[resources.ID]float64
}
