package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/mission"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
)

// ErrNotFound is returned when an operator names an agent, mission or
// settlement that does not exist.
var ErrNotFound = errors.New("not found")

// LaunchMission starts a mission of kind led by the given agent right away,
// skipping the lead activity. Mission errors carry their status code.
func (s *Simulation) LaunchMission(kind mission.Kind, leader agents.AgentID) (MissionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.AgentIndex[leader]
	if a == nil {
		return MissionView{}, fmt.Errorf("agent %d: %w", leader, ErrNotFound)
	}
	if a.OnMission() {
		return MissionView{}, fmt.Errorf("%s is already on a mission", a.Name)
	}
	m, err := s.startMission(kind, a)
	if err != nil {
		return MissionView{}, err
	}
	slog.Info("mission launched", "id", m.ID, "kind", kind, "leader", a.Name)
	s.EmitEvent(Event{
		Tick:        s.LastTick,
		Description: fmt.Sprintf("Mission control launches a %s mission led by %s", kind, a.Name),
		Category:    "intervention",
		MissionID:   m.ID,
	})
	return missionView(m), nil
}

// AbortMission ends a running mission. A crew out on the surface stays with
// its rover.
func (s *Simulation) AbortMission(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.MissionIndex[id]
	if !ok {
		return fmt.Errorf("mission %s: %w", id, ErrNotFound)
	}
	if m.Done() {
		return fmt.Errorf("mission %s has already ended", id)
	}
	m.EndMission(s.mctx, mission.StatusUserAborted)
	slog.Info("mission aborted", "id", id, "phase", m.Phase())
	s.EmitEvent(Event{
		Tick:        s.LastTick,
		Description: fmt.Sprintf("Mission control aborts mission %s", id),
		Category:    "intervention",
		MissionID:   id,
	})
	return nil
}

// ProvisionSettlement lands qty of a resource at the named settlement and
// returns the event text.
func (s *Simulation) ProvisionSettlement(name, resource string, qty float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.findSettlementByName(name)
	if st == nil {
		return "", fmt.Errorf("settlement %q: %w", name, ErrNotFound)
	}
	id, ok := resources.Parse(resource)
	if !ok {
		return "", fmt.Errorf("unknown resource %q", resource)
	}
	if qty <= 0 {
		return "", fmt.Errorf("quantity must be positive, got %v", qty)
	}
	if id.Category() == resources.CategoryVehicle {
		return "", fmt.Errorf("%s cannot be provisioned", id)
	}

	landed := qty - st.Inventory.Store(id, qty)
	desc := fmt.Sprintf("A cargo drop lands %.1f of %s at %s", landed, id, st.Name)
	s.EmitEvent(Event{
		Tick:        s.LastTick,
		Description: desc,
		Category:    "intervention",
	})
	slog.Info("provision intervention", "settlement", st.Name, "resource", id.String(), "requested", qty, "landed", landed)
	return desc, nil
}

func (s *Simulation) findSettlementByName(name string) *social.Settlement {
	for _, st := range s.Settlements {
		if st.Name == name {
			return st
		}
	}
	return nil
}
