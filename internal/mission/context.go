package mission

import (
	"fmt"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/science"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/tasks"
	"github.com/talgya/outpost/internal/world"
)

// Clock reports the current simulation time in millisols.
type Clock interface {
	Now() float64
}

// World resolves the agents and settlements a mission refers to by ID.
type World interface {
	Agent(id agents.AgentID) *agents.Agent
	Settlement(id uint64) *social.Settlement
	// Settlements returns every settlement in ascending ID order.
	Settlements() []*social.Settlement
	// Residents returns the agents inside a settlement in ascending ID
	// order, mission members included.
	Residents(settlementID uint64) []*agents.Agent
}

// Terrain rates how fast a rover can drive at a coordinate.
type Terrain interface {
	DrivingFactor(c world.HexCoord) float64
}

// EventType classifies mission events.
type EventType string

const (
	EventStarted       EventType = "started"
	EventPhase         EventType = "phase"
	EventStatus        EventType = "status"
	EventRedirected    EventType = "redirected"
	EventProfitChanged EventType = "profit_changed"
	EventEnded         EventType = "ended"
)

// Event is something a mission reports to the simulation.
type Event struct {
	Time      float64   `json:"time"`
	MissionID string    `json:"mission_id"`
	Kind      Kind      `json:"kind"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
}

// Context carries everything a mission needs from the simulation for one
// call. It is rebuilt or reused by the engine; missions never keep it.
type Context struct {
	Clock   Clock
	Rand    entropy.Source
	Env     world.Environment
	Map     *world.Map
	World   World
	Terrain Terrain

	Scheduler    *tasks.Scheduler
	Valuation    economy.Valuation
	Credit       *economy.CreditManager
	Profits      *economy.ProfitCache
	TradeTargets *economy.TradeSettlementCache
	Studies      *science.Registry

	Tuning config.Tuning

	// OnEvent is called synchronously for every event. May be nil.
	OnEvent func(Event)
}

func (c *Context) now() float64 {
	if c.Clock == nil {
		return 0
	}
	return c.Clock.Now()
}

func (c *Context) emit(m *Mission, typ EventType, format string, args ...any) {
	if c.OnEvent == nil {
		return
	}
	c.OnEvent(Event{
		Time:      c.now(),
		MissionID: m.ID,
		Kind:      m.Kind,
		Type:      typ,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (c *Context) margin() float64 {
	return c.Tuning.LifeSupport.Margin
}
