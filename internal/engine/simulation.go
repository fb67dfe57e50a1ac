// Simulation ties together all outpost systems and runs them each tick.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/mission"
	"github.com/talgya/outpost/internal/science"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/tasks"
	"github.com/talgya/outpost/internal/weather"
	"github.com/talgya/outpost/internal/world"
)

// maxEvents is how many recent events are kept in memory.
const maxEvents = 1000

// Simulation holds the complete outpost state. The engine goroutine is the
// only writer and holds the write lock for each tick; readers take the read
// lock.
type Simulation struct {
	mu sync.RWMutex

	Tuning  config.Tuning
	Seed    int64
	Map     *world.Map
	Surface *world.Surface
	Weather *weather.Model

	Agents      []*agents.Agent // Ascending ID
	AgentIndex  map[agents.AgentID]*agents.Agent
	Settlements []*social.Settlement // Ascending ID
	// SettlementIndex maps ID to settlement.
	SettlementIndex map[uint64]*social.Settlement

	// Missions holds every mission in start order; active is the subset
	// still running.
	Missions     []*mission.Mission
	MissionIndex map[string]*mission.Mission
	active       []*mission.Mission

	Studies      *science.Registry
	Scheduler    *tasks.Scheduler
	Valuation    *economy.MarketValuation
	Credit       *economy.CreditManager
	Profits      *economy.ProfitCache
	TradeTargets *economy.TradeSettlementCache

	Spawner *agents.Spawner

	Events   []Event // Recent events
	unsaved  []Event // Events not yet taken by the journal
	LastTick uint64  // Most recent tick processed

	CurrentSeason uint8
	Stats         SimStats

	rng       *rand.Rand
	mctx      *mission.Context
	announced map[string]bool // Completed studies already reported
}

// Event is a notable occurrence in the outposts.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "mission", "supply", "season", "science", ...
	MissionID   string `json:"mission_id,omitempty" db:"mission_id"`
}

// SimStats tracks aggregate statistics, refreshed every sol.
type SimStats struct {
	Population     int     `json:"population"`
	Humans         int     `json:"humans"`
	Robots         int     `json:"robots"`
	OnMission      int     `json:"on_mission"`
	ActiveMissions int     `json:"active_missions"`
	Completed      int     `json:"completed_missions"`
	Aborted        int     `json:"aborted_missions"`
	Studies        int     `json:"studies"`
	AvgFatigue     float64 `json:"avg_fatigue"`
	AvgHunger      float64 `json:"avg_hunger"`
	AvgStress      float64 `json:"avg_stress"`
}

// NewSimulation wires a simulation around existing settlements and agents.
func NewSimulation(t config.Tuning, seed int64, m *world.Map, setts []*social.Settlement, ag []*agents.Agent) *Simulation {
	dust := weather.NewModel(seed, t.Engine.WeatherTTL)
	s := &Simulation{
		Tuning:          t,
		Seed:            seed,
		Map:             m,
		Weather:         dust,
		Surface:         world.NewSurface(m, seed, dust),
		AgentIndex:      make(map[agents.AgentID]*agents.Agent, len(ag)),
		SettlementIndex: make(map[uint64]*social.Settlement, len(setts)),
		MissionIndex:    make(map[string]*mission.Mission),
		Studies:         science.NewRegistry(),
		Valuation:       economy.NewMarketValuation(t.LifeSupport.Rates()),
		Credit:          economy.NewCreditManager(t.Mission.CreditLimit),
		Profits:         economy.NewProfitCache(),
		TradeTargets:    economy.NewTradeSettlementCache(),
		Spawner:         agents.NewSpawner(seed),
		rng:             rand.New(rand.NewSource(seed + 700)),
		announced:       make(map[string]bool),
	}
	for _, st := range setts {
		s.addSettlement(st)
	}
	for _, a := range ag {
		s.addAgent(a)
	}
	s.Scheduler = tasks.NewScheduler(surroundings{s}, t)
	s.mctx = &mission.Context{
		Clock:        s,
		Rand:         s.rng,
		Env:          s.Surface,
		Map:          m,
		World:        worldView{s},
		Terrain:      travelTerrain{s.Surface, dust},
		Scheduler:    s.Scheduler,
		Valuation:    s.Valuation,
		Credit:       s.Credit,
		Profits:      s.Profits,
		TradeTargets: s.TradeTargets,
		Studies:      s.Studies,
		Tuning:       t,
		OnEvent:      s.missionEvent,
	}
	s.updateStats()
	return s
}

func (s *Simulation) addSettlement(st *social.Settlement) {
	s.SettlementIndex[st.ID] = st
	s.Settlements = append(s.Settlements, st)
	slices.SortFunc(s.Settlements, func(a, b *social.Settlement) int { return cmpID(a.ID, b.ID) })
	s.Valuation.Markets[st.ID] = st.Market
	if hex := s.Map.Get(st.Position); hex != nil {
		id := st.ID
		hex.SettlementID = &id
	}
}

func (s *Simulation) addAgent(a *agents.Agent) {
	s.AgentIndex[a.ID] = a
	s.Agents = append(s.Agents, a)
	slices.SortFunc(s.Agents, func(x, y *agents.Agent) int { return cmpID(uint64(x.ID), uint64(y.ID)) })
	if a.ID == s.Agents[len(s.Agents)-1].ID {
		s.Spawner.SetNextID(a.ID + 1)
	}
}

func cmpID(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Now implements mission.Clock.
func (s *Simulation) Now() float64 {
	return float64(s.LastTick)
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTick
}

// TickMsol runs every tick: condition decay, activity scheduling for agents
// not on a mission, then every active mission in start order.
func (s *Simulation) TickMsol(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.Surface.SetTime(tick)
	now := float64(tick)

	for _, a := range s.Agents {
		s.Scheduler.Decay(a, 1)
		if a.OnMission() {
			continue
		}
		s.schedule(a, now)
	}

	for _, m := range s.active {
		m.Perform(s.mctx, 1)
	}
	s.active = slices.DeleteFunc(s.active, func(m *mission.Mission) bool {
		if !m.Done() {
			return false
		}
		s.missionFinished(m)
		return true
	})
}

// schedule gives an idle agent its best activity and progresses it.
func (s *Simulation) schedule(a *agents.Agent, now float64) {
	if a.Activity == nil {
		if a.Location != agents.InSettlement {
			return
		}
		kind, ok := s.Scheduler.BestActivity(a, s.rng)
		if !ok {
			return
		}
		s.Scheduler.Assign(a, kind, now)
	}

	switch done := s.Scheduler.Progress(a, 1, now, s.rng); done {
	case agents.ActivityLeadFieldStudy, agents.ActivityLeadTrade:
		kind := mission.KindFieldStudy
		if done == agents.ActivityLeadTrade {
			kind = mission.KindTrade
		}
		if _, err := s.startMission(kind, a); err != nil {
			slog.Debug("mission not started", "agent", a.Name, "kind", kind, "status", mission.CodeOf(err), "err", err)
		}
	}
}

// startMission plans a mission led by a. Callers hold the write lock.
func (s *Simulation) startMission(kind mission.Kind, a *agents.Agent) (*mission.Mission, error) {
	var (
		m   *mission.Mission
		err error
	)
	switch kind {
	case mission.KindFieldStudy:
		m, err = mission.NewFieldStudy(s.mctx, a)
	case mission.KindTrade:
		m, err = mission.NewTrade(s.mctx, a)
	default:
		return nil, fmt.Errorf("unknown mission kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	s.Missions = append(s.Missions, m)
	s.MissionIndex[m.ID] = m
	s.active = append(s.active, m)
	return m, nil
}

func (s *Simulation) missionFinished(m *mission.Mission) {
	if m.Phase() == mission.PhaseCompleted {
		s.Stats.Completed++
	} else {
		s.Stats.Aborted++
	}
}

// missionEvent records a mission event in the event log.
func (s *Simulation) missionEvent(e mission.Event) {
	s.EmitEvent(Event{
		Tick:        uint64(e.Time),
		Description: fmt.Sprintf("%s %s: %s", e.Kind, e.Type, e.Message),
		Category:    "mission",
		MissionID:   e.MissionID,
	})
}

// EmitEvent appends an event. Callers hold the write lock.
func (s *Simulation) EmitEvent(e Event) {
	s.Events = append(s.Events, e)
	s.unsaved = append(s.unsaved, e)
	if len(s.Events) > 2*maxEvents {
		s.Events = slices.Clone(s.Events[len(s.Events)-maxEvents:])
	}
}

// TickHour runs every hour: weather, markets, kitchens and plants.
func (s *Simulation) TickHour(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Weather.SetTime(tick)
	s.resolveMarkets(tick)
	s.expireMeals(tick)
	s.runPlants(float64(TicksPerHour) / TicksPerSol)
}

// TickSol runs every sol: life support draw, studies, trade partners and
// statistics.
func (s *Simulation) TickSol(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if season := SeasonOf(tick); season != s.CurrentSeason {
		s.processSeason(tick)
	}
	s.consumeLifeSupport(tick)
	s.proposeStudies(tick)
	s.refreshTradeTargets(tick)
	for _, st := range s.Settlements {
		st.Kitchen.Clean()
	}
	s.updateStats()

	slog.Info("sol report",
		"tick", tick,
		"time", MarsTime(tick),
		"population", s.Stats.Population,
		"on_mission", s.Stats.OnMission,
		"active_missions", s.Stats.ActiveMissions,
		"completed", s.Stats.Completed,
		"aborted", s.Stats.Aborted,
		"studies", s.Stats.Studies,
		"avg_fatigue", fmt.Sprintf("%.0f", s.Stats.AvgFatigue),
		"avg_hunger", fmt.Sprintf("%.0f", s.Stats.AvgHunger),
	)
}

// TickWeek runs every seven sols: resupply checks.
func (s *Simulation) TickWeek(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processAntiStagnation(tick)
	km := 0.0
	for _, st := range s.Settlements {
		for _, r := range st.Rovers {
			km += r.Odometer
		}
	}
	slog.Info("weekly summary",
		"tick", humanize.Comma(int64(tick)),
		"time", MarsTime(tick),
		"events", len(s.Events),
		"profit_cache", s.Profits.Len(),
		"fleet_km", humanize.Commaf(math.Round(km)),
	)
}

// TickOrbit runs once per Mars year.
func (s *Simulation) TickOrbit(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.EmitEvent(Event{
		Tick:        tick,
		Description: fmt.Sprintf("Orbit %d completed with %d missions flown", tick/TicksPerOrbit, len(s.Missions)),
		Category:    "orbit",
	})
}

// Attach wires the simulation's layers into e.
func (s *Simulation) Attach(e *Engine) {
	e.Tick = s.LastTick
	e.OnTick = s.TickMsol
	e.OnHour = s.TickHour
	e.OnSol = s.TickSol
	e.OnWeek = s.TickWeek
	e.OnOrbit = s.TickOrbit
}

func (s *Simulation) updateStats() {
	st := SimStats{
		ActiveMissions: len(s.active),
		Completed:      s.Stats.Completed,
		Aborted:        s.Stats.Aborted,
		Studies:        len(s.Studies.All()),
	}
	var fatigue, hunger, stress float64
	for _, a := range s.Agents {
		st.Population++
		if a.IsRobot() {
			st.Robots++
			continue
		}
		st.Humans++
		if a.OnMission() {
			st.OnMission++
		}
		fatigue += a.Condition.Fatigue
		hunger += a.Condition.Hunger
		stress += a.Condition.Stress
	}
	if st.Humans > 0 {
		n := float64(st.Humans)
		st.AvgFatigue, st.AvgHunger, st.AvgStress = fatigue/n, hunger/n, stress/n
	}
	s.Stats = st
}

// travelTerrain slows rovers on rough ground and in dust storms.
type travelTerrain struct {
	surface *world.Surface
	dust    *weather.Model
}

func (t travelTerrain) DrivingFactor(c world.HexCoord) float64 {
	return t.surface.DrivingFactor(c) / weather.TravelPenalty(t.dust.Fetch(c))
}
