package engine

import (
	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/mission"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/world"
)

// StatusView is the simulation summary served by the API.
type StatusView struct {
	Tick        uint64   `json:"tick"`
	MarsTime    string   `json:"mars_time"`
	Season      string   `json:"season"`
	Settlements int      `json:"settlements"`
	Missions    int      `json:"missions"`
	Stats       SimStats `json:"stats"`
}

// MissionView is one mission's list entry.
type MissionView struct {
	ID        string               `json:"id" db:"id"`
	Kind      mission.Kind         `json:"kind" db:"kind"`
	Phase     mission.Phase        `json:"phase" db:"phase"`
	Home      uint64               `json:"home" db:"home"`
	Rover     string               `json:"rover" db:"rover"`
	Members   []agents.AgentID     `json:"members"`
	Statuses  []mission.StatusCode `json:"statuses"`
	Started   float64              `json:"started" db:"started"`
	Outbound  bool                 `json:"outbound" db:"outbound"`
	Emergency bool                 `json:"emergency" db:"emergency"`
	Done      bool                 `json:"done" db:"done"`
}

// MissionDetail adds history and estimates to a MissionView.
type MissionDetail struct {
	MissionView
	History         []mission.PhaseRecord `json:"history"`
	Navigation      []mission.NavPoint    `json:"navigation"`
	RemainingMsol   float64               `json:"estimated_remaining_msol"`
	ResourcesNeeded map[string]float64    `json:"resources_needed"`
	StudyID         string                `json:"study_id,omitempty"`
	Trade           *TradeView            `json:"trade,omitempty"`
}

// TradeView describes a trade mission's deal.
type TradeView struct {
	Remote      uint64         `json:"remote"`
	Sell        map[string]int `json:"sell"`
	Buy         map[string]int `json:"buy"`
	Profit      float64        `json:"profit"`
	Negotiation string         `json:"negotiation"`
}

// SettlementView is a settlement's stock and fleet.
type SettlementView struct {
	ID              uint64             `json:"id"`
	Name            string             `json:"name"`
	Position        world.HexCoord     `json:"position"`
	Residents       int                `json:"residents"`
	LifeSupport     map[string]float64 `json:"life_support"`
	Methane         float64            `json:"methane"`
	EVASuits        int                `json:"eva_suits"`
	Specialty       string             `json:"specialty"`
	SustainableSols float64            `json:"sustainable_sols"`
	Rovers          []RoverView        `json:"rovers"`
}

// RoverView is one rover in a fleet.
type RoverView struct {
	Name       string  `json:"name"`
	Model      string  `json:"model"`
	Parked     bool    `json:"parked"`
	ReservedBy string  `json:"reserved_by,omitempty"`
	CargoKg    float64 `json:"cargo_kg"`
}

// Snapshot is what the journal persists each sol.
type Snapshot struct {
	Tick     uint64
	Season   uint8
	Seed     int64
	Missions []MissionDetail
	Events   []Event // Emitted since the previous snapshot
	Profits  []economy.ProfitEntry
}

// Status returns the simulation summary.
func (s *Simulation) Status() StatusView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatusView{
		Tick:        s.LastTick,
		MarsTime:    MarsTime(s.LastTick),
		Season:      SeasonName(s.CurrentSeason),
		Settlements: len(s.Settlements),
		Missions:    len(s.Missions),
		Stats:       s.Stats,
	}
}

// MissionList returns every mission in start order.
func (s *Simulation) MissionList() []MissionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MissionView, 0, len(s.Missions))
	for _, m := range s.Missions {
		out = append(out, missionView(m))
	}
	return out
}

// MissionDetail returns one mission, or false if the ID is unknown.
func (s *Simulation) MissionDetail(id string) (MissionDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.MissionIndex[id]
	if !ok {
		return MissionDetail{}, false
	}
	return s.missionDetail(m), true
}

func missionView(m *mission.Mission) MissionView {
	return MissionView{
		ID:        m.ID,
		Kind:      m.Kind,
		Phase:     m.Phase(),
		Home:      m.Home,
		Rover:     m.Rover.Name,
		Members:   m.Members(),
		Statuses:  m.Statuses(),
		Started:   m.Started,
		Outbound:  m.Outbound(),
		Emergency: m.Emergency(),
		Done:      m.Done(),
	}
}

func (s *Simulation) missionDetail(m *mission.Mission) MissionDetail {
	d := MissionDetail{
		MissionView:     missionView(m),
		History:         m.History(),
		Navigation:      m.Navigation(),
		RemainingMsol:   m.EstimatedRemainingTime(s.mctx, false),
		ResourcesNeeded: byName(m.ResourcesNeededForRemaining(s.mctx, true)),
	}
	if st := m.Study(); st != nil {
		d.StudyID = st.ID
	}
	if remote, sell, buy, profit, ok := m.Trade(); ok {
		tv := &TradeView{
			Remote:      remote,
			Sell:        loadByName(sell),
			Buy:         loadByName(buy),
			Profit:      profit,
			Negotiation: "pending",
		}
		if n := m.Negotiation(); n == nil && !m.Outbound() {
			tv.Negotiation = "not needed"
		} else if n != nil {
			switch {
			case n.TimedOut():
				tv.Negotiation = "timed out"
			case n.Resolved():
				tv.Negotiation = "agreed"
			default:
				tv.Negotiation = "in progress"
			}
		}
		d.Trade = tv
	}
	return d
}

// SettlementList returns every settlement's stock and fleet.
func (s *Simulation) SettlementList() []SettlementView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rates := s.Tuning.LifeSupport.Rates()
	out := make([]SettlementView, 0, len(s.Settlements))
	for _, st := range s.Settlements {
		v := SettlementView{
			ID:          st.ID,
			Name:        st.Name,
			Position:    st.Position,
			Residents:   len(s.Residents(st.ID)),
			LifeSupport: make(map[string]float64, len(resources.LifeSupport)),
			Methane:     st.Inventory.AmountStored(resources.Methane),
			EVASuits:    st.EVASuits(),
			Specialty:   Specialty(st).String(),
		}
		for _, id := range resources.LifeSupport {
			v.LifeSupport[id.String()] = st.Inventory.AmountStored(id)
		}
		if humans := s.humansIn(st.ID); humans > 0 {
			if b, err := st.SustainableSols(rates, humans); err == nil {
				v.SustainableSols = b.Sols
			}
		}
		v.Rovers = roverViews(st)
		out = append(out, v)
	}
	return out
}

func roverViews(st *social.Settlement) []RoverView {
	out := make([]RoverView, 0, len(st.Rovers))
	for _, r := range st.Rovers {
		out = append(out, RoverView{
			Name:       r.Name,
			Model:      r.Model,
			Parked:     r.SettlementID == st.ID,
			ReservedBy: r.ReservedBy(),
			CargoKg:    r.Cargo.Total(),
		})
	}
	return out
}

// RecentEvents returns up to limit of the newest events, newest first.
func (s *Simulation) RecentEvents(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.Events) {
		limit = len(s.Events)
	}
	out := make([]Event, 0, limit)
	for i := len(s.Events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.Events[i])
	}
	return out
}

// MissionEvents returns the in-memory events of one mission, oldest first.
func (s *Simulation) MissionEvents(id string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.Events {
		if e.MissionID == id {
			out = append(out, e)
		}
	}
	return out
}

// TakeSnapshot captures the state the journal records and hands over the
// events emitted since the last call.
func (s *Simulation) TakeSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Tick:     s.LastTick,
		Season:   s.CurrentSeason,
		Seed:     s.Seed,
		Missions: make([]MissionDetail, 0, len(s.Missions)),
		Events:   s.unsaved,
		Profits:  s.Profits.Entries(),
	}
	for _, m := range s.Missions {
		snap.Missions = append(snap.Missions, s.missionDetail(m))
	}
	s.unsaved = nil
	return snap
}

func byName(amounts map[resources.ID]float64) map[string]float64 {
	out := make(map[string]float64, len(amounts))
	for id, q := range amounts {
		out[id.String()] = q
	}
	return out
}

func loadByName(l economy.Load) map[string]int {
	out := make(map[string]int, len(l))
	for id, q := range l {
		out[id.String()] = q
	}
	return out
}
