package mission

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/science"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/tasks"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

// Field work yields.
const (
	skillBonusPerLevel = 0.1   // Extra research per areology level
	samplesPerMsol     = 0.005 // kg of rock per msol of full-performance work
)

// fieldStudy takes a study's researchers to a site for field work.
type fieldStudy struct {
	study *science.Study
	site  world.HexCoord

	endFieldSite bool
	siteDone     bool
	samples      float64 // kg collected
}

// NewFieldStudy plans a field study led by leader: an areology study of
// theirs, the best rover at their settlement, a crew recruited by
// qualification and a site within safe range.
func NewFieldStudy(ctx *Context, leader *agents.Agent) (*Mission, error) {
	home := ctx.World.Settlement(leader.SettlementID)
	if home == nil || leader.Location != agents.InSettlement {
		return nil, NewMissionError(StatusNoInhabitableBuilding, "leader is not in a settlement").
			WithContext("agent", leader.ID)
	}
	study := tasks.ChooseStudy(leader, ctx.Studies, ctx.Rand, science.Areology)
	if study == nil {
		return nil, NewMissionError(StatusNoOngoingScientificStudy, "no ongoing areology study").
			WithContext("agent", leader.ID)
	}
	rover := home.AvailableRover(vehicle.PurposeFieldStudy)
	if rover == nil {
		return nil, NewMissionError(StatusNoAvailableVehicles, "no rover available").
			WithContext("settlement", home.ID)
	}

	crew := recruitFieldCrew(ctx, home, leader, study, rover.CrewCapacity)
	if len(crew) < ctx.Tuning.Mission.MinFieldMembers {
		return nil, NewMissionError(StatusNotEnoughMembers, fmt.Sprintf("recruited %d of %d members", len(crew), ctx.Tuning.Mission.MinFieldMembers)).
			WithContext("settlement", home.ID)
	}

	site, err := chooseFieldSite(ctx, home, rover, len(crew))
	if err != nil {
		return nil, WrapMissionError(StatusNotEnoughResources, "estimate field site range", err).
			WithContext("rover", rover.Name)
	}
	return NewFieldStudyParty(ctx, crew, study, site, rover)
}

// NewFieldStudyParty starts a field study with an explicit crew. The first
// member leads and sets the home settlement.
func NewFieldStudyParty(ctx *Context, members []*agents.Agent, study *science.Study, site world.HexCoord, rover *vehicle.Rover) (*Mission, error) {
	switch {
	case study == nil:
		return nil, NewMissionError(StatusNoOngoingScientificStudy, "no study")
	case rover == nil:
		return nil, NewMissionError(StatusNoAvailableVehicles, "no rover")
	case len(members) < ctx.Tuning.Mission.MinFieldMembers:
		return nil, NewMissionError(StatusNotEnoughMembers, fmt.Sprintf("%d members, need %d", len(members), ctx.Tuning.Mission.MinFieldMembers))
	case len(members) > rover.CrewCapacity:
		return nil, NewMissionError(StatusCannotEnterRover, fmt.Sprintf("%d members for %d seats", len(members), rover.CrewCapacity))
	}
	if err := checkFree(members); err != nil {
		return nil, err
	}
	home := ctx.World.Settlement(members[0].SettlementID)
	if home == nil {
		return nil, NewMissionError(StatusNoInhabitableBuilding, "leader has no settlement")
	}

	v := &fieldStudy{study: study, site: site}
	nav := []NavPoint{
		{Coord: site, Description: "field site"},
		{Coord: home.Position, SettlementID: home.ID, Description: home.Name},
	}
	m := newMission(ctx, v, home.ID, rover, nav)
	if err := rover.Reserve(m.ID); err != nil {
		return nil, WrapMissionError(StatusNoAvailableVehicles, "reserve rover", err)
	}
	m.enlist(ctx, members)
	return m, nil
}

func checkFree(members []*agents.Agent) error {
	for _, a := range members {
		if a.OnMission() {
			return NewMissionError(StatusNotEnoughMembers, "member already on a mission").
				WithContext("agent", a.ID).
				WithContext("mission", a.MissionID)
		}
	}
	return nil
}

// recruitFieldCrew returns leader followed by the best qualified residents
// free to go, up to seats.
func recruitFieldCrew(ctx *Context, home *social.Settlement, leader *agents.Agent, study *science.Study, seats int) []*agents.Agent {
	type candidate struct {
		agent *agents.Agent
		score float64
	}
	var pool []candidate
	for _, a := range ctx.World.Residents(home.ID) {
		if a.ID == leader.ID || a.OnMission() || !a.CanPerform(agents.ActivityFieldWork) || a.Condition.Emergency() {
			continue
		}
		pool = append(pool, candidate{a, a.PerformanceRating() + science.Qualification(study, a)})
	}
	slices.SortStableFunc(pool, func(x, y candidate) int {
		return cmp.Compare(y.score, x.score)
	})

	crew := []*agents.Agent{leader}
	for _, c := range pool {
		if len(crew) >= seats {
			break
		}
		crew = append(crew, c.agent)
	}
	return crew
}

// chooseFieldSite picks a site a quarter of the safe range away at most, in
// a random direction.
func chooseFieldSite(ctx *Context, home *social.Settlement, rover *vehicle.Rover, crew int) (world.HexCoord, error) {
	limit, err := resources.TripTimeLimit(ctx.Tuning.LifeSupport.Rates(), rover.Capacities, crew, ctx.margin(), true)
	if err != nil {
		return world.HexCoord{}, fmt.Errorf("trip time limit: %w", err)
	}
	rng := math.Min(rover.Range(vehicle.PurposeFieldStudy), resources.RangeKm(limit-ctx.Tuning.Mission.FieldSiteTime, rover.AvgSpeed))
	distance := entropy.RandomDouble(ctx.Rand, rng/4)
	angle := entropy.RandomDouble(ctx.Rand, 2*math.Pi)
	return ctx.Map.Toward(home.Position, angle, distance), nil
}

// Study returns the study a field study serves, or nil for other kinds.
func (m *Mission) Study() *science.Study {
	if v, ok := m.variant.(*fieldStudy); ok {
		return v.study
	}
	return nil
}

// EndFieldSite asks the crew to wrap up at the site. It takes effect once
// everyone is back inside.
func (m *Mission) EndFieldSite() {
	if v, ok := m.variant.(*fieldStudy); ok {
		v.endFieldSite = true
	}
}

func (v *fieldStudy) kind() Kind { return KindFieldStudy }

func (v *fieldStudy) enter(m *Mission, ctx *Context, p Phase) {
	if p == PhaseResearchSite {
		v.endFieldSite = false
	}
}

func (v *fieldStudy) perform(m *Mission, ctx *Context, a *agents.Agent, dt float64) {
	if m.phase != PhaseResearchSite {
		return
	}
	m.consume(ctx, a, dt)
	now := ctx.now()

	if a.Activity != nil && a.Activity.Kind == agents.ActivityFieldWork {
		if !v.safeOutside(ctx) {
			a.ClearActivity()
			m.board(ctx, a)
			return
		}
		v.work(a, m, dt)
		if ctx.Scheduler.Progress(a, dt, now, ctx.Rand) == agents.ActivityFieldWork {
			m.board(ctx, a)
		}
		return
	}

	if v.endFieldSite || now-m.phaseStart >= ctx.Tuning.Mission.FieldSiteTime || !v.canWork(ctx, a) {
		m.rest(ctx, a, dt)
		return
	}
	m.Rover.Alight(a.ID)
	a.Location = agents.Outside
	ctx.Scheduler.AssignFor(a, agents.ActivityFieldWork, now, ctx.Tuning.Mission.FieldWorkDuration)
}

// work credits dt of field work by a to the study and collects samples.
func (v *fieldStudy) work(a *agents.Agent, m *Mission, dt float64) {
	perf := a.PerformanceRating()
	bonus := 1 + skillBonusPerLevel*float64(a.Skills.Level(agents.SkillAreology))
	if v.study.NeedsResearch(a.ID) {
		v.study.AddResearch(a.ID, dt*perf*bonus)
	}
	kg := samplesPerMsol * dt * perf
	kg -= m.Rover.Cargo.Store(resources.RockSample, kg)
	v.samples += kg
	v.study.Samples += kg
}

func (v *fieldStudy) safeOutside(ctx *Context) bool {
	return ctx.Env.SolarIrradiance(v.site) > 0 && ctx.Env.RadiationExposure(v.site) != world.RadiationSEP
}

func (v *fieldStudy) canWork(ctx *Context, a *agents.Agent) bool {
	return a.CanPerform(agents.ActivityFieldWork) &&
		a.Condition.CanExert() &&
		!a.Condition.Emergency() &&
		v.safeOutside(ctx)
}

func (v *fieldStudy) anyoneCanWork(ctx *Context, m *Mission) bool {
	for _, id := range m.members {
		if a := ctx.World.Agent(id); a != nil && v.canWork(ctx, a) {
			return true
		}
	}
	return false
}

func (v *fieldStudy) check(m *Mission, ctx *Context) {
	if m.phase != PhaseResearchSite {
		return
	}
	for _, id := range m.members {
		if a := ctx.World.Agent(id); a != nil && a.Location == agents.Outside {
			return
		}
	}

	switch {
	case v.endFieldSite, ctx.now()-m.phaseStart >= ctx.Tuning.Mission.FieldSiteTime:
		m.endPhase()
	case m.anyEmergency(ctx):
		m.addStatus(ctx, StatusMedicalEmergency)
		m.endPhase()
	case !m.hasEnoughResources(ctx, false):
		m.addStatus(ctx, StatusNotEnoughResources)
		m.endPhase()
	case !v.anyoneCanWork(ctx, m) && (ctx.Env.SolarIrradiance(v.site) > 0 || ctx.Env.InDarkPolarRegion(v.site)):
		m.addStatus(ctx, StatusNoFieldWorkCapability)
		m.endPhase()
	}
}

func (v *fieldStudy) leave(m *Mission, ctx *Context, p Phase) {
	if p != PhaseResearchSite {
		return
	}
	v.siteDone = true
	m.setOutbound(false)
	for _, id := range m.members {
		if a := ctx.World.Agent(id); a != nil && a.Location == agents.Outside {
			a.ClearActivity()
			m.board(ctx, a)
		}
	}
	ctx.emit(m, EventStatus, "left site with %.1f kg of samples", v.samples)
}

func (v *fieldStudy) extraTime(m *Mission, ctx *Context) float64 {
	site := ctx.Tuning.Mission.FieldSiteTime
	switch {
	case v.siteDone:
		return 0
	case m.phase == PhaseResearchSite:
		return math.Max(0, site-(ctx.now()-m.phaseStart))
	}
	return site
}

func (v *fieldStudy) cargo(m *Mission, ctx *Context) map[resources.ID]float64 {
	if v.siteDone || !m.outbound {
		return nil
	}
	return map[resources.ID]float64{resources.EVASuit: float64(len(m.members))}
}
