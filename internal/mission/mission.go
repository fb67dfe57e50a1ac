// Package mission runs rover missions as a phase state machine: a generic
// travel skeleton (reviewing, embarking, travelling, disembarking) plus the
// extra phases of each kind, chosen from a transition table.
//
// Missions are driven by the engine once per tick. Members are kept by ID
// and resolved through the Context, in ascending ID order.
package mission

import (
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

const (
	// loadEpsilon is the amount below which cargo counts as moved.
	loadEpsilon = 1e-6

	// rationPerMsol is the share of a full meal rover rations provide each
	// msol; it matches hunger growth.
	rationPerMsol = 0.3 / 1000

	// hypoxiaPerMsol is the ailment gained each msol without oxygen.
	hypoxiaPerMsol = 0.002

	// packagedMeal is the food eaten from storage by a resting member, kg.
	packagedMeal = 0.2
)

// Mission is one rover expedition.
type Mission struct {
	ID       string
	Kind     Kind
	Home     uint64 // Starting settlement
	Rover    *vehicle.Rover
	Capacity int
	Started  float64 // msol

	phase      Phase
	phaseStart float64
	phaseEnded bool
	history    []PhaseRecord
	statuses   []StatusCode
	members    []agents.AgentID

	nav      []NavPoint
	navIndex int // Next waypoint to reach
	outbound bool
	arrived  bool

	ended     bool
	emergency bool
	stalled   bool // Unloading made no progress

	equipment map[resources.ID]float64
	toLoad    map[resources.ID]float64

	variant variant
}

func newMission(ctx *Context, v variant, home uint64, rover *vehicle.Rover, nav []NavPoint) *Mission {
	m := &Mission{
		ID:       uuid.NewString(),
		Kind:     v.kind(),
		Home:     home,
		Rover:    rover,
		Capacity: rover.CrewCapacity,
		Started:  ctx.now(),
		nav:      nav,
		outbound: true,
		variant:  v,
	}
	m.phase = PhaseReviewing
	m.phaseStart = m.Started
	m.history = []PhaseRecord{{Phase: PhaseReviewing, Started: m.Started}}
	return m
}

// enlist makes members part of m.
func (m *Mission) enlist(ctx *Context, members []*agents.Agent) {
	for _, a := range members {
		a.MissionID = m.ID
		a.ClearActivity()
		m.members = append(m.members, a.ID)
	}
	slices.Sort(m.members)
	slog.Info("mission started", "mission", m.ID, "kind", m.Kind, "members", len(m.members), "rover", m.Rover.Name)
	ctx.emit(m, EventStarted, "%s with %d members in %s", m.Kind, len(m.members), m.Rover.Name)
}

func (m *Mission) String() string {
	return fmt.Sprintf("%s %s (%s)", m.Kind, m.ID, m.phase)
}

// Phase returns the current phase.
func (m *Mission) Phase() Phase {
	return m.phase
}

// PhaseStarted returns when the current phase began, msol.
func (m *Mission) PhaseStarted() float64 {
	return m.phaseStart
}

// History returns the phases entered so far, oldest first.
func (m *Mission) History() []PhaseRecord {
	return slices.Clone(m.history)
}

// Members returns the member IDs in ascending order.
func (m *Mission) Members() []agents.AgentID {
	return slices.Clone(m.members)
}

// Statuses returns the recorded status codes in the order they occurred.
func (m *Mission) Statuses() []StatusCode {
	return slices.Clone(m.statuses)
}

// Navigation returns the waypoints in travel order.
func (m *Mission) Navigation() []NavPoint {
	return slices.Clone(m.nav)
}

// Outbound reports whether the mission is still heading away from home.
func (m *Mission) Outbound() bool {
	return m.outbound
}

// Done reports whether the mission has ended.
func (m *Mission) Done() bool {
	return m.ended
}

// Emergency reports whether the mission has been redirected.
func (m *Mission) Emergency() bool {
	return m.emergency
}

// Perform runs one tick: a pending phase change, then every member in
// ascending ID order, then the phase exit check.
func (m *Mission) Perform(ctx *Context, dt float64) {
	if m.ended {
		return
	}
	if m.phaseEnded {
		m.nextPhase(ctx)
		if m.ended {
			return
		}
	}
	for _, id := range m.members {
		a := ctx.World.Agent(id)
		if a == nil {
			continue
		}
		m.Advance(ctx, a, dt)
		if m.ended {
			return
		}
	}
	m.checkPhase(ctx)
}

// Advance runs one member's share of the current phase.
func (m *Mission) Advance(ctx *Context, member *agents.Agent, dt float64) {
	if m.ended || member.MissionID != m.ID {
		return
	}
	switch m.phase {
	case PhaseReviewing:
		m.rest(ctx, member, dt)
	case PhaseEmbarking:
		m.embark(ctx, member, dt)
	case PhaseTravelling:
		m.travel(ctx, member, dt)
	case PhaseDisembarking:
		m.disembark(ctx, member, dt)
	default:
		m.variant.perform(m, ctx, member, dt)
	}
}

func (m *Mission) checkPhase(ctx *Context) {
	switch m.phase {
	case PhaseReviewing:
		if m.Rover.ReservedBy() != m.ID {
			m.EndMission(ctx, StatusNoAvailableVehicles)
			return
		}
		if ctx.now()-m.phaseStart >= ctx.Tuning.Mission.ReviewTime {
			m.endPhase()
		}
	case PhaseEmbarking:
		m.checkEmbarking(ctx)
	case PhaseTravelling:
		m.checkTravelling(ctx)
	case PhaseDisembarking:
		if m.everyoneIn(ctx, m.reached().SettlementID) && (m.cargoEmpty() || m.stalled) {
			m.endPhase()
		}
	default:
		m.variant.check(m, ctx)
	}
}

// endPhase flags the current phase as over. The change happens at the
// start of the next Perform.
func (m *Mission) endPhase() {
	m.phaseEnded = true
}

func (m *Mission) nextPhase(ctx *Context) {
	ended := m.phase
	m.phaseEnded = false
	m.variant.leave(m, ctx, ended)
	if m.ended {
		return
	}

	next, ok := determineNewPhase(m.Kind, ended, m.outbound)
	if !ok {
		slog.Error("no phase transition", "mission", m.ID, "kind", m.Kind, "phase", ended, "outbound", m.outbound)
		m.EndMission(ctx, StatusNoNextPhase)
		return
	}
	m.setPhase(ctx, next)
	m.enter(ctx, next)
}

func (m *Mission) setPhase(ctx *Context, p Phase) {
	from := m.phase
	m.phase = p
	m.phaseStart = ctx.now()
	m.history = append(m.history, PhaseRecord{Phase: p, Started: m.phaseStart})
	m.invalidateEquipment()
	slog.Info("mission phase", "mission", m.ID, "kind", m.Kind, "from", from, "to", p)
	ctx.emit(m, EventPhase, "%s -> %s", from, p)
}

func (m *Mission) enter(ctx *Context, p Phase) {
	switch p {
	case PhaseEmbarking:
		m.enterEmbarking(ctx)
	case PhaseTravelling:
		m.enterTravelling(ctx)
	case PhaseDisembarking:
		m.enterDisembarking(ctx)
	case PhaseCompleted:
		m.EndMission(ctx, StatusMissionAccomplished)
		return
	}
	if !m.ended {
		m.variant.enter(m, ctx, p)
	}
}

// EndMission releases the rover, any towed rover and the members, and
// records status. Calls after the first do nothing.
func (m *Mission) EndMission(ctx *Context, status StatusCode) {
	if m.ended {
		return
	}
	if t := m.Rover.Untow(); t != nil {
		if err := t.Release(m.ID); err != nil {
			slog.Debug("towed rover not reserved", "mission", m.ID, "rover", t.Name, "err", err)
		}
		m.adopt(ctx, t)
	}
	if m.Rover.ReservedBy() == m.ID {
		if err := m.Rover.Release(m.ID); err != nil {
			slog.Error("release rover", "mission", m.ID, "rover", m.Rover.Name, "err", err)
		}
	}
	m.Rover.LifeSupport.Release()

	parked := ctx.World.Settlement(m.Rover.SettlementID)
	for _, id := range m.members {
		a := ctx.World.Agent(id)
		if a == nil {
			continue
		}
		a.MissionID = ""
		a.ClearActivity()
		if parked != nil {
			m.Rover.Alight(id)
			enterSettlement(a, parked)
		} else if a.Location == agents.Outside {
			m.Rover.Board(id)
			a.Location = agents.InVehicle
		}
	}

	// Terminal state only once everything is released.
	m.ended = true
	m.addStatus(ctx, status)
	if m.phase != PhaseCompleted {
		m.setPhase(ctx, PhaseAborted)
	}
	if status == StatusMissionAccomplished {
		slog.Info("mission ended", "mission", m.ID, "kind", m.Kind, "status", status)
	} else {
		slog.Warn("mission aborted", "mission", m.ID, "kind", m.Kind, "status", status, "phase", m.history[len(m.history)-2].Phase)
	}
	ctx.emit(m, EventEnded, "%s", status)
}

// adopt gives a loose rover to the settlement the mission rover is parked
// at, or to home.
func (m *Mission) adopt(ctx *Context, r *vehicle.Rover) {
	for _, s := range ctx.World.Settlements() {
		if slices.Contains(s.Rovers, r) {
			return
		}
	}
	if s := ctx.World.Settlement(m.Rover.SettlementID); s != nil {
		s.AddRover(r)
		return
	}
	if home := ctx.World.Settlement(m.Home); home != nil {
		home.Rovers = append(home.Rovers, r)
	}
}

func (m *Mission) addStatus(ctx *Context, s StatusCode) {
	if slices.Contains(m.statuses, s) {
		return
	}
	m.statuses = append(m.statuses, s)
	ctx.emit(m, EventStatus, "%s", s)
}

func (m *Mission) setOutbound(v bool) {
	if m.outbound != v {
		m.outbound = v
		m.invalidateEquipment()
	}
}

// reached returns the last waypoint arrived at, or home before departure.
func (m *Mission) reached() NavPoint {
	if m.navIndex == 0 || m.navIndex > len(m.nav) {
		return NavPoint{SettlementID: m.Home}
	}
	return m.nav[m.navIndex-1]
}

// Destination returns the next waypoint, if any.
func (m *Mission) Destination() (NavPoint, bool) {
	if m.navIndex >= len(m.nav) {
		return NavPoint{}, false
	}
	return m.nav[m.navIndex], true
}

func (m *Mission) addHomeNav(ctx *Context) {
	for _, n := range m.nav[m.navIndex:] {
		if n.SettlementID == m.Home {
			return
		}
	}
	home := ctx.World.Settlement(m.Home)
	if home == nil {
		return
	}
	m.nav = append(m.nav, NavPoint{Coord: home.Position, SettlementID: home.ID, Description: home.Name})
	m.invalidateEquipment()
}

// Embarking.

func (m *Mission) enterEmbarking(ctx *Context) {
	home := ctx.World.Settlement(m.Home)
	if home == nil || !home.Inhabitable {
		m.EndMission(ctx, StatusNoInhabitableBuilding)
		return
	}
	if !home.Garage && home.EVASuits() < len(m.members) {
		m.EndMission(ctx, StatusEVASuitCannotBeLoaded)
		return
	}

	m.toLoad = make(map[resources.ID]float64)
	need := m.EquipmentNeeded(ctx)
	for _, id := range resources.SortedIDs(need) {
		have := m.Rover.Cargo.AmountStored(id)
		short := need[id] - have
		if short <= loadEpsilon {
			continue
		}
		if short > m.Rover.Capacity(id)-have || home.Inventory.AmountStored(id) < short {
			slog.Warn("rover not loadable", "mission", m.ID, "resource", id.String(), "short", short)
			m.EndMission(ctx, StatusVehicleNotLoadable)
			return
		}
		m.toLoad[id] = short
	}
}

func (m *Mission) embark(ctx *Context, a *agents.Agent, dt float64) {
	if len(m.toLoad) == 0 {
		a.ClearActivity()
		m.board(ctx, a)
		return
	}

	home := ctx.World.Settlement(m.Home)
	kind := agents.ActivityLoadVehicleGarage
	if !home.Garage {
		kind = agents.ActivityLoadVehicleEVA
	}
	if !a.CanPerform(kind) {
		m.board(ctx, a)
		return
	}
	if a.Activity == nil || a.Activity.Kind != kind {
		ctx.Scheduler.Assign(a, kind, ctx.now())
	}
	m.LoadCargo(home.Inventory, ctx.Tuning.Mission.LoadRate*dt*a.PerformanceRating())
	ctx.Scheduler.Progress(a, dt, ctx.now(), ctx.Rand)
}

// LoadCargo moves up to kg of what the rover still needs from inv into the
// rover and returns the amount moved. It only loads while embarking.
func (m *Mission) LoadCargo(inv resources.Inventory, kg float64) float64 {
	if m.ended || m.phase != PhaseEmbarking || len(m.toLoad) == 0 {
		return 0
	}
	return moveGoods(inv, m.Rover.Cargo, m.toLoad, kg)
}

// Loading reports whether the rover still needs cargo, and whether EVA
// suits are among it.
func (m *Mission) Loading() (active, suits bool) {
	if m.ended || m.phase != PhaseEmbarking {
		return false, false
	}
	return len(m.toLoad) > 0, m.toLoad[resources.EVASuit] > 0
}

func (m *Mission) checkEmbarking(ctx *Context) {
	if len(m.toLoad) > 0 {
		home := ctx.World.Settlement(m.Home)
		for _, id := range resources.SortedIDs(m.toLoad) {
			if home.Inventory.AmountStored(id) <= loadEpsilon {
				slog.Warn("home ran out while loading", "mission", m.ID, "resource", id.String())
				m.EndMission(ctx, StatusVehicleNotLoadable)
				return
			}
		}
		return
	}
	if m.everyoneAboard(ctx) {
		m.endPhase()
	}
}

func (m *Mission) board(ctx *Context, a *agents.Agent) bool {
	if !m.Rover.Aboard(a.ID) && !m.Rover.Board(a.ID) {
		m.EndMission(ctx, StatusCannotEnterRover)
		return false
	}
	a.Location = agents.InVehicle
	a.Position = m.Rover.Position
	return true
}

func (m *Mission) everyoneAboard(ctx *Context) bool {
	for _, id := range m.members {
		if a := ctx.World.Agent(id); a != nil && !m.Rover.Aboard(id) {
			return false
		}
	}
	return true
}

// Travelling.

func (m *Mission) enterTravelling(ctx *Context) {
	dest, ok := m.Destination()
	if !ok {
		m.EndMission(ctx, StatusNoNextPhase)
		return
	}
	m.arrived = false
	m.Rover.Depart()
	m.Rover.SetDestination(ctx.Map, dest.Coord)
	slog.Debug("rover departing", "mission", m.ID, "rover", m.Rover.Name, "to", dest.Description, "km", m.Rover.RemainingKm())
}

func (m *Mission) travel(ctx *Context, a *agents.Agent, dt float64) {
	m.consume(ctx, a, dt)
	if a.ID == m.driver(ctx) {
		m.drive(ctx, dt)
		return
	}
	m.rest(ctx, a, dt)
}

// driver is the member aboard with the best driving skill, lowest ID first.
func (m *Mission) driver(ctx *Context) agents.AgentID {
	var (
		best  agents.AgentID
		skill = -1
	)
	for _, id := range m.members {
		a := ctx.World.Agent(id)
		if a == nil || !m.Rover.Aboard(id) {
			continue
		}
		if l := a.Skills.Level(agents.SkillDriving); l > skill {
			best, skill = id, l
		}
	}
	return best
}

func (m *Mission) drive(ctx *Context, dt float64) {
	terrain := 1.0
	if ctx.Terrain != nil {
		terrain = ctx.Terrain.DrivingFactor(m.Rover.Position)
	}
	_, done, err := m.Rover.Drive(ctx.Map, dt, terrain, ctx.Rand)
	if err != nil {
		slog.Warn("rover stranded", "mission", m.ID, "rover", m.Rover.Name, "err", err)
		m.EndMission(ctx, StatusNotEnoughResources)
		return
	}
	if done {
		m.arrived = true
	}
}

// consume feeds a from the rover's life support for dt.
func (m *Mission) consume(ctx *Context, a *agents.Agent, dt float64) {
	if a.IsRobot() {
		return
	}
	rates := ctx.Tuning.LifeSupport.Rates()
	per := dt / resources.MillisolsPerSol
	food := m.Rover.LifeSupport.Retrieve(resources.Food, rates[resources.Food]*per)
	water := m.Rover.LifeSupport.Retrieve(resources.Water, rates[resources.Water]*per)
	if food && water {
		a.Condition.Eat(rationPerMsol * dt)
	}
	if !m.Rover.LifeSupport.Retrieve(resources.Oxygen, rates[resources.Oxygen]*per) {
		a.Condition.Ailment = math.Min(1, a.Condition.Ailment+hypoxiaPerMsol*dt)
	}
}

func (m *Mission) checkTravelling(ctx *Context) {
	for _, id := range m.members {
		if a := ctx.World.Agent(id); a != nil {
			a.Position = m.Rover.Position
		}
	}
	if m.arrived {
		m.navIndex++
		m.endPhase()
		return
	}
	if !m.emergency && m.anyEmergency(ctx) {
		m.addStatus(ctx, StatusMedicalEmergency)
		if !m.redirect(ctx) {
			// No help in reach: carry on, supplies are still watched below.
			m.emergency = true
		}
	}
	if m.hasEnoughResources(ctx, false) {
		return
	}
	if dest, ok := m.Destination(); ok && m.emergency && m.canReach(ctx, dest.Coord) {
		return
	}
	m.addStatus(ctx, StatusNotEnoughResources)
	if !m.redirect(ctx) {
		m.EndMission(ctx, StatusNotEnoughResources)
	}
}

func (m *Mission) anyEmergency(ctx *Context) bool {
	for _, id := range m.members {
		if a := ctx.World.Agent(id); a != nil && a.Condition.Emergency() {
			return true
		}
	}
	return false
}

// redirect sends the rover to the nearest settlement it can still reach.
func (m *Mission) redirect(ctx *Context) bool {
	dest := m.nearestReachable(ctx)
	if dest == nil {
		return false
	}
	m.emergency = true
	m.setOutbound(false)
	point := NavPoint{Coord: dest.Position, SettlementID: dest.ID, Description: dest.Name}
	m.nav = append(m.nav[:m.navIndex:m.navIndex], point)
	if m.phase == PhaseTravelling {
		m.Rover.SetDestination(ctx.Map, dest.Position)
	}
	m.invalidateEquipment()
	slog.Warn("mission redirected", "mission", m.ID, "kind", m.Kind, "to", dest.Name)
	ctx.emit(m, EventRedirected, "heading for %s", dest.Name)
	return true
}

func (m *Mission) nearestReachable(ctx *Context) *social.Settlement {
	var reachable []*social.Settlement
	for _, s := range ctx.World.Settlements() {
		if s.Inhabitable && m.canReach(ctx, s.Position) {
			reachable = append(reachable, s)
		}
	}
	return social.Nearest(ctx.Map, m.Rover.Position, reachable)
}

// canReach reports whether the fuel and life support aboard last the drive
// to c.
func (m *Mission) canReach(ctx *Context, c world.HexCoord) bool {
	km := ctx.Map.DistanceKm(m.Rover.Position, c)
	if m.Rover.FuelPerKm > 0 && km > m.Rover.LifeSupport.Available(resources.Methane)/m.Rover.FuelPerKm {
		return false
	}
	return resources.TravelMillisols(km, m.Rover.AvgSpeed) <= m.sustainableMsol(ctx)
}

// sustainableMsol is how long the life support aboard lasts the crew.
func (m *Mission) sustainableMsol(ctx *Context) float64 {
	stock := make(map[resources.ID]float64, len(resources.LifeSupport))
	for _, id := range resources.LifeSupport {
		stock[id] = m.Rover.LifeSupport.Available(id)
	}
	b, err := resources.SustainableSols(ctx.Tuning.LifeSupport.Rates(), stock, max(len(m.members), 1))
	if err != nil {
		return 0
	}
	return b.Sols * resources.MillisolsPerSol
}

func (m *Mission) hasEnoughResources(ctx *Context, useMargin bool) bool {
	need := m.ResourcesNeededForRemaining(ctx, useMargin)
	for _, id := range resources.SortedIDs(need) {
		if m.Rover.LifeSupport.Available(id) < need[id] {
			return false
		}
	}
	return true
}

// Disembarking.

func (m *Mission) enterDisembarking(ctx *Context) {
	st := ctx.World.Settlement(m.reached().SettlementID)
	if st == nil || !st.Inhabitable {
		m.EndMission(ctx, StatusNoInhabitableBuilding)
		return
	}
	m.stalled = false
	m.Rover.LifeSupport.Release()
	m.parkAt(ctx, st)
	if t := m.Rover.Untow(); t != nil {
		m.handOver(ctx, t, st)
	}
}

// parkAt parks the rover at st, moving it to st's fleet when st is not
// home.
func (m *Mission) parkAt(ctx *Context, st *social.Settlement) {
	if home := ctx.World.Settlement(m.Home); home != nil && home.ID != st.ID && home.RemoveRover(m.Rover) {
		st.AddRover(m.Rover)
		return
	}
	m.Rover.Park(st.ID)
	m.Rover.Position = st.Position
}

// handOver releases a towed rover into st's fleet.
func (m *Mission) handOver(ctx *Context, r *vehicle.Rover, st *social.Settlement) {
	if err := r.Release(m.ID); err != nil {
		slog.Debug("handed over rover not reserved", "mission", m.ID, "rover", r.Name, "err", err)
	}
	for _, s := range ctx.World.Settlements() {
		s.RemoveRover(r)
	}
	st.AddRover(r)
	slog.Info("rover handed over", "mission", m.ID, "rover", r.Name, "settlement", st.Name)
}

func (m *Mission) disembark(ctx *Context, a *agents.Agent, dt float64) {
	st := ctx.World.Settlement(m.reached().SettlementID)
	if st == nil {
		return
	}
	if m.Rover.Aboard(a.ID) || a.Location != agents.InSettlement {
		m.Rover.Alight(a.ID)
		enterSettlement(a, st)
		return
	}
	if m.cargoEmpty() || m.stalled {
		a.ClearActivity()
		m.rest(ctx, a, dt)
		return
	}

	kind := unloadKind(st)
	if kind.Info().Outdoor && ctx.Env.SolarIrradiance(st.Position) <= 0 {
		m.rest(ctx, a, dt)
		return
	}
	if a.Activity == nil || a.Activity.Kind != kind {
		ctx.Scheduler.Assign(a, kind, ctx.now())
	}
	budget := ctx.Tuning.Mission.LoadRate * dt * a.PerformanceRating()
	if moved := resources.Drain(m.Rover.Cargo, st.Inventory, budget); moved <= 0 && budget > 0 {
		m.stalled = true
	}
	ctx.Scheduler.Progress(a, dt, ctx.now(), ctx.Rand)
}

func (m *Mission) cargoEmpty() bool {
	return len(m.Rover.Cargo.Snapshot()) == 0
}

// everyoneIn reports whether every member is inside the settlement.
func (m *Mission) everyoneIn(ctx *Context, settlementID uint64) bool {
	for _, id := range m.members {
		a := ctx.World.Agent(id)
		if a == nil {
			continue
		}
		if m.Rover.Aboard(id) || a.Location != agents.InSettlement || a.SettlementID != settlementID {
			return false
		}
	}
	return true
}

func enterSettlement(a *agents.Agent, st *social.Settlement) {
	a.Location = agents.InSettlement
	a.SettlementID = st.ID
	a.Position = st.Position
}

func loadKind(st *social.Settlement) agents.ActivityKind {
	if st.Garage {
		return agents.ActivityLoadVehicleGarage
	}
	return agents.ActivityLoadVehicleEVA
}

func unloadKind(st *social.Settlement) agents.ActivityKind {
	if st.Garage {
		return agents.ActivityUnloadVehicleGarage
	}
	return agents.ActivityUnloadVehicleEVA
}

// rest lets an idle member sleep when tired and eat when hungry.
func (m *Mission) rest(ctx *Context, a *agents.Agent, dt float64) {
	if a.Activity != nil || a.IsRobot() {
		return
	}
	if a.Condition.Fatigue > agents.TiredAt {
		a.Condition.Sleep(dt)
	}
	if !a.Condition.IsHungry() || a.Location != agents.InSettlement {
		return
	}
	if st := ctx.World.Settlement(a.SettlementID); st != nil && st.Inventory.Retrieve(resources.Food, packagedMeal) {
		a.Condition.Eat(0.8)
	}
}

// shuttle has a moving goods between inventories as part of a loading or
// unloading job. An idle member takes the job with probability one half.
func (m *Mission) shuttle(ctx *Context, a *agents.Agent, dt float64, kind agents.ActivityKind, at *social.Settlement, from, to resources.Inventory, want map[resources.ID]float64) {
	if a.Activity == nil || a.Activity.Kind != kind {
		switch {
		case len(want) == 0, !a.CanPerform(kind), !entropy.Chance(ctx.Rand, 0.5):
			m.rest(ctx, a, dt)
			return
		case kind.Info().Outdoor && ctx.Env.SolarIrradiance(at.Position) <= 0:
			m.rest(ctx, a, dt)
			return
		}
		ctx.Scheduler.Assign(a, kind, ctx.now())
	}
	moveGoods(from, to, want, ctx.Tuning.Mission.LoadRate*dt*a.PerformanceRating())
	ctx.Scheduler.Progress(a, dt, ctx.now(), ctx.Rand)
}

// moveGoods transfers up to budget of want from one inventory to another in
// ID order, counting each item as one unit, and shrinks want by what moved.
func moveGoods(from, to resources.Inventory, want map[resources.ID]float64, budget float64) float64 {
	moved := 0.0
	for _, id := range resources.SortedIDs(want) {
		if budget-moved <= loadEpsilon {
			break
		}
		amount := math.Min(want[id], budget-moved)
		if id.Category() == resources.CategoryItem {
			amount = math.Min(want[id], math.Max(1, math.Floor(budget-moved)))
		}
		n := resources.Transfer(from, to, id, amount)
		want[id] -= n
		moved += n
		if want[id] <= loadEpsilon {
			delete(want, id)
		}
	}
	return moved
}

// Estimates.

// remainingKm is the distance left along the waypoints from the rover.
func (m *Mission) remainingKm(ctx *Context) float64 {
	from := m.Rover.Position
	km := 0.0
	i := m.navIndex
	if m.phase == PhaseTravelling && !m.arrived && i < len(m.nav) {
		km = m.Rover.RemainingKm()
		from = m.nav[i].Coord
		i++
	}
	for ; i < len(m.nav); i++ {
		km += ctx.Map.DistanceKm(from, m.nav[i].Coord)
		from = m.nav[i].Coord
	}
	return km
}

// EstimatedRemainingTime is the travel and stop time left, msol,
// multiplied by the margin when requested.
func (m *Mission) EstimatedRemainingTime(ctx *Context, useMargin bool) float64 {
	if m.ended {
		return 0
	}
	t := resources.TravelMillisols(m.remainingKm(ctx), m.Rover.AvgSpeed) + m.variant.extraTime(m, ctx)
	if useMargin && ctx.margin() > 1 {
		t *= ctx.margin()
	}
	return t
}

// ResourcesNeededForRemaining is the life support and fuel the crew needs
// for the rest of the mission.
func (m *Mission) ResourcesNeededForRemaining(ctx *Context, useMargin bool) map[resources.ID]float64 {
	if m.ended {
		return map[resources.ID]float64{}
	}
	msol := m.EstimatedRemainingTime(ctx, false)
	need := resources.ResourcesNeeded(msol, len(m.members), ctx.Tuning.LifeSupport.Rates(), ctx.margin(), useMargin)
	fuel := m.remainingKm(ctx) * m.Rover.FuelPerKm
	if useMargin && ctx.margin() > 1 {
		fuel *= ctx.margin()
	}
	if fuel > 0 {
		need[resources.Methane] = fuel
	}
	return need
}

// EquipmentNeeded is everything the rover must carry for the rest of the
// mission. It is cached until the phase or direction changes.
func (m *Mission) EquipmentNeeded(ctx *Context) map[resources.ID]float64 {
	if m.equipment == nil {
		need := m.ResourcesNeededForRemaining(ctx, true)
		for id, q := range m.variant.cargo(m, ctx) {
			need[id] += q
		}
		m.equipment = need
	}
	return maps.Clone(m.equipment)
}

func (m *Mission) invalidateEquipment() {
	m.equipment = nil
}
