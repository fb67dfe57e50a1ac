// Agent spawning: creates outpost crews with attributes, skills, jobs and
// favorites.
package agents

import (
	"math/rand"
	"strconv"

	"github.com/talgya/outpost/internal/world"
)

// Spawner creates agents for the simulation.
type Spawner struct {
	rng    *rand.Rand
	nextID AgentID

	// Dish names favorites are drawn from. Empty leaves favorites unset.
	MainDishes []string
	SideDishes []string
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

// SetNextID sets the next agent ID to be issued.
func (s *Spawner) SetNextID(id AgentID) {
	s.nextID = id
}

// crewJobs is the order jobs are handed out; small crews get the top of the
// list.
var crewJobs = []Job{
	JobAreologist, JobDriver, JobTrader, JobChef, JobEngineer, JobAstronomer,
	JobAreologist, JobBotanist, JobDoctor, JobTechnician, JobDriver, JobTrader,
}

// SpawnCrew creates count humans plus one chef robot for a settlement.
func (s *Spawner) SpawnCrew(count int, settlementID uint64, position world.HexCoord) []*Agent {
	crew := make([]*Agent, 0, count+1)
	for i := range count {
		job := crewJobs[i%len(crewJobs)]
		crew = append(crew, s.SpawnHuman(job, settlementID, position))
	}
	crew = append(crew, s.SpawnRobot(JobChef, settlementID, position))
	return crew
}

// SpawnHuman creates one human with randomized attributes.
func (s *Spawner) SpawnHuman(job Job, settlementID uint64, position world.HexCoord) *Agent {
	a := s.base(job, settlementID, position)
	a.Variant = Human{}
	a.Name = s.generateName()
	a.Attributes.Randomize(s.rng)
	a.Skills = s.skillsForJob(job)
	a.Favorite = s.favorite()
	a.Condition = Condition{
		Fatigue: s.rng.Float64() * 300,
		Hunger:  s.rng.Float64() * 200,
		Stress:  s.rng.Float64() * 20,
	}
	return a
}

// SpawnRobot creates a robot limited to the chores of its job.
func (s *Spawner) SpawnRobot(job Job, settlementID uint64, position world.HexCoord) *Agent {
	a := s.base(job, settlementID, position)
	a.Name = robotName(job, a.ID)

	kinds := []ActivityKind{
		ActivityLoadVehicleGarage, ActivityUnloadVehicleGarage,
	}
	if job == JobChef {
		kinds = append(kinds, ActivityCook)
	}
	a.Variant = NewRobot(kinds...)

	// Robots leave the factory with fixed attributes.
	for i := range a.Attributes {
		a.Attributes[i] = 50
	}
	a.Attributes.Set(Strength, 80)
	a.Attributes.Set(Endurance, 90)
	a.Skills = s.skillsForJob(job)
	return a
}

func (s *Spawner) base(job Job, settlementID uint64, position world.HexCoord) *Agent {
	id := s.nextID
	s.nextID++
	return &Agent{
		ID:           id,
		Job:          job,
		Preferences:  make(Preferences),
		Location:     InSettlement,
		SettlementID: settlementID,
		Position:     position,
	}
}

func (s *Spawner) skillsForJob(job Job) SkillSet {
	var skills SkillSet
	for i := range skills {
		skills[i] = s.rng.Intn(2)
	}
	for _, sk := range Profile(job).PrimarySkills {
		skills[sk] = 2 + s.rng.Intn(3)
	}
	return skills
}

func (s *Spawner) favorite() Favorite {
	f := Favorite{Activity: FavoriteGroup(1 + s.rng.Intn(int(FavoriteLounging)))}
	if len(s.MainDishes) > 0 {
		f.MainDish = s.MainDishes[s.rng.Intn(len(s.MainDishes))]
	}
	if len(s.SideDishes) > 0 {
		f.SideDish = s.SideDishes[s.rng.Intn(len(s.SideDishes))]
	}
	return f
}

func (s *Spawner) generateName() string {
	first := firstNames[s.rng.Intn(len(firstNames))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

func robotName(job Job, id AgentID) string {
	return job.String() + "bot " + strconv.FormatUint(uint64(id), 10)
}

// Name pools for procedural generation.
var firstNames = []string{
	"Aiko", "Anders", "Bea", "Chen", "Dmitri", "Elena", "Farid", "Greta",
	"Hana", "Ines", "Jonas", "Kavya", "Lars", "Mei", "Nadia", "Olu",
	"Pavel", "Quinn", "Rosa", "Sven", "Tariq", "Uma", "Viktor", "Wen",
	"Yusuf", "Zofia", "Amara", "Bruno", "Chiara", "Diego",
}

var lastNames = []string{
	"Okafor", "Lindqvist", "Tanaka", "Moreau", "Petrov", "Haddad", "Kowalski",
	"Nakamura", "Silva", "Brennan", "Iyer", "Novak", "Adeyemi", "Larsen",
	"Castillo", "Weber", "Sato", "Duarte", "Fischer", "Mensah", "Ortega",
	"Rahman", "Holm", "Vasquez",
}
