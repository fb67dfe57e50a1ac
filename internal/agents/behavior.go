package agents

// ActivityKind enumerates schedulable activities.
type ActivityKind uint8

const (
	ActivityNone ActivityKind = iota
	ActivityLoadVehicleGarage
	ActivityLoadVehicleEVA
	ActivityUnloadVehicleGarage
	ActivityUnloadVehicleEVA
	ActivityObserveAstronomy
	ActivityResearch
	ActivityCook
	ActivityEat
	ActivitySleep
	ActivityRelax
	ActivityFieldWork
	ActivityNegotiateTrade
	ActivityLeadFieldStudy
	ActivityLeadTrade
)

// NumActivityKinds is the number of activity kinds, including ActivityNone.
const NumActivityKinds = 15

// ActivityInfo describes the fixed properties of an activity kind.
type ActivityInfo struct {
	Name        string
	IndoorOnly  bool
	Outdoor     bool // Needs an EVA
	Exertion    bool
	MissionOnly bool // Assigned by missions, never chosen by the scheduler
	Group       FavoriteGroup
	Duration    float64 // Default length in millisols
}

var activityInfo = [NumActivityKinds]ActivityInfo{
	ActivityNone:                {Name: "none"},
	ActivityLoadVehicleGarage:   {Name: "load vehicle (garage)", IndoorOnly: true, Exertion: true, Group: FavoriteOperation, Duration: 50},
	ActivityLoadVehicleEVA:      {Name: "load vehicle (eva)", Outdoor: true, Exertion: true, Group: FavoriteOperation, Duration: 50},
	ActivityUnloadVehicleGarage: {Name: "unload vehicle (garage)", IndoorOnly: true, Exertion: true, Group: FavoriteOperation, Duration: 50},
	ActivityUnloadVehicleEVA:    {Name: "unload vehicle (eva)", Outdoor: true, Exertion: true, Group: FavoriteOperation, Duration: 50},
	ActivityObserveAstronomy:    {Name: "observe astronomical objects", IndoorOnly: true, Group: FavoriteAstronomy, Duration: 100},
	ActivityResearch:            {Name: "research", IndoorOnly: true, Group: FavoriteResearch, Duration: 100},
	ActivityCook:                {Name: "cook", IndoorOnly: true, Group: FavoriteCooking, Duration: 100},
	ActivityEat:                 {Name: "eat", IndoorOnly: true, Group: FavoriteCooking, Duration: 20},
	ActivitySleep:               {Name: "sleep", IndoorOnly: true, Group: FavoriteLounging, Duration: 250},
	ActivityRelax:               {Name: "relax", IndoorOnly: true, Group: FavoriteLounging, Duration: 50},
	ActivityFieldWork:           {Name: "field work", Outdoor: true, Exertion: true, MissionOnly: true, Group: FavoriteResearch, Duration: 100},
	ActivityNegotiateTrade:      {Name: "negotiate trade", IndoorOnly: true, MissionOnly: true, Duration: 50},
	ActivityLeadFieldStudy:      {Name: "lead field study", IndoorOnly: true, Group: FavoriteResearch, Duration: 10},
	ActivityLeadTrade:           {Name: "lead trade", IndoorOnly: true, Group: FavoriteOperation, Duration: 10},
}

// Info returns the fixed properties of k.
func (k ActivityKind) Info() ActivityInfo {
	if int(k) < len(activityInfo) {
		return activityInfo[k]
	}
	return activityInfo[ActivityNone]
}

func (k ActivityKind) String() string {
	return k.Info().Name
}

// Kinds returns every schedulable kind in declaration order.
func Kinds() []ActivityKind {
	out := make([]ActivityKind, 0, NumActivityKinds-1)
	for k := ActivityKind(1); k < NumActivityKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ActivityState is an activity in progress. Elapsed accumulates across
// ticks; nothing blocks while it runs.
type ActivityState struct {
	Kind     ActivityKind `json:"kind"`
	Started  float64      `json:"started"`
	Duration float64      `json:"duration"`
	Elapsed  float64      `json:"elapsed"`

	// StartPerformance is the performance rating when the activity began.
	StartPerformance float64 `json:"start_performance"`
}

// Progress adds dt millisols and reports whether the activity has finished.
func (s *ActivityState) Progress(dt float64) bool {
	s.Elapsed += dt
	return s.Done()
}

// Done reports whether the activity has run its course.
func (s *ActivityState) Done() bool {
	return s.Elapsed >= s.Duration
}

// Remaining returns the millisols left.
func (s *ActivityState) Remaining() float64 {
	return max(0, s.Duration-s.Elapsed)
}
