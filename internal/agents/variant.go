package agents

// VariantKind distinguishes agent variants.
type VariantKind uint8

const (
	KindHuman VariantKind = iota
	KindRobot
)

func (k VariantKind) String() string {
	if k == KindRobot {
		return "robot"
	}
	return "human"
}

// Variant is the capability set of an agent kind. Scheduling and mission code
// depend only on this interface.
type Variant interface {
	Kind() VariantKind
	CanPerform(kind ActivityKind) bool
	PerformanceRating(c Condition) float64
}

// Human can perform everything; performance falls with fatigue, hunger and
// stress.
type Human struct{}

func (Human) Kind() VariantKind { return KindHuman }

func (Human) CanPerform(kind ActivityKind) bool {
	return kind != ActivityNone
}

func (Human) PerformanceRating(c Condition) float64 {
	return c.performance()
}

// Robot performs a fixed set of chores and never tires.
type Robot struct {
	Allowed map[ActivityKind]bool
}

// NewRobot returns a robot permitted to do the given kinds.
func NewRobot(kinds ...ActivityKind) Robot {
	r := Robot{Allowed: make(map[ActivityKind]bool, len(kinds))}
	for _, k := range kinds {
		r.Allowed[k] = true
	}
	return r
}

func (Robot) Kind() VariantKind { return KindRobot }

func (r Robot) CanPerform(kind ActivityKind) bool {
	return r.Allowed[kind]
}

// PerformanceRating for a robot only drops with damage.
func (Robot) PerformanceRating(c Condition) float64 {
	return max(0, 1-c.Ailment)
}
