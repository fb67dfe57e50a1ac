package agents

// Preference bounds.
const (
	MinPreference = -5
	MaxPreference = 5
)

// Preferences hold learned likes and dislikes per activity.
type Preferences map[ActivityKind]int

// Get returns the learned preference for kind (0 if none).
func (p Preferences) Get(kind ActivityKind) int {
	return p[kind]
}

// Learn moves the preference for kind one step toward the sign of delta,
// where delta is the change in performance over the activity.
func (p Preferences) Learn(kind ActivityKind, delta float64) {
	if p == nil || delta == 0 {
		return
	}
	v := p[kind]
	if delta > 0 {
		v++
	} else {
		v--
	}
	p[kind] = max(MinPreference, min(MaxPreference, v))
}
