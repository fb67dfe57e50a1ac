// Northern hemisphere seasons and their effect on greenhouse yields and
// market demand.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/outpost/internal/resources"
)

// Season constants.
const (
	SeasonSpring = 0
	SeasonSummer = 1
	SeasonAutumn = 2
	SeasonWinter = 3
)

// seasonSols are the season lengths in sols. Mars' eccentric orbit makes
// spring longest.
var seasonSols = [4]uint64{194, 178, 142, 154}

// SeasonName returns a human-readable season name.
func SeasonName(season uint8) string {
	switch season {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	case SeasonWinter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// SeasonOf returns the season a tick falls in.
func SeasonOf(tick uint64) uint8 {
	sol := (tick / TicksPerSol) % (TicksPerOrbit / TicksPerSol)
	for i, n := range seasonSols {
		if sol < n {
			return uint8(i)
		}
		sol -= n
	}
	return SeasonWinter
}

// greenhouseYield scales crop growth by season.
func greenhouseYield(season uint8) float64 {
	switch season {
	case SeasonSummer:
		return 1.2
	case SeasonAutumn:
		return 0.9
	case SeasonWinter:
		return 0.7
	default:
		return 1.0
	}
}

// SeasonalMarketMod returns a demand modifier for a good in a season.
func SeasonalMarketMod(season uint8, good resources.ID) float64 {
	// Fresh crops are scarce in winter and plentiful after the summer.
	switch good {
	case resources.Potato, resources.Rice, resources.Soybean, resources.Lettuce, resources.WheatFlour:
		switch season {
		case SeasonWinter:
			return 1.4
		case SeasonSpring:
			return 1.1
		case SeasonSummer:
			return 0.8
		}
	case resources.Methane:
		// Dust season: more fuel burnt on detours.
		if season == SeasonAutumn || season == SeasonWinter {
			return 1.2
		}
	}
	return 1.0
}

// processSeason handles a season change.
func (s *Simulation) processSeason(tick uint64) {
	s.CurrentSeason = SeasonOf(tick)

	slog.Info("season change",
		"tick", tick,
		"time", MarsTime(tick),
		"season", SeasonName(s.CurrentSeason),
		"population", s.Stats.Population,
	)
	s.EmitEvent(Event{
		Tick:        tick,
		Description: fmt.Sprintf("%s begins; greenhouse yield %.0f%%", SeasonName(s.CurrentSeason), greenhouseYield(s.CurrentSeason)*100),
		Category:    "season",
	})
}
