// Outpost placement: finds suitable landing sites and seeds initial outposts.
package world

import (
	"math"
	"math/rand"
	"sort"
)

// OutpostSeed holds the parameters for an initial outpost placement.
type OutpostSeed struct {
	Coord HexCoord
	Score float64 // Desirability score
	Name  string
	Crew  int // Initial crew size
}

// PlaceOutposts finds the best landing sites on the map, at least minDist
// hexes apart. Returns up to count seeds sorted by desirability.
func PlaceOutposts(m *Map, seed int64, count, minDist int) []OutpostSeed {
	rng := rand.New(rand.NewSource(seed + 200))

	type scored struct {
		coord HexCoord
		score float64
	}
	var candidates []scored

	coords := make([]HexCoord, 0, len(m.Hexes))
	for c := range m.Hexes {
		coords = append(coords, c)
	}
	sortCoords(coords)

	for _, coord := range coords {
		s := outpostScore(m, coord, m.Get(coord))
		if s > 0 {
			candidates = append(candidates, scored{coord, s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var seeds []OutpostSeed
	for _, c := range candidates {
		if len(seeds) >= count {
			break
		}
		if tooClose(c.coord, seeds, minDist) {
			continue
		}
		seeds = append(seeds, OutpostSeed{
			Coord: c.coord,
			Score: c.score,
			Crew:  6 + rng.Intn(7),
		})
	}

	names := generateNames(rng, len(seeds))
	for i := range seeds {
		seeds[i].Name = names[i]
	}
	return seeds
}

// outpostScore evaluates how desirable a hex is for an outpost.
// Prefers: smooth low ground, nearby ice, interesting terrain in reach.
func outpostScore(m *Map, coord HexCoord, hex *Hex) float64 {
	score := 0.0

	switch hex.Terrain {
	case TerrainPlains:
		score += 3.0
	case TerrainHighlands:
		score += 1.5
	case TerrainDunes:
		score += 1.0
	case TerrainCrater:
		score += 0.8
	default:
		return 0 // Canyons, volcanic flanks and ice caps are not landing sites
	}

	score += (1 - hex.Roughness) * 1.5

	// Water access and science within a day's drive.
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil {
			continue
		}
		score += nh.Ice * 0.5
		score += nh.Interest * 0.3
	}

	// Light: lower latitudes get more sun.
	score += (1 - math.Abs(m.Latitude(coord))/m.MaxLatitude) * 2

	return score
}

func tooClose(coord HexCoord, existing []OutpostSeed, minDist int) bool {
	for _, s := range existing {
		if Distance(coord, s.Coord) < minDist {
			return true
		}
	}
	return false
}

// sortCoords orders coordinates so that map iteration is deterministic.
func sortCoords(cs []HexCoord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Q != cs[j].Q {
			return cs[i].Q < cs[j].Q
		}
		return cs[i].R < cs[j].R
	})
}

// generateNames produces procedural outpost names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Red", "Iron", "Dust", "Ares", "Tharsis", "Hellas", "Elysium",
		"Utopia", "Argyre", "Olympus", "Noctis", "Chryse", "Acidalia",
		"Syrtis", "Arabia", "Isidis", "Gale", "Jezero", "Phobos", "Deimos",
	}
	suffixes := []string{
		" Base", " Station", " Outpost", " Landing", " Camp", " Dome",
		" Haven", " Point", " Ridge", " Hab", " Reach", " Depot",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}
