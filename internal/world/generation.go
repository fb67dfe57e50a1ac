// Surface generation using layered simplex noise.
// Generates elevation, roughness and ice maps, then derives terrain and
// scientific interest. Canyons are carved along steepest descent.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds surface generation parameters.
type GenConfig struct {
	Radius        int     `yaml:"radius"`         // Hex grid radius
	Seed          int64   `yaml:"-"`              // Random seed (0 = random)
	KmPerHex      float64 `yaml:"km_per_hex"`     // Distance between adjacent hex centers
	MaxLatitude   float64 `yaml:"max_latitude"`   // Latitude of the outermost rows, degrees
	HighlandLvl   float64 `yaml:"highland_lvl"`   // Elevation threshold for highlands
	VolcanicLvl   float64 `yaml:"volcanic_lvl"`   // Elevation threshold for volcanic shields
	PolarLatitude float64 `yaml:"polar_latitude"` // Latitude beyond which ice caps form
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:        20,
		Seed:          0,
		KmPerHex:      25,
		MaxLatitude:   85,
		HighlandLvl:   0.62,
		VolcanicLvl:   0.82,
		PolarLatitude: 70,
	}
}

// SmallTestConfig returns a tiny surface for tests.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Radius = 6
	cfg.Seed = 42
	return cfg
}

// Generate creates a complete surface map.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Three noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	roughNoise := opensimplex.NewNormalized(seed + 1)
	iceNoise := opensimplex.NewNormalized(seed + 2)

	m := NewMap(cfg.Radius, cfg.KmPerHex, cfg.MaxLatitude)

	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if !m.InBounds(coord) {
				continue
			}

			x, y := toPlane(coord)
			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			rough := octaveNoise(roughNoise, x, y, 3, 0.15, 0.55)
			ice := octaveNoise(iceNoise, x, y, 2, 0.1, 0.5)

			// Ice is only stable toward the poles.
			lat := math.Abs(m.Latitude(coord))
			ice *= math.Pow(lat/cfg.MaxLatitude, 2)

			terrain := deriveTerrain(elev, rough, lat, cfg)
			m.Set(&Hex{
				Coord:     coord,
				Terrain:   terrain,
				Elevation: elev,
				Roughness: rough,
				Ice:       ice,
				Interest:  siteInterest(terrain, rough, ice),
			})
		}
	}

	carveCanyons(m, seed)
	return m
}

// deriveTerrain determines terrain type from environmental parameters.
func deriveTerrain(elev, rough, absLat float64, cfg GenConfig) Terrain {
	if absLat >= cfg.PolarLatitude {
		return TerrainPolarCap
	}
	if elev > cfg.VolcanicLvl {
		return TerrainVolcanic
	}
	if elev > cfg.HighlandLvl {
		return TerrainHighlands
	}
	if rough > 0.7 {
		return TerrainCrater
	}
	if rough < 0.3 && elev < 0.4 {
		return TerrainDunes
	}
	return TerrainPlains
}

// siteInterest scores how much a field team can learn at a hex.
func siteInterest(t Terrain, rough, ice float64) float64 {
	base := 0.2
	switch t {
	case TerrainCanyon:
		base = 0.9 // Exposed stratigraphy
	case TerrainCrater:
		base = 0.7
	case TerrainVolcanic:
		base = 0.6
	case TerrainPolarCap:
		base = 0.5
	case TerrainHighlands:
		base = 0.4
	}
	v := base + rough*0.1 + ice*0.2
	return math.Min(v, 1)
}

// carveCanyons traces a few channels from high ground down the steepest
// descent, marking hexes as canyon.
func carveCanyons(m *Map, seed int64) {
	rng := rand.New(rand.NewSource(seed + 100))

	var sources []HexCoord
	for coord, hex := range m.Hexes {
		if hex.Elevation > 0.6 && hex.Terrain != TerrainPolarCap {
			sources = append(sources, coord)
		}
	}
	sortCoords(sources)

	n := len(sources) / 10
	n = max(1, min(n, 6))
	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > n {
		sources = sources[:n]
	}

	for _, start := range sources {
		traceCanyon(m, start)
	}
}

func traceCanyon(m *Map, start HexCoord) {
	current := start
	visited := make(map[HexCoord]bool)

	for step := 0; step < 40; step++ {
		visited[current] = true
		hex := m.Get(current)
		if hex == nil || hex.Terrain == TerrainPolarCap {
			break
		}
		if hex.Terrain != TerrainVolcanic {
			hex.Terrain = TerrainCanyon
			hex.Interest = siteInterest(TerrainCanyon, hex.Roughness, hex.Ice)
		}

		var next *HexCoord
		lowest := hex.Elevation
		for _, nc := range current.Neighbors() {
			if visited[nc] {
				continue
			}
			nh := m.Get(nc)
			if nh != nil && nh.Elevation < lowest {
				lowest = nh.Elevation
				c := nc
				next = &c
			}
		}
		if next == nil {
			break // Basin: the channel ends
		}
		current = *next
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, hex := range m.Hexes {
		counts[hex.Terrain]++
	}
	return counts
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainPlains:
		return "Plains"
	case TerrainHighlands:
		return "Highlands"
	case TerrainCrater:
		return "Crater"
	case TerrainDunes:
		return "Dunes"
	case TerrainCanyon:
		return "Canyon"
	case TerrainVolcanic:
		return "Volcanic"
	case TerrainPolarCap:
		return "Polar cap"
	default:
		return "Unknown"
	}
}

// DrivingFactor returns the fraction of average rover speed achievable on a
// hex: rough and sandy ground is slower.
func DrivingFactor(h *Hex) float64 {
	if h == nil {
		return 1
	}
	f := 1.0 - 0.5*h.Roughness
	switch h.Terrain {
	case TerrainDunes:
		f *= 0.6
	case TerrainCanyon, TerrainCrater:
		f *= 0.75
	case TerrainPolarCap:
		f *= 0.8
	}
	return math.Max(f, 0.1)
}
