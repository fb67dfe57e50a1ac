package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Orbital constants.
const (
	SolsPerOrbit     = 668.6
	MaxDeclination   = 25.19 // Axial tilt, degrees
	SolarConstantTOA = 586.2 // Mean irradiance at Mars' orbit, W/m²
	MillisolsPerSol  = 1000
)

// RadiationLevel is the exposure class at a location.
type RadiationLevel uint8

const (
	RadiationNone     RadiationLevel = iota
	RadiationBaseline                // Low-level background
	RadiationGCR                     // Galactic cosmic ray burst
	RadiationSEP                     // Solar energetic particle event, lethal outdoors
)

// String returns the exposure class name.
func (r RadiationLevel) String() string {
	switch r {
	case RadiationBaseline:
		return "baseline"
	case RadiationGCR:
		return "gcr"
	case RadiationSEP:
		return "sep"
	default:
		return "none"
	}
}

// Environment answers light and radiation queries for a location.
type Environment interface {
	SolarIrradiance(c HexCoord) float64
	InDarkPolarRegion(c HexCoord) bool
	RadiationExposure(c HexCoord) RadiationLevel
	IsGettingDark(c HexCoord) bool
}

// DustSource reports atmospheric dust opacity (0 clear, 1 opaque).
type DustSource interface {
	Opacity(c HexCoord) float64
}

// Surface implements Environment from the map, the sol clock and a noise
// driven radiation field.
type Surface struct {
	Map  *Map
	Dust DustSource

	radiation opensimplex.Noise
	tick      uint64
}

// NewSurface creates an environment over m. dust may be nil.
func NewSurface(m *Map, seed int64, dust DustSource) *Surface {
	return &Surface{
		Map:       m,
		Dust:      dust,
		radiation: opensimplex.NewNormalized(seed + 500),
	}
}

// SetTime moves the environment clock to tick (one tick is one millisol).
func (s *Surface) SetTime(tick uint64) {
	s.tick = tick
}

// Tick returns the environment clock.
func (s *Surface) Tick() uint64 {
	return s.tick
}

// SolarIrradiance returns ground irradiance in W/m² at the current time.
func (s *Surface) SolarIrradiance(c HexCoord) float64 {
	return s.irradianceAt(c, s.tick)
}

// IsGettingDark reports whether light is low and still falling.
func (s *Surface) IsGettingDark(c HexCoord) bool {
	now := s.irradianceAt(c, s.tick)
	if now >= 50 {
		return false
	}
	return s.irradianceAt(c, s.tick+10) < now
}

// InDarkPolarRegion reports whether c is in polar night this season.
func (s *Surface) InDarkPolarRegion(c HexCoord) bool {
	lat := s.Map.Latitude(c)
	decl := declination(s.tick)
	if lat*decl >= 0 {
		return false // Summer hemisphere or equinox
	}
	return math.Abs(lat) >= 90-math.Abs(decl)
}

// RadiationExposure returns the exposure class. Events drift across the map
// and last on the order of a hundred millisols.
func (s *Surface) RadiationExposure(c HexCoord) RadiationLevel {
	x, y := toPlane(c)
	t := float64(s.tick) / 100
	v := s.radiation.Eval3(x*0.05, y*0.05, t*0.3)
	switch {
	case v > 0.93:
		return RadiationSEP
	case v > 0.8:
		return RadiationGCR
	case v > 0.6:
		return RadiationBaseline
	default:
		return RadiationNone
	}
}

// DrivingFactor returns the speed fraction a rover achieves at c.
func (s *Surface) DrivingFactor(c HexCoord) float64 {
	return DrivingFactor(s.Map.Get(c))
}

func (s *Surface) irradianceAt(c HexCoord, tick uint64) float64 {
	lat := s.Map.Latitude(c) * math.Pi / 180
	decl := declination(tick) * math.Pi / 180

	solFrac := float64(tick%MillisolsPerSol) / MillisolsPerSol
	local := solFrac + s.Map.Longitude(c)/360
	hourAngle := 2 * math.Pi * (local - 0.5)

	cosZ := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(hourAngle)
	if cosZ <= 0 {
		return 0
	}

	irr := SolarConstantTOA * cosZ
	if s.Dust != nil {
		irr *= 1 - clamp01(s.Dust.Opacity(c))
	}
	return irr
}

// declination returns the solar declination in degrees for a tick.
func declination(tick uint64) float64 {
	sol := float64(tick / MillisolsPerSol)
	ls := 2 * math.Pi * math.Mod(sol, SolsPerOrbit) / SolsPerOrbit
	return MaxDeclination * math.Sin(ls)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
