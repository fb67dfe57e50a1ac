package world

import (
	"fmt"
	"math"
)

// Map holds the complete hex surface.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Radius int               `json:"radius"`

	// KmPerHex is the center-to-center distance of adjacent hexes.
	KmPerHex float64 `json:"km_per_hex"`

	// MaxLatitude is the latitude in degrees of the northern and southern rows.
	MaxLatitude float64 `json:"max_latitude"`
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int, kmPerHex, maxLatitude float64) *Map {
	return &Map{
		Hexes:       make(map[HexCoord]*Hex),
		Radius:      radius,
		KmPerHex:    kmPerHex,
		MaxLatitude: maxLatitude,
	}
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// Set places a hex at the given coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return max(abs(coord.Q), abs(coord.R), abs(coord.S())) <= m.Radius
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// DistanceKm returns the surface distance between two coordinates.
func (m *Map) DistanceKm(a, b HexCoord) float64 {
	return float64(Distance(a, b)) * m.KmPerHex
}

// Latitude returns the latitude in degrees for a coordinate. Rows map linearly
// from +MaxLatitude (r = -Radius) to -MaxLatitude (r = +Radius).
func (m *Map) Latitude(c HexCoord) float64 {
	if m.Radius == 0 {
		return 0
	}
	return -float64(c.R) / float64(m.Radius) * m.MaxLatitude
}

// Longitude returns a longitude in degrees for a coordinate, used for local
// solar time. The map spans 90 degrees of longitude.
func (m *Map) Longitude(c HexCoord) float64 {
	x, _ := toPlane(c)
	if m.Radius == 0 {
		return 0
	}
	return x / (2 * float64(m.Radius)) * 90
}

// Toward returns the in-bounds hex closest to the point distanceKm from origin
// at angle radians (0 = east, counter-clockwise).
func (m *Map) Toward(origin HexCoord, angle, distanceKm float64) HexCoord {
	if m.KmPerHex <= 0 || distanceKm <= 0 {
		return origin
	}
	steps := distanceKm / m.KmPerHex
	x, y := toPlane(origin)
	target := fromPlane(x+steps*math.Cos(angle), y-steps*math.Sin(angle))

	// Pull back toward the origin until the target is on the map.
	for !m.InBounds(target) && target != origin {
		steps--
		if steps <= 0 {
			return origin
		}
		target = fromPlane(x+steps*math.Cos(angle), y-steps*math.Sin(angle))
	}
	return target
}

// Bearing returns the angle from a to b in the convention Toward uses.
func Bearing(a, b HexCoord) float64 {
	ax, ay := toPlane(a)
	bx, by := toPlane(b)
	return math.Atan2(-(by - ay), bx-ax)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d, km_per_hex=%.0f)", m.Radius, m.HexCount(), m.KmPerHex)
}

// toPlane converts axial coordinates to a plane where adjacent hex centers
// are one unit apart.
func toPlane(c HexCoord) (float64, float64) {
	x := float64(c.Q) + float64(c.R)*0.5
	y := float64(c.R) * math.Sqrt(3.0) / 2.0
	return x, y
}

// fromPlane converts plane coordinates back to the nearest hex.
func fromPlane(x, y float64) HexCoord {
	r := y * 2.0 / math.Sqrt(3.0)
	q := x - r*0.5
	return cubeRound(q, r)
}

func cubeRound(qf, rf float64) HexCoord {
	sf := -qf - rf
	q, r, s := math.Round(qf), math.Round(rf), math.Round(sf)
	dq, dr, ds := math.Abs(q-qf), math.Abs(r-rf), math.Abs(s-sf)
	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}
	return HexCoord{Q: int(q), R: int(r)}
}
