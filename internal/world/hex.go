// Package world provides the hex surface map, terrain, and the environment
// queries (light, polar darkness, radiation) used by scoring and missions.
// Uses axial coordinates (q, r) for the hex grid.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Terrain types for surface hexes.
type Terrain uint8

const (
	TerrainPlains    Terrain = iota // Smooth lowland, easy driving
	TerrainHighlands                // Cratered uplands
	TerrainCrater                   // Crater floor, rims are rough
	TerrainDunes                    // Loose sand, slow for rovers
	TerrainCanyon                   // Carved channels, good exposures for areology
	TerrainVolcanic                 // Lava plains and shield flanks
	TerrainPolarCap                 // Water ice deposits
)

// Hex represents a single tile on the surface map.
type Hex struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	// Set during generation, each 0.0–1.0.
	Elevation float64 `json:"elevation"`
	Roughness float64 `json:"roughness"`
	Ice       float64 `json:"ice"`

	// Scientific interest of the site for field studies.
	Interest float64 `json:"interest"`

	// Settlement on this hex, if any.
	SettlementID *uint64 `json:"settlement_id,omitempty"`
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
