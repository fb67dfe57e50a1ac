package mission

import (
	"fmt"

	"github.com/talgya/outpost/internal/world"
)

// NavPoint is a waypoint. SettlementID is zero for open ground.
type NavPoint struct {
	Coord        world.HexCoord `json:"coord"`
	SettlementID uint64         `json:"settlement_id,omitempty"`
	Description  string         `json:"description"`
}

func (n NavPoint) String() string {
	return fmt.Sprintf("%s %v", n.Description, n.Coord)
}

// AtSettlement reports whether the waypoint is a settlement.
func (n NavPoint) AtSettlement() bool {
	return n.SettlementID != 0
}
