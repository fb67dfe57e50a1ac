package mission

// Phase is a step of a mission.
type Phase string

const (
	PhaseReviewing         Phase = "reviewing"
	PhaseEmbarking         Phase = "embarking"
	PhaseTravelling        Phase = "travelling"
	PhaseResearchSite      Phase = "research_site"
	PhaseTradeDisembarking Phase = "trade_disembarking"
	PhaseTradeNegotiating  Phase = "trade_negotiating"
	PhaseUnloadGoods       Phase = "unload_goods"
	PhaseLoadGoods         Phase = "load_goods"
	PhaseTradeEmbarking    Phase = "trade_embarking"
	PhaseDisembarking      Phase = "disembarking"
	PhaseCompleted         Phase = "completed"
	PhaseAborted           Phase = "aborted"
)

func (p Phase) String() string {
	return string(p)
}

// Terminal reports whether no phase follows p.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAborted
}

// PhaseRecord is one entry of a mission's phase history.
type PhaseRecord struct {
	Phase   Phase   `json:"phase"`
	Started float64 `json:"started"` // msol
}
