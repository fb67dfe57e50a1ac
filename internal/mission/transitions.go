package mission

// step keys a transition: the phase that ended and the direction of travel.
type step struct {
	phase    Phase
	outbound bool
}

// genericTransitions is the travel skeleton shared by every kind.
var genericTransitions = map[step]Phase{
	{PhaseReviewing, true}:     PhaseEmbarking,
	{PhaseEmbarking, true}:     PhaseTravelling,
	{PhaseTravelling, false}:   PhaseDisembarking,
	{PhaseDisembarking, false}: PhaseCompleted,
}

// transitions holds the kind-specific entries, consulted before the
// generic table.
var transitions = map[Kind]map[step]Phase{
	KindFieldStudy: {
		{PhaseTravelling, true}:    PhaseResearchSite,
		{PhaseResearchSite, false}: PhaseTravelling,
	},
	KindTrade: {
		{PhaseTravelling, true}:        PhaseTradeDisembarking,
		{PhaseTradeDisembarking, true}: PhaseTradeNegotiating,
		{PhaseTradeNegotiating, false}: PhaseUnloadGoods,
		{PhaseUnloadGoods, false}:      PhaseLoadGoods,
		{PhaseLoadGoods, false}:        PhaseTradeEmbarking,
		{PhaseTradeEmbarking, false}:   PhaseTravelling,
	},
}

// determineNewPhase maps the ended phase, kind and direction to the next
// phase.
func determineNewPhase(k Kind, p Phase, outbound bool) (Phase, bool) {
	key := step{p, outbound}
	if next, ok := transitions[k][key]; ok {
		return next, true
	}
	next, ok := genericTransitions[key]
	return next, ok
}
