package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDetermineNewPhase(t *testing.T) {
	tests := []struct {
		kind     Kind
		from     Phase
		outbound bool
		want     Phase
	}{
		{KindFieldStudy, PhaseReviewing, true, PhaseEmbarking},
		{KindFieldStudy, PhaseTravelling, true, PhaseResearchSite},
		{KindFieldStudy, PhaseResearchSite, false, PhaseTravelling},
		{KindFieldStudy, PhaseTravelling, false, PhaseDisembarking},
		{KindTrade, PhaseEmbarking, true, PhaseTravelling},
		{KindTrade, PhaseTravelling, true, PhaseTradeDisembarking},
		{KindTrade, PhaseTradeDisembarking, true, PhaseTradeNegotiating},
		{KindTrade, PhaseTradeNegotiating, false, PhaseUnloadGoods},
		{KindTrade, PhaseUnloadGoods, false, PhaseLoadGoods},
		{KindTrade, PhaseLoadGoods, false, PhaseTradeEmbarking},
		{KindTrade, PhaseTradeEmbarking, false, PhaseTravelling},
		{KindTrade, PhaseTravelling, false, PhaseDisembarking},
		{KindTrade, PhaseDisembarking, false, PhaseCompleted},
	}
	for _, tt := range tests {
		got, ok := determineNewPhase(tt.kind, tt.from, tt.outbound)
		if assert.True(t, ok, "%s %s outbound=%v", tt.kind, tt.from, tt.outbound) {
			assert.Equal(t, tt.want, got, "%s %s outbound=%v", tt.kind, tt.from, tt.outbound)
		}
	}

	_, ok := determineNewPhase(KindFieldStudy, PhaseTradeNegotiating, false)
	assert.False(t, ok)
	_, ok = determineNewPhase(KindTrade, PhaseCompleted, false)
	assert.False(t, ok)
}

// Every path through the tables reaches Completed without revisiting a
// phase in the same direction.
func TestTransitionsTerminate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.SampledFrom([]Kind{KindFieldStudy, KindTrade}).Draw(t, "kind")
		p, outbound := PhaseReviewing, true
		seen := map[step]bool{}
		for !p.Terminal() {
			key := step{p, outbound}
			if seen[key] {
				t.Fatalf("%s revisits %s outbound=%v", kind, p, outbound)
			}
			seen[key] = true

			// The kind-specific phases turn the mission around on leaving.
			if p == PhaseResearchSite || p == PhaseTradeNegotiating {
				outbound = false
			}
			// A redirect can turn a mission around while travelling.
			if p == PhaseTravelling && outbound && rapid.Bool().Draw(t, "redirect") {
				outbound = false
			}
			next, ok := determineNewPhase(kind, p, outbound)
			if !ok {
				t.Fatalf("%s has no transition from %s outbound=%v", kind, p, outbound)
			}
			p = next
		}
		if p != PhaseCompleted {
			t.Fatalf("%s ended in %s", kind, p)
		}
	})
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("trade")
	assert.NoError(t, err)
	assert.Equal(t, KindTrade, k)

	_, err = ParseKind("mining")
	assert.Error(t, err)
}
