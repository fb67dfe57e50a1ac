// Perpetuation safeguards: supply landers for outposts running low.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
)

const (
	// resupplyBelowSols triggers a lander when stored life support would
	// last fewer sols than this.
	resupplyBelowSols = 14
	// resupplyToSols is how many sols of life support a lander brings.
	resupplyToSols = 60
)

// processAntiStagnation runs weekly checks that keep outposts alive.
func (s *Simulation) processAntiStagnation(tick uint64) {
	for _, st := range s.Settlements {
		s.resupply(st, tick)
	}
}

// resupply lands consumables at st if its crew is running out.
func (s *Simulation) resupply(st *social.Settlement, tick uint64) {
	humans := s.humansIn(st.ID)
	if humans == 0 {
		return
	}
	rates := s.Tuning.LifeSupport.Rates()
	budget, err := st.SustainableSols(rates, humans)
	if err != nil {
		slog.Error("resupply check", "settlement", st.Name, "error", err)
		return
	}
	if budget.Sols >= resupplyBelowSols {
		return
	}

	landed := 0.0
	for _, id := range resources.LifeSupport {
		want := rates[id] * float64(humans) * resupplyToSols
		if short := want - st.Inventory.AmountStored(id); short > 0 {
			landed += short - st.Inventory.Store(id, short)
		}
	}
	slog.Info("supply lander", "settlement", st.Name, "binding", budget.Binding.String(), "sols_left", budget.Sols, "kg", landed)
	s.EmitEvent(Event{
		Tick:        tick,
		Description: fmt.Sprintf("A supply lander touches down at %s with %.0f kg of life support", st.Name, landed),
		Category:    "supply",
	})
}
