// Market resolution: hourly settlement prices and the sol-level search for
// trading partners.
package engine

import (
	"log/slog"

	"github.com/talgya/outpost/internal/mission"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/vehicle"
)

// resolveMarkets reprices every settlement's market from its stock and the
// season.
func (s *Simulation) resolveMarkets(tick uint64) {
	season := SeasonOf(tick)
	for _, st := range s.Settlements {
		resolveSettlementMarket(st, len(s.Residents(st.ID)), season)
	}
}

// resolveSettlementMarket recomputes supply and demand, then shifts demand
// by season before resolving prices.
func resolveSettlementMarket(st *social.Settlement, residents int, season uint8) {
	if st.Market == nil {
		return
	}
	st.UpdateMarket(residents)
	for good, entry := range st.Market.Entries {
		if mod := SeasonalMarketMod(season, good); mod != 1 {
			entry.Demand *= mod
			entry.ResolvePrice()
		}
	}
}

// refreshTradeTargets finds each settlement's best trading partner when
// its cached one is missing or older than the profit cache TTL.
func (s *Simulation) refreshTradeTargets(tick uint64) {
	now := float64(tick)
	for _, st := range s.Settlements {
		if t, ok := s.TradeTargets.Get(st.ID); ok && now-t.ComputedAt < s.Tuning.Mission.ProfitCacheTTL {
			continue
		}
		rover := st.AvailableRover(vehicle.PurposeTrade)
		if rover == nil {
			s.TradeTargets.Remove(st.ID)
			continue
		}
		target, err := mission.FindTradePartner(s.mctx, st, rover)
		if err != nil {
			// Already logged at the boundary; try again next sol.
			s.TradeTargets.Remove(st.ID)
			continue
		}
		if target.Partner == 0 {
			s.TradeTargets.Remove(st.ID)
			continue
		}
		s.TradeTargets.Put(st.ID, target)
		slog.Debug("trade partner found",
			"settlement", st.Name,
			"partner", target.Partner,
			"profit", target.Profit,
		)
	}
}
