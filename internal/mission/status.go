package mission

// StatusCode records why a mission ended or what happened on the way.
type StatusCode string

const (
	// StatusMissionAccomplished is recorded when the crew is home and unloaded.
	StatusMissionAccomplished StatusCode = "mission_accomplished"

	// StatusNoOngoingScientificStudy means the leader has no study to take out.
	StatusNoOngoingScientificStudy StatusCode = "no_ongoing_scientific_study"

	// StatusNoTradingSettlement means no partner is worth trading with.
	StatusNoTradingSettlement StatusCode = "no_trading_settlement"

	// StatusNoAvailableVehicles means no rover could be reserved, or the
	// reservation was lost.
	StatusNoAvailableVehicles StatusCode = "no_available_vehicles"

	// StatusNotEnoughMembers means recruiting fell short of the minimum crew.
	StatusNotEnoughMembers StatusCode = "not_enough_members"

	// StatusVehicleNotLoadable means the home settlement cannot supply the
	// rover for the trip.
	StatusVehicleNotLoadable StatusCode = "vehicle_not_loadable"

	// StatusCannotEnterRover means a member could not board.
	StatusCannotEnterRover StatusCode = "cannot_enter_rover"

	// StatusEVASuitCannotBeLoaded means there are too few suits to load
	// the rover outdoors.
	StatusEVASuitCannotBeLoaded StatusCode = "eva_suit_cannot_be_loaded"

	// StatusMedicalEmergency is recorded when a member's life is at risk.
	StatusMedicalEmergency StatusCode = "medical_emergency"

	// StatusNotEnoughResources means the rover cannot sustain the rest of
	// the trip.
	StatusNotEnoughResources StatusCode = "not_enough_resources"

	// StatusNoInhabitableBuilding means the destination has nowhere to live.
	StatusNoInhabitableBuilding StatusCode = "no_inhabitable_building"

	// StatusNoFieldWorkCapability means nobody could work the site.
	StatusNoFieldWorkCapability StatusCode = "no_field_work_capability"

	// StatusCouldNotEstimateTradeProfit wraps a valuation failure.
	StatusCouldNotEstimateTradeProfit StatusCode = "could_not_estimate_trade_profit"

	// StatusSellingVehicleNotAvailableForTrade means a rover in a trade load
	// could not be towed.
	StatusSellingVehicleNotAvailableForTrade StatusCode = "selling_vehicle_not_available_for_trade"

	// StatusNegotiationTimeout is recorded when a negotiation gives up. The
	// trade continues with an empty buy load.
	StatusNegotiationTimeout StatusCode = "negotiation_timeout"

	// StatusCannotWalk means a member could not walk to or from the rover.
	StatusCannotWalk StatusCode = "cannot_walk"

	// StatusUserAborted is recorded when an operator ends the mission.
	StatusUserAborted StatusCode = "user_aborted"

	// StatusNoNextPhase means the transition table has no entry.
	StatusNoNextPhase StatusCode = "no_next_phase"
)

func (s StatusCode) String() string {
	return string(s)
}
