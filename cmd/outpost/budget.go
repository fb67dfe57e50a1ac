package main

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/vehicle"
)

var (
	budgetRover   string
	budgetMembers int
	budgetFood    float64
	budgetWater   float64
	budgetOxygen  float64
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Print the life support budget of a rover crew",
	Long: `Compute how long a crew can stay out on a rover's consumables, the
trip time limit with and without the safety margin, and the range that
time buys at the rover's average speed.

Capacities default to the rover model's tanks; --food, --water and
--oxygen override them.`,
	RunE: runBudget,
}

func init() {
	budgetCmd.Flags().StringVar(&budgetRover, "rover", "explorer", "Rover model: explorer or transport")
	budgetCmd.Flags().IntVarP(&budgetMembers, "members", "m", 0, "Crew size (defaults to the rover's seats)")
	budgetCmd.Flags().Float64Var(&budgetFood, "food", -1, "Food on board, kg")
	budgetCmd.Flags().Float64Var(&budgetWater, "water", -1, "Water on board, kg")
	budgetCmd.Flags().Float64Var(&budgetOxygen, "oxygen", -1, "Oxygen on board, kg")
}

func runBudget(cmd *cobra.Command, args []string) error {
	var spec vehicle.Spec
	switch budgetRover {
	case "explorer":
		spec = vehicle.ExplorerSpec()
	case "transport":
		spec = vehicle.TransportSpec()
	default:
		return fmt.Errorf("unknown rover model %q", budgetRover)
	}

	members := budgetMembers
	if members == 0 {
		members = spec.CrewCapacity
	}
	caps := make(map[resources.ID]float64, len(spec.Capacities))
	for id, c := range spec.Capacities {
		caps[id] = c
	}
	for id, v := range map[resources.ID]float64{
		resources.Food:   budgetFood,
		resources.Water:  budgetWater,
		resources.Oxygen: budgetOxygen,
	} {
		if v >= 0 {
			caps[id] = v
		}
	}

	rates := tuning.LifeSupport.Rates()
	margin := tuning.LifeSupport.Margin
	b, err := resources.SustainableSols(rates, caps, members)
	if err != nil {
		return err
	}
	limit, err := resources.TripTimeLimit(rates, caps, members, margin, false)
	if err != nil {
		return err
	}
	safe, err := resources.TripTimeLimit(rates, caps, members, margin, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rover:        %s, %d crew\n", spec.Model, members)
	for _, id := range resources.SortedIDs(rates) {
		fmt.Fprintf(out, "  %-10s  %s kg on board, %s kg/sol\n",
			id, humanize.CommafWithDigits(caps[id], 1), humanize.CommafWithDigits(rates[id]*float64(members), 2))
	}
	fmt.Fprintf(out, "Sustainable:  %s sols (bound by %s)\n", humanize.CommafWithDigits(b.Sols, 1), b.Binding)
	fmt.Fprintf(out, "Trip limit:   %s msol, %s msol with %gx margin\n",
		humanize.Comma(int64(math.Floor(limit))), humanize.Comma(int64(math.Floor(safe))), margin)
	fmt.Fprintf(out, "Range:        %s km at %g km/h (one way %s km)\n",
		humanize.Comma(int64(resources.RangeKm(safe, spec.AvgSpeed))), spec.AvgSpeed,
		humanize.Comma(int64(resources.RangeKm(safe, spec.AvgSpeed)/2)))
	return nil
}
