package resources

import (
	"errors"
	"math"
)

// Time conversions. One sol is 1000 millisols; one millisol is 88.775 seconds.
const (
	MillisolsPerSol    = 1000.0
	SecondsPerMillisol = 88.775244
)

var (
	ErrNoMembers     = errors.New("budget needs at least one member")
	ErrNoConsumables = errors.New("no constraining consumable")
)

// Budget is the sustainable duration and the consumable that binds it.
type Budget struct {
	Sols    float64
	Binding ID
}

// SustainableSols returns min over consumables of capacity/(rate×members).
// Consumables with a non-positive rate do not constrain.
func SustainableSols(rates Rates, capacities map[ID]float64, members int) (Budget, error) {
	if members <= 0 {
		return Budget{}, ErrNoMembers
	}

	best := Budget{Sols: math.Inf(1)}
	found := false
	for _, id := range SortedIDs(rates) {
		rate := rates[id]
		if rate <= 0 {
			continue
		}
		sols := capacities[id] / (rate * float64(members))
		if !found || sols < best.Sols {
			best = Budget{Sols: sols, Binding: id}
			found = true
		}
	}

	if !found {
		return Budget{}, ErrNoConsumables
	}
	return best, nil
}

// TripTimeLimit converts the sustainable duration into millisols, dividing
// by margin when a safety buffer is requested.
func TripTimeLimit(rates Rates, capacities map[ID]float64, members int, margin float64, useMargin bool) (float64, error) {
	b, err := SustainableSols(rates, capacities, members)
	if err != nil {
		return 0, err
	}
	limit := b.Sols * MillisolsPerSol
	if useMargin && margin > 1 {
		limit /= margin
	}
	return limit, nil
}

// RangeKm converts a duration in millisols to a distance at avgSpeedKph.
func RangeKm(msol, avgSpeedKph float64) float64 {
	if msol <= 0 || avgSpeedKph <= 0 {
		return 0
	}
	hours := msol * SecondsPerMillisol / 3600
	return hours * avgSpeedKph
}

// TravelMillisols converts a distance to the time needed at avgSpeedKph.
func TravelMillisols(km, avgSpeedKph float64) float64 {
	if km <= 0 {
		return 0
	}
	if avgSpeedKph <= 0 {
		return math.Inf(1)
	}
	return km / avgSpeedKph * 3600 / SecondsPerMillisol
}

// ResourcesNeeded returns the consumables members need for msol, multiplied by
// margin when a safety buffer is requested.
func ResourcesNeeded(msol float64, members int, rates Rates, margin float64, useMargin bool) map[ID]float64 {
	out := make(map[ID]float64, len(rates))
	if msol <= 0 || members <= 0 {
		return out
	}
	for id, rate := range rates {
		if rate <= 0 {
			continue
		}
		amount := rate * float64(members) * msol / MillisolsPerSol
		if useMargin && margin > 1 {
			amount *= margin
		}
		out[id] = amount
	}
	return out
}
