package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/cooking"
	"github.com/talgya/outpost/internal/resources"
	"github.com/talgya/outpost/internal/social"
	"github.com/talgya/outpost/internal/vehicle"
	"github.com/talgya/outpost/internal/world"
)

// Starting stock for a new outpost.
const (
	startLifeSupportSols = 60
	startMethane         = 2000.0
	suitsPerCrew         = 2
	startCropKg          = 150.0
	startSpirulinaKg     = 40.0
	startSaltKg          = 15.0
	startOilKg           = 25.0
)

// Generate builds a fresh world from the tuning: the surface map, the
// outposts with their stores and rovers, and their crews. The same seed
// always produces the same world.
func Generate(t config.Tuning, seed int64) (*Simulation, error) {
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	cfg.Radius = t.World.Radius
	cfg.KmPerHex = t.World.KmPerHex
	cfg.MaxLatitude = t.World.MaxLatitude
	m := world.Generate(cfg)

	sites := world.PlaceOutposts(m, seed, t.World.Outposts, t.World.OutpostSpacing)
	if len(sites) == 0 {
		return nil, fmt.Errorf("no landing site on a radius %d map", t.World.Radius)
	}

	spawner := agents.NewSpawner(seed)
	spawner.MainDishes = cooking.MainDishNames()
	spawner.SideDishes = cooking.SideDishNames()

	rates := t.LifeSupport.Rates()
	var (
		setts []*social.Settlement
		crews []*agents.Agent
	)
	for i, site := range sites {
		id := uint64(i + 1)
		st := social.NewSettlement(id, site.Name, site.Coord, t.World.OutpostCapacity)

		crew := t.World.CrewPerOutpost
		if site.Crew > 0 && site.Crew < crew {
			crew = site.Crew
		}
		stock(st, rates, crew)

		st.AddRover(vehicle.New(site.Name+" Explorer", vehicle.ExplorerSpec(), id, site.Coord))
		st.AddRover(vehicle.New(site.Name+" Hauler", vehicle.TransportSpec(), id, site.Coord))

		setts = append(setts, st)
		crews = append(crews, spawner.SpawnCrew(crew, id, site.Coord)...)
		slog.Info("outpost founded", "name", site.Name, "at", site.Coord, "crew", crew, "score", site.Score)
	}

	sim := NewSimulation(t, seed, m, setts, crews)
	sim.Spawner.MainDishes = spawner.MainDishes
	sim.Spawner.SideDishes = spawner.SideDishes
	return sim, nil
}

// stock fills a new outpost's store for crew humans.
func stock(st *social.Settlement, rates resources.Rates, crew int) {
	inv := st.Inventory
	for _, id := range resources.LifeSupport {
		inv.Store(id, rates[id]*float64(crew)*startLifeSupportSols)
	}
	inv.Store(resources.Methane, startMethane)
	inv.Store(resources.EVASuit, float64(suitsPerCrew*crew))
	for _, crop := range greenhouseCrops {
		inv.Store(crop, startCropKg)
	}
	inv.Store(resources.Spirulina, startSpirulinaKg)
	inv.Store(resources.TableSalt, startSaltKg)
	inv.Store(resources.SoybeanOil, startOilKg)
}
