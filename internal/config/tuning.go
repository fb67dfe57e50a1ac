// Package config holds the simulation tuning: world size, life support rates,
// mission timings and server settings. Values come from Default, then an
// optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/talgya/outpost/internal/resources"
)

// Tuning is every tunable value.
type Tuning struct {
	Seed int64 `yaml:"seed"` // 0 draws a crypto seed

	World       WorldTuning       `yaml:"world"`
	LifeSupport LifeSupportTuning `yaml:"life_support"`
	Mission     MissionTuning     `yaml:"mission"`
	Scoring     ScoringTuning     `yaml:"scoring"`
	Engine      EngineTuning      `yaml:"engine"`
	Server      ServerTuning      `yaml:"server"`
}

type WorldTuning struct {
	Radius          int     `yaml:"radius"`
	KmPerHex        float64 `yaml:"km_per_hex"`
	MaxLatitude     float64 `yaml:"max_latitude"`
	Outposts        int     `yaml:"outposts"`
	OutpostSpacing  int     `yaml:"outpost_spacing"` // hexes
	CrewPerOutpost  int     `yaml:"crew_per_outpost"`
	OutpostCapacity float64 `yaml:"outpost_capacity"` // kg general storage
}

// LifeSupportTuning holds per person per sol consumption in kg.
type LifeSupportTuning struct {
	Food   float64 `yaml:"food"`
	Water  float64 `yaml:"water"`
	Oxygen float64 `yaml:"oxygen"`
	// Margin divides trip time limits and multiplies resource needs when a
	// safety buffer is requested.
	Margin float64 `yaml:"margin"`
}

// Rates returns the consumption rates keyed by resource.
func (l LifeSupportTuning) Rates() resources.Rates {
	return resources.Rates{
		resources.Food:   l.Food,
		resources.Water:  l.Water,
		resources.Oxygen: l.Oxygen,
	}
}

// MissionTuning durations are in millisols.
type MissionTuning struct {
	ReviewTime          float64 `yaml:"review_time"`
	FieldSiteTime       float64 `yaml:"field_site_time"`
	FieldWorkDuration   float64 `yaml:"field_work_duration"`
	MinFieldMembers     int     `yaml:"min_field_members"`
	MaxTradeMembers     int     `yaml:"max_trade_members"`
	NegotiationTimeout  float64 `yaml:"negotiation_timeout"`
	NegotiationDuration float64 `yaml:"negotiation_duration"`
	LoadRate            float64 `yaml:"load_rate"` // kg per msol per member
	CreditLimit         float64 `yaml:"credit_limit"`
	ProfitCacheTTL      float64 `yaml:"profit_cache_ttl"`
}

type ScoringTuning struct {
	MealWindow     float64 `yaml:"meal_window"` // msol after each meal start
	UnitWeight     float64 `yaml:"unit_weight"` // per loading or unloading job
	TradeProfitCap float64 `yaml:"trade_profit_cap"`
}

type EngineTuning struct {
	Speed      int    `yaml:"speed"`       // ticks per wall second
	WeatherTTL uint64 `yaml:"weather_ttl"` // msol a dust sample stays cached
}

type ServerTuning struct {
	Port     int    `yaml:"port"`
	DB       string `yaml:"db"`
	AdminKey string `yaml:"-"` // Environment only
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		World: WorldTuning{
			Radius:          30,
			KmPerHex:        25,
			MaxLatitude:     70,
			Outposts:        4,
			OutpostSpacing:  8,
			CrewPerOutpost:  8,
			OutpostCapacity: 100000,
		},
		LifeSupport: LifeSupportTuning{
			Food:   0.62,
			Water:  1.0,
			Oxygen: 0.84,
			Margin: 1.5,
		},
		Mission: MissionTuning{
			ReviewTime:          50,
			FieldSiteTime:       1000,
			FieldWorkDuration:   100,
			MinFieldMembers:     2,
			MaxTradeMembers:     2,
			NegotiationTimeout:  1000,
			NegotiationDuration: 50,
			LoadRate:            20,
			CreditLimit:         10000,
			ProfitCacheTTL:      5000,
		},
		Scoring: ScoringTuning{
			MealWindow:     50,
			UnitWeight:     100,
			TradeProfitCap: 200,
		},
		Engine: EngineTuning{
			Speed:      1,
			WeatherTTL: 41,
		},
		Server: ServerTuning{
			Port: 8080,
			DB:   "data/outpost.db",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Environment overrides are applied last.
func Load(path string) (Tuning, error) {
	t := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return t, fmt.Errorf("read tuning: %w", err)
		}
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return t, fmt.Errorf("parse tuning %s: %w", path, err)
		}
	}
	if err := t.applyEnv(); err != nil {
		return t, err
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

func (t *Tuning) applyEnv() error {
	if v := os.Getenv("OUTPOST_DB"); v != "" {
		t.Server.DB = v
	}
	if v := os.Getenv("OUTPOST_ADMIN_KEY"); v != "" {
		t.Server.AdminKey = v
	}
	if v := os.Getenv("OUTPOST_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse OUTPOST_PORT: %w", err)
		}
		t.Server.Port = port
	}
	if v := os.Getenv("OUTPOST_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse OUTPOST_SEED: %w", err)
		}
		t.Seed = seed
	}
	return nil
}

// Validate rejects values the simulation cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.World.Radius <= 0:
		return fmt.Errorf("world radius must be positive, got %d", t.World.Radius)
	case t.World.KmPerHex <= 0:
		return fmt.Errorf("km per hex must be positive, got %v", t.World.KmPerHex)
	case t.LifeSupport.Margin <= 1:
		return fmt.Errorf("life support margin must be greater than 1, got %v", t.LifeSupport.Margin)
	case t.Mission.MinFieldMembers < 1:
		return fmt.Errorf("min field members must be at least 1, got %d", t.Mission.MinFieldMembers)
	case t.Mission.MaxTradeMembers < 1:
		return fmt.Errorf("max trade members must be at least 1, got %d", t.Mission.MaxTradeMembers)
	case t.Mission.NegotiationTimeout <= 0:
		return fmt.Errorf("negotiation timeout must be positive, got %v", t.Mission.NegotiationTimeout)
	case t.Engine.Speed < 0:
		return fmt.Errorf("engine speed must not be negative, got %d", t.Engine.Speed)
	}
	return nil
}
