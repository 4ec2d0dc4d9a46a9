package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"solar_tracker/internal/model"
)

// SimulationConfig describes one simulation run. It is treated as immutable
// once validated: a different configuration means rerunning the pipeline from
// scratch, never patching an existing timeline.
type SimulationConfig struct {
	InstalledCapacityKWp float64 `json:"installed_capacity_kwp"`
	PanelEfficiency      float64 `json:"panel_efficiency"`

	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
	MinBatteryKWh      float64 `json:"min_battery_kwh"`
	InitialBatteryKWh  float64 `json:"initial_battery_kwh"`
	// FlagDeadBandKWh is the flow magnitude below which an interval is
	// classified as idle rather than charging or discharging.
	FlagDeadBandKWh float64 `json:"flag_dead_band_kwh"`

	BaseLoadKW float64 `json:"base_load_kw"`
	// LoadSchedule maps hour-of-day to a fractional multiplier of BaseLoadKW.
	// Hours absent from the map draw no load.
	LoadSchedule map[int]float64 `json:"load_schedule"`

	Timezone        string        `json:"timezone"`
	SimulationStart time.Time     `json:"simulation_start"`
	SimulationEnd   time.Time     `json:"simulation_end"`
	Cadence         time.Duration `json:"cadence"`
}

// Default returns a config for a small residential installation with an
// evening load block, one-hour cadence and a two-day horizon.
func Default() SimulationConfig {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg := SimulationConfig{
		InstalledCapacityKWp: 1.3,
		PanelEfficiency:      0.18,
		BatteryCapacityKWh:   7.2,
		MinBatteryKWh:        1.44,
		InitialBatteryKWh:    7.2,
		BaseLoadKW:           0.3,
		LoadSchedule: map[int]float64{
			16: 1, 17: 1, 18: 1, 19: 1,
			20: 0.5,
		},
		SimulationStart: start,
		SimulationEnd:   start.Add(48 * time.Hour),
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills the fields that may be omitted from a config file.
func (c *SimulationConfig) SetDefaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Cadence == 0 {
		c.Cadence = time.Hour
	}
	if c.FlagDeadBandKWh == 0 {
		c.FlagDeadBandKWh = 0.001
	}
}

// Validate checks the config before any simulation step runs.
func (c *SimulationConfig) Validate() error {
	if c.InstalledCapacityKWp < 0 {
		return &model.ConfigurationError{Field: "installed_capacity_kwp", Value: c.InstalledCapacityKWp, Reason: "must be non-negative"}
	}
	if c.BatteryCapacityKWh <= 0 {
		return &model.ConfigurationError{Field: "battery_capacity_kwh", Value: c.BatteryCapacityKWh, Reason: "must be positive"}
	}
	if c.MinBatteryKWh > c.BatteryCapacityKWh {
		return &model.ConfigurationError{Field: "min_battery_kwh", Value: c.MinBatteryKWh, Reason: "exceeds battery capacity"}
	}
	if c.Cadence <= 0 {
		return &model.ConfigurationError{Field: "cadence", Value: c.Cadence, Reason: "must be positive"}
	}
	if c.SimulationEnd.Before(c.SimulationStart) {
		return &model.ConfigurationError{Field: "simulation_end", Value: c.SimulationEnd, Reason: "before simulation start"}
	}
	if len(c.LoadSchedule) == 0 {
		return &model.ConfigurationError{Field: "load_schedule", Value: c.LoadSchedule, Reason: "must name at least one hour"}
	}
	for h := range c.LoadSchedule {
		if h < 0 || h > 23 {
			return &model.ConfigurationError{Field: "load_schedule", Value: h, Reason: "hour outside 0-23"}
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return &model.ConfigurationError{Field: "timezone", Value: c.Timezone, Reason: err.Error()}
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *SimulationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load reads a yaml or json config file, applies ST_ environment overrides
// (ST_BASE_LOAD_KW=0.5 overrides base_load_kw), then defaults and validation.
func Load(path string) (*SimulationConfig, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("ST_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ST_"))
	}), nil); err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
