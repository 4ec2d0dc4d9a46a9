package simulator

import (
	"time"

	"solar_tracker/internal/config"
	"solar_tracker/internal/model"
	"solar_tracker/internal/solar"
)

// Result is the outcome of one pipeline run: the immutable simulated timeline
// plus run totals and any data-quality warnings accumulated along the way.
type Result struct {
	Rows     []model.SimulationRow
	Warnings []model.Warning

	CurtailedKWh float64
	UnmetKWh     float64
}

// Run executes the whole pipeline: validate config, build the irradiance
// profile, project generation and load onto a fixed-cadence timeline, then
// fold the battery over it. A ConfigurationError aborts before any step;
// data-quality conditions accumulate as warnings on the result.
//
// Run is deterministic: identical config and samples produce identical rows.
// Nothing here reads the wall clock.
func Run(cfg config.SimulationConfig, samples []model.IrradianceSample) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	profile, warnings := solar.Build(samples, loc)

	timeline := buildTimeline(cfg.SimulationStart.In(loc), cfg.SimulationEnd.In(loc), cfg.Cadence)

	generation := ProjectGeneration(profile, timeline, cfg.InstalledCapacityKWp, cfg.PanelEfficiency, cfg.Cadence)
	load := ProjectLoad(timeline, Schedule{BaseKW: cfg.BaseLoadKW, Multiplier: cfg.LoadSchedule}, cfg.Cadence)

	battery, batWarnings := NewBattery(cfg.BatteryCapacityKWh, cfg.MinBatteryKWh, cfg.InitialBatteryKWh, cfg.FlagDeadBandKWh)
	warnings = append(warnings, batWarnings...)

	rows := make([]model.SimulationRow, len(timeline))
	for i, t := range timeline {
		step := battery.Step(generation[i], load[i])
		rows[i] = model.SimulationRow{
			Timestamp:       t,
			IrradianceKWM2:  profile.Query(t.YearDay(), t.Hour()),
			GeneratedKWh:    generation[i],
			LoadKWh:         load[i],
			BatteryLevelKWh: step.LevelKWh,
			BatteryFlowKWh:  step.FlowKWh,
			Charging:        step.Charging,
			Discharging:     step.Discharging,
		}
	}

	return &Result{
		Rows:         rows,
		Warnings:     warnings,
		CurtailedKWh: battery.CurtailedKWh,
		UnmetKWh:     battery.UnmetKWh,
	}, nil
}

// buildTimeline returns timestamps from start to end inclusive at the given
// cadence: strictly increasing, no gaps, no duplicates.
func buildTimeline(start, end time.Time, cadence time.Duration) []time.Time {
	var out []time.Time
	for t := start; !t.After(end); t = t.Add(cadence) {
		out = append(out, t)
	}
	return out
}
