package model

import (
	"fmt"
	"time"
)

// IrradianceSample is one raw measurement handed to the engine, however it
// was sourced (CSV export, API, generator). When a source reports several
// irradiance components for the same instant, WPerM2 carries their sum.
type IrradianceSample struct {
	Timestamp time.Time // must carry a zone; normalized during profile build
	WPerM2    float64
}

// SimulationRow is one fixed-cadence interval of the simulated timeline.
// BatteryLevelKWh is the state of charge at Timestamp; BatteryFlowKWh is the
// energy the battery absorbs (positive) or releases (negative) over the
// interval starting at Timestamp, so it takes effect at the next row.
type SimulationRow struct {
	Timestamp       time.Time `json:"timestamp"`
	IrradianceKWM2  float64   `json:"irradiance_kw_m2"`
	GeneratedKWh    float64   `json:"generated_kwh"`
	LoadKWh         float64   `json:"load_kwh"`
	BatteryLevelKWh float64   `json:"battery_level_kwh"`
	BatteryFlowKWh  float64   `json:"battery_flow_kwh"`
	Charging        bool      `json:"charging"`
	Discharging     bool      `json:"discharging"`
}

// Field selects a numeric SimulationRow column for windowed aggregation.
type Field string

const (
	FieldIrradiance   Field = "irradiance_kw_m2"
	FieldGenerated    Field = "generated_kwh"
	FieldLoad         Field = "load_kwh"
	FieldBatteryLevel Field = "battery_level_kwh"
	FieldBatteryFlow  Field = "battery_flow_kwh"
)

// Value returns the selected column. Unknown fields read as zero so windowed
// sums stay total rather than failing mid-aggregation.
func (r SimulationRow) Value(f Field) float64 {
	switch f {
	case FieldIrradiance:
		return r.IrradianceKWM2
	case FieldGenerated:
		return r.GeneratedKWh
	case FieldLoad:
		return r.LoadKWh
	case FieldBatteryLevel:
		return r.BatteryLevelKWh
	case FieldBatteryFlow:
		return r.BatteryFlowKWh
	}
	return 0
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ConfigurationError is fatal: it stops pipeline construction before any
// simulation step executes. It names the offending field and value.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Warning codes for recoverable data-quality conditions.
const (
	WarnSampleDropped       = "sample_dropped"
	WarnInitialLevelClamped = "initial_level_clamped"
)

// Warning is a recoverable data-quality condition. Warnings accumulate and
// ride alongside a successful result; they never abort a run. How they are
// displayed is the presentation layer's problem.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
