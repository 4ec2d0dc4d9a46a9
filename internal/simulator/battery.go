package simulator

import (
	"fmt"

	"solar_tracker/internal/model"
)

// Battery folds net energy over the timeline in strict timestamp order.
// Each step depends on the previous step's ending level, so the fold is one
// ordered pass and cannot be sharded across time ranges.
type Battery struct {
	CapacityKWh float64
	MinKWh      float64
	DeadBandKWh float64

	// LevelKWh is the state of charge entering the next step. Invariant:
	// MinKWh <= LevelKWh <= CapacityKWh after construction and every step.
	LevelKWh float64

	// Run totals for the gap between net energy and applied flow.
	CurtailedKWh float64 // generation lost with the battery full
	UnmetKWh     float64 // demand unserved with the battery empty
}

// StepResult reports one interval. LevelKWh is the state of charge at the
// interval's timestamp; FlowKWh is the clamped energy the battery absorbs
// (positive) or releases (negative) during the interval, which takes effect
// at the next step.
type StepResult struct {
	LevelKWh    float64
	FlowKWh     float64
	Charging    bool
	Discharging bool
}

// NewBattery builds a battery with the initial level clamped into
// [minKWh, capacityKWh]. An out-of-range initial level is a data-quality
// warning, not an error; min exceeding capacity must be rejected by config
// validation before this point.
func NewBattery(capacityKWh, minKWh, initialKWh, deadBandKWh float64) (*Battery, []model.Warning) {
	var warnings []model.Warning
	level := initialKWh
	if level > capacityKWh {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnInitialLevelClamped,
			Message: fmt.Sprintf("initial battery level %.3f kWh above capacity %.3f kWh, clamped", initialKWh, capacityKWh),
		})
		level = capacityKWh
	} else if level < minKWh {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnInitialLevelClamped,
			Message: fmt.Sprintf("initial battery level %.3f kWh below floor %.3f kWh, clamped", initialKWh, minKWh),
		})
		level = minKWh
	}
	return &Battery{
		CapacityKWh: capacityKWh,
		MinKWh:      minKWh,
		DeadBandKWh: deadBandKWh,
		LevelKWh:    level,
	}, warnings
}

// Step applies one interval's generation and load. The returned level is the
// charge before the interval's flow; the flow is clamped so the level never
// leaves [MinKWh, CapacityKWh]. Curtailed generation and unmet demand are
// accumulated on the battery as run totals.
func (b *Battery) Step(generationKWh, loadKWh float64) StepResult {
	levelAt := b.LevelKWh

	net := generationKWh - loadKWh
	proposed := levelAt + net
	flow := net

	switch {
	case proposed > b.CapacityKWh:
		overflow := proposed - b.CapacityKWh
		flow = net - overflow
		b.CurtailedKWh += overflow
		proposed = b.CapacityKWh
	case proposed < b.MinKWh:
		shortfall := b.MinKWh - proposed
		flow = net + shortfall
		b.UnmetKWh += shortfall
		proposed = b.MinKWh
	}

	b.LevelKWh = proposed

	return StepResult{
		LevelKWh:    levelAt,
		FlowKWh:     flow,
		Charging:    flow > b.DeadBandKWh,
		Discharging: flow < -b.DeadBandKWh,
	}
}

// SoCPercent returns the current state of charge as a fraction of capacity.
func (b *Battery) SoCPercent() float64 {
	if b.CapacityKWh <= 0 {
		return 0
	}
	return b.LevelKWh / b.CapacityKWh * 100
}
