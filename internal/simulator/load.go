package simulator

import "time"

// Schedule describes a deterministic daily consumption shape: a base load in
// kW scaled per hour by a fractional multiplier. Hours absent from the map
// draw nothing, and fractional multipliers let a schedule taper an activity
// window (e.g. half load for its final hour) without per-hour branching.
type Schedule struct {
	BaseKW     float64
	Multiplier map[int]float64
}

// KWAt returns the effective load in kW for the given hour of day.
func (s Schedule) KWAt(hour int) float64 {
	return s.BaseKW * s.Multiplier[hour]
}

// ProjectLoad returns consumption in kWh per interval of the timeline.
func ProjectLoad(timeline []time.Time, sched Schedule, cadence time.Duration) []float64 {
	hours := cadence.Hours()
	out := make([]float64, len(timeline))
	for i, t := range timeline {
		out[i] = sched.KWAt(t.Hour()) * hours
	}
	return out
}
