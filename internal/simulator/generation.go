package simulator

import (
	"time"

	"solar_tracker/internal/solar"
)

// ProjectGeneration projects the irradiance profile onto the timeline,
// returning generated energy in kWh per interval. Timeline timestamps must
// already be in the profile's timezone so day-of-year and hour line up.
//
// Pure function of its inputs: the same profile and timeline always produce
// the same output. Results are floored at zero so no interpolation artifact
// can ever report negative generation.
func ProjectGeneration(p *solar.Profile, timeline []time.Time, capacityKWp, efficiency float64, cadence time.Duration) []float64 {
	hours := cadence.Hours()
	out := make([]float64, len(timeline))
	for i, t := range timeline {
		kwh := p.Query(t.YearDay(), t.Hour()) * capacityKWp * efficiency * hours
		if kwh < 0 {
			kwh = 0
		}
		out[i] = kwh
	}
	return out
}
