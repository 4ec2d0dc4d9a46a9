package ingest

import (
	"math"
	"time"

	"solar_tracker/internal/model"
)

// Daylight window for synthetic generation: sun between 07:00 and 19:00.
const (
	dayStartHour = 7
	dayEndHour   = 19

	peakWPerM2 = 800.0
)

// Synthetic produces deterministic hourly irradiance samples for the given
// number of days ending at end: a bell curve centered on early afternoon,
// zero outside the daylight window, with a small day-to-day amplitude swing
// so consecutive days are not identical. No randomness — the same arguments
// always yield the same samples.
func Synthetic(days int, end time.Time) []model.IrradianceSample {
	end = end.Truncate(time.Hour)
	start := end.Add(-time.Duration(days*24-1) * time.Hour)

	var samples []model.IrradianceSample
	for i := 0; i < days*24; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		samples = append(samples, model.IrradianceSample{
			Timestamp: ts,
			WPerM2:    syntheticIrradiance(ts),
		})
	}
	return samples
}

func syntheticIrradiance(ts time.Time) float64 {
	h := ts.Hour()
	if h < dayStartHour || h >= dayEndHour {
		return 0
	}

	// Bell curve peaking at 13:00.
	dist := float64(h) - 13.0
	shape := math.Exp(-dist * dist / 18.0)

	// Deterministic day-to-day swing of ±10%.
	swing := 0.9 + 0.2*(1+math.Sin(float64(ts.YearDay())))/2

	return peakWPerM2 * shape * swing
}
