package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_tracker/internal/model"
	"solar_tracker/internal/solar"
)

func hourlyTimeline(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func TestProjectGeneration(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	profile, warnings := solar.Build([]model.IrradianceSample{
		{Timestamp: start, WPerM2: 500},
	}, time.UTC)
	require.Empty(t, warnings)

	out := ProjectGeneration(profile, hourlyTimeline(start, 3), 1.3, 0.18, time.Hour)
	require.Len(t, out, 3)

	// 0.5 kW/m² × 1.3 kWp × 0.18 × 1h
	assert.InDelta(t, 0.117, out[0], 1e-9)
	// Hours without profile data generate nothing.
	assert.InDelta(t, 0, out[1], 1e-9)
	assert.InDelta(t, 0, out[2], 1e-9)
}

func TestProjectGeneration_ScalesWithCadence(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	profile, _ := solar.Build([]model.IrradianceSample{
		{Timestamp: start, WPerM2: 1000},
	}, time.UTC)

	out := ProjectGeneration(profile, []time.Time{start}, 2.0, 0.2, 30*time.Minute)
	// 1 kW/m² × 2 kWp × 0.2 × 0.5h
	assert.InDelta(t, 0.2, out[0], 1e-9)
}

func TestProjectLoad(t *testing.T) {
	start := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	sched := Schedule{
		BaseKW:     0.3,
		Multiplier: map[int]float64{16: 1, 17: 1, 20: 0.5},
	}

	out := ProjectLoad(hourlyTimeline(start, 6), sched, time.Hour)
	require.Len(t, out, 6)

	assert.InDelta(t, 0, out[0], 1e-9)    // 15:00 not scheduled
	assert.InDelta(t, 0.3, out[1], 1e-9)  // 16:00
	assert.InDelta(t, 0.3, out[2], 1e-9)  // 17:00
	assert.InDelta(t, 0, out[3], 1e-9)    // 18:00 not scheduled
	assert.InDelta(t, 0, out[4], 1e-9)    // 19:00 not scheduled
	assert.InDelta(t, 0.15, out[5], 1e-9) // 20:00 at half load
}

func TestScheduleKWAt_AbsentHourIsZero(t *testing.T) {
	sched := Schedule{BaseKW: 1.5, Multiplier: map[int]float64{8: 0.4}}
	assert.InDelta(t, 0.6, sched.KWAt(8), 1e-9)
	assert.InDelta(t, 0, sched.KWAt(9), 1e-9)
}
