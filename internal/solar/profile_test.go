package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_tracker/internal/model"
)

func TestBuild_AveragesAcrossYears(t *testing.T) {
	// Same (day-of-year, hour) in two different years collapses into one
	// averaged entry. January 15th is day 15 in leap and non-leap years alike.
	samples := []model.IrradianceSample{
		{Timestamp: time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC), WPerM2: 400},
		{Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), WPerM2: 600},
	}

	p, warnings := Build(samples, time.UTC)
	require.Empty(t, warnings)

	assert.Equal(t, 1, p.Entries())
	// (400+600)/2 W/m² = 0.5 kW/m²
	assert.InDelta(t, 0.5, p.Query(15, 10), 1e-9)
}

func TestBuild_NormalizesToConfiguredZone(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	// 10:00 UTC on June 15th is 12:00 in Warsaw (CEST).
	samples := []model.IrradianceSample{
		{Timestamp: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), WPerM2: 500},
	}

	p, warnings := Build(samples, warsaw)
	require.Empty(t, warnings)

	doy := time.Date(2024, 6, 15, 0, 0, 0, 0, warsaw).YearDay()
	assert.InDelta(t, 0.5, p.Query(doy, 12), 1e-9)
	assert.InDelta(t, 0, p.Query(doy, 10), 1e-9)
}

func TestBuild_DropsAmbiguousLocalTimes(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// On 2024-11-03 the clock falls back: 01:30 local occurs twice. Both
	// instants share the same wall time, so only one can round-trip; the
	// other is dropped with a warning instead of being guessed.
	first := time.Date(2024, 11, 3, 1, 30, 0, 0, ny)
	second := first.Add(time.Hour)
	require.Equal(t, second.In(ny).Hour(), first.In(ny).Hour())

	samples := []model.IrradianceSample{
		{Timestamp: first, WPerM2: 300},
		{Timestamp: second, WPerM2: 700},
	}

	p, warnings := Build(samples, ny)
	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnSampleDropped, warnings[0].Code)
	assert.Equal(t, 1, p.Entries())
}

func TestQuery_UnseenKeyReturnsZero(t *testing.T) {
	p, _ := Build(nil, time.UTC)

	assert.InDelta(t, 0, p.Query(100, 12), 1e-9)
	assert.False(t, p.Observed(100, 12))

	// Out of range keys are just unseen, never an error.
	assert.InDelta(t, 0, p.Query(0, 12), 1e-9)
	assert.InDelta(t, 0, p.Query(367, 12), 1e-9)
	assert.InDelta(t, 0, p.Query(100, 24), 1e-9)
	assert.InDelta(t, 0, p.Query(100, -1), 1e-9)
}

func TestBuild_OneEntryPerKey(t *testing.T) {
	// A sample at the same hour every day for a week, repeated over two
	// years, still yields exactly one entry per (day, hour) pair.
	var samples []model.IrradianceSample
	for _, year := range []int{2022, 2023} {
		for day := 0; day < 7; day++ {
			ts := time.Date(year, 3, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, day)
			samples = append(samples, model.IrradianceSample{Timestamp: ts, WPerM2: 250})
		}
	}

	p, warnings := Build(samples, time.UTC)
	require.Empty(t, warnings)
	assert.Equal(t, 7, p.Entries())

	doy := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC).YearDay()
	assert.InDelta(t, 0.25, p.Query(doy, 12), 1e-9)
}
