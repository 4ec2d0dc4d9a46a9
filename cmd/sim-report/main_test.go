package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_tracker/internal/model"
	"solar_tracker/internal/timeline"
)

func hourlyIndex(t *testing.T, n int) *timeline.Index {
	t.Helper()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]model.SimulationRow, n)
	for i := range rows {
		rows[i] = model.SimulationRow{
			Timestamp:       start.Add(time.Duration(i) * time.Hour),
			GeneratedKWh:    1,
			LoadKWh:         0.5,
			BatteryLevelKWh: float64(i),
		}
	}
	ix, err := timeline.New(rows)
	require.NoError(t, err)
	return ix
}

func TestPerDayLines_FullDays(t *testing.T) {
	ix := hourlyIndex(t, 48)

	lines := perDayLines(ix)
	require.Len(t, lines, 2)

	assert.Equal(t, "2024-06-01", lines[0].Date)
	assert.InDelta(t, 24, lines[0].GenKWh, 1e-9)
	assert.InDelta(t, 12, lines[0].LoadKWh, 1e-9)
	assert.InDelta(t, 23, lines[0].EndLevelKWh, 1e-9)

	assert.Equal(t, "2024-06-02", lines[1].Date)
	assert.InDelta(t, 24, lines[1].GenKWh, 1e-9)
	assert.InDelta(t, 47, lines[1].EndLevelKWh, 1e-9)
}

func TestPerDayLines_TrailingPartialDay(t *testing.T) {
	// 30 hourly rows: one full day plus six hours. The partial line must
	// cover only its own six rows, and the day totals must add up to the
	// whole timeline with no row counted twice.
	ix := hourlyIndex(t, 30)

	lines := perDayLines(ix)
	require.Len(t, lines, 2)

	assert.InDelta(t, 24, lines[0].GenKWh, 1e-9)
	assert.InDelta(t, 6, lines[1].GenKWh, 1e-9)
	assert.InDelta(t, 29, lines[1].EndLevelKWh, 1e-9)

	var total float64
	for _, d := range lines {
		total += d.GenKWh
	}
	assert.InDelta(t, 30, total, 1e-9)
}

func TestPerDayLines_SingleRow(t *testing.T) {
	ix := hourlyIndex(t, 1)

	lines := perDayLines(ix)
	require.Len(t, lines, 1)
	assert.InDelta(t, 1, lines[0].GenKWh, 1e-9)
}
