package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_tracker/internal/model"
)

func newTestBattery(t *testing.T) *Battery {
	t.Helper()
	b, warnings := NewBattery(7.2, 1.44, 4.0, 0.001)
	require.Empty(t, warnings)
	return b
}

func TestNewBattery_ClampsInitialAboveCapacity(t *testing.T) {
	b, warnings := NewBattery(7.2, 1.44, 10.0, 0.001)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnInitialLevelClamped, warnings[0].Code)
	assert.InDelta(t, 7.2, b.LevelKWh, 1e-9)
}

func TestNewBattery_ClampsInitialBelowFloor(t *testing.T) {
	b, warnings := NewBattery(7.2, 1.44, 0.5, 0.001)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnInitialLevelClamped, warnings[0].Code)
	assert.InDelta(t, 1.44, b.LevelKWh, 1e-9)
}

func TestBattery_StepWithinBounds(t *testing.T) {
	b := newTestBattery(t)

	r := b.Step(1.0, 0.4) // net +0.6
	assert.InDelta(t, 4.0, r.LevelKWh, 1e-9) // level at the row's timestamp
	assert.InDelta(t, 0.6, r.FlowKWh, 1e-9)
	assert.True(t, r.Charging)
	assert.False(t, r.Discharging)

	// Flow applies at the next step.
	r = b.Step(0, 0)
	assert.InDelta(t, 4.6, r.LevelKWh, 1e-9)
}

func TestBattery_ClampsAtCapacity(t *testing.T) {
	b := newTestBattery(t)
	b.LevelKWh = 7.0

	r := b.Step(1.0, 0.2) // net +0.8, only 0.2 fits
	assert.InDelta(t, 0.2, r.FlowKWh, 1e-9)
	assert.InDelta(t, 0.6, b.CurtailedKWh, 1e-9)
	assert.InDelta(t, 7.2, b.LevelKWh, 1e-9)
}

func TestBattery_ClampsAtFloor(t *testing.T) {
	b := newTestBattery(t)
	b.LevelKWh = 1.5

	r := b.Step(0, 0.5) // net -0.5, only 0.06 available
	assert.InDelta(t, -0.06, r.FlowKWh, 1e-9)
	assert.InDelta(t, 0.44, b.UnmetKWh, 1e-9)
	assert.InDelta(t, 1.44, b.LevelKWh, 1e-9)
	assert.True(t, r.Discharging)
}

func TestBattery_DeadBandIdle(t *testing.T) {
	b, _ := NewBattery(7.2, 1.44, 4.0, 0.01)

	r := b.Step(0.005, 0) // flow below dead-band
	assert.False(t, r.Charging)
	assert.False(t, r.Discharging)

	r = b.Step(0.02, 0)
	assert.True(t, r.Charging)

	r = b.Step(0, 0.02)
	assert.True(t, r.Discharging)
}

func TestBattery_LevelNeverLeavesBounds(t *testing.T) {
	b := newTestBattery(t)

	steps := []struct{ gen, load float64 }{
		{5, 0}, {5, 0}, {0, 3}, {0, 5}, {0.1, 0.1}, {10, 0}, {0, 10},
	}
	for _, s := range steps {
		r := b.Step(s.gen, s.load)
		assert.GreaterOrEqual(t, r.LevelKWh, 1.44)
		assert.LessOrEqual(t, r.LevelKWh, 7.2)
		assert.GreaterOrEqual(t, b.LevelKWh, 1.44)
		assert.LessOrEqual(t, b.LevelKWh, 7.2)
	}
}

func TestBattery_ConservationAcrossSteps(t *testing.T) {
	b := newTestBattery(t)

	steps := []struct{ gen, load float64 }{
		{1, 0}, {2, 0.5}, {0, 4}, {0, 4}, {3, 0}, {8, 0}, {0, 1},
	}
	var results []StepResult
	for _, s := range steps {
		results = append(results, b.Step(s.gen, s.load))
	}

	for i := 1; i < len(results); i++ {
		assert.InDelta(t, results[i-1].LevelKWh+results[i-1].FlowKWh, results[i].LevelKWh, 1e-9,
			"level must advance by the applied flow, step %d", i)
	}
}

func TestBattery_SoCPercent(t *testing.T) {
	b := newTestBattery(t)
	b.LevelKWh = 3.6
	assert.InDelta(t, 50, b.SoCPercent(), 1e-9)
}
