package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_NamesFieldAndValue(t *testing.T) {
	err := &ConfigurationError{Field: "cadence", Value: -1, Reason: "must be positive"}
	assert.Contains(t, err.Error(), "cadence")
	assert.Contains(t, err.Error(), "-1")
	assert.Contains(t, err.Error(), "must be positive")
}

func TestConfigurationError_MatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading config: %w",
		&ConfigurationError{Field: "timezone", Value: "Mars/Olympus", Reason: "unknown"})

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "timezone", cfgErr.Field)
}

func TestSimulationRow_Value(t *testing.T) {
	row := SimulationRow{
		IrradianceKWM2:  0.5,
		GeneratedKWh:    0.117,
		LoadKWh:         0.3,
		BatteryLevelKWh: 7.2,
		BatteryFlowKWh:  -0.183,
	}

	assert.InDelta(t, 0.5, row.Value(FieldIrradiance), 1e-9)
	assert.InDelta(t, 0.117, row.Value(FieldGenerated), 1e-9)
	assert.InDelta(t, 0.3, row.Value(FieldLoad), 1e-9)
	assert.InDelta(t, 7.2, row.Value(FieldBatteryLevel), 1e-9)
	assert.InDelta(t, -0.183, row.Value(FieldBatteryFlow), 1e-9)
	assert.InDelta(t, 0, row.Value(Field("bogus")), 1e-9)
}
