package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentPrefersHourKeyedSamples(t *testing.T) {
	cfg := testFacilityConfig()
	solar := []SeriesPoint{{Hour: 12, Value: 7.5}}
	temps := []SeriesPoint{{Hour: 12, Value: 31.0}}
	env := NewEnvironment(cfg, solar, temps)

	sample := env.Sample(12)
	assert.Equal(t, 7.5, sample.SolarAvailableKw)
	assert.Equal(t, 31.0, sample.AmbientTempC)

	// Sub-hour steps resolve to the same hourly sample.
	assert.Equal(t, env.Sample(12), env.Sample(12.5))
}

func TestEnvironmentFallsBackToIndexPosition(t *testing.T) {
	cfg := testFacilityConfig()
	// Fractional hour keys never match the integer lookup, so position in
	// the series is used instead.
	solar := []SeriesPoint{{Hour: 0.25, Value: 1.0}, {Hour: 0.5, Value: 2.0}}
	env := NewEnvironment(cfg, solar, nil)

	assert.Equal(t, 2.0, env.Sample(1).SolarAvailableKw)
}

func TestEnvironmentFallsBackToPhysicsModels(t *testing.T) {
	cfg := testFacilityConfig()
	env := NewEnvironment(cfg, nil, nil)

	noon := env.Sample(12)
	assert.Equal(
		t,
		SolarPowerKw(12, cfg.MaxSolarKw, cfg.LatitudeDeg, cfg.PanelTiltDeg, cfg.DayOfYear),
		noon.SolarAvailableKw,
	)
	assert.Equal(t, AmbientTempC(12, cfg.MinTempC, cfg.MaxTempC), noon.AmbientTempC)
}

func TestEnvironmentPhysicsFallbackBeyondSeriesEnd(t *testing.T) {
	cfg := testFacilityConfig()
	env := NewEnvironment(cfg, constantSeries(6, 3.0), constantSeries(6, 20.0))

	// Covered hours come from the series, later hours from the models.
	assert.Equal(t, 3.0, env.Sample(5).SolarAvailableKw)
	sample := env.Sample(8)
	assert.Equal(
		t,
		SolarPowerKw(8, cfg.MaxSolarKw, cfg.LatitudeDeg, cfg.PanelTiltDeg, cfg.DayOfYear),
		sample.SolarAvailableKw,
	)
	assert.Equal(t, AmbientTempC(8, cfg.MinTempC, cfg.MaxTempC), sample.AmbientTempC)
}

func TestEnvironmentWrapsHoursBeyondOneDay(t *testing.T) {
	cfg := testFacilityConfig()
	env := NewEnvironment(cfg, nil, nil)

	// Multi-day simulations repeat the diurnal models.
	assert.Equal(t, env.Sample(12).SolarAvailableKw, env.Sample(36).SolarAvailableKw)
	assert.Equal(t, env.Sample(2).AmbientTempC, env.Sample(26).AmbientTempC)
}
