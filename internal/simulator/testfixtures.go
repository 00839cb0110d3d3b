package simulator

// Fixtures shared between tests in this package.

func testFacilityConfig() FacilityConfig {
	cfg := DefaultFacilityConfig()
	cfg.PowerCapacityKw = 10
	cfg.BaselineIdleLoadKw = 0.5
	cfg.ThermalThresholdC = 27
	cfg.StepMinutes = 10
	cfg.StartHour = 0
	cfg.EndHour = 24
	return cfg
}

func testScenario(cfg FacilityConfig, jobs ...JobSpec) *ScenarioSpec {
	return &ScenarioSpec{
		Name:     "test",
		Jobs:     jobs,
		Facility: cfg,
	}
}

func jobSpec(name string, powerKw, durationHours float64, priority Priority) JobSpec {
	return JobSpec{
		Name:          name,
		PowerKw:       powerKw,
		DurationHours: durationHours,
		Priority:      priority,
	}
}

func withDeadline(spec JobSpec, deadlineHour float64) JobSpec {
	spec.DeadlineHour = &deadlineHour
	return spec
}

func withFlexible(spec JobSpec, flexible bool) JobSpec {
	spec.Flexible = &flexible
	return spec
}

// constantSeries produces an hour-keyed series holding the same value for
// every hour in [0, hours).
func constantSeries(hours int, value float64) []SeriesPoint {
	rv := make([]SeriesPoint, hours)
	for i := range rv {
		rv[i] = SeriesPoint{Hour: float64(i), Value: value}
	}
	return rv
}
