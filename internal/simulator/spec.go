package simulator

import (
	"github.com/pkg/errors"

	"github.com/heliosyn/heliosim/internal/common/slices"
)

// JobSpec describes one appliance or workload in the scenario catalog.
// Specs are immutable input; each scheduler run builds its own Job
// instances from them.
type JobSpec struct {
	Name          string   `mapstructure:"name"`
	PowerKw       float64  `mapstructure:"powerKw"`
	DurationHours float64  `mapstructure:"durationHours"`
	Priority      Priority `mapstructure:"priority"`
	DeadlineHour  *float64 `mapstructure:"deadlineHour"`
	// Flexible jobs of medium priority defer admission until solar power
	// is available. Defaults to true when unset.
	Flexible *bool `mapstructure:"flexible"`
}

func (s JobSpec) IsFlexible() bool {
	if s.Flexible == nil {
		return true
	}
	return *s.Flexible
}

// SeriesPoint is one sample of an hour-keyed historical series, matching
// the (timestamp, value) upload format of the HelioSyn frontend.
type SeriesPoint struct {
	Hour  float64 `mapstructure:"hour"`
	Value float64 `mapstructure:"value"`
}

// TariffConfig is the time-of-use grid price schedule, in currency units
// per kWh. Off-peak applies before 06:00, peak from 18:00 to 22:00 and the
// standard rate otherwise.
type TariffConfig struct {
	OffPeakRate  float64 `mapstructure:"offPeakRate"`
	StandardRate float64 `mapstructure:"standardRate"`
	PeakRate     float64 `mapstructure:"peakRate"`
}

// FacilityConfig holds every tunable of the simulated facility. All fields
// default to the documented constants below when omitted from a scenario
// file, so the engine never reads ambient global state.
type FacilityConfig struct {
	// Peak output of the solar array under standard test conditions.
	MaxSolarKw float64 `mapstructure:"maxSolarKw"`
	// Diurnal ambient temperature envelope used by the synthetic model.
	MinTempC float64 `mapstructure:"minTempC"`
	MaxTempC float64 `mapstructure:"maxTempC"`
	// Site position and date for the clear-sky irradiance model.
	LatitudeDeg  float64 `mapstructure:"latitudeDeg"`
	PanelTiltDeg float64 `mapstructure:"panelTiltDeg"`
	DayOfYear    int     `mapstructure:"dayOfYear"`
	// Total power the facility can draw at any instant.
	PowerCapacityKw float64 `mapstructure:"powerCapacityKw"`
	// Facility temperature above which low-priority jobs are throttled
	// and cooling activates.
	ThermalThresholdC float64 `mapstructure:"thermalThresholdC"`
	// Background draw assumed by the baseline FIFO policy.
	BaselineIdleLoadKw float64 `mapstructure:"baselineIdleLoadKw"`
	// Simulated time window and resolution. The end hour is exclusive.
	StartHour   float64 `mapstructure:"startHour"`
	EndHour     float64 `mapstructure:"endHour"`
	StepMinutes float64 `mapstructure:"stepMinutes"`
	// Emission factor for grid electricity.
	GridCarbonKgPerKwh float64      `mapstructure:"gridCarbonKgPerKwh"`
	Tariff             TariffConfig `mapstructure:"tariff"`
	// Charges applied per missed deadline.
	PenaltyCostPerViolation float64 `mapstructure:"penaltyCostPerViolation"`
	PenaltyKwhPerViolation  float64 `mapstructure:"penaltyKwhPerViolation"`
}

// Documented defaults for FacilityConfig.
const (
	DefaultMaxSolarKw              = 10.0
	DefaultMinTempC                = 18.0
	DefaultMaxTempC                = 32.0
	DefaultLatitudeDeg             = 40.0
	DefaultPanelTiltDeg            = 30.0
	DefaultDayOfYear               = 172
	DefaultPowerCapacityKw         = 15.0
	DefaultThermalThresholdC       = 27.0
	DefaultBaselineIdleLoadKw      = 0.5
	DefaultStartHour               = 0.0
	DefaultEndHour                 = 24.0
	DefaultStepMinutes             = 10.0
	DefaultGridCarbonKgPerKwh      = 0.4
	DefaultOffPeakRate             = 0.10
	DefaultStandardRate            = 0.18
	DefaultPeakRate                = 0.30
	DefaultPenaltyCostPerViolation = 5.0
	DefaultPenaltyKwhPerViolation  = 2.0
)

// DefaultFacilityConfig returns a config populated entirely from defaults.
func DefaultFacilityConfig() FacilityConfig {
	return FacilityConfig{
		MaxSolarKw:              DefaultMaxSolarKw,
		MinTempC:                DefaultMinTempC,
		MaxTempC:                DefaultMaxTempC,
		LatitudeDeg:             DefaultLatitudeDeg,
		PanelTiltDeg:            DefaultPanelTiltDeg,
		DayOfYear:               DefaultDayOfYear,
		PowerCapacityKw:         DefaultPowerCapacityKw,
		ThermalThresholdC:       DefaultThermalThresholdC,
		BaselineIdleLoadKw:      DefaultBaselineIdleLoadKw,
		StartHour:               DefaultStartHour,
		EndHour:                 DefaultEndHour,
		StepMinutes:             DefaultStepMinutes,
		GridCarbonKgPerKwh:      DefaultGridCarbonKgPerKwh,
		Tariff:                  TariffConfig{OffPeakRate: DefaultOffPeakRate, StandardRate: DefaultStandardRate, PeakRate: DefaultPeakRate},
		PenaltyCostPerViolation: DefaultPenaltyCostPerViolation,
		PenaltyKwhPerViolation:  DefaultPenaltyKwhPerViolation,
	}
}

// ScenarioSpec is one complete simulation input: a job catalog, optional
// historical environment series and the facility configuration.
type ScenarioSpec struct {
	Name string    `mapstructure:"name"`
	Jobs []JobSpec `mapstructure:"jobs"`
	// Optional per-hour historical series, preferred over the physics
	// models whenever a sample exists for the queried hour.
	SolarSeries       []SeriesPoint  `mapstructure:"solarSeries"`
	TemperatureSeries []SeriesPoint  `mapstructure:"temperatureSeries"`
	Facility          FacilityConfig `mapstructure:"facility"`
}

func initialiseScenarioSpec(spec *ScenarioSpec) {
	defaults := DefaultFacilityConfig()
	f := &spec.Facility
	if f.MaxSolarKw == 0 {
		f.MaxSolarKw = defaults.MaxSolarKw
	}
	if f.MinTempC == 0 && f.MaxTempC == 0 {
		f.MinTempC = defaults.MinTempC
		f.MaxTempC = defaults.MaxTempC
	}
	if f.LatitudeDeg == 0 {
		f.LatitudeDeg = defaults.LatitudeDeg
	}
	if f.PanelTiltDeg == 0 {
		f.PanelTiltDeg = defaults.PanelTiltDeg
	}
	if f.DayOfYear == 0 {
		f.DayOfYear = defaults.DayOfYear
	}
	if f.PowerCapacityKw == 0 {
		f.PowerCapacityKw = defaults.PowerCapacityKw
	}
	if f.ThermalThresholdC == 0 {
		f.ThermalThresholdC = defaults.ThermalThresholdC
	}
	if f.BaselineIdleLoadKw == 0 {
		f.BaselineIdleLoadKw = defaults.BaselineIdleLoadKw
	}
	if f.EndHour == 0 {
		f.EndHour = defaults.EndHour
	}
	if f.StepMinutes == 0 {
		f.StepMinutes = defaults.StepMinutes
	}
	if f.GridCarbonKgPerKwh == 0 {
		f.GridCarbonKgPerKwh = defaults.GridCarbonKgPerKwh
	}
	if f.Tariff == (TariffConfig{}) {
		f.Tariff = defaults.Tariff
	}
	if f.PenaltyCostPerViolation == 0 {
		f.PenaltyCostPerViolation = defaults.PenaltyCostPerViolation
	}
	if f.PenaltyKwhPerViolation == 0 {
		f.PenaltyKwhPerViolation = defaults.PenaltyKwhPerViolation
	}
}

// validateScenarioSpec rejects malformed input at the boundary so the
// engine itself can stay free of runtime checks.
func validateScenarioSpec(spec *ScenarioSpec) error {
	if len(spec.Jobs) == 0 {
		return errors.Errorf("scenario %s has no jobs", spec.Name)
	}
	names := slices.Map(spec.Jobs, func(job JobSpec) string { return job.Name })
	if len(names) != len(slices.Unique(names)) {
		return errors.Errorf("scenario %s has duplicate job names: %v", spec.Name, names)
	}
	for _, job := range spec.Jobs {
		if job.Name == "" {
			return errors.Errorf("scenario %s has a job with no name", spec.Name)
		}
		if job.PowerKw <= 0 {
			return errors.Errorf("job %s has non-positive power %f kW", job.Name, job.PowerKw)
		}
		if job.DurationHours <= 0 {
			return errors.Errorf("job %s has non-positive duration %f hours", job.Name, job.DurationHours)
		}
	}
	f := spec.Facility
	if f.EndHour <= f.StartHour {
		return errors.Errorf("scenario %s: end hour %f is not after start hour %f", spec.Name, f.EndHour, f.StartHour)
	}
	if f.StepMinutes <= 0 {
		return errors.Errorf("scenario %s: step must be a positive number of minutes", spec.Name)
	}
	if f.MaxTempC < f.MinTempC {
		return errors.Errorf("scenario %s: max temperature %f is below min temperature %f", spec.Name, f.MaxTempC, f.MinTempC)
	}
	return nil
}
