package simulator

import (
	"math"

	"github.com/heliosyn/heliosim/internal/common/simcontext"
	"github.com/heliosyn/heliosim/internal/common/slices"
)

// StepSample is one row of the per-step time series.
type StepSample struct {
	Hour           float64
	SolarUsedKw    float64
	GridTotalKw    float64
	FacilityTempC  float64
	CoolingKw      float64
	CumulativeCost float64
}

// JobRecord is the final timeline entry for one job.
type JobRecord struct {
	Name string
	// StartHour is negative for jobs that never started.
	StartHour       float64
	DurationMinutes float64
	Priority        string
	Status          string
}

// RunResult is the metrics record of one completed simulation run.
//
// GridComputeEnergyKwh counts only the compute load sourced from the grid;
// GridTotalEnergyKwh additionally includes cooling. Keeping both avoids
// double counting in downstream consumers.
type RunResult struct {
	Scenario string
	Policy   Policy

	SolarEnergyKwh       float64
	GridComputeEnergyKwh float64
	CoolingEnergyKwh     float64
	GridTotalEnergyKwh   float64
	TotalEnergyKwh       float64
	SolarSharePct        float64

	GridCost    float64
	PenaltyCost float64
	TotalCost   float64

	CarbonKg float64

	SLAViolations    int
	PenaltyEnergyKwh float64

	Timeline []JobRecord
	Series   []StepSample
}

// Sink receives simulation output as it is produced. Implementations live
// in the sink subpackage; tests typically pass nil for no output.
type Sink interface {
	OnStep(policy Policy, sample StepSample) error
	OnRunEnd(result *RunResult) error
}

type nullSink struct{}

func (nullSink) OnStep(Policy, StepSample) error { return nil }
func (nullSink) OnRunEnd(*RunResult) error       { return nil }

// Simulator advances one scenario under one scheduling policy at a fixed
// time step. The simulation is single-threaded: each step fully samples
// the environment, advances running jobs, admits new ones, updates the
// thermal state and accounts energy before the next step begins.
type Simulator struct {
	scenario  *ScenarioSpec
	scheduler Scheduler
	env       *Environment
	sink      Sink

	currentHour float64
	currentTemp float64

	result RunResult
}

// NewSimulator builds a simulator with its own scheduler and job set, so
// that concurrent runs over the same scenario never share job state.
func NewSimulator(scenario *ScenarioSpec, policy Policy, sink Sink) (*Simulator, error) {
	if err := validateScenarioSpec(scenario); err != nil {
		return nil, err
	}
	scheduler, err := NewScheduler(policy, scenario.Jobs, scenario.Facility)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = nullSink{}
	}
	env := NewEnvironment(scenario.Facility, scenario.SolarSeries, scenario.TemperatureSeries)
	return &Simulator{
		scenario:    scenario,
		scheduler:   scheduler,
		env:         env,
		sink:        sink,
		currentHour: scenario.Facility.StartHour,
		currentTemp: env.Sample(scenario.Facility.StartHour).AmbientTempC,
		result: RunResult{
			Scenario: scenario.Name,
			Policy:   policy,
		},
	}, nil
}

// Run advances the simulation from the configured start hour to the end
// hour, exclusive of the end boundary, and returns the accumulated metrics.
func (s *Simulator) Run(ctx *simcontext.Context) (*RunResult, error) {
	facility := s.scenario.Facility
	dtHours := facility.StepMinutes / 60.0
	numSteps := int(math.Round((facility.EndHour - facility.StartHour) / dtHours))

	ctx.Infof(
		"simulating scenario %s with policy %s: %d steps of %.0f minutes",
		s.scenario.Name, s.scheduler.Name(), numSteps, facility.StepMinutes,
	)

	for i := 0; i < numSteps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		s.currentHour = facility.StartHour + float64(i)*dtHours
		if err := s.step(ctx, dtHours); err != nil {
			return nil, err
		}
	}

	s.finalise()
	if err := s.sink.OnRunEnd(&s.result); err != nil {
		return nil, err
	}
	return &s.result, nil
}

func (s *Simulator) step(ctx *simcontext.Context, dtHours float64) error {
	facility := s.scenario.Facility
	hour := s.currentHour
	env := s.env.Sample(hour)

	// Advance jobs already running before admitting new ones, so a job
	// admitted this step accrues its first progress on the next.
	for _, job := range s.scheduler.Jobs() {
		if job.State() == JobRunning {
			job.Advance(facility.StepMinutes, hour)
		}
	}

	admitted := s.scheduler.Schedule(env.SolarAvailableKw, s.currentTemp, hour)
	if len(admitted) > 0 {
		ctx.Debugf(
			"hour %.2f: admitted %v",
			hour, slices.Map(admitted, func(job *Job) string { return job.Name() }),
		)
	}

	for _, job := range s.scheduler.Jobs() {
		if job.DeadlineMissed(hour) {
			s.result.SLAViolations++
			s.result.PenaltyCost += facility.PenaltyCostPerViolation
			s.result.PenaltyEnergyKwh += facility.PenaltyKwhPerViolation
			ctx.Warnf("hour %.2f: job %s missed its deadline", hour, job.Name())
		}
	}

	computeLoadKw := runningPowerKw(s.scheduler.Jobs())
	solarUsedKw := math.Min(env.SolarAvailableKw, computeLoadKw)
	gridComputeKw := computeLoadKw - solarUsedKw
	coolingKw := CoolingPowerKw(s.currentTemp, computeLoadKw, facility.ThermalThresholdC)
	gridTotalKw := gridComputeKw + coolingKw

	s.result.SolarEnergyKwh += solarUsedKw * dtHours
	s.result.GridComputeEnergyKwh += gridComputeKw * dtHours
	s.result.CoolingEnergyKwh += coolingKw * dtHours
	s.result.GridTotalEnergyKwh += gridTotalKw * dtHours
	s.result.TotalEnergyKwh += (computeLoadKw + coolingKw) * dtHours

	s.result.GridCost += gridTotalKw * dtHours * GridRate(hour, facility.Tariff)
	s.result.CarbonKg += gridTotalKw * dtHours * facility.GridCarbonKgPerKwh

	s.currentTemp = NextFacilityTemp(s.currentTemp, env.AmbientTempC, computeLoadKw, coolingKw, dtHours)

	sample := StepSample{
		Hour:           hour,
		SolarUsedKw:    solarUsedKw,
		GridTotalKw:    gridTotalKw,
		FacilityTempC:  s.currentTemp,
		CoolingKw:      coolingKw,
		CumulativeCost: s.result.GridCost + s.result.PenaltyCost,
	}
	s.result.Series = append(s.result.Series, sample)
	return s.sink.OnStep(Policy(s.scheduler.Name()), sample)
}

func (s *Simulator) finalise() {
	if s.result.TotalEnergyKwh > 0 {
		s.result.SolarSharePct = s.result.SolarEnergyKwh / s.result.TotalEnergyKwh * 100
	}
	s.result.TotalCost = s.result.GridCost + s.result.PenaltyCost

	s.result.Timeline = slices.Map(s.scheduler.Jobs(), func(job *Job) JobRecord {
		startHour := -1.0
		if h, ok := job.StartHour(); ok {
			startHour = h
		}
		return JobRecord{
			Name:            job.Name(),
			StartHour:       startHour,
			DurationMinutes: job.DurationMinutes(),
			Priority:        job.Priority().String(),
			Status:          string(job.State()),
		}
	})
}
