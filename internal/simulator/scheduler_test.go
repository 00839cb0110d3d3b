package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliosyn/heliosim/internal/common/slices"
)

func newSmart(t *testing.T, cfg FacilityConfig, specs ...JobSpec) Scheduler {
	t.Helper()
	s, err := NewScheduler(PolicySmart, specs, cfg)
	require.NoError(t, err)
	return s
}

func newBaseline(t *testing.T, cfg FacilityConfig, specs ...JobSpec) Scheduler {
	t.Helper()
	s, err := NewScheduler(PolicyBaseline, specs, cfg)
	require.NoError(t, err)
	return s
}

func admittedNames(jobs []*Job) []string {
	return slices.Map(jobs, func(job *Job) string { return job.Name() })
}

func TestSmartSchedulerPriorityOrdering(t *testing.T) {
	cfg := testFacilityConfig()
	s := newSmart(t, cfg,
		jobSpec("low", 1, 1, PriorityLow),
		jobSpec("medium", 1, 1, PriorityMedium),
		jobSpec("critical", 1, 1, PriorityCritical),
		jobSpec("high", 1, 1, PriorityHigh),
	)

	admitted := s.Schedule(5, 20, 0)
	assert.Equal(t, []string{"critical", "high", "medium", "low"}, admittedNames(admitted))
}

func TestSmartSchedulerUrgencyBreaksPriorityTies(t *testing.T) {
	cfg := testFacilityConfig()
	// Same priority class; the tighter deadline is far more urgent.
	s := newSmart(t, cfg,
		withDeadline(jobSpec("relaxed", 1, 1, PriorityHigh), 20),
		withDeadline(jobSpec("urgent", 1, 2, PriorityHigh), 3),
	)

	admitted := s.Schedule(5, 20, 0)
	assert.Equal(t, []string{"urgent", "relaxed"}, admittedNames(admitted))
}

func TestSmartSchedulerNearEqualUrgencyFallsBackToPower(t *testing.T) {
	cfg := testFacilityConfig()
	// Urgencies differ by less than the tolerance, so the smaller job
	// wins the bin-packing tie-break despite submission order.
	s := newSmart(t, cfg,
		withDeadline(jobSpec("big", 4, 2, PriorityHigh), 10),
		withDeadline(jobSpec("small", 1, 2, PriorityHigh), 10),
	)

	admitted := s.Schedule(5, 20, 0)
	assert.Equal(t, []string{"small", "big"}, admittedNames(admitted))
}

func TestSmartSchedulerCapacity(t *testing.T) {
	cfg := testFacilityConfig()
	cfg.PowerCapacityKw = 5
	s := newSmart(t, cfg,
		jobSpec("first", 3, 1, PriorityCritical),
		jobSpec("second", 3, 1, PriorityCritical),
		jobSpec("third", 2, 1, PriorityCritical),
	)

	// "second" does not fit after "first", but the scheduler keeps
	// evaluating and admits the smaller "third".
	admitted := s.Schedule(5, 20, 0)
	assert.Equal(t, []string{"first", "third"}, admittedNames(admitted))

	total := 0.0
	for _, job := range admitted {
		total += job.PowerKw()
	}
	assert.LessOrEqual(t, total, cfg.PowerCapacityKw)
}

func TestSmartSchedulerCountsRunningJobsAgainstCapacity(t *testing.T) {
	cfg := testFacilityConfig()
	cfg.PowerCapacityKw = 5
	s := newSmart(t, cfg,
		jobSpec("running", 4, 2, PriorityCritical),
		jobSpec("waiting", 3, 1, PriorityCritical),
	)

	first := s.Schedule(5, 20, 0)
	require.Equal(t, []string{"running"}, admittedNames(first))

	// On the next step the running job still draws 4 kW, leaving no room.
	second := s.Schedule(5, 20, 0.5)
	assert.Empty(t, second)

	runningTotal := runningPowerKw(s.Jobs())
	assert.LessOrEqual(t, runningTotal, cfg.PowerCapacityKw)
}

func TestSmartSchedulerThermalThrottlesLowPriority(t *testing.T) {
	cfg := testFacilityConfig()
	s := newSmart(t, cfg,
		jobSpec("low", 1, 1, PriorityLow),
		jobSpec("critical", 1, 1, PriorityCritical),
	)

	hot := cfg.ThermalThresholdC + 2
	admitted := s.Schedule(5, hot, 0)
	assert.Equal(t, []string{"critical"}, admittedNames(admitted))

	// Once the facility cools the low-priority job is admitted.
	admitted = s.Schedule(5, cfg.ThermalThresholdC-1, 0.5)
	assert.Equal(t, []string{"low"}, admittedNames(admitted))
}

func TestSmartSchedulerMediumFlexibleWaitsForSolar(t *testing.T) {
	cfg := testFacilityConfig()
	s := newSmart(t, cfg,
		withFlexible(jobSpec("flex", 2, 1, PriorityMedium), true),
	)

	assert.Empty(t, s.Schedule(0.9, 20, 0))
	assert.Empty(t, s.Schedule(0, 20, 0.5))

	admitted := s.Schedule(1.0, 20, 1)
	assert.Equal(t, []string{"flex"}, admittedNames(admitted))
}

// Pins the literal behaviour: the solar-preference skip applies only to
// flexible medium jobs, so an inflexible one is admitted with zero solar.
func TestSmartSchedulerMediumInflexibleIgnoresSolar(t *testing.T) {
	cfg := testFacilityConfig()
	s := newSmart(t, cfg,
		withFlexible(jobSpec("rigid", 2, 1, PriorityMedium), false),
	)

	admitted := s.Schedule(0, 20, 0)
	assert.Equal(t, []string{"rigid"}, admittedNames(admitted))
}

func TestBaselineSchedulerAdmitsInSubmissionOrder(t *testing.T) {
	cfg := testFacilityConfig()
	s := newBaseline(t, cfg,
		jobSpec("low", 1, 1, PriorityLow),
		jobSpec("critical", 1, 1, PriorityCritical),
	)

	// FIFO ignores priority entirely.
	admitted := s.Schedule(0, 50, 0)
	assert.Equal(t, []string{"low", "critical"}, admittedNames(admitted))
}

func TestBaselineSchedulerStopsAtFirstOversizedJob(t *testing.T) {
	cfg := testFacilityConfig()
	cfg.PowerCapacityKw = 5
	cfg.BaselineIdleLoadKw = 0.5
	s := newBaseline(t, cfg,
		jobSpec("first", 3, 1, PriorityLow),
		jobSpec("blocker", 3, 1, PriorityLow),
		jobSpec("tiny", 0.5, 1, PriorityCritical),
	)

	// Unlike the smart policy, evaluation halts at the blocker even
	// though "tiny" would fit.
	admitted := s.Schedule(5, 20, 0)
	assert.Equal(t, []string{"first"}, admittedNames(admitted))
}

func TestBaselineSchedulerIncludesIdleLoad(t *testing.T) {
	cfg := testFacilityConfig()
	cfg.PowerCapacityKw = 3
	cfg.BaselineIdleLoadKw = 1
	s := newBaseline(t, cfg,
		jobSpec("exact", 2, 1, PriorityHigh),
		jobSpec("over", 0.5, 1, PriorityHigh),
	)

	// 1 kW idle + 2 kW fits exactly; the next 0.5 kW does not.
	admitted := s.Schedule(0, 20, 0)
	assert.Equal(t, []string{"exact"}, admittedNames(admitted))
}

func TestSchedulerJobIdsAreUniqueWithinRun(t *testing.T) {
	cfg := testFacilityConfig()
	s := newSmart(t, cfg,
		jobSpec("a", 1, 1, PriorityHigh),
		jobSpec("b", 1, 1, PriorityHigh),
		jobSpec("c", 1, 1, PriorityHigh),
	)
	ids := slices.Map(s.Jobs(), func(job *Job) string { return job.Id() })
	assert.Equal(t, ids, slices.Unique(ids))
}

func TestNewSchedulerUnknownPolicy(t *testing.T) {
	_, err := NewScheduler(Policy("greedy"), []JobSpec{jobSpec("a", 1, 1, PriorityHigh)}, testFacilityConfig())
	require.Error(t, err)
}
