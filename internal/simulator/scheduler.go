package simulator

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	goslices "golang.org/x/exp/slices"

	"github.com/heliosyn/heliosim/internal/common/slices"
)

const (
	// Minimum solar output at which flexible medium-priority jobs are
	// willing to start rather than wait.
	solarPreferenceMinKw = 1.0
	// Urgency differences below this tolerance do not affect ordering,
	// preventing near-equal jobs from thrashing position between steps.
	urgencyTolerance = 0.1
)

// Policy selects which scheduling policy a run uses.
type Policy string

const (
	PolicySmart    Policy = "smart"
	PolicyBaseline Policy = "baseline"
)

// Scheduler owns the job set of one run and decides, each step, which
// waiting jobs are admitted into running.
type Scheduler interface {
	Name() string
	// Jobs returns the full job set in submission order.
	Jobs() []*Job
	// Schedule admits waiting jobs for the current step and returns only
	// the newly admitted ones.
	Schedule(solarAvailableKw, currentTempC, currentHour float64) []*Job
}

// NewScheduler builds a scheduler of the requested policy with a fresh job
// set derived from the catalog. Job ids are deterministic per run.
func NewScheduler(policy Policy, catalog []JobSpec, facility FacilityConfig) (Scheduler, error) {
	jobs := make([]*Job, len(catalog))
	for i, spec := range catalog {
		jobs[i] = NewJob(fmt.Sprintf("job-%d", i), spec)
	}
	switch policy {
	case PolicySmart:
		return &SmartScheduler{
			jobs:              jobs,
			capacityKw:        facility.PowerCapacityKw,
			thermalThresholdC: facility.ThermalThresholdC,
		}, nil
	case PolicyBaseline:
		return &BaselineScheduler{
			jobs:       jobs,
			capacityKw: facility.PowerCapacityKw,
			idleLoadKw: facility.BaselineIdleLoadKw,
		}, nil
	default:
		return nil, errors.Errorf("unknown scheduling policy %q", policy)
	}
}

func runningPowerKw(jobs []*Job) float64 {
	total := 0.0
	for _, job := range jobs {
		if job.State() == JobRunning {
			total += job.PowerKw()
		}
	}
	return total
}

// SmartScheduler admits jobs by priority class, urgency and size under
// power-capacity, thermal and solar-preference constraints.
type SmartScheduler struct {
	jobs              []*Job
	capacityKw        float64
	thermalThresholdC float64
}

func (s *SmartScheduler) Name() string { return string(PolicySmart) }

func (s *SmartScheduler) Jobs() []*Job { return s.jobs }

func (s *SmartScheduler) Schedule(solarAvailableKw, currentTempC, currentHour float64) []*Job {
	candidates := slices.Filter(s.jobs, func(job *Job) bool { return job.State() == JobWaiting })

	// Order: priority class first, then urgency when the difference is
	// meaningful, then smaller power draw as a bin-packing tie-break.
	goslices.SortStableFunc(candidates, func(a, b *Job) int {
		if a.Priority() != b.Priority() {
			return int(a.Priority()) - int(b.Priority())
		}
		urgencyA := a.UrgencyScore(currentHour)
		urgencyB := b.UrgencyScore(currentHour)
		if math.Abs(urgencyA-urgencyB) > urgencyTolerance {
			if urgencyA > urgencyB {
				return -1
			}
			return 1
		}
		if a.PowerKw() < b.PowerKw() {
			return -1
		}
		if a.PowerKw() > b.PowerKw() {
			return 1
		}
		return 0
	})

	// Jobs already running keep drawing power, so admissions are budgeted
	// against the remaining headroom.
	totalPowerUsed := runningPowerKw(s.jobs)
	var admitted []*Job
	for _, job := range candidates {
		if job.Priority() == PriorityLow && currentTempC > s.thermalThresholdC {
			continue
		}
		if job.Priority() == PriorityMedium && job.Flexible() && solarAvailableKw < solarPreferenceMinKw {
			continue
		}
		// Capacity misses are skipped, not fatal: a smaller job later in
		// the order may still fit.
		if totalPowerUsed+job.PowerKw() <= s.capacityKw {
			job.Start(currentHour)
			totalPowerUsed += job.PowerKw()
			admitted = append(admitted, job)
		}
	}
	return admitted
}

// BaselineScheduler is the naive first-come-first-served comparison policy.
// It ignores the environment entirely and gives up at the first job that
// does not fit, even if later jobs would.
type BaselineScheduler struct {
	jobs       []*Job
	capacityKw float64
	idleLoadKw float64
}

func (s *BaselineScheduler) Name() string { return string(PolicyBaseline) }

func (s *BaselineScheduler) Jobs() []*Job { return s.jobs }

func (s *BaselineScheduler) Schedule(_, _, currentHour float64) []*Job {
	totalPowerUsed := s.idleLoadKw + runningPowerKw(s.jobs)
	var admitted []*Job
	for _, job := range s.jobs {
		if job.State() != JobWaiting {
			continue
		}
		if totalPowerUsed+job.PowerKw() > s.capacityKw {
			break
		}
		job.Start(currentHour)
		totalPowerUsed += job.PowerKw()
		admitted = append(admitted, job)
	}
	return admitted
}
