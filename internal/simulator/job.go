package simulator

// JobState is the lifecycle state of a job. Transitions are strictly
// forward: Waiting -> Running -> Done.
type JobState string

const (
	JobWaiting JobState = "WAITING"
	JobRunning JobState = "RUNNING"
	JobDone    JobState = "DONE"
)

// urgencySentinel is returned by UrgencyScore once a job's deadline has
// already passed, in place of a negative or divide-by-zero ratio.
const urgencySentinel = 1000.0

// Job is one schedulable unit of power draw. A Job belongs to exactly one
// scheduler run; instances must never be shared between comparison runs.
type Job struct {
	id               string
	name             string
	powerKw          float64
	durationMinutes  float64
	remainingMinutes float64
	priority         Priority
	deadlineHour     *float64
	flexible         bool

	state     JobState
	startHour *float64
	penalized bool
}

// NewJob builds a fresh Waiting job from a spec. The id needs to be unique
// within a single run only.
func NewJob(id string, spec JobSpec) *Job {
	minutes := spec.DurationHours * 60
	return &Job{
		id:               id,
		name:             spec.Name,
		powerKw:          spec.PowerKw,
		durationMinutes:  minutes,
		remainingMinutes: minutes,
		priority:         spec.Priority,
		deadlineHour:     spec.DeadlineHour,
		flexible:         spec.IsFlexible(),
		state:            JobWaiting,
	}
}

func (j *Job) Id() string                { return j.id }
func (j *Job) Name() string              { return j.name }
func (j *Job) PowerKw() float64          { return j.powerKw }
func (j *Job) DurationMinutes() float64  { return j.durationMinutes }
func (j *Job) RemainingMinutes() float64 { return j.remainingMinutes }
func (j *Job) Priority() Priority        { return j.priority }
func (j *Job) Flexible() bool            { return j.flexible }
func (j *Job) State() JobState           { return j.state }
func (j *Job) Penalized() bool           { return j.penalized }

// DeadlineHour returns the job's deadline and whether one is set.
func (j *Job) DeadlineHour() (float64, bool) {
	if j.deadlineHour == nil {
		return 0, false
	}
	return *j.deadlineHour, true
}

// StartHour returns the simulated hour at which the job first started
// running and whether it has started at all.
func (j *Job) StartHour() (float64, bool) {
	if j.startHour == nil {
		return 0, false
	}
	return *j.startHour, true
}

// Start admits a Waiting job into Running, recording its start hour on the
// first admission. Idempotent once Running; no effect on Done jobs.
func (j *Job) Start(hour float64) {
	if j.state != JobWaiting {
		return
	}
	j.state = JobRunning
	if j.startHour == nil {
		h := hour
		j.startHour = &h
	}
}

// Advance progresses a running job by dtMinutes of work. Waiting jobs are
// implicitly started. The remaining time is clamped at zero, at which point
// the job transitions to Done.
func (j *Job) Advance(dtMinutes, hour float64) {
	if j.state == JobDone {
		return
	}
	if j.state == JobWaiting {
		j.Start(hour)
	}
	j.remainingMinutes -= dtMinutes
	if j.remainingMinutes <= 0 {
		j.remainingMinutes = 0
		j.state = JobDone
	}
}

// DeadlineMissed reports whether the job has newly missed its deadline at
// the given hour. It returns true at most once per job; the miss is flagged
// so repeat calls on later steps do not double count.
func (j *Job) DeadlineMissed(hour float64) bool {
	if j.deadlineHour == nil || j.penalized || j.state == JobDone {
		return false
	}
	if hour > *j.deadlineHour {
		j.penalized = true
		return true
	}
	return false
}

// UrgencyScore is the ratio of work-hours remaining to hours until the
// deadline. Jobs without a deadline score zero. Once the deadline has
// passed the score saturates at a fixed sentinel.
func (j *Job) UrgencyScore(hour float64) float64 {
	if j.deadlineHour == nil {
		return 0
	}
	hoursUntilDeadline := *j.deadlineHour - hour
	if hoursUntilDeadline <= 0 {
		return urgencySentinel
	}
	hoursNeeded := j.remainingMinutes / 60
	return hoursNeeded / hoursUntilDeadline
}
