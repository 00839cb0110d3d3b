package simulator

import "strings"

// Priority is the scheduling class of a job. Lower values are scheduled first.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

var priorityNames = map[Priority]string{
	PriorityCritical: "critical",
	PriorityHigh:     "high",
	PriorityMedium:   "medium",
	PriorityLow:      "low",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "medium"
}

// ParsePriority normalises a free-form priority string. Unknown or empty
// strings map to PriorityMedium rather than producing an error.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}
