// Package vocabulary maps free-text legacy status and priority values onto
// the fixed enumerations used by the portal schema.
package vocabulary

import "strings"

type Status string

const (
	StatusNew       Status = "new"
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on-hold"
	StatusReview    Status = "review"
	StatusCompleted Status = "completed"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var Statuses = []Status{StatusNew, StatusPlanning, StatusActive, StatusOnHold, StatusReview, StatusCompleted}

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type rule[T ~string] struct {
	needles []string
	value   T
}

// Order matters: "in progress review" resolves to active, not review.
var statusRules = []rule[Status]{
	{needles: []string{"active", "progress"}, value: StatusActive},
	{needles: []string{"plan"}, value: StatusPlanning},
	{needles: []string{"hold"}, value: StatusOnHold},
	{needles: []string{"complete"}, value: StatusCompleted},
	{needles: []string{"new"}, value: StatusNew},
	{needles: []string{"review"}, value: StatusReview},
}

var priorityRules = []rule[Priority]{
	{needles: []string{"high"}, value: PriorityHigh},
	{needles: []string{"med"}, value: PriorityMedium},
	{needles: []string{"low"}, value: PriorityLow},
}

func match[T ~string](raw string, rules []rule[T]) (T, bool) {
	lower := strings.ToLower(raw)
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(lower, n) {
				return r.value, true
			}
		}
	}
	var zero T
	return zero, false
}

// NormalizeStatus returns one of Statuses, or raw unchanged when nothing
// matches. Blank input yields StatusNew.
func NormalizeStatus(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return string(StatusNew)
	}
	if s, ok := match(raw, statusRules); ok {
		return string(s)
	}
	return raw
}

// NormalizePriority always returns one of Priorities; anything unrecognised
// is PriorityMedium.
func NormalizePriority(raw string) string {
	if p, ok := match(raw, priorityRules); ok {
		return string(p)
	}
	return string(PriorityMedium)
}
