package models

// Status is the complaint_status enum.
type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusReviewed   Status = "Reviewed"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
	StatusReopened   Status = "Reopened"
	StatusEscalated  Status = "Escalated"
)

// transitions is the single source of truth for the complaint lifecycle.
var transitions = map[Status][]Status{
	StatusSubmitted:  {StatusReviewed, StatusEscalated},
	StatusReviewed:   {StatusAssigned, StatusEscalated},
	StatusAssigned:   {StatusInProgress, StatusEscalated},
	StatusInProgress: {StatusResolved, StatusEscalated, StatusReopened},
	StatusResolved:   {StatusClosed, StatusReopened},
	StatusClosed:     {StatusReopened},
	StatusReopened:   {StatusReviewed, StatusAssigned, StatusInProgress, StatusEscalated},
	StatusEscalated:  {StatusAssigned, StatusInProgress},
}

// Valid reports whether s is a member of the enum.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step.
func (s Status) NextStatuses() []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// AuditAction returns the audit action recorded when a complaint enters s.
func (s Status) AuditAction() AuditAction {
	switch s {
	case StatusSubmitted:
		return AuditSubmit
	case StatusReviewed:
		return AuditReview
	case StatusAssigned, StatusInProgress:
		return AuditAssign
	case StatusResolved:
		return AuditResolve
	case StatusClosed:
		return AuditClose
	case StatusReopened:
		return AuditReopen
	case StatusEscalated:
		return AuditEscalate
	}
	return ""
}
