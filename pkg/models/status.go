package models

// Project status constants. A project holds exactly one current status; past
// transitions live in the append-only timeline.
const (
	StatusInquiry      = "inquiry"
	StatusDraft        = "draft"
	StatusBriefing     = "briefing"
	StatusReview       = "review"
	StatusApproved     = "approved"
	StatusInProgress   = "in_progress"
	StatusClientReview = "client_review"
	StatusRevisions    = "revisions"
	StatusCompleted    = "completed"
	StatusCancelled    = "cancelled"
)

// statusTransitions maps each project status to its legal successors, in the
// order they should be offered. Completed and cancelled are not dead ends:
// completed projects can be reopened for revisions and cancelled ones
// restarted as drafts.
var statusTransitions = map[string][]string{
	StatusInquiry:      {StatusDraft, StatusCancelled},
	StatusDraft:        {StatusBriefing, StatusCancelled},
	StatusBriefing:     {StatusReview, StatusCancelled},
	StatusReview:       {StatusApproved, StatusRevisions, StatusCancelled},
	StatusApproved:     {StatusInProgress, StatusCancelled},
	StatusInProgress:   {StatusClientReview, StatusCancelled},
	StatusClientReview: {StatusRevisions, StatusCompleted, StatusCancelled},
	StatusRevisions:    {StatusInProgress, StatusCancelled},
	StatusCompleted:    {StatusRevisions},
	StatusCancelled:    {StatusDraft},
}

// IsValidStatus checks if the given status is part of the project lifecycle.
func IsValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// NextStatuses returns the ordered list of statuses reachable from the given
// status. The result is a copy. An unknown status has no successors.
func NextStatuses(from string) []string {
	next, ok := statusTransitions[from]
	if !ok {
		return []string{}
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
