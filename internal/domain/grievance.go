package domain

import "time"

// GrievanceStatus enumerates lifecycle states for grievances.
type GrievanceStatus string

const (
	StatusPending        GrievanceStatus = "pending"
	StatusUrgent         GrievanceStatus = "urgent"
	StatusForwarded      GrievanceStatus = "forwarded"
	StatusForwardedAdmin GrievanceStatus = "forwarded_admin"
	StatusResolved       GrievanceStatus = "resolved"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s GrievanceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUrgent, StatusForwarded, StatusForwardedAdmin, StatusResolved:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s GrievanceStatus) Terminal() bool {
	return s == StatusResolved
}

// HistoryAction tags a history entry. Every transition records the target
// status as its action; the seed entry uses ActionRaised.
type HistoryAction string

const ActionRaised HistoryAction = "raised"

// HistoryEntry is an immutable audit trail record. Entries are only ever
// appended, never rewritten.
type HistoryEntry struct {
	Action      HistoryAction
	ForwardedTo *string
	Remarks     *string
	Date        time.Time
}

// Grievance is the aggregate tracked through the resolution hierarchy.
// Student identity fields, category, description and creation time are
// immutable after creation; status and ForwardedTo change only through the
// lifecycle engine.
type Grievance struct {
	ID           string
	StudentID    string
	StudentEmail string
	StudentDept  string
	Category     string
	Description  string
	Status       GrievanceStatus
	ForwardedTo  *string
	CreatedAt    time.Time
	History      []HistoryEntry
}

// Clone returns a deep copy so callers can hold snapshots without aliasing
// the store's record.
func (g Grievance) Clone() Grievance {
	out := g
	if g.ForwardedTo != nil {
		v := *g.ForwardedTo
		out.ForwardedTo = &v
	}
	out.History = make([]HistoryEntry, len(g.History))
	copy(out.History, g.History)
	for i, h := range g.History {
		if h.ForwardedTo != nil {
			v := *h.ForwardedTo
			out.History[i].ForwardedTo = &v
		}
		if h.Remarks != nil {
			v := *h.Remarks
			out.History[i].Remarks = &v
		}
	}
	return out
}

// LastAction returns the action of the newest history entry.
func (g Grievance) LastAction() HistoryAction {
	if len(g.History) == 0 {
		return ""
	}
	return g.History[len(g.History)-1].Action
}

// HasHistoryAction reports whether any history entry carries the action.
func (g Grievance) HasHistoryAction(action HistoryAction) bool {
	for _, h := range g.History {
		if h.Action == action {
			return true
		}
	}
	return false
}
