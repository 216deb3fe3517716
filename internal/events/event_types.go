package events

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceRaised        EventType = "grievance_raised"
	EventGrievanceStatusChanged EventType = "grievance_status_changed"
)

// Types lists every event type, for subscribers that want all of them.
func Types() []EventType {
	return []EventType{EventGrievanceRaised, EventGrievanceStatusChanged}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID         string      `json:"id"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}

// Event represents a domain event emitted after every successful create or
// transition. The payload always carries the full updated grievance so
// dashboard listeners can refresh without a second read.
type Event struct {
	ID          string            `json:"id"`
	Type        EventType         `json:"type"`
	GrievanceID string            `json:"grievance_id"`
	Actor       Actor             `json:"actor"`
	Timestamp   time.Time         `json:"timestamp"`
	Grievance   GrievanceSnapshot `json:"grievance"`
}

// GrievanceSnapshot is the wire form of a grievance inside event payloads.
type GrievanceSnapshot struct {
	ID           string            `json:"id"`
	StudentID    string            `json:"student_id"`
	StudentEmail string            `json:"student_email"`
	StudentDept  string            `json:"student_dept"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	ForwardedTo  *string           `json:"forwarded_to,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	History      []HistorySnapshot `json:"history"`
}

// HistorySnapshot is the wire form of one history entry.
type HistorySnapshot struct {
	Action      string    `json:"action"`
	ForwardedTo *string   `json:"forwarded_to,omitempty"`
	Remarks     *string   `json:"remarks,omitempty"`
	Date        time.Time `json:"date"`
}

// Snapshot converts a grievance to its event payload form.
func Snapshot(g domain.Grievance) GrievanceSnapshot {
	history := make([]HistorySnapshot, 0, len(g.History))
	for _, h := range g.History {
		history = append(history, HistorySnapshot{
			Action:      string(h.Action),
			ForwardedTo: h.ForwardedTo,
			Remarks:     h.Remarks,
			Date:        h.Date,
		})
	}
	return GrievanceSnapshot{
		ID:           g.ID,
		StudentID:    g.StudentID,
		StudentEmail: g.StudentEmail,
		StudentDept:  g.StudentDept,
		Category:     g.Category,
		Description:  g.Description,
		Status:       string(g.Status),
		ForwardedTo:  g.ForwardedTo,
		CreatedAt:    g.CreatedAt,
		History:      history,
	}
}
