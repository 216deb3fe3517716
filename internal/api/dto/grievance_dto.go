package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// CreateGrievanceRequest payload.
type CreateGrievanceRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// TransitionRequest payload for staff status changes.
type TransitionRequest struct {
	Status      domain.GrievanceStatus `json:"status"`
	ForwardedTo *string                `json:"forwarded_to,omitempty"`
	Remarks     *string                `json:"remarks,omitempty"`
}

// HistoryEntryResponse represents one audit trail record.
type HistoryEntryResponse struct {
	Action      string    `json:"action"`
	ForwardedTo *string   `json:"forwarded_to,omitempty"`
	Remarks     *string   `json:"remarks,omitempty"`
	Date        time.Time `json:"date"`
}

// GrievanceResponse provides full grievance info.
type GrievanceResponse struct {
	ID           string                 `json:"id"`
	StudentID    string                 `json:"student_id"`
	StudentEmail string                 `json:"student_email"`
	StudentDept  string                 `json:"student_dept"`
	Category     string                 `json:"category"`
	Description  string                 `json:"description"`
	Status       domain.GrievanceStatus `json:"status"`
	ForwardedTo  *string                `json:"forwarded_to,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	History      []HistoryEntryResponse `json:"history"`
}

// GrievanceListResponse wraps a projected list.
type GrievanceListResponse struct {
	Grievances []GrievanceResponse `json:"grievances"`
	Count      int                 `json:"count"`
}

// OverviewResponse groups grievances into the admin dashboard buckets.
type OverviewResponse struct {
	Urgent   []GrievanceResponse `json:"urgent"`
	Active   []GrievanceResponse `json:"active"`
	Resolved []GrievanceResponse `json:"resolved"`
}

// TargetsResponse lists valid forward targets for the caller.
type TargetsResponse struct {
	Targets []string `json:"targets"`
}

// CategoryResponse describes a selectable grievance category.
type CategoryResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Priority string `json:"priority"`
}

// NewGrievanceResponse maps a domain grievance to its wire form.
func NewGrievanceResponse(g domain.Grievance) GrievanceResponse {
	history := make([]HistoryEntryResponse, 0, len(g.History))
	for _, h := range g.History {
		history = append(history, HistoryEntryResponse{
			Action:      string(h.Action),
			ForwardedTo: h.ForwardedTo,
			Remarks:     h.Remarks,
			Date:        h.Date,
		})
	}
	return GrievanceResponse{
		ID:           g.ID,
		StudentID:    g.StudentID,
		StudentEmail: g.StudentEmail,
		StudentDept:  g.StudentDept,
		Category:     g.Category,
		Description:  g.Description,
		Status:       g.Status,
		ForwardedTo:  g.ForwardedTo,
		CreatedAt:    g.CreatedAt,
		History:      history,
	}
}

// NewGrievanceListResponse maps a slice preserving its order.
func NewGrievanceListResponse(list []domain.Grievance) GrievanceListResponse {
	out := make([]GrievanceResponse, 0, len(list))
	for _, g := range list {
		out = append(out, NewGrievanceResponse(g))
	}
	return GrievanceListResponse{Grievances: out, Count: len(out)}
}
