// Package lifecycle implements the grievance state machine: it seeds new
// grievances and validates and applies role-gated status transitions. All
// functions are pure over their inputs; persistence and atomicity belong to
// the store.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/routing"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// RaiseInput carries the student-facing creation request.
type RaiseInput struct {
	StudentID    string
	StudentEmail string
	StudentDept  string
	Category     string
	Description  string
}

// TransitionRequest carries a coordinator/admin status change. ForwardedTo
// is required for forward transitions; Remarks is optional free text.
type TransitionRequest struct {
	Status      domain.GrievanceStatus
	ForwardedTo *string
	Remarks     *string
}

// Raise seeds a new grievance: initial status derived from the category's
// priority tier and a single "raised" history entry. The id is assigned by
// the store on insert.
func Raise(input RaiseInput, now time.Time) (domain.Grievance, error) {
	category, ok := domain.ResolveCategory(input.Category)
	if !ok {
		return domain.Grievance{}, apperrors.NewInvalidCategory(input.Category)
	}
	return domain.Grievance{
		StudentID:    input.StudentID,
		StudentEmail: input.StudentEmail,
		StudentDept:  input.StudentDept,
		Category:     category.ID,
		Description:  strings.TrimSpace(input.Description),
		Status:       category.InitialStatus(),
		CreatedAt:    now,
		History: []domain.HistoryEntry{
			{Action: domain.ActionRaised, Date: now},
		},
	}, nil
}

// allowed maps role -> current status -> permitted target statuses.
var allowed = map[domain.Role]map[domain.GrievanceStatus][]domain.GrievanceStatus{
	domain.RoleCoordinator: {
		domain.StatusPending:        {domain.StatusForwarded, domain.StatusForwardedAdmin, domain.StatusResolved},
		domain.StatusUrgent:         {domain.StatusForwarded, domain.StatusForwardedAdmin, domain.StatusResolved},
		domain.StatusForwarded:      {domain.StatusResolved},
		domain.StatusForwardedAdmin: {domain.StatusResolved},
	},
	domain.RoleAdmin: {
		domain.StatusPending:        {domain.StatusForwarded, domain.StatusResolved},
		domain.StatusUrgent:         {domain.StatusForwarded, domain.StatusResolved},
		domain.StatusForwarded:      {domain.StatusResolved},
		domain.StatusForwardedAdmin: {domain.StatusPending, domain.StatusForwarded, domain.StatusResolved},
	},
}

func transitionAllowed(role domain.Role, from, to domain.GrievanceStatus) bool {
	for _, candidate := range allowed[role][from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Apply validates the transition for the acting role and returns a new
// grievance snapshot with the status applied and exactly one history entry
// appended. The input grievance is never mutated; on error it is the
// caller's unchanged record that stands.
func Apply(g domain.Grievance, actor domain.Actor, req TransitionRequest, now time.Time) (domain.Grievance, error) {
	if g.Status.Terminal() {
		return g, apperrors.NewTerminalState(g.ID)
	}
	if !req.Status.Valid() {
		return g, apperrors.NewValidationError("unknown status", map[string]any{"status": string(req.Status)})
	}

	target := req.ForwardedTo
	status := req.Status

	// The escalation target is a synthetic routing entry, not an office:
	// picking it from the forward list means "send to admin tier".
	if status == domain.StatusForwarded && target != nil && *target == routing.EscalationTarget {
		status = domain.StatusForwardedAdmin
		target = nil
	}

	if !transitionAllowed(actor.Role, g.Status, status) {
		return g, apperrors.NewIllegalTransition(string(actor.Role), string(g.Status), string(status))
	}

	next := g.Clone()
	next.Status = status

	switch status {
	case domain.StatusForwarded:
		if target == nil || strings.TrimSpace(*target) == "" {
			return g, apperrors.NewValidationError("forward target required", nil)
		}
		if !routing.Allowed(actor.Role, g.Status, *target) {
			return g, apperrors.NewInvalidTarget(string(actor.Role), *target)
		}
		forwardedTo := *target
		next.ForwardedTo = &forwardedTo
	case domain.StatusForwardedAdmin:
		// Escalation hands the grievance to the central tier as a whole;
		// no office target is recorded.
		next.ForwardedTo = nil
	case domain.StatusPending:
		// Admin revert back to coordinator scope.
		next.ForwardedTo = nil
	case domain.StatusResolved:
		// Resolution freezes the record; ForwardedTo keeps its last value
		// for the audit trail.
	}

	entry := domain.HistoryEntry{
		Action:      domain.HistoryAction(status),
		ForwardedTo: next.ForwardedTo,
		Remarks:     formatRemarks(actor.Role, req.Remarks),
		Date:        now,
	}
	next.History = append(next.History, entry)
	return next, nil
}

// formatRemarks prefixes remarks with the acting role. Absent or blank
// remarks stay nil, never an empty string.
func formatRemarks(role domain.Role, remarks *string) *string {
	if remarks == nil {
		return nil
	}
	text := strings.TrimSpace(*remarks)
	if text == "" {
		return nil
	}
	formatted := fmt.Sprintf("%s: %s", role, text)
	return &formatted
}
