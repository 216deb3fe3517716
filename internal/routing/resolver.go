// Package routing computes the valid forward targets for a role and ticket
// state. It is consulted by the lifecycle engine to validate transition
// input and by the API to tell dashboards which targets to offer.
package routing

import "github.com/spec-kit/grievance-service/internal/domain"

// EscalationTarget is the synthetic coordinator target that escalates a
// grievance to the central admin tier instead of forwarding it to an office.
const EscalationTarget = "forwarded_admin"

// CoordinatorTargets are the department-internal offices a coordinator can
// forward to.
var CoordinatorTargets = []string{
	"Faculty Issue",
	"Lab Maintenance",
	"Timetable",
	"Department Library",
	"Attendance",
	"Internal Marks",
}

// EmergencyTargets are the fast-path offices offered to coordinators next to
// the internal list.
var EmergencyTargets = []string{"Exam Cell", "Finance", "ERP"}

// AdminTargets is the full university-wide target list available to admins
// regardless of where the grievance currently sits.
var AdminTargets = []string{
	"IT Support (ERP)",
	"Finance (Payments)",
	"Exam Cell (Hall Ticket)",
	"Registrar Office",
	"Hostel Warden",
	"Sports Committee",
	"Transportation",
	"Library (Central)",
	"Plumbing",
	"Carpentry",
	"Electrical/Utility",
	"Stationary",
	"Housekeeping",
	"Security",
	"Other",
}

// ValidTargets returns the forward targets a role may name from the given
// status. Coordinators get their local and emergency lists plus the
// escalation target, but only while the grievance has not been forwarded
// yet. Admins get the full list from any non-terminal state. Every other
// combination yields nothing, meaning no forward action should be offered.
func ValidTargets(role domain.Role, status domain.GrievanceStatus) []string {
	switch role {
	case domain.RoleCoordinator:
		if status != domain.StatusPending && status != domain.StatusUrgent {
			return nil
		}
		out := make([]string, 0, len(CoordinatorTargets)+len(EmergencyTargets)+1)
		out = append(out, CoordinatorTargets...)
		out = append(out, EmergencyTargets...)
		out = append(out, EscalationTarget)
		return out
	case domain.RoleAdmin:
		if status.Terminal() {
			return nil
		}
		out := make([]string, len(AdminTargets))
		copy(out, AdminTargets)
		return out
	}
	return nil
}

// Allowed reports whether target is in the role's valid set for the status.
func Allowed(role domain.Role, status domain.GrievanceStatus, target string) bool {
	for _, t := range ValidTargets(role, status) {
		if t == target {
			return true
		}
	}
	return false
}
