// Package view derives the exact ordered grievance subset a dashboard
// renders for a role. Projection is a pure function over the ticket
// sequence; it never touches the store.
package view

import (
	"sort"
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// Filter selects a status/category slice of the ticket set.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterForwarded Filter = "forwarded"
	FilterReverted  Filter = "reverted"
)

// Valid reports whether the filter is a known value.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterForwarded, FilterReverted:
		return true
	}
	return false
}

// Query describes one dashboard request. Department scopes coordinator
// views only; Date, when set, selects a single calendar day and overrides
// Filter.
type Query struct {
	Role       domain.Role
	Department string
	Filter     Filter
	Date       *time.Time
}

// Project applies the filtering precedence (department scope, then date,
// then status filter) and the role's ordering. The input slice is left
// untouched.
func Project(grievances []domain.Grievance, q Query) []domain.Grievance {
	out := make([]domain.Grievance, 0, len(grievances))
	for _, g := range grievances {
		if q.Role == domain.RoleCoordinator && g.StudentDept != q.Department {
			continue
		}
		if q.Date != nil {
			if sameDay(g.CreatedAt, *q.Date) {
				out = append(out, g)
			}
			continue
		}
		if matchesFilter(g, q.Filter) {
			out = append(out, g)
		}
	}

	switch q.Role {
	case domain.RoleAdmin:
		// Urgent first, newest first within each tier.
		sort.SliceStable(out, func(i, j int) bool {
			iu, ju := out[i].Status == domain.StatusUrgent, out[j].Status == domain.StatusUrgent
			if iu != ju {
				return iu
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		// Lexicographic id descending matches insertion order for the
		// G-<n> id scheme.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ID > out[j].ID
		})
	}
	return out
}

func matchesFilter(g domain.Grievance, f Filter) bool {
	switch f {
	case FilterForwarded:
		return g.Status == domain.StatusForwarded ||
			g.Status == domain.StatusForwardedAdmin ||
			g.ForwardedTo != nil
	case FilterReverted:
		return g.Status == domain.StatusPending && g.HasHistoryAction("reverted")
	default:
		return true
	}
}

func sameDay(a, b time.Time) bool {
	al, bl := a.Local(), b.Local()
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// Buckets is the admin dashboard partition layered on one projected
// sequence: urgent, active or forwarded-to-admin, resolved. Plain forwarded
// grievances stay with their office and appear in no bucket.
type Buckets struct {
	Urgent   []domain.Grievance
	Active   []domain.Grievance
	Resolved []domain.Grievance
}

// PartitionAdmin splits an already projected sequence into display buckets,
// preserving its order.
func PartitionAdmin(projected []domain.Grievance) Buckets {
	var b Buckets
	for _, g := range projected {
		switch g.Status {
		case domain.StatusUrgent:
			b.Urgent = append(b.Urgent, g)
		case domain.StatusPending, domain.StatusForwardedAdmin:
			b.Active = append(b.Active, g)
		case domain.StatusResolved:
			b.Resolved = append(b.Resolved, g)
		}
	}
	return b
}
