package view

import (
	"testing"
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

var day = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)

func strp(s string) *string { return &s }

func grievance(id, dept string, status domain.GrievanceStatus, createdAt time.Time) domain.Grievance {
	return domain.Grievance{
		ID:          id,
		StudentDept: dept,
		Status:      status,
		CreatedAt:   createdAt,
		History:     []domain.HistoryEntry{{Action: domain.ActionRaised, Date: createdAt}},
	}
}

func fixtures() []domain.Grievance {
	forwarded := grievance("G-1003", "CSE", domain.StatusForwarded, day.Add(2*time.Hour))
	forwarded.ForwardedTo = strp("Timetable")
	return []domain.Grievance{
		grievance("G-1001", "CSE", domain.StatusPending, day),
		grievance("G-1002", "ECE", domain.StatusUrgent, day.Add(time.Hour)),
		forwarded,
		grievance("G-1004", "CSE", domain.StatusForwardedAdmin, day.Add(3*time.Hour)),
		grievance("G-1005", "ECE", domain.StatusResolved, day.AddDate(0, 0, -1)),
		grievance("G-1006", "CSE", domain.StatusUrgent, day.Add(4*time.Hour)),
	}
}

func ids(list []domain.Grievance) []string {
	out := make([]string, 0, len(list))
	for _, g := range list {
		out = append(out, g.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCoordinatorScopeAndOrdering(t *testing.T) {
	got := Project(fixtures(), Query{Role: domain.RoleCoordinator, Department: "CSE", Filter: FilterAll})
	want := []string{"G-1006", "G-1004", "G-1003", "G-1001"}
	if !equal(ids(got), want) {
		t.Fatalf("projection = %v, want %v", ids(got), want)
	}
}

func TestCoordinatorForwardedFilter(t *testing.T) {
	got := Project(fixtures(), Query{Role: domain.RoleCoordinator, Department: "CSE", Filter: FilterForwarded})
	want := []string{"G-1004", "G-1003"}
	if !equal(ids(got), want) {
		t.Fatalf("projection = %v, want %v", ids(got), want)
	}
}

func TestForwardedFilterKeepsResolvedWithTarget(t *testing.T) {
	resolved := grievance("G-1010", "CSE", domain.StatusResolved, day)
	resolved.ForwardedTo = strp("Exam Cell")
	got := Project([]domain.Grievance{resolved}, Query{Role: domain.RoleCoordinator, Department: "CSE", Filter: FilterForwarded})
	if len(got) != 1 {
		t.Fatalf("resolved grievance with a forward target must match the forwarded filter, got %v", ids(got))
	}
}

func TestRevertedFilterRequiresRevertedHistory(t *testing.T) {
	// An admin revert records the target status as its action, so nothing
	// ever carries a "reverted" entry and the filter stays empty.
	reverted := grievance("G-1011", "CSE", domain.StatusPending, day)
	reverted.History = append(reverted.History, domain.HistoryEntry{Action: "forwarded_admin", Date: day.Add(time.Hour)})
	reverted.History = append(reverted.History, domain.HistoryEntry{Action: "pending", Date: day.Add(2 * time.Hour)})

	got := Project([]domain.Grievance{reverted}, Query{Role: domain.RoleCoordinator, Department: "CSE", Filter: FilterReverted})
	if len(got) != 0 {
		t.Fatalf("expected empty reverted view, got %v", ids(got))
	}

	tagged := reverted.Clone()
	tagged.History = append(tagged.History, domain.HistoryEntry{Action: "reverted", Date: day.Add(3 * time.Hour)})
	got = Project([]domain.Grievance{tagged}, Query{Role: domain.RoleCoordinator, Department: "CSE", Filter: FilterReverted})
	if len(got) != 1 {
		t.Fatalf("pending grievance with reverted history must match, got %v", ids(got))
	}
}

func TestDateOverridesFilter(t *testing.T) {
	previous := day.AddDate(0, 0, -1)
	got := Project(fixtures(), Query{
		Role:   domain.RoleAdmin,
		Filter: FilterForwarded,
		Date:   &previous,
	})
	// G-1005 is resolved with no forward target; only the date matters.
	if !equal(ids(got), []string{"G-1005"}) {
		t.Fatalf("projection = %v, want [G-1005]", ids(got))
	}
}

func TestDateMatchesCalendarDayBoundaries(t *testing.T) {
	edge := []domain.Grievance{
		grievance("G-1001", "CSE", domain.StatusPending, day),
		grievance("G-1002", "CSE", domain.StatusPending, day.Add(24*time.Hour-time.Nanosecond)),
		grievance("G-1003", "CSE", domain.StatusPending, day.Add(24*time.Hour)),
	}
	got := Project(edge, Query{Role: domain.RoleAdmin, Date: &day})
	if !equal(ids(got), []string{"G-1002", "G-1001"}) {
		t.Fatalf("projection = %v, want same-day entries only", ids(got))
	}
}

func TestAdminOrderingUrgentFirstThenNewest(t *testing.T) {
	got := Project(fixtures(), Query{Role: domain.RoleAdmin, Filter: FilterAll})
	want := []string{"G-1006", "G-1002", "G-1004", "G-1003", "G-1001", "G-1005"}
	if !equal(ids(got), want) {
		t.Fatalf("projection = %v, want %v", ids(got), want)
	}
}

func TestProjectLeavesInputUntouched(t *testing.T) {
	input := fixtures()
	firstID := input[0].ID
	Project(input, Query{Role: domain.RoleAdmin, Filter: FilterAll})
	if input[0].ID != firstID {
		t.Fatal("input slice reordered")
	}
}

func TestFilterValid(t *testing.T) {
	for _, f := range []Filter{FilterAll, FilterForwarded, FilterReverted} {
		if !f.Valid() {
			t.Errorf("%s should be valid", f)
		}
	}
	for _, f := range []Filter{"", "urgent", "ALL"} {
		if f.Valid() {
			t.Errorf("%q should be invalid", f)
		}
	}
}

func TestPartitionAdmin(t *testing.T) {
	buckets := PartitionAdmin(Project(fixtures(), Query{Role: domain.RoleAdmin, Filter: FilterAll}))
	if !equal(ids(buckets.Urgent), []string{"G-1006", "G-1002"}) {
		t.Errorf("urgent = %v", ids(buckets.Urgent))
	}
	if !equal(ids(buckets.Active), []string{"G-1004", "G-1001"}) {
		t.Errorf("active = %v", ids(buckets.Active))
	}
	if !equal(ids(buckets.Resolved), []string{"G-1005"}) {
		t.Errorf("resolved = %v", ids(buckets.Resolved))
	}
	// Plain forwarded grievances stay with their office.
	for _, g := range append(append(buckets.Urgent, buckets.Active...), buckets.Resolved...) {
		if g.ID == "G-1003" {
			t.Error("forwarded grievance leaked into a bucket")
		}
	}
}
