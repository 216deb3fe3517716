package lifecycle

import (
	"testing"
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/routing"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func coordinator() domain.Actor {
	return domain.Actor{ID: "c-1", Role: domain.RoleCoordinator, Department: "CSE"}
}

func admin() domain.Actor {
	return domain.Actor{ID: "a-1", Role: domain.RoleAdmin}
}

func strp(s string) *string { return &s }

func raised(t *testing.T, category string) domain.Grievance {
	t.Helper()
	g, err := Raise(RaiseInput{
		StudentID:    "2100030042",
		StudentEmail: "student@kluniversity.in",
		StudentDept:  "CSE",
		Category:     category,
		Description:  "description",
	}, testNow)
	if err != nil {
		t.Fatalf("Raise(%q): %v", category, err)
	}
	return g
}

func TestRaiseSeedsStatusFromTier(t *testing.T) {
	cases := []struct {
		category string
		want     domain.GrievanceStatus
	}{
		{"hallticket", domain.StatusUrgent},
		{"fee", domain.StatusUrgent},
		{"erp", domain.StatusPending},
		{"timetable", domain.StatusPending},
		{"hostel", domain.StatusPending},
	}
	for _, tc := range cases {
		g := raised(t, tc.category)
		if g.Status != tc.want {
			t.Errorf("category %q: status = %s, want %s", tc.category, g.Status, tc.want)
		}
		if len(g.History) != 1 || g.History[0].Action != domain.ActionRaised {
			t.Errorf("category %q: history = %+v, want single raised entry", tc.category, g.History)
		}
		if g.ForwardedTo != nil {
			t.Errorf("category %q: new grievance must not carry a forward target", tc.category)
		}
	}
}

func TestRaiseRejectsUnknownCategory(t *testing.T) {
	_, err := Raise(RaiseInput{Category: "cafeteria", Description: "x"}, testNow)
	if !apperrors.IsCode(err, apperrors.CodeInvalidCategory) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeInvalidCategory)
	}
}

func TestCoordinatorForwardsToOffice(t *testing.T) {
	g := raised(t, "timetable")
	next, err := Apply(g, coordinator(), TransitionRequest{
		Status:      domain.StatusForwarded,
		ForwardedTo: strp("Timetable"),
		Remarks:     strp("  needs the exam cell view  "),
	}, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.Status != domain.StatusForwarded {
		t.Errorf("status = %s, want forwarded", next.Status)
	}
	if next.ForwardedTo == nil || *next.ForwardedTo != "Timetable" {
		t.Errorf("ForwardedTo = %v, want Timetable", next.ForwardedTo)
	}
	if len(next.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(next.History))
	}
	entry := next.History[1]
	if entry.Action != "forwarded" {
		t.Errorf("history action = %s, want forwarded", entry.Action)
	}
	if entry.Remarks == nil || *entry.Remarks != "coordinator: needs the exam cell view" {
		t.Errorf("remarks = %v, want role-prefixed trimmed text", entry.Remarks)
	}
	if entry.Date != testNow.Add(time.Hour) {
		t.Errorf("entry date = %v", entry.Date)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	g := raised(t, "erp")
	_, err := Apply(g, coordinator(), TransitionRequest{
		Status:      domain.StatusForwarded,
		ForwardedTo: strp("Attendance"),
	}, testNow)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if g.Status != domain.StatusPending || g.ForwardedTo != nil || len(g.History) != 1 {
		t.Fatalf("input grievance mutated: %+v", g)
	}
}

func TestEscalationTargetBecomesAdminEscalation(t *testing.T) {
	g := raised(t, "erp")
	next, err := Apply(g, coordinator(), TransitionRequest{
		Status:      domain.StatusForwarded,
		ForwardedTo: strp(routing.EscalationTarget),
	}, testNow)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.Status != domain.StatusForwardedAdmin {
		t.Errorf("status = %s, want forwarded_admin", next.Status)
	}
	if next.ForwardedTo != nil {
		t.Errorf("ForwardedTo = %q, escalation records no office", *next.ForwardedTo)
	}
	if next.LastAction() != "forwarded_admin" {
		t.Errorf("last action = %s, want forwarded_admin", next.LastAction())
	}
}

func TestDirectEscalation(t *testing.T) {
	g := raised(t, "hallticket")
	next, err := Apply(g, coordinator(), TransitionRequest{Status: domain.StatusForwardedAdmin}, testNow)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.Status != domain.StatusForwardedAdmin || next.ForwardedTo != nil {
		t.Fatalf("got status=%s forwardedTo=%v", next.Status, next.ForwardedTo)
	}
}

func TestForwardRequiresTarget(t *testing.T) {
	g := raised(t, "erp")
	cases := []*string{nil, strp(""), strp("   ")}
	for _, target := range cases {
		_, err := Apply(g, coordinator(), TransitionRequest{Status: domain.StatusForwarded, ForwardedTo: target}, testNow)
		if err == nil {
			t.Errorf("target %v: expected error", target)
		}
	}
}

func TestForwardRejectsTargetOutsideRoleList(t *testing.T) {
	g := raised(t, "erp")
	_, err := Apply(g, coordinator(), TransitionRequest{
		Status:      domain.StatusForwarded,
		ForwardedTo: strp("Registrar Office"),
	}, testNow)
	if !apperrors.IsCode(err, apperrors.CodeInvalidTarget) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeInvalidTarget)
	}
}

func TestIllegalTransitions(t *testing.T) {
	forwarded, err := Apply(raised(t, "erp"), coordinator(), TransitionRequest{
		Status:      domain.StatusForwarded,
		ForwardedTo: strp("Timetable"),
	}, testNow)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	cases := []struct {
		name  string
		g     domain.Grievance
		actor domain.Actor
		req   TransitionRequest
	}{
		{"coordinator cannot re-forward", forwarded, coordinator(), TransitionRequest{Status: domain.StatusForwarded, ForwardedTo: strp("Attendance")}},
		{"coordinator cannot escalate forwarded", forwarded, coordinator(), TransitionRequest{Status: domain.StatusForwardedAdmin}},
		{"coordinator cannot revert", forwarded, coordinator(), TransitionRequest{Status: domain.StatusPending}},
		{"admin cannot escalate", raised(t, "erp"), admin(), TransitionRequest{Status: domain.StatusForwardedAdmin}},
		{"admin cannot revert pending ticket", raised(t, "erp"), admin(), TransitionRequest{Status: domain.StatusUrgent}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(tc.g, tc.actor, tc.req, testNow)
			if !apperrors.IsCode(err, apperrors.CodeIllegalTransition) {
				t.Fatalf("err = %v, want %s", err, apperrors.CodeIllegalTransition)
			}
		})
	}
}

func TestAdminRevertClearsForwardTarget(t *testing.T) {
	g := raised(t, "erp")
	escalated, err := Apply(g, coordinator(), TransitionRequest{Status: domain.StatusForwardedAdmin}, testNow)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	reverted, err := Apply(escalated, admin(), TransitionRequest{
		Status:  domain.StatusPending,
		Remarks: strp("back to the department"),
	}, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if reverted.Status != domain.StatusPending || reverted.ForwardedTo != nil {
		t.Fatalf("got status=%s forwardedTo=%v", reverted.Status, reverted.ForwardedTo)
	}
	if reverted.LastAction() != "pending" {
		t.Errorf("last action = %s, want pending", reverted.LastAction())
	}
	if r := reverted.History[len(reverted.History)-1].Remarks; r == nil || *r != "admin: back to the department" {
		t.Errorf("remarks = %v", r)
	}
}

func TestResolveKeepsLastForwardTarget(t *testing.T) {
	forwarded, err := Apply(raised(t, "erp"), admin(), TransitionRequest{
		Status:      domain.StatusForwarded,
		ForwardedTo: strp("IT Support (ERP)"),
	}, testNow)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	resolved, err := Apply(forwarded, admin(), TransitionRequest{Status: domain.StatusResolved}, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if resolved.Status != domain.StatusResolved {
		t.Errorf("status = %s", resolved.Status)
	}
	if resolved.ForwardedTo == nil || *resolved.ForwardedTo != "IT Support (ERP)" {
		t.Errorf("ForwardedTo = %v, resolution must keep the audit value", resolved.ForwardedTo)
	}
}

func TestResolvedIsTerminal(t *testing.T) {
	resolved, err := Apply(raised(t, "erp"), coordinator(), TransitionRequest{Status: domain.StatusResolved}, testNow)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	for _, req := range []TransitionRequest{
		{Status: domain.StatusPending},
		{Status: domain.StatusForwarded, ForwardedTo: strp("Timetable")},
		{Status: domain.StatusResolved},
	} {
		_, err := Apply(resolved, admin(), req, testNow)
		if !apperrors.IsCode(err, apperrors.CodeTerminalState) {
			t.Errorf("status %s: err = %v, want %s", req.Status, err, apperrors.CodeTerminalState)
		}
	}
}

func TestRemarksFormatting(t *testing.T) {
	cases := []struct {
		name    string
		remarks *string
		want    *string
	}{
		{"nil stays nil", nil, nil},
		{"blank stays nil", strp("   "), nil},
		{"text gets role prefix", strp("done"), strp("coordinator: done")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Apply(raised(t, "erp"), coordinator(), TransitionRequest{
				Status:  domain.StatusResolved,
				Remarks: tc.remarks,
			}, testNow)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			got := next.History[len(next.History)-1].Remarks
			switch {
			case tc.want == nil && got != nil:
				t.Errorf("remarks = %q, want nil", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Errorf("remarks = %v, want %q", got, *tc.want)
			}
		})
	}
}
