package domain

import "testing"

func TestResolveCategory(t *testing.T) {
	cases := []struct {
		id       string
		ok       bool
		priority PriorityTier
	}{
		{id: "hallticket", ok: true, priority: PriorityHigh},
		{id: "fee", ok: true, priority: PriorityHigh},
		{id: "erp", ok: true, priority: PriorityMedium},
		{id: "hostel", ok: true, priority: PriorityLow},
		{id: "other", ok: true, priority: PriorityLow},
		{id: "unknown", ok: false},
		{id: "", ok: false},
		{id: "Hallticket", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			c, ok := ResolveCategory(tc.id)
			if ok != tc.ok {
				t.Fatalf("ResolveCategory(%q) ok = %v, want %v", tc.id, ok, tc.ok)
			}
			if ok && c.Priority != tc.priority {
				t.Fatalf("ResolveCategory(%q) priority = %s, want %s", tc.id, c.Priority, tc.priority)
			}
		})
	}
}

func TestInitialStatusFollowsTier(t *testing.T) {
	for _, c := range Categories() {
		want := StatusPending
		if c.Priority == PriorityHigh {
			want = StatusUrgent
		}
		if got := c.InitialStatus(); got != want {
			t.Errorf("category %q: initial status = %s, want %s", c.ID, got, want)
		}
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	first := Categories()
	first[0].Label = "mutated"
	if Categories()[0].Label == "mutated" {
		t.Fatal("Categories() exposed the internal registry slice")
	}
}

func TestGrievanceCloneIsDeep(t *testing.T) {
	target := "Exam Cell"
	remarks := "coordinator: checked"
	g := Grievance{
		ID:          "G-1001",
		Status:      StatusForwarded,
		ForwardedTo: &target,
		History: []HistoryEntry{
			{Action: ActionRaised},
			{Action: "forwarded", ForwardedTo: &target, Remarks: &remarks},
		},
	}
	clone := g.Clone()
	*clone.ForwardedTo = "Finance"
	clone.History[1].Action = "resolved"
	*clone.History[1].Remarks = "changed"

	if *g.ForwardedTo != "Exam Cell" {
		t.Errorf("ForwardedTo aliased: %q", *g.ForwardedTo)
	}
	if g.History[1].Action != "forwarded" {
		t.Errorf("history entry aliased: %q", g.History[1].Action)
	}
	if *g.History[1].Remarks != "coordinator: checked" {
		t.Errorf("history remarks aliased: %q", *g.History[1].Remarks)
	}
}

func TestHasHistoryAction(t *testing.T) {
	g := Grievance{History: []HistoryEntry{{Action: ActionRaised}, {Action: "forwarded"}}}
	if !g.HasHistoryAction("forwarded") {
		t.Error("expected forwarded action to be found")
	}
	if g.HasHistoryAction("reverted") {
		t.Error("did not expect reverted action")
	}
	if got := g.LastAction(); got != "forwarded" {
		t.Errorf("LastAction = %q, want forwarded", got)
	}
}
