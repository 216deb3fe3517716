package domain

// PriorityTier classifies a category's urgency. High-tier categories force
// the initial status to urgent; everything else starts pending.
type PriorityTier string

const (
	PriorityHigh   PriorityTier = "high"
	PriorityMedium PriorityTier = "medium"
	PriorityLow    PriorityTier = "low"
)

// Category is a static registry entry mapping a category id to its label and
// priority tier. The registry is fixed at build time and never user-mutable.
type Category struct {
	ID       string
	Label    string
	Priority PriorityTier
}

var categories = []Category{
	{ID: "hallticket", Label: "Hall Ticket Issue", Priority: PriorityHigh},
	{ID: "fee", Label: "Fee Payment/Update", Priority: PriorityHigh},
	{ID: "erp", Label: "ERP Login/Access", Priority: PriorityMedium},
	{ID: "timetable", Label: "Time Table Discrepancy", Priority: PriorityMedium},
	{ID: "marks", Label: "Marks/Evaluation", Priority: PriorityMedium},
	{ID: "hostel", Label: "Hostel Facilities", Priority: PriorityLow},
	{ID: "sports", Label: "Sports Equipment", Priority: PriorityLow},
	{ID: "plumbing", Label: "Plumbing/Water", Priority: PriorityLow},
	{ID: "infrastructure", Label: "Infrastructure/Furniture", Priority: PriorityLow},
	{ID: "other", Label: "Other", Priority: PriorityLow},
}

var categoryIndex = func() map[string]Category {
	idx := make(map[string]Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}()

// Categories returns the full registry in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ResolveCategory looks up a category by id.
func ResolveCategory(id string) (Category, bool) {
	c, ok := categoryIndex[id]
	return c, ok
}

// InitialStatus derives the creation status from the category tier.
func (c Category) InitialStatus() GrievanceStatus {
	if c.Priority == PriorityHigh {
		return StatusUrgent
	}
	return StatusPending
}
