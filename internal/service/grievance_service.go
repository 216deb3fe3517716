package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/lifecycle"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/routing"
	"github.com/spec-kit/grievance-service/internal/view"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// GrievanceService coordinates the grievance lifecycle: creation, role-gated
// transitions and dashboard projections. All writes flow through the
// lifecycle engine; reads flow through the view projector.
type GrievanceService struct {
	grievances repository.GrievanceRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics

	// Now is the clock used for timestamps; tests pin it.
	Now func() time.Time
}

// GrievanceDependencies bundles collaborators for the service.
type GrievanceDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
}

// RaiseInput describes the student-facing creation request.
type RaiseInput struct {
	Category    string
	Description string
}

// NewGrievanceService constructs the service.
func NewGrievanceService(deps GrievanceDependencies) *GrievanceService {
	return &GrievanceService{
		grievances: deps.GrievanceRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		Now:        time.Now,
	}
}

// Raise files a new grievance for the student. The initial status comes
// from the category's priority tier and the history is seeded with the
// raised entry.
func (s *GrievanceService) Raise(ctx context.Context, student *domain.User, input RaiseInput) (*domain.Grievance, error) {
	if student == nil || student.Role != domain.RoleStudent {
		return nil, apperrors.NewForbidden("students raise grievances")
	}
	grievance, err := lifecycle.Raise(lifecycle.RaiseInput{
		StudentID:    student.StudentID,
		StudentEmail: student.Email,
		StudentDept:  student.Department,
		Category:     input.Category,
		Description:  input.Description,
	}, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.grievances.Create(ctx, &grievance); err != nil {
		return nil, err
	}

	if category, ok := domain.ResolveCategory(grievance.Category); ok {
		s.metrics.RecordCreated(string(category.Priority))
	}
	s.publish(ctx, events.EventGrievanceRaised, student.Actor(), grievance)
	return &grievance, nil
}

// Transition applies a coordinator/admin status change atomically. The
// stored record is replaced and the history entry appended in one step, or
// left untouched on any validation failure.
func (s *GrievanceService) Transition(ctx context.Context, actor domain.Actor, id string, req lifecycle.TransitionRequest) (*domain.Grievance, error) {
	if !actor.Role.Staff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	updated, err := s.grievances.ApplyTransition(ctx, id, func(current domain.Grievance) (domain.Grievance, error) {
		if err := s.actorCanAccess(actor, current); err != nil {
			return domain.Grievance{}, err
		}
		return lifecycle.Apply(current, actor, req, s.Now())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(updated.Status))
	s.publish(ctx, events.EventGrievanceStatusChanged, actor, *updated)
	return updated, nil
}

// Get returns one grievance, enforcing the caller's visibility: students
// see their own, coordinators their department, admins everything.
func (s *GrievanceService) Get(ctx context.Context, actor domain.Actor, user *domain.User, id string) (*domain.Grievance, error) {
	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleStudent {
		if user == nil || grievance.StudentID != user.StudentID {
			return nil, apperrors.NewForbidden("not your grievance")
		}
		return grievance, nil
	}
	if err := s.actorCanAccess(actor, *grievance); err != nil {
		return nil, err
	}
	return grievance, nil
}

// ListForStudent returns the student's own grievances, newest first.
func (s *GrievanceService) ListForStudent(ctx context.Context, student *domain.User) ([]domain.Grievance, error) {
	all, err := s.grievances.List(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]domain.Grievance, 0)
	for _, g := range all {
		if g.StudentID == student.StudentID {
			mine = append(mine, g)
		}
	}
	return mine, nil
}

// Query projects the dashboard view for a staff role.
func (s *GrievanceService) Query(ctx context.Context, actor domain.Actor, filter view.Filter, date *time.Time) ([]domain.Grievance, error) {
	if !actor.Role.Staff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if filter == "" {
		filter = view.FilterAll
	}
	if !filter.Valid() {
		return nil, apperrors.NewValidationError("unknown filter", map[string]any{"filter": string(filter)})
	}
	all, err := s.grievances.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.Project(all, view.Query{
		Role:       actor.Role,
		Department: actor.Department,
		Filter:     filter,
		Date:       date,
	}), nil
}

// Overview returns the admin dashboard buckets layered on the projected
// sequence.
func (s *GrievanceService) Overview(ctx context.Context, actor domain.Actor, filter view.Filter, date *time.Time) (view.Buckets, error) {
	if actor.Role != domain.RoleAdmin {
		return view.Buckets{}, apperrors.NewForbidden("admin role required")
	}
	projected, err := s.Query(ctx, actor, filter, date)
	if err != nil {
		return view.Buckets{}, err
	}
	return view.PartitionAdmin(projected), nil
}

// ValidTargets returns the forward targets the actor may name for the
// grievance in its current state.
func (s *GrievanceService) ValidTargets(ctx context.Context, actor domain.Actor, id string) ([]string, error) {
	if !actor.Role.Staff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.actorCanAccess(actor, *grievance); err != nil {
		return nil, err
	}
	return routing.ValidTargets(actor.Role, grievance.Status), nil
}

func (s *GrievanceService) actorCanAccess(actor domain.Actor, g domain.Grievance) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.Role == domain.RoleCoordinator && g.StudentDept == actor.Department {
		return nil
	}
	return apperrors.NewForbidden("grievance outside your department")
}

func (s *GrievanceService) publish(ctx context.Context, eventType events.EventType, actor domain.Actor, g domain.Grievance) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		GrievanceID: g.ID,
		Actor: events.Actor{
			ID:         actor.ID,
			Role:       actor.Role,
			Department: actor.Department,
		},
		Timestamp: s.Now(),
		Grievance: events.Snapshot(g),
	})
}
