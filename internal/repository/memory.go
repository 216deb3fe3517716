package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// memoryGrievanceRepository is a mutex-guarded in-memory store. It backs
// the "memory" store backend and deterministic tests; semantics mirror the
// SQL-backed stores, including id assignment and transition atomicity.
type memoryGrievanceRepository struct {
	mu    sync.Mutex
	seq   int64
	order []string
	items map[string]domain.Grievance
}

// NewMemoryGrievanceRepository creates an empty in-memory store. Sequence
// numbers start after 1000 so the first id is G-1001.
func NewMemoryGrievanceRepository() GrievanceRepository {
	return &memoryGrievanceRepository{
		seq:   1000,
		items: map[string]domain.Grievance{},
	}
}

func (r *memoryGrievanceRepository) Create(_ context.Context, g *domain.Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	g.ID = fmt.Sprintf("G-%d", r.seq)
	r.items[g.ID] = g.Clone()
	// Newest first.
	r.order = append([]string{g.ID}, r.order...)
	return nil
}

func (r *memoryGrievanceRepository) GetByID(_ context.Context, id string) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
	}
	out := g.Clone()
	return &out, nil
}

func (r *memoryGrievanceRepository) List(_ context.Context) ([]domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Grievance, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.items[id].Clone())
	}
	return result, nil
}

func (r *memoryGrievanceRepository) ApplyTransition(_ context.Context, id string, mutate func(domain.Grievance) (domain.Grievance, error)) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
	}
	next, err := mutate(current.Clone())
	if err != nil {
		return nil, err
	}
	r.items[id] = next.Clone()
	return &next, nil
}

// memoryUserRepository keeps accounts in memory for the same backend.
type memoryUserRepository struct {
	mu    sync.Mutex
	seq   int64
	users map[string]domain.User
}

// NewMemoryUserRepository creates an empty in-memory account store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: map[string]domain.User{}}
}

func (r *memoryUserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) ||
			(u.StudentID != "" && existing.StudentID == u.StudentID) {
			return apperrors.NewConflict("account already registered", map[string]any{"email": u.Email})
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("U-%d", r.seq)
	r.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	out := u
	return &out, nil
}

func (r *memoryUserRepository) GetByLogin(_ context.Context, loginID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, loginID) || (u.StudentID != "" && u.StudentID == loginID) {
			out := u
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFound("user", map[string]any{"login": loginID})
}
