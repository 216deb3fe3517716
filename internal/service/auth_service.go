package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

var studentIDPattern = regexp.MustCompile(`^\d{10}$`)

// AuthService handles account registration and login for students and
// admin-provisioned staff accounts.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
	logger *zap.Logger
}

// RegisterStudentInput is the self-service student signup payload.
type RegisterStudentInput struct {
	Name       string
	Email      string
	StudentID  string
	Course     string
	Department string
	Password   string
}

// CreateStaffInput is the admin-only staff provisioning payload.
type CreateStaffInput struct {
	Name       string
	Email      string
	Role       domain.Role
	Department string
	Password   string
}

// AuthResult carries the authenticated user and a signed access token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg, logger: logger}
}

// RegisterStudent validates and creates a student account, then issues a
// token so the client can proceed without a second login call.
func (s *AuthService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !s.allowedEmailDomain(email) {
		return nil, apperrors.NewValidationError("email must belong to a university domain", map[string]any{
			"allowed_domains": s.cfg.AllowedEmailDomains,
		})
	}
	if !studentIDPattern.MatchString(input.StudentID) {
		return nil, apperrors.NewValidationError("student id must be a 10 digit number", nil)
	}
	if !containsString(domain.Courses, input.Course) {
		return nil, apperrors.NewValidationError("unknown course", map[string]any{"course": input.Course})
	}
	if !domain.KnownStudentDepartment(input.Department) {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	now := time.Now()
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		StudentID:    input.StudentID,
		Course:       input.Course,
		Department:   input.Department,
		Role:         domain.RoleStudent,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateStaff lets an admin provision coordinator or admin accounts.
func (s *AuthService) CreateStaff(ctx context.Context, actor domain.Actor, input CreateStaffInput) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if input.Role != domain.RoleCoordinator && input.Role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("role must be coordinator or admin", map[string]any{"role": string(input.Role)})
	}
	if input.Role == domain.RoleCoordinator && !domain.KnownStudentDepartment(input.Department) {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	now := time.Now()
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Department:   input.Department,
		Role:         input.Role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email or student id.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*AuthResult, error) {
	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(loginID))
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// EnsureBootstrapAdmin creates the configured admin account on first boot
// so a fresh deployment has a working staff login.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context) error {
	if s.cfg.BootstrapAdminEmail == "" || s.cfg.BootstrapAdminPass == "" {
		return nil
	}
	if _, err := s.users.GetByLogin(ctx, s.cfg.BootstrapAdminEmail); err == nil {
		return nil
	} else if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return err
	}

	hash, err := auth.HashPassword(s.cfg.BootstrapAdminPass, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	now := time.Now()
	admin := &domain.User{
		Name:         "Administrator",
		Email:        strings.ToLower(s.cfg.BootstrapAdminEmail),
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) allowedEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if len(s.cfg.AllowedEmailDomains) == 0 {
		return true
	}
	return containsString(s.cfg.AllowedEmailDomains, email[at+1:])
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
