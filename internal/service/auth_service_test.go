package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

func newAuthService() *AuthService {
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
		AllowedEmailDomains:   []string{"kluniversity.in"},
		BootstrapAdminEmail:   "admin@kluniversity.in",
		BootstrapAdminPass:    "admin-password",
	}
	return NewAuthService(
		repository.NewMemoryUserRepository(),
		auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cfg,
		zap.NewNop(),
	)
}

func validRegistration() RegisterStudentInput {
	return RegisterStudentInput{
		Name:       "Student",
		Email:      "student@kluniversity.in",
		StudentID:  "2100030042",
		Course:     "B.Tech",
		Department: "CSE",
		Password:   "long-enough",
	}
}

func TestRegisterStudent(t *testing.T) {
	svc := newAuthService()
	result, err := svc.RegisterStudent(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a signed token")
	}
	if result.User.Role != domain.RoleStudent {
		t.Errorf("role = %s, want student", result.User.Role)
	}
	if result.User.PasswordHash == "long-enough" {
		t.Error("password stored in clear")
	}
}

func TestRegisterStudentValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RegisterStudentInput)
	}{
		{"outside domain", func(in *RegisterStudentInput) { in.Email = "student@gmail.com" }},
		{"short student id", func(in *RegisterStudentInput) { in.StudentID = "12345" }},
		{"non-numeric student id", func(in *RegisterStudentInput) { in.StudentID = "21000300AB" }},
		{"unknown course", func(in *RegisterStudentInput) { in.Course = "MBA" }},
		{"unknown department", func(in *RegisterStudentInput) { in.Department = "LAW" }},
		{"short password", func(in *RegisterStudentInput) { in.Password = "short" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAuthService()
			input := validRegistration()
			tc.mutate(&input)
			if _, err := svc.RegisterStudent(context.Background(), input); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestRegisterDuplicateAccount(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	if _, err := svc.RegisterStudent(ctx, validRegistration()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := svc.RegisterStudent(ctx, validRegistration()); !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestLoginByEmailAndStudentID(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	if _, err := svc.RegisterStudent(ctx, validRegistration()); err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}

	if _, err := svc.Login(ctx, "student@kluniversity.in", "long-enough"); err != nil {
		t.Errorf("login by email: %v", err)
	}
	if _, err := svc.Login(ctx, "2100030042", "long-enough"); err != nil {
		t.Errorf("login by student id: %v", err)
	}
	if _, err := svc.Login(ctx, "student@kluniversity.in", "wrong"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("wrong password: err = %v, want UNAUTHORIZED", err)
	}
	if _, err := svc.Login(ctx, "nobody@kluniversity.in", "long-enough"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("unknown account: err = %v, want UNAUTHORIZED", err)
	}
}

func TestEnsureBootstrapAdminIsIdempotent(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	if err := svc.EnsureBootstrapAdmin(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := svc.EnsureBootstrapAdmin(ctx); err != nil {
		t.Fatalf("repeat bootstrap: %v", err)
	}
	result, err := svc.Login(ctx, "admin@kluniversity.in", "admin-password")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if result.User.Role != domain.RoleAdmin {
		t.Errorf("role = %s, want admin", result.User.Role)
	}
}

func TestCreateStaff(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	adminActor := domain.Actor{ID: "A-1", Role: domain.RoleAdmin}

	coordinatorInput := CreateStaffInput{
		Name:       "Coordinator",
		Email:      "coordinator@kluniversity.in",
		Role:       domain.RoleCoordinator,
		Department: "CSE",
		Password:   "long-enough",
	}
	user, err := svc.CreateStaff(ctx, adminActor, coordinatorInput)
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if user.Role != domain.RoleCoordinator || user.Department != "CSE" {
		t.Fatalf("created = %+v", user)
	}

	if _, err := svc.CreateStaff(ctx, domain.Actor{Role: domain.RoleCoordinator}, coordinatorInput); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("non-admin: err = %v, want FORBIDDEN", err)
	}
	studentInput := coordinatorInput
	studentInput.Email = "x@kluniversity.in"
	studentInput.Role = domain.RoleStudent
	if _, err := svc.CreateStaff(ctx, adminActor, studentInput); err == nil {
		t.Error("expected student role to be rejected")
	}
}
