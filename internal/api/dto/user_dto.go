package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// StudentRegisterRequest payload for student signup.
type StudentRegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	StudentID  string `json:"student_id"`
	Course     string `json:"course"`
	Department string `json:"department"`
	Password   string `json:"password"`
}

// LoginRequest payload. LoginID accepts either an email or a student id.
type LoginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// CreateStaffRequest payload for admin-provisioned accounts.
type CreateStaffRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
	Password   string      `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	StudentID  string      `json:"student_id,omitempty"`
	Course     string      `json:"course,omitempty"`
	Department string      `json:"department,omitempty"`
	Role       domain.Role `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a domain user to its wire form.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		StudentID:  u.StudentID,
		Course:     u.Course,
		Department: u.Department,
		Role:       u.Role,
	}
}
