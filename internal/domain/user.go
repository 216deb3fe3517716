package domain

import "time"

// Courses offered for student registration.
var Courses = []string{"B.Tech", "M.Tech", "Ph.D"}

// StudentDepartments lists the academic departments a student belongs to and
// a coordinator is scoped by.
var StudentDepartments = []string{"CSE", "ECE", "CSIT", "AIDS", "EEE", "MECH", "CIVIL"}

// User is an account in any tier: students file grievances, coordinators and
// admins work them. Course and StudentID are set for students only;
// Department is set for students and coordinators.
type User struct {
	ID           string
	Name         string
	Email        string
	StudentID    string
	Course       string
	Department   string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor maps the account to the actor record consumed by the core.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Department: u.Department}
}

// KnownStudentDepartment reports whether dept is one of the academic
// departments.
func KnownStudentDepartment(dept string) bool {
	for _, d := range StudentDepartments {
		if d == dept {
			return true
		}
	}
	return false
}
