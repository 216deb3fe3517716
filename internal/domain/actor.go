package domain

// Role identifies the acting tier for every operation. The engine never
// infers a role from ticket state; callers always name one.
type Role string

const (
	RoleStudent     Role = "student"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
)

// Valid reports whether the role is a known tier.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role may drive lifecycle transitions.
func (r Role) Staff() bool {
	return r == RoleCoordinator || r == RoleAdmin
}

// Actor is the authenticated caller record supplied by the auth boundary.
// Department is set for coordinators only and scopes their view.
type Actor struct {
	ID         string
	Role       Role
	Department string
}
