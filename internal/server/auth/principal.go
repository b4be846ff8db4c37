// Package auth holds the authenticated principal model and the HS256 token
// manager that signs and verifies short-lived bearer tokens.
package auth

import "github.com/google/uuid"

// Role is the caller's role carried in the token's "role" claim.
type Role string

const (
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
	RoleCoworker Role = "COWORKER"
)

// ParseRole validates a role string coming from storage or a token claim.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleManager, RoleEmployee, RoleCoworker:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated caller: user id, role, and the employee row
// linked to the user (nil when the user has no employee record).
type Principal struct {
	UserID     uuid.UUID
	Role       Role
	EmployeeID *uuid.UUID
}
