// Package access implements the role- and ownership-based access policy:
// pure predicates over a principal plus guard helpers that fail fast with
// typed 401/403 errors.
package access

import (
	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/httperr"
)

func IsManager(p *auth.Principal) bool {
	return p != nil && p.Role == auth.RoleManager
}

// IsOwner reports whether the principal's linked employee row is the one
// identified by employeeID.
func IsOwner(p *auth.Principal, employeeID uuid.UUID) bool {
	if p == nil || p.EmployeeID == nil {
		return false
	}
	return *p.EmployeeID == employeeID
}

func CanViewSensitive(p *auth.Principal, employeeID uuid.UUID) bool {
	return IsManager(p) || IsOwner(p, employeeID)
}

func CanEditProfile(p *auth.Principal, employeeID uuid.UUID) bool {
	return IsManager(p) || IsOwner(p, employeeID)
}

// RequireAuth fails with 401 when there is no principal.
func RequireAuth(p *auth.Principal) error {
	if p == nil {
		return httperr.Unauthenticated()
	}
	return nil
}

// RequireManager fails with 401 for anonymous callers and 403 otherwise.
func RequireManager(p *auth.Principal) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if !IsManager(p) {
		return httperr.Forbidden()
	}
	return nil
}

func RequireOwner(p *auth.Principal, employeeID uuid.UUID) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if !IsOwner(p, employeeID) {
		return httperr.Forbidden()
	}
	return nil
}

func RequireOwnerOrManager(p *auth.Principal, employeeID uuid.UUID) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if !IsManager(p) && !IsOwner(p, employeeID) {
		return httperr.Forbidden()
	}
	return nil
}

func RequireAnyRole(p *auth.Principal, roles ...auth.Role) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return httperr.Forbidden()
}
