package models

import "github.com/google/uuid"

// EmployeeProfile is the 1:1 extension of an Employee row, created lazily on
// first update. Salary, SSN and Address are the sensitive fields; they are
// projected out for callers without CanViewSensitive, and SSN never leaves
// the service unmasked.
type EmployeeProfile struct {
	EmployeeID   uuid.UUID
	Bio          *string
	SkillsJSON   *string
	Salary       *float64
	SSN          *string
	Address      *string
	ContactEmail *string
	Version      int
}
