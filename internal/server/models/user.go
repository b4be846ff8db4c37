package models

import (
	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/server/auth"
)

// User is a login account. Email is the unique, case-sensitive login key;
// EmployeeID links the account to its Employee row (nil for accounts
// without one).
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         auth.Role
	EmployeeID   *uuid.UUID
}
