// Package services contains the server-side business logic. Services guard
// every operation with the access policy, run the version/precondition
// engine at mutation boundaries, and raise typed httperr values that the
// HTTP surface translates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/server/httperr"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/repomanager"
)

// UserService authenticates login credentials against the stored bcrypt
// hashes.
type UserService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, rm: rm}
}

var errInvalidCredentials = httperr.New(http.StatusUnauthorized, "Invalid credentials")

// Authenticate locates the user by email and verifies the password. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.rm.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}

	return user, nil
}
