package users

import (
	"context"

	"github.com/newwork/core-api/internal/server/models"
)

type Repository interface {
	// FindByEmail looks up the login account by its exact (case-sensitive)
	// email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
}
