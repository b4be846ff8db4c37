package employees

import (
	"context"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	Create(ctx context.Context, e *models.Employee) (*models.Employee, error)
	// Update writes first/last name against the expected version and bumps
	// the version by one. common.ErrVersionConflict when the row moved.
	Update(ctx context.Context, e *models.Employee) (*models.Employee, error)
	// Delete removes the row iff it is still at the expected version.
	Delete(ctx context.Context, id uuid.UUID, version int) error
}
