package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/server/models"
)

type Repository interface {
	FindByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*models.EmployeeProfile, error)
	// Create inserts the lazily-constructed profile row at version 0.
	Create(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error)
	// Update writes all fields against the expected version and bumps it.
	Update(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error)
}
