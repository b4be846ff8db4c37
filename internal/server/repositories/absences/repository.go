package absences

import (
	"context"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/server/models"
)

type Repository interface {
	// ListByEmployee returns the employee's absences, latest start date first.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.AbsenceRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error)
	Create(ctx context.Context, a *models.AbsenceRequest) (*models.AbsenceRequest, error)
	// UpdateStatus transitions the row to the given status (setting the
	// decision note) iff it is still at the expected version, and bumps the
	// version. common.ErrVersionConflict when the row moved.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AbsenceStatus, note *string, version int) (*models.AbsenceRequest, error)
}
