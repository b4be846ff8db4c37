package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/server/models"
)

type Repository interface {
	// ListByEmployee returns feedback for the target employee, newest first.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.Feedback, error)
	Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
}
