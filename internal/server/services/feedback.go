package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/server/access"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/httperr"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/repomanager"
)

// Polisher rewrites feedback text through the external inference model.
type Polisher interface {
	Polish(ctx context.Context, text string) (string, error)
	ModelID() string
}

type CreateFeedbackRequest struct {
	Text string `json:"text"`
}

// FeedbackService implements the append-only peer feedback operations.
type FeedbackService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	polisher Polisher
}

func NewFeedbackService(db *sql.DB, rm repomanager.RepositoryManager, polisher Polisher) *FeedbackService {
	return &FeedbackService{db: db, rm: rm, polisher: polisher}
}

func (s *FeedbackService) List(ctx context.Context, employeeID uuid.UUID, caller *auth.Principal) ([]models.Feedback, error) {
	if err := access.RequireOwnerOrManager(caller, employeeID); err != nil {
		return nil, err
	}
	return s.rm.Feedback(s.db).ListByEmployee(ctx, employeeID)
}

// Create polishes the text through the external model and stores both the
// original and the polished variant. The polish call happens before the
// insert; its failure fails the whole request.
func (s *FeedbackService) Create(ctx context.Context, employeeID uuid.UUID, req CreateFeedbackRequest, caller *auth.Principal) (*models.Feedback, error) {
	if err := access.RequireAnyRole(caller, auth.RoleCoworker, auth.RoleManager); err != nil {
		return nil, err
	}
	if caller.EmployeeID == nil {
		return nil, httperr.Forbidden()
	}

	if _, err := s.rm.Employees(s.db).FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, httperr.NotFound()
		}
		return nil, err
	}

	original := strings.TrimSpace(req.Text)
	if original == "" {
		return nil, httperr.BadRequest("text_required")
	}

	polished, err := s.polisher.Polish(ctx, original)
	if err != nil {
		return nil, err
	}

	return s.rm.Feedback(s.db).Create(ctx, &models.Feedback{
		EmployeeID:       employeeID,
		AuthorEmployeeID: *caller.EmployeeID,
		TextOriginal:     original,
		TextPolished:     polished,
		PolishModel:      s.polisher.ModelID(),
	})
}
