package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/server/access"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/etag"
	"github.com/newwork/core-api/internal/server/httperr"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/repomanager"
)

type CreateAbsenceRequest struct {
	Type      *string      `json:"type"`
	StartDate *models.Date `json:"startDate"`
	EndDate   *models.Date `json:"endDate"`
	Reason    *string      `json:"reason"`
}

// AbsenceDecisionRequest carries the optional comment attached to an
// approve, reject or cancel transition.
type AbsenceDecisionRequest struct {
	Comment *string `json:"comment"`
}

// AbsenceService implements the absence request workflow. Rows transition
// out of PENDING at most once; every transition is If-Match guarded.
type AbsenceService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewAbsenceService(db *sql.DB, rm repomanager.RepositoryManager) *AbsenceService {
	return &AbsenceService{db: db, rm: rm}
}

func (s *AbsenceService) ListForEmployee(ctx context.Context, employeeID uuid.UUID, caller *auth.Principal) ([]models.AbsenceRequest, error) {
	if err := access.RequireOwnerOrManager(caller, employeeID); err != nil {
		return nil, err
	}
	return s.rm.Absences(s.db).ListByEmployee(ctx, employeeID)
}

// Create files a new PENDING request. Only the employee themselves can file.
func (s *AbsenceService) Create(ctx context.Context, employeeID uuid.UUID, req CreateAbsenceRequest, caller *auth.Principal) (*models.AbsenceRequest, error) {
	if err := access.RequireOwner(caller, employeeID); err != nil {
		return nil, err
	}

	if req.Type == nil || req.StartDate == nil || req.EndDate == nil {
		return nil, httperr.BadRequest("invalid_request")
	}
	absType, ok := models.ParseAbsenceType(*req.Type)
	if !ok {
		return nil, httperr.BadRequest("invalid_request")
	}
	if req.StartDate.After(*req.EndDate) {
		return nil, httperr.BadRequest("date_range")
	}

	if _, err := s.rm.Employees(s.db).FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, httperr.NotFound()
		}
		return nil, err
	}

	return s.rm.Absences(s.db).Create(ctx, &models.AbsenceRequest{
		EmployeeID: employeeID,
		Type:       absType,
		StartDate:  *req.StartDate,
		EndDate:    *req.EndDate,
		Reason:     req.Reason,
		Status:     models.AbsencePending,
	})
}

func (s *AbsenceService) Get(ctx context.Context, id uuid.UUID, caller *auth.Principal) (*models.AbsenceRequest, error) {
	if err := access.RequireAuth(caller); err != nil {
		return nil, err
	}
	a, err := s.rm.Absences(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, httperr.NotFound()
		}
		return nil, err
	}
	if err := access.RequireOwnerOrManager(caller, a.EmployeeID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AbsenceService) Approve(ctx context.Context, id uuid.UUID, req AbsenceDecisionRequest, ifMatch string, caller *auth.Principal) (*models.AbsenceRequest, error) {
	if err := access.RequireManager(caller); err != nil {
		return nil, err
	}
	if _, err := s.mustBePendingAndMatch(ctx, id, ifMatch); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, models.AbsenceApproved, req.Comment, ifMatch)
}

func (s *AbsenceService) Reject(ctx context.Context, id uuid.UUID, req AbsenceDecisionRequest, ifMatch string, caller *auth.Principal) (*models.AbsenceRequest, error) {
	if err := access.RequireManager(caller); err != nil {
		return nil, err
	}
	if _, err := s.mustBePendingAndMatch(ctx, id, ifMatch); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, models.AbsenceRejected, req.Comment, ifMatch)
}

// Cancel is reserved for the employee the request belongs to. Ownership is
// checked against the stored row, after the precondition checks.
func (s *AbsenceService) Cancel(ctx context.Context, id uuid.UUID, req AbsenceDecisionRequest, ifMatch string, caller *auth.Principal) (*models.AbsenceRequest, error) {
	if err := access.RequireAuth(caller); err != nil {
		return nil, err
	}
	a, err := s.mustBePendingAndMatch(ctx, id, ifMatch)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(caller, a.EmployeeID); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, models.AbsenceCancelled, req.Comment, ifMatch)
}

// mustBePendingAndMatch loads the row and runs the shared transition
// preconditions: the row exists, the If-Match version matches, and the row
// is still PENDING. Check order is fixed: 404, then 428/412/409
// version_mismatch, then 409 not_pending.
func (s *AbsenceService) mustBePendingAndMatch(ctx context.Context, id uuid.UUID, ifMatch string) (*models.AbsenceRequest, error) {
	a, err := s.rm.Absences(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, httperr.NotFound()
		}
		return nil, err
	}
	if err := etag.AssertMatches(a.Version, ifMatch); err != nil {
		return nil, err
	}
	if a.Status != models.AbsencePending {
		return nil, httperr.NotPending()
	}
	return a, nil
}

func (s *AbsenceService) transition(ctx context.Context, id uuid.UUID, status models.AbsenceStatus, note *string, ifMatch string) (*models.AbsenceRequest, error) {
	expected, err := etag.RequireAndParse(ifMatch)
	if err != nil {
		return nil, err
	}
	updated, err := s.rm.Absences(s.db).UpdateStatus(ctx, id, status, note, expected)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return nil, s.conflict(ctx, id)
		}
		return nil, err
	}
	return updated, nil
}

func (s *AbsenceService) conflict(ctx context.Context, id uuid.UUID) error {
	a, err := s.rm.Absences(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return httperr.NotFound()
		}
		return err
	}
	return &httperr.VersionMismatchError{Current: a.Version}
}
