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
	"github.com/newwork/core-api/internal/server/etag"
	"github.com/newwork/core-api/internal/server/httperr"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/repomanager"
)

const maxNameLen = 100

// CreateEmployeeRequest carries the fields for a new employee row.
type CreateEmployeeRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// EmployeeService implements the employee directory operations.
type EmployeeService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewEmployeeService(db *sql.DB, rm repomanager.RepositoryManager) *EmployeeService {
	return &EmployeeService{db: db, rm: rm}
}

func (s *EmployeeService) List(ctx context.Context, caller *auth.Principal) ([]models.Employee, error) {
	if err := access.RequireManager(caller); err != nil {
		return nil, err
	}
	return s.rm.Employees(s.db).List(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID, caller *auth.Principal) (*models.Employee, error) {
	if err := access.RequireOwnerOrManager(caller, id); err != nil {
		return nil, err
	}
	e, err := s.rm.Employees(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, httperr.NotFound()
		}
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest, caller *auth.Principal) (*models.Employee, error) {
	if err := access.RequireManager(caller); err != nil {
		return nil, err
	}
	first, err := cleanName(req.FirstName)
	if err != nil {
		return nil, err
	}
	last, err := cleanName(req.LastName)
	if err != nil {
		return nil, err
	}
	return s.rm.Employees(s.db).Create(ctx, &models.Employee{FirstName: first, LastName: last})
}

// Update applies a partial update guarded by If-Match. A lost race against a
// concurrent writer is reported with the row's current version.
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest, ifMatch string, caller *auth.Principal) (*models.Employee, error) {
	if err := access.RequireOwnerOrManager(caller, id); err != nil {
		return nil, err
	}

	repo := s.rm.Employees(s.db)
	e, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, httperr.NotFound()
		}
		return nil, err
	}
	if err := etag.AssertMatches(e.Version, ifMatch); err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		first, err := cleanName(*req.FirstName)
		if err != nil {
			return nil, err
		}
		e.FirstName = first
	}
	if req.LastName != nil {
		last, err := cleanName(*req.LastName)
		if err != nil {
			return nil, err
		}
		e.LastName = last
	}

	updated, err := repo.Update(ctx, e)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return nil, s.conflict(ctx, id)
		}
		return nil, err
	}
	return updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID, ifMatch string, caller *auth.Principal) error {
	if err := access.RequireManager(caller); err != nil {
		return err
	}

	repo := s.rm.Employees(s.db)
	e, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return httperr.NotFound()
		}
		return err
	}
	if err := etag.AssertMatches(e.Version, ifMatch); err != nil {
		return err
	}

	if err := repo.Delete(ctx, id, e.Version); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return s.conflict(ctx, id)
		}
		return err
	}
	return nil
}

// conflict re-reads the row after a store-level version check failed, so the
// 409 carries the version the row has now. The row may also be gone.
func (s *EmployeeService) conflict(ctx context.Context, id uuid.UUID) error {
	e, err := s.rm.Employees(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return httperr.NotFound()
		}
		return err
	}
	return &httperr.VersionMismatchError{Current: e.Version}
}

func cleanName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNameLen {
		return "", httperr.BadRequest("invalid_request")
	}
	return s, nil
}
