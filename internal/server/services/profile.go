package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/server/access"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/etag"
	"github.com/newwork/core-api/internal/server/httperr"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/repomanager"
)

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Bio          *string  `json:"bio"`
	SkillsJSON   *string  `json:"skillsJson"`
	Salary       *float64 `json:"salary"`
	SSN          *string  `json:"ssn"`
	Address      *string  `json:"address"`
	ContactEmail *string  `json:"contactEmail"`
}

// ProfileView is the caller-dependent projection of a profile. Sensitive
// fields (salary, ssnMasked, address) are only populated for viewers with
// CanViewSensitive; the clear SSN is never part of the view.
type ProfileView struct {
	EmployeeID   uuid.UUID `json:"employeeId"`
	Bio          *string   `json:"bio"`
	SkillsJSON   *string   `json:"skillsJson"`
	ContactEmail *string   `json:"contactEmail"`
	Salary       *float64  `json:"salary,omitempty"`
	SSNMasked    *string   `json:"ssnMasked,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Version      int       `json:"version"`
}

// ProfileService reads and writes the sensitive profile extension.
type ProfileService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, rm repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, rm: rm}
}

// Get returns the profile projected for the caller. An employee that never
// had a profile update yet projects as an empty view at version 0, so the
// returned version is always usable as If-Match for the first write.
func (s *ProfileService) Get(ctx context.Context, employeeID uuid.UUID, caller *auth.Principal) (*ProfileView, error) {
	if err := access.RequireAuth(caller); err != nil {
		return nil, err
	}
	if caller.Role == auth.RoleEmployee && !access.IsOwner(caller, employeeID) {
		return nil, httperr.Forbidden()
	}

	if _, err := s.rm.Employees(s.db).FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, httperr.NotFound()
		}
		return nil, err
	}

	pr, err := s.rm.Profiles(s.db).FindByEmployeeID(ctx, employeeID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return projectProfile(employeeID, pr, access.CanViewSensitive(caller, employeeID)), nil
}

// Update applies a partial update guarded by If-Match. The profile row is
// created lazily on the first update: the client sends If-Match "0" against
// the empty view. Create-or-update runs in one transaction.
func (s *ProfileService) Update(ctx context.Context, employeeID uuid.UUID, req UpdateProfileRequest, ifMatch string, caller *auth.Principal) (*ProfileView, error) {
	if err := access.RequireAuth(caller); err != nil {
		return nil, err
	}
	if !access.CanEditProfile(caller, employeeID) {
		return nil, httperr.Forbidden()
	}

	var view *ProfileView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.rm.Employees(tx).FindByID(ctx, employeeID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return httperr.NotFound()
			}
			return err
		}

		repo := s.rm.Profiles(tx)
		pr, err := repo.FindByEmployeeID(ctx, employeeID)
		fresh := false
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				return err
			}
			pr = &models.EmployeeProfile{EmployeeID: employeeID}
			fresh = true
		}
		if err := etag.AssertMatches(pr.Version, ifMatch); err != nil {
			return err
		}

		applyProfileUpdate(pr, req)

		var saved *models.EmployeeProfile
		if fresh {
			saved, err = repo.Create(ctx, pr)
		} else {
			saved, err = repo.Update(ctx, pr)
		}
		if err != nil {
			return err
		}

		// The writer is always owner or manager, so the full view applies.
		view = projectProfile(employeeID, saved, true)
		return nil
	})
	if err != nil {
		// re-read outside the tx: a failed INSERT leaves it aborted
		if errors.Is(err, common.ErrVersionConflict) {
			return nil, s.conflict(ctx, employeeID)
		}
		return nil, err
	}
	return view, nil
}

func (s *ProfileService) conflict(ctx context.Context, employeeID uuid.UUID) error {
	pr, err := s.rm.Profiles(s.db).FindByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return httperr.NotFound()
		}
		return err
	}
	return &httperr.VersionMismatchError{Current: pr.Version}
}

func applyProfileUpdate(pr *models.EmployeeProfile, req UpdateProfileRequest) {
	if req.Bio != nil {
		pr.Bio = req.Bio
	}
	if req.SkillsJSON != nil {
		pr.SkillsJSON = req.SkillsJSON
	}
	if req.Salary != nil {
		pr.Salary = req.Salary
	}
	if req.SSN != nil {
		pr.SSN = req.SSN
	}
	if req.Address != nil {
		pr.Address = req.Address
	}
	if req.ContactEmail != nil {
		pr.ContactEmail = req.ContactEmail
	}
}

func projectProfile(employeeID uuid.UUID, pr *models.EmployeeProfile, sensitive bool) *ProfileView {
	view := &ProfileView{EmployeeID: employeeID}
	if pr == nil {
		return view
	}
	view.Bio = pr.Bio
	view.SkillsJSON = pr.SkillsJSON
	view.ContactEmail = pr.ContactEmail
	view.Version = pr.Version
	if sensitive {
		view.Salary = pr.Salary
		view.Address = pr.Address
		if pr.SSN != nil {
			masked := maskSSN(*pr.SSN)
			view.SSNMasked = &masked
		}
	}
	return view
}

// maskSSN keeps only the last four characters: "123-45-6789" -> "****6789".
func maskSSN(ssn string) string {
	if len(ssn) < 4 {
		return "****"
	}
	return "****" + ssn[len(ssn)-4:]
}
