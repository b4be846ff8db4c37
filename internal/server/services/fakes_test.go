package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/absences"
	"github.com/newwork/core-api/internal/server/repositories/employees"
	"github.com/newwork/core-api/internal/server/repositories/feedback"
	"github.com/newwork/core-api/internal/server/repositories/profiles"
	"github.com/newwork/core-api/internal/server/repositories/users"
)

// In-memory repositories mirroring the store-level contract of the Postgres
// implementations, including the conditional version checks.

type fakeEmployeeRepo struct {
	rows map[uuid.UUID]*models.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{rows: make(map[uuid.UUID]*models.Employee)}
}

func (r *fakeEmployeeRepo) put(e models.Employee) models.Employee {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.rows[e.ID] = &e
	return e
}

func (r *fakeEmployeeRepo) List(ctx context.Context) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	created := r.put(models.Employee{FirstName: e.FirstName, LastName: e.LastName, UpdatedAt: time.Now()})
	return &created, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	cur, ok := r.rows[e.ID]
	if !ok || cur.Version != e.Version {
		return nil, common.ErrVersionConflict
	}
	cur.FirstName = e.FirstName
	cur.LastName = e.LastName
	cur.Version++
	cur.UpdatedAt = time.Now()
	cp := *cur
	return &cp, nil
}

func (r *fakeEmployeeRepo) Delete(ctx context.Context, id uuid.UUID, version int) error {
	cur, ok := r.rows[id]
	if !ok || cur.Version != version {
		return common.ErrVersionConflict
	}
	delete(r.rows, id)
	return nil
}

type fakeProfileRepo struct {
	rows map[uuid.UUID]*models.EmployeeProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: make(map[uuid.UUID]*models.EmployeeProfile)}
}

func (r *fakeProfileRepo) FindByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*models.EmployeeProfile, error) {
	p, ok := r.rows[employeeID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error) {
	if _, ok := r.rows[p.EmployeeID]; ok {
		return nil, common.ErrVersionConflict
	}
	cp := *p
	cp.Version = 0
	r.rows[cp.EmployeeID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error) {
	cur, ok := r.rows[p.EmployeeID]
	if !ok || cur.Version != p.Version {
		return nil, common.ErrVersionConflict
	}
	cp := *p
	cp.Version = cur.Version + 1
	r.rows[cp.EmployeeID] = &cp
	out := cp
	return &out, nil
}

type fakeUserRepo struct {
	rows map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	cp := *u
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	r.rows[cp.Email] = &cp
	out := cp
	return &out, nil
}

type fakeFeedbackRepo struct {
	rows []models.Feedback
}

func (r *fakeFeedbackRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, f := range r.rows {
		if f.EmployeeID == employeeID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	cp := *f
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	r.rows = append(r.rows, cp)
	out := cp
	return &out, nil
}

type fakeAbsenceRepo struct {
	rows map[uuid.UUID]*models.AbsenceRequest
}

func newFakeAbsenceRepo() *fakeAbsenceRepo {
	return &fakeAbsenceRepo{rows: make(map[uuid.UUID]*models.AbsenceRequest)}
}

func (r *fakeAbsenceRepo) put(a models.AbsenceRequest) models.AbsenceRequest {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.rows[a.ID] = &a
	return a
}

func (r *fakeAbsenceRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.AbsenceRequest, error) {
	var out []models.AbsenceRequest
	for _, a := range r.rows {
		if a.EmployeeID == employeeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAbsenceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAbsenceRepo) Create(ctx context.Context, a *models.AbsenceRequest) (*models.AbsenceRequest, error) {
	now := time.Now()
	created := r.put(models.AbsenceRequest{
		EmployeeID: a.EmployeeID,
		Type:       a.Type,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
		Reason:     a.Reason,
		Status:     a.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	return &created, nil
}

func (r *fakeAbsenceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AbsenceStatus, note *string, version int) (*models.AbsenceRequest, error) {
	cur, ok := r.rows[id]
	if !ok || cur.Version != version {
		return nil, common.ErrVersionConflict
	}
	cur.Status = status
	cur.Note = note
	cur.Version++
	cur.UpdatedAt = time.Now()
	cp := *cur
	return &cp, nil
}

type fakeRepoManager struct {
	emps *fakeEmployeeRepo
	prof *fakeProfileRepo
	usrs *fakeUserRepo
	fb   *fakeFeedbackRepo
	abs  *fakeAbsenceRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		emps: newFakeEmployeeRepo(),
		prof: newFakeProfileRepo(),
		usrs: newFakeUserRepo(),
		fb:   &fakeFeedbackRepo{},
		abs:  newFakeAbsenceRepo(),
	}
}

func (m *fakeRepoManager) Employees(db dbx.DBTX) employees.Repository { return m.emps }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profiles.Repository   { return m.prof }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.usrs }
func (m *fakeRepoManager) Feedback(db dbx.DBTX) feedback.Repository   { return m.fb }
func (m *fakeRepoManager) Absences(db dbx.DBTX) absences.Repository   { return m.abs }

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func managerPrincipal(employeeID *uuid.UUID) *auth.Principal {
	return &auth.Principal{UserID: uuid.New(), Role: auth.RoleManager, EmployeeID: employeeID}
}

func employeePrincipal(employeeID uuid.UUID) *auth.Principal {
	return &auth.Principal{UserID: uuid.New(), Role: auth.RoleEmployee, EmployeeID: &employeeID}
}

func coworkerPrincipal(employeeID uuid.UUID) *auth.Principal {
	return &auth.Principal{UserID: uuid.New(), Role: auth.RoleCoworker, EmployeeID: &employeeID}
}
