package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/logging"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/absences"
	"github.com/newwork/core-api/internal/server/repositories/employees"
	"github.com/newwork/core-api/internal/server/repositories/feedback"
	"github.com/newwork/core-api/internal/server/repositories/profiles"
	"github.com/newwork/core-api/internal/server/repositories/users"
	"github.com/newwork/core-api/internal/server/services"
)

// In-memory stores implementing the repository contracts, including the
// store-level conditional version checks the scenarios depend on.

type memEmployees struct{ rows map[uuid.UUID]*models.Employee }

func (r *memEmployees) List(ctx context.Context) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, *e)
	}
	return out, nil
}

func (r *memEmployees) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memEmployees) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	cp := *e
	cp.ID = uuid.New()
	cp.UpdatedAt = time.Now()
	r.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memEmployees) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	cur, ok := r.rows[e.ID]
	if !ok || cur.Version != e.Version {
		return nil, common.ErrVersionConflict
	}
	cur.FirstName, cur.LastName = e.FirstName, e.LastName
	cur.Version++
	cur.UpdatedAt = time.Now()
	cp := *cur
	return &cp, nil
}

func (r *memEmployees) Delete(ctx context.Context, id uuid.UUID, version int) error {
	cur, ok := r.rows[id]
	if !ok || cur.Version != version {
		return common.ErrVersionConflict
	}
	delete(r.rows, id)
	return nil
}

type memProfiles struct{ rows map[uuid.UUID]*models.EmployeeProfile }

func (r *memProfiles) FindByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*models.EmployeeProfile, error) {
	p, ok := r.rows[employeeID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfiles) Create(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error) {
	cp := *p
	cp.Version = 0
	r.rows[cp.EmployeeID] = &cp
	out := cp
	return &out, nil
}

func (r *memProfiles) Update(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error) {
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

type memUsers struct{ rows map[string]*models.User }

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	cp := *u
	r.rows[cp.Email] = &cp
	out := cp
	return &out, nil
}

type memFeedback struct{ rows []models.Feedback }

func (r *memFeedback) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.Feedback, error) {
	var out []models.Feedback
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].EmployeeID == employeeID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *memFeedback) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	cp := *f
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	r.rows = append(r.rows, cp)
	out := cp
	return &out, nil
}

type memAbsences struct{ rows map[uuid.UUID]*models.AbsenceRequest }

func (r *memAbsences) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.AbsenceRequest, error) {
	var out []models.AbsenceRequest
	for _, a := range r.rows {
		if a.EmployeeID == employeeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAbsences) FindByID(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAbsences) Create(ctx context.Context, a *models.AbsenceRequest) (*models.AbsenceRequest, error) {
	cp := *a
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memAbsences) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AbsenceStatus, note *string, version int) (*models.AbsenceRequest, error) {
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

type memRepoManager struct {
	emps *memEmployees
	prof *memProfiles
	usrs *memUsers
	fb   *memFeedback
	abs  *memAbsences
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		emps: &memEmployees{rows: map[uuid.UUID]*models.Employee{}},
		prof: &memProfiles{rows: map[uuid.UUID]*models.EmployeeProfile{}},
		usrs: &memUsers{rows: map[string]*models.User{}},
		fb:   &memFeedback{},
		abs:  &memAbsences{rows: map[uuid.UUID]*models.AbsenceRequest{}},
	}
}

func (m *memRepoManager) Employees(db dbx.DBTX) employees.Repository { return m.emps }
func (m *memRepoManager) Profiles(db dbx.DBTX) profiles.Repository   { return m.prof }
func (m *memRepoManager) Users(db dbx.DBTX) users.Repository         { return m.usrs }
func (m *memRepoManager) Feedback(db dbx.DBTX) feedback.Repository   { return m.fb }
func (m *memRepoManager) Absences(db dbx.DBTX) absences.Repository   { return m.abs }

func (m *memRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

type stubPolisher struct {
	out   string
	calls int
}

func (p *stubPolisher) Polish(ctx context.Context, text string) (string, error) {
	p.calls++
	return p.out, nil
}

func (p *stubPolisher) ModelID() string { return "stub/grammar-model" }

type testEnv struct {
	svc    *Service
	rm     *memRepoManager
	tokens *auth.TokenManager
	polish *stubPolisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rm := newMemRepoManager()
	tokens := auth.NewTokenManager([]byte("test-secret"), "newwork", time.Hour)
	polish := &stubPolisher{out: "polished"}
	log := logging.NewZerologLogger(zerolog.Nop())

	svc := NewService(ServiceDeps{
		Addr:      ":0",
		Tokens:    tokens,
		Log:       log,
		Users:     services.NewUserService(nil, rm),
		Employees: services.NewEmployeeService(nil, rm),
		Profiles:  services.NewProfileService(nil, rm),
		Feedback:  services.NewFeedbackService(nil, rm, polish),
		Absences:  services.NewAbsenceService(nil, rm),
	})

	return &testEnv{svc: svc, rm: rm, tokens: tokens, polish: polish}
}

func (e *testEnv) addEmployee(t *testing.T, first, last string, version int) models.Employee {
	t.Helper()
	emp := models.Employee{ID: uuid.New(), FirstName: first, LastName: last, Version: version, UpdatedAt: time.Now()}
	e.rm.emps.rows[emp.ID] = &emp
	return emp
}

func (e *testEnv) tokenFor(t *testing.T, role auth.Role, employeeID *uuid.UUID) string {
	t.Helper()
	token, err := e.tokens.Sign(uuid.New(), role, employeeID)
	require.NoError(t, err)
	return token
}

type request struct {
	method  string
	url     string
	body    string
	token   string
	ifMatch string
}

func (e *testEnv) do(t *testing.T, r request) *fasthttp.RequestCtx {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(r.method)
	req.SetRequestURI(r.url)
	if r.body != "" {
		req.SetBodyString(r.body)
		req.Header.SetContentType("application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.ifMatch != "" {
		req.Header.Set("If-Match", r.ifMatch)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	e.svc.Handler()(&ctx)
	return &ctx
}

func decodeBody(t *testing.T, ctx *fasthttp.RequestCtx, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), dst))
}

func respETag(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Response.Header.Peek("ETag"))
}
