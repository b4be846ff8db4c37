package httpapi

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/models"
)

func TestEmployeeCrudWithETag(t *testing.T) {
	env := newTestEnv(t)
	manager := env.tokenFor(t, auth.RoleManager, nil)

	// create
	resp := env.do(t, request{method: "POST", url: "/api/employees", body: `{"firstName":"Dana","lastName":"Pop"}`, token: manager})
	require.Equal(t, fasthttp.StatusCreated, resp.Response.StatusCode())
	assert.Equal(t, `"0"`, respETag(resp))

	var created models.Employee
	decodeBody(t, resp, &created)
	assert.Equal(t, "/api/employees/"+created.ID.String(), string(resp.Response.Header.Peek("Location")))

	// read
	resp = env.do(t, request{method: "GET", url: "/api/employees/" + created.ID.String(), token: manager})
	require.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())
	assert.Equal(t, `"0"`, respETag(resp))

	// update
	resp = env.do(t, request{method: "PUT", url: "/api/employees/" + created.ID.String(), body: `{"lastName":"Popescu"}`, token: manager, ifMatch: `"0"`})
	require.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())
	assert.Equal(t, `"1"`, respETag(resp))

	var updated models.Employee
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Dana", updated.FirstName)
	assert.Equal(t, "Popescu", updated.LastName)

	// delete
	resp = env.do(t, request{method: "DELETE", url: "/api/employees/" + created.ID.String(), token: manager, ifMatch: `"1"`})
	require.Equal(t, fasthttp.StatusNoContent, resp.Response.StatusCode())

	resp = env.do(t, request{method: "GET", url: "/api/employees/" + created.ID.String(), token: manager})
	assert.Equal(t, fasthttp.StatusNotFound, resp.Response.StatusCode())
}

func TestStaleIfMatch(t *testing.T) {
	env := newTestEnv(t)
	manager := env.tokenFor(t, auth.RoleManager, nil)
	e := env.addEmployee(t, "Bob", "Ionescu", 2)

	resp := env.do(t, request{method: "PUT", url: "/api/employees/" + e.ID.String(), body: `{"firstName":"Rob"}`, token: manager, ifMatch: `"1"`})
	require.Equal(t, fasthttp.StatusConflict, resp.Response.StatusCode())

	var body struct {
		Error          string `json:"error"`
		CurrentVersion int    `json:"currentVersion"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "version_mismatch", body.Error)
	assert.Equal(t, 2, body.CurrentVersion)
}

func TestMissingAndBadIfMatch(t *testing.T) {
	env := newTestEnv(t)
	manager := env.tokenFor(t, auth.RoleManager, nil)
	e := env.addEmployee(t, "Bob", "Ionescu", 0)

	resp := env.do(t, request{method: "PUT", url: "/api/employees/" + e.ID.String(), body: `{"firstName":"Rob"}`, token: manager})
	assert.Equal(t, fasthttp.StatusPreconditionRequired, resp.Response.StatusCode())

	resp = env.do(t, request{method: "PUT", url: "/api/employees/" + e.ID.String(), body: `{"firstName":"Rob"}`, token: manager, ifMatch: "oops"})
	assert.Equal(t, fasthttp.StatusPreconditionFailed, resp.Response.StatusCode())
}

func TestProfileVisibility(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addEmployee(t, "Alice", "Ng", 0)
	bob := env.addEmployee(t, "Bob", "Ionescu", 0)

	salary := 90000.0
	ssn := "123-45-6789"
	address := "1 Main St"
	bio := "Team lead"
	env.rm.prof.rows[alice.ID] = &models.EmployeeProfile{EmployeeID: alice.ID, Bio: &bio, Salary: &salary, SSN: &ssn, Address: &address, Version: 1}
	bobSalary := 70000.0
	env.rm.prof.rows[bob.ID] = &models.EmployeeProfile{EmployeeID: bob.ID, Salary: &bobSalary, Version: 0}

	bobToken := env.tokenFor(t, auth.RoleEmployee, &bob.ID)
	carolID := uuid.New()
	carolToken := env.tokenFor(t, auth.RoleCoworker, &carolID)

	// employee cannot read a peer's profile at all
	resp := env.do(t, request{method: "GET", url: "/api/employees/" + alice.ID.String() + "/profile", token: bobToken})
	assert.Equal(t, fasthttp.StatusForbidden, resp.Response.StatusCode())

	// coworker reads the public projection only
	resp = env.do(t, request{method: "GET", url: "/api/employees/" + alice.ID.String() + "/profile", token: carolToken})
	require.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())

	var fields map[string]json.RawMessage
	decodeBody(t, resp, &fields)
	assert.Contains(t, fields, "bio")
	assert.NotContains(t, fields, "salary")
	assert.NotContains(t, fields, "ssnMasked")
	assert.NotContains(t, fields, "address")
	assert.NotContains(t, fields, "ssn")

	// owner sees the sensitive fields
	resp = env.do(t, request{method: "GET", url: "/api/employees/" + bob.ID.String() + "/profile", token: bobToken})
	require.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())
	decodeBody(t, resp, &fields)
	assert.Contains(t, fields, "salary")
	assert.NotContains(t, fields, "ssn")
}

func TestFeedbackPolishing(t *testing.T) {
	env := newTestEnv(t)
	env.polish.out = "Needs improvement."
	bob := env.addEmployee(t, "Bob", "Ionescu", 0)
	carol := env.addEmployee(t, "Carol", "Matei", 0)

	carolToken := env.tokenFor(t, auth.RoleCoworker, &carol.ID)
	bobToken := env.tokenFor(t, auth.RoleEmployee, &bob.ID)

	resp := env.do(t, request{method: "POST", url: "/api/employees/" + bob.ID.String() + "/feedback", body: `{"text":"needs improvemnt"}`, token: carolToken})
	require.Equal(t, fasthttp.StatusCreated, resp.Response.StatusCode())

	var created feedbackView
	decodeBody(t, resp, &created)
	assert.Equal(t, "needs improvemnt", created.TextOriginal)
	assert.Equal(t, "Needs improvement.", created.TextPolished)
	assert.Equal(t, "stub/grammar-model", created.PolishModel)
	assert.Equal(t, carol.ID, created.AuthorEmployeeID)
	assert.Equal(t, 1, env.polish.calls)

	// the target employee reads their own feedback
	resp = env.do(t, request{method: "GET", url: "/api/employees/" + bob.ID.String() + "/feedback", token: bobToken})
	require.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())

	var list []feedbackView
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestAbsenceWorkflow(t *testing.T) {
	env := newTestEnv(t)
	bob := env.addEmployee(t, "Bob", "Ionescu", 0)
	bobToken := env.tokenFor(t, auth.RoleEmployee, &bob.ID)
	manager := env.tokenFor(t, auth.RoleManager, nil)

	resp := env.do(t, request{method: "POST", url: "/api/employees/" + bob.ID.String() + "/absences",
		body: `{"startDate":"2025-10-20","endDate":"2025-10-24","type":"VACATION","reason":"Trip"}`, token: bobToken})
	require.Equal(t, fasthttp.StatusCreated, resp.Response.StatusCode())
	assert.Equal(t, `"0"`, respETag(resp))

	var created absenceView
	decodeBody(t, resp, &created)
	assert.Equal(t, models.AbsencePending, created.Status)
	assert.Equal(t, "2025-10-20", created.StartDate.String())

	resp = env.do(t, request{method: "PUT", url: "/api/absences/" + created.ID.String() + "/approve",
		body: `{"comment":"ok"}`, token: manager, ifMatch: `"0"`})
	require.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())
	assert.Equal(t, `"1"`, respETag(resp))

	var approved absenceView
	decodeBody(t, resp, &approved)
	assert.Equal(t, models.AbsenceApproved, approved.Status)
	require.NotNil(t, approved.ManagerComment)
	assert.Equal(t, "ok", *approved.ManagerComment)

	// a second transition is rejected
	resp = env.do(t, request{method: "PUT", url: "/api/absences/" + created.ID.String() + "/approve", token: manager, ifMatch: `"1"`})
	require.Equal(t, fasthttp.StatusConflict, resp.Response.StatusCode())

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "not_pending", body.Error)
}

func TestAuthSurface(t *testing.T) {
	env := newTestEnv(t)

	t.Run("healthz is public", func(t *testing.T) {
		resp := env.do(t, request{method: "GET", url: "/healthz"})
		assert.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())
	})

	t.Run("api without token", func(t *testing.T) {
		resp := env.do(t, request{method: "GET", url: "/api/employees"})
		assert.Equal(t, fasthttp.StatusUnauthorized, resp.Response.StatusCode())
	})

	t.Run("garbage token is anonymous, not an error", func(t *testing.T) {
		resp := env.do(t, request{method: "GET", url: "/api/employees", token: "not-a-jwt"})
		assert.Equal(t, fasthttp.StatusUnauthorized, resp.Response.StatusCode())
	})

	t.Run("invalid uuid in path", func(t *testing.T) {
		manager := env.tokenFor(t, auth.RoleManager, nil)
		resp := env.do(t, request{method: "GET", url: "/api/employees/not-a-uuid", token: manager})
		assert.Equal(t, fasthttp.StatusBadRequest, resp.Response.StatusCode())
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	bob := env.addEmployee(t, "Bob", "Ionescu", 0)

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)
	env.rm.usrs.rows["bob@newwork.test"] = &models.User{
		ID:           uuid.New(),
		Email:        "bob@newwork.test",
		PasswordHash: string(hash),
		Role:         auth.RoleEmployee,
		EmployeeID:   &bob.ID,
	}

	t.Run("bad credentials", func(t *testing.T) {
		resp := env.do(t, request{method: "POST", url: "/auth/login", body: `{"email":"bob@newwork.test","password":"nope"}`})
		require.Equal(t, fasthttp.StatusUnauthorized, resp.Response.StatusCode())

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "Invalid credentials", body.Error)
	})

	t.Run("token from login round-trips through the middleware", func(t *testing.T) {
		resp := env.do(t, request{method: "POST", url: "/auth/login", body: `{"email":"bob@newwork.test","password":"Passw0rd!"}`})
		require.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())

		var body loginResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "EMPLOYEE", body.Role)
		require.NotNil(t, body.EmployeeID)
		assert.Equal(t, bob.ID, *body.EmployeeID)
		require.NotEmpty(t, body.Token)

		resp = env.do(t, request{method: "GET", url: "/api/employees/" + bob.ID.String(), token: body.Token})
		assert.Equal(t, fasthttp.StatusOK, resp.Response.StatusCode())
	})
}
