// Package httpapi is the HTTP surface: routing, bearer extraction,
// request/response serialization, and the single error translator. Handlers
// never decide status codes for failures; they pass typed errors to
// writeError.
package httpapi

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/logging"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/services"
)

type ServiceDeps struct {
	Addr string

	Tokens *auth.TokenManager
	Log    logging.Logger

	Users     *services.UserService
	Employees *services.EmployeeService
	Profiles  *services.ProfileService
	Feedback  *services.FeedbackService
	Absences  *services.AbsenceService
}

// Service owns the router and the fasthttp server.
type Service struct {
	r      *router.Router
	server *fasthttp.Server
	addr   string
	log    logging.Logger

	tokens    *auth.TokenManager
	users     *services.UserService
	employees *services.EmployeeService
	profiles  *services.ProfileService
	feedback  *services.FeedbackService
	absences  *services.AbsenceService
}

func NewService(d ServiceDeps) *Service {
	s := &Service{
		r:         router.New(),
		addr:      d.Addr,
		log:       d.Log,
		tokens:    d.Tokens,
		users:     d.Users,
		employees: d.Employees,
		profiles:  d.Profiles,
		feedback:  d.Feedback,
		absences:  d.Absences,
	}

	s.mountRoutes()

	s.server = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "core-api",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       60 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}

	return s
}

// Handler is the full middleware chain; exposed for surface tests.
func (s *Service) Handler() fasthttp.RequestHandler {
	return s.Recovery(s.RequestLogging(CORS(s.Authenticate(s.r.Handler))))
}

func (s *Service) Start(ctx context.Context) error {
	s.log.Info(ctx, "starting http server", "addr", s.addr)

	emergencyShutdown := make(chan error, 1)
	go func() {
		emergencyShutdown <- s.server.ListenAndServe(s.addr)
	}()

	select {
	case <-ctx.Done():
		return s.server.Shutdown()
	case err := <-emergencyShutdown:
		return err
	}
}

func (s *Service) mountRoutes() {
	s.r.POST("/auth/login", s.login)

	s.r.GET("/api/employees", s.listEmployees)
	s.r.POST("/api/employees", s.createEmployee)
	s.r.GET("/api/employees/{id}", s.getEmployee)
	s.r.PUT("/api/employees/{id}", s.updateEmployee)
	s.r.DELETE("/api/employees/{id}", s.deleteEmployee)

	s.r.GET("/api/employees/{id}/profile", s.getProfile)
	s.r.PUT("/api/employees/{id}/profile", s.updateProfile)

	s.r.GET("/api/employees/{id}/feedback", s.listFeedback)
	s.r.POST("/api/employees/{id}/feedback", s.createFeedback)

	s.r.GET("/api/employees/{id}/absences", s.listAbsences)
	s.r.POST("/api/employees/{id}/absences", s.createAbsence)
	s.r.GET("/api/absences/{id}", s.getAbsence)
	s.r.PUT("/api/absences/{id}/approve", s.approveAbsence)
	s.r.PUT("/api/absences/{id}/reject", s.rejectAbsence)
	s.r.PUT("/api/absences/{id}/cancel", s.cancelAbsence)

	s.r.GET("/healthz", s.health)
}
