package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/services"
)

type absenceView struct {
	ID             uuid.UUID            `json:"id"`
	EmployeeID     uuid.UUID            `json:"employeeId"`
	Type           models.AbsenceType   `json:"type"`
	StartDate      models.Date          `json:"startDate"`
	EndDate        models.Date          `json:"endDate"`
	Reason         *string              `json:"reason"`
	Status         models.AbsenceStatus `json:"status"`
	ManagerComment *string              `json:"managerComment"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Version        int                  `json:"version"`
}

func toAbsenceView(a models.AbsenceRequest) absenceView {
	return absenceView{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		Type:           a.Type,
		StartDate:      a.StartDate,
		EndDate:        a.EndDate,
		Reason:         a.Reason,
		Status:         a.Status,
		ManagerComment: a.Note,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Version:        a.Version,
	}
}

func (s *Service) listAbsences(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	rows, err := s.absences.ListForEmployee(ctx, id, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	views := make([]absenceView, 0, len(rows))
	for _, a := range rows {
		views = append(views, toAbsenceView(a))
	}
	writeJSON(ctx, fasthttp.StatusOK, views)
}

func (s *Service) createAbsence(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	var req services.CreateAbsenceRequest
	if err := readJSON(ctx, &req); err != nil {
		s.writeError(ctx, err)
		return
	}

	a, err := s.absences.Create(ctx, id, req, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.Response.Header.Set("Location", "/api/absences/"+a.ID.String())
	writeVersioned(ctx, fasthttp.StatusCreated, a.Version, toAbsenceView(*a))
}

func (s *Service) getAbsence(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	a, err := s.absences.Get(ctx, id, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeVersioned(ctx, fasthttp.StatusOK, a.Version, toAbsenceView(*a))
}

// decisionRequest reads the optional {comment} body; an empty body is fine.
func decisionRequest(ctx *fasthttp.RequestCtx) (services.AbsenceDecisionRequest, error) {
	var req services.AbsenceDecisionRequest
	if len(ctx.PostBody()) == 0 {
		return req, nil
	}
	if err := readJSON(ctx, &req); err != nil {
		return req, err
	}
	return req, nil
}

type absenceTransition func(*fasthttp.RequestCtx, uuid.UUID, services.AbsenceDecisionRequest) (*models.AbsenceRequest, error)

func (s *Service) transitionAbsence(ctx *fasthttp.RequestCtx, apply absenceTransition) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	req, err := decisionRequest(ctx)
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	a, err := apply(ctx, id, req)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeVersioned(ctx, fasthttp.StatusOK, a.Version, toAbsenceView(*a))
}

func (s *Service) approveAbsence(ctx *fasthttp.RequestCtx) {
	s.transitionAbsence(ctx, func(ctx *fasthttp.RequestCtx, id uuid.UUID, req services.AbsenceDecisionRequest) (*models.AbsenceRequest, error) {
		return s.absences.Approve(ctx, id, req, ifMatch(ctx), principal(ctx))
	})
}

func (s *Service) rejectAbsence(ctx *fasthttp.RequestCtx) {
	s.transitionAbsence(ctx, func(ctx *fasthttp.RequestCtx, id uuid.UUID, req services.AbsenceDecisionRequest) (*models.AbsenceRequest, error) {
		return s.absences.Reject(ctx, id, req, ifMatch(ctx), principal(ctx))
	})
}

func (s *Service) cancelAbsence(ctx *fasthttp.RequestCtx) {
	s.transitionAbsence(ctx, func(ctx *fasthttp.RequestCtx, id uuid.UUID, req services.AbsenceDecisionRequest) (*models.AbsenceRequest, error) {
		return s.absences.Cancel(ctx, id, req, ifMatch(ctx), principal(ctx))
	})
}
