package httpapi

import (
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/server/services"
)

func (s *Service) listEmployees(ctx *fasthttp.RequestCtx) {
	rows, err := s.employees.List(ctx, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, rows)
}

func (s *Service) getEmployee(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	e, err := s.employees.Get(ctx, id, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeVersioned(ctx, fasthttp.StatusOK, e.Version, e)
}

func (s *Service) createEmployee(ctx *fasthttp.RequestCtx) {
	var req services.CreateEmployeeRequest
	if err := readJSON(ctx, &req); err != nil {
		s.writeError(ctx, err)
		return
	}

	e, err := s.employees.Create(ctx, req, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	ctx.Response.Header.Set("Location", "/api/employees/"+e.ID.String())
	writeVersioned(ctx, fasthttp.StatusCreated, e.Version, e)
}

func (s *Service) updateEmployee(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	var req services.UpdateEmployeeRequest
	if err := readJSON(ctx, &req); err != nil {
		s.writeError(ctx, err)
		return
	}

	e, err := s.employees.Update(ctx, id, req, ifMatch(ctx), principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeVersioned(ctx, fasthttp.StatusOK, e.Version, e)
}

func (s *Service) deleteEmployee(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	if err := s.employees.Delete(ctx, id, ifMatch(ctx), principal(ctx)); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}
