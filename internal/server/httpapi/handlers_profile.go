package httpapi

import (
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/server/services"
)

func (s *Service) getProfile(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	view, err := s.profiles.Get(ctx, id, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeVersioned(ctx, fasthttp.StatusOK, view.Version, view)
}

func (s *Service) updateProfile(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	var req services.UpdateProfileRequest
	if err := readJSON(ctx, &req); err != nil {
		s.writeError(ctx, err)
		return
	}

	view, err := s.profiles.Update(ctx, id, req, ifMatch(ctx), principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeVersioned(ctx, fasthttp.StatusOK, view.Version, view)
}
