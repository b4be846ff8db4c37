package httpapi

import (
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token      string     `json:"token"`
	Role       string     `json:"role"`
	EmployeeID *uuid.UUID `json:"employeeId"`
}

func (s *Service) login(ctx *fasthttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		s.writeError(ctx, err)
		return
	}

	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	token, err := s.tokens.Sign(user.ID, user.Role, user.EmployeeID)
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, loginResponse{
		Token:      token,
		Role:       string(user.Role),
		EmployeeID: user.EmployeeID,
	})
}

func (s *Service) health(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("ok")
}
