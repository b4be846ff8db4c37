package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/services"
)

type feedbackView struct {
	ID               uuid.UUID `json:"id"`
	EmployeeID       uuid.UUID `json:"employeeId"`
	AuthorEmployeeID uuid.UUID `json:"authorEmployeeId"`
	TextOriginal     string    `json:"textOriginal"`
	TextPolished     string    `json:"textPolished"`
	PolishModel      string    `json:"polishModel"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toFeedbackView(f models.Feedback) feedbackView {
	return feedbackView{
		ID:               f.ID,
		EmployeeID:       f.EmployeeID,
		AuthorEmployeeID: f.AuthorEmployeeID,
		TextOriginal:     f.TextOriginal,
		TextPolished:     f.TextPolished,
		PolishModel:      f.PolishModel,
		CreatedAt:        f.CreatedAt,
	}
}

func (s *Service) listFeedback(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	rows, err := s.feedback.List(ctx, id, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	views := make([]feedbackView, 0, len(rows))
	for _, f := range rows {
		views = append(views, toFeedbackView(f))
	}
	writeJSON(ctx, fasthttp.StatusOK, views)
}

func (s *Service) createFeedback(ctx *fasthttp.RequestCtx) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	var req services.CreateFeedbackRequest
	if err := readJSON(ctx, &req); err != nil {
		s.writeError(ctx, err)
		return
	}

	f, err := s.feedback.Create(ctx, id, req, principal(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, toFeedbackView(*f))
}
