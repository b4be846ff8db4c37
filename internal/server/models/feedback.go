package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is append-only: rows are never updated or deleted after create.
// TextOriginal is the author's raw input, TextPolished the output of the
// external polish model recorded in PolishModel.
type Feedback struct {
	ID               uuid.UUID
	EmployeeID       uuid.UUID
	AuthorEmployeeID uuid.UUID
	TextOriginal     string
	TextPolished     string
	PolishModel      string
	CreatedAt        time.Time
}
