package models

import (
	"time"

	"github.com/google/uuid"
)

type AbsenceType string

const (
	AbsenceVacation AbsenceType = "VACATION"
	AbsenceSick     AbsenceType = "SICK"
	AbsenceUnpaid   AbsenceType = "UNPAID"
)

func ParseAbsenceType(s string) (AbsenceType, bool) {
	switch AbsenceType(s) {
	case AbsenceVacation, AbsenceSick, AbsenceUnpaid:
		return AbsenceType(s), true
	}
	return "", false
}

type AbsenceStatus string

const (
	AbsencePending   AbsenceStatus = "PENDING"
	AbsenceApproved  AbsenceStatus = "APPROVED"
	AbsenceRejected  AbsenceStatus = "REJECTED"
	AbsenceCancelled AbsenceStatus = "CANCELLED"
)

// AbsenceRequest is the absence-workflow row. Status starts PENDING and
// leaves it at most once; non-PENDING rows are immutable. Note stores the
// decision comment (the manager's on approve/reject, the owner's on cancel).
type AbsenceRequest struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Type       AbsenceType
	StartDate  Date
	EndDate    Date
	Reason     *string
	Status     AbsenceStatus
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int
}
