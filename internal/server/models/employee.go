// Package models holds the persistence entities of the HR domain. Rows with
// a Version field are under optimistic concurrency: every successful
// mutation increments the version by exactly one.
package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}
