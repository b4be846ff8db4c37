// Package repomanager vends repository implementations bound to a database
// handle (either *sql.DB or a transaction) and exposes the schema migration
// hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/server/repositories/absences"
	"github.com/newwork/core-api/internal/server/repositories/employees"
	"github.com/newwork/core-api/internal/server/repositories/feedback"
	"github.com/newwork/core-api/internal/server/repositories/profiles"
	"github.com/newwork/core-api/internal/server/repositories/users"
)

// RepositoryManager lets services choose whether a repository runs against
// the pool or inside an open transaction by passing the matching DBTX.
type RepositoryManager interface {
	Employees(db dbx.DBTX) employees.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Users(db dbx.DBTX) users.Repository
	Feedback(db dbx.DBTX) feedback.Repository
	Absences(db dbx.DBTX) absences.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
