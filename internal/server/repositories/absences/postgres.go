// Package absences persists absence-request rows. Workflow transitions go
// through UpdateStatus, which carries the optimistic version check.
package absences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, employee_id, type, start_date, end_date, reason, status, note, created_at, updated_at, version`

func scanRow(row interface{ Scan(...any) error }, a *models.AbsenceRequest) error {
	var typ, status string
	err := row.Scan(&a.ID, &a.EmployeeID, &typ, &a.StartDate, &a.EndDate,
		&a.Reason, &status, &a.Note, &a.CreatedAt, &a.UpdatedAt, &a.Version)
	if err != nil {
		return err
	}
	a.Type = models.AbsenceType(typ)
	a.Status = models.AbsenceStatus(status)
	return nil
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.AbsenceRequest, error) {
	query :=
		`SELECT ` + columns + ` FROM absence_request
		 WHERE employee_id = $1
		 ORDER BY start_date DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.AbsenceRequest
	for rows.Next() {
		var a models.AbsenceRequest
		if err := scanRow(rows, &a); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error) {
	query :=
		`SELECT ` + columns + ` FROM absence_request
		 WHERE id = $1
		 `

	a := &models.AbsenceRequest{}
	err := scanRow(r.db.QueryRowContext(ctx, query, id), a)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.AbsenceRequest) (*models.AbsenceRequest, error) {
	query :=
		`INSERT INTO absence_request (employee_id, type, start_date, end_date, reason, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at, version
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.EmployeeID, string(a.Type), a.StartDate, a.EndDate, a.Reason, string(a.Status)).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Version)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AbsenceStatus, note *string, version int) (*models.AbsenceRequest, error) {
	query :=
		`UPDATE absence_request
		 SET status = $2, note = $3, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $4
		 RETURNING ` + columns + `
		 `

	a := &models.AbsenceRequest{}
	err := scanRow(r.db.QueryRowContext(ctx, query, id, string(status), note, version), a)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrVersionConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}
