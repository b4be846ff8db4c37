// Package employees persists Employee rows. Mutations are guarded by the
// row's integer version: the UPDATE/DELETE carries "AND version = $n" so the
// store admits exactly one of two concurrent writers.
package employees

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Employee, error) {
	query :=
		`SELECT id, first_name, last_name, version, updated_at FROM employees
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Version, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	query :=
		`SELECT id, first_name, last_name, version, updated_at FROM employees
		 WHERE id = $1
		 `

	e := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.FirstName, &e.LastName, &e.Version, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	query :=
		`INSERT INTO employees (first_name, last_name)
		 VALUES ($1, $2)
		 RETURNING id, version, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, e.FirstName, e.LastName).
		Scan(&e.ID, &e.Version, &e.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	query :=
		`UPDATE employees
		 SET first_name = $2, last_name = $3, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $4
		 RETURNING version, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, e.ID, e.FirstName, e.LastName, e.Version).
		Scan(&e.Version, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrVersionConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID, version int) error {
	query :=
		`DELETE FROM employees
		 WHERE id = $1 AND version = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, version)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrVersionConflict
	}

	return nil
}
