// Package feedback persists peer-feedback rows. The table is append-only.
package feedback

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.Feedback, error) {
	query :=
		`SELECT id, employee_id, author_employee_id, text_original, text_polished, polish_model, created_at
		 FROM feedback
		 WHERE employee_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.EmployeeID, &f.AuthorEmployeeID,
			&f.TextOriginal, &f.TextPolished, &f.PolishModel, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	query :=
		`INSERT INTO feedback (employee_id, author_employee_id, text_original, text_polished, polish_model)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		f.EmployeeID, f.AuthorEmployeeID, f.TextOriginal, f.TextPolished, f.PolishModel).
		Scan(&f.ID, &f.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}
