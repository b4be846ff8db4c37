// Package profiles persists the 1:1 EmployeeProfile rows keyed by
// employee_id.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

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

const uniqueViolationCode = "23505"

func (r *PostgresRepository) FindByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*models.EmployeeProfile, error) {
	query :=
		`SELECT employee_id, bio, skills_json, salary, ssn, address, contact_email, version
		 FROM employee_profile
		 WHERE employee_id = $1
		 `

	p := &models.EmployeeProfile{}
	err := r.db.QueryRowContext(ctx, query, employeeID).
		Scan(&p.EmployeeID, &p.Bio, &p.SkillsJSON, &p.Salary, &p.SSN, &p.Address, &p.ContactEmail, &p.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error) {
	query :=
		`INSERT INTO employee_profile (employee_id, bio, skills_json, salary, ssn, address, contact_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING version
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.EmployeeID, p.Bio, p.SkillsJSON, p.Salary, p.SSN, p.Address, p.ContactEmail).
		Scan(&p.Version)

	if err != nil {
		// a concurrent first edit already inserted the row
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrVersionConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.EmployeeProfile) (*models.EmployeeProfile, error) {
	query :=
		`UPDATE employee_profile
		 SET bio = $2, skills_json = $3, salary = $4, ssn = $5, address = $6, contact_email = $7,
		     version = version + 1
		 WHERE employee_id = $1 AND version = $8
		 RETURNING version
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.EmployeeID, p.Bio, p.SkillsJSON, p.Salary, p.SSN, p.Address, p.ContactEmail, p.Version).
		Scan(&p.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrVersionConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
