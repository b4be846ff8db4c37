// Package users persists login accounts. Email is unique and matched
// case-sensitively.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, role, employee_id FROM users
		 WHERE email = $1
		 `

	u := &models.User{}
	var role string
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.EmployeeID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	parsed, ok := auth.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("db error: unknown role %q", role)
	}
	u.Role = parsed

	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash, role, employee_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, string(u.Role), u.EmployeeID).Scan(&u.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}
