package repository

import (
	"context"

	"skilla/internal/database"
	"skilla/internal/database/postgres"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

type UserRoleRepository interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	Grant(ctx context.Context, userID uuid.UUID, role string) error
}

type PostgresUserRoleRepository struct {
	db database.DB
}

func NewPostgresUserRoleRepository(db database.DB) *PostgresUserRoleRepository {
	return &PostgresUserRoleRepository{db: db}
}

func (r *PostgresUserRoleRepository) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	var ok bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`, userID, role)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Grant is idempotent: granting a role the user already has is not an error.
func (r *PostgresUserRoleRepository) Grant(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`,
		userID, role,
	)
	if err != nil && postgres.IsUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *PostgresUserRoleRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.HasRole(ctx, userID, RoleAdmin)
}
