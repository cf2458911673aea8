package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skilla/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	UserID       uuid.UUID
	FullName     string
	BusinessUnit string
	UpdatedAt    time.Time
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	Upsert(ctx context.Context, p Profile) (Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, full_name, business_unit, updated_at FROM profiles WHERE user_id = $1`,
		userID,
	)

	var p Profile
	if err := row.Scan(&p.UserID, &p.FullName, &p.BusinessUnit, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p Profile) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, full_name, business_unit)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id)
		 DO UPDATE SET full_name = EXCLUDED.full_name, business_unit = EXCLUDED.business_unit, updated_at = now()
		 RETURNING user_id, full_name, business_unit, updated_at`,
		p.UserID, p.FullName, p.BusinessUnit,
	)

	var out Profile
	if err := row.Scan(&out.UserID, &out.FullName, &out.BusinessUnit, &out.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return out, nil
}
