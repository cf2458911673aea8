package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skilla/internal/database"
	"skilla/internal/domain/onboarding"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrPassportNotFound = errors.New("passport not found")

type StoredPassport struct {
	UserID       uuid.UUID
	Passport     onboarding.Passport
	BusinessUnit string
	UpdatedAt    time.Time
}

type SkillPassportRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (StoredPassport, error)
	Upsert(ctx context.Context, userID uuid.UUID, p onboarding.Passport) error
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
	// ListWithBusinessUnit returns every passport joined with the owner's
	// current business unit ("" when the owner has no profile).
	ListWithBusinessUnit(ctx context.Context) ([]StoredPassport, error)
}

type PostgresSkillPassportRepository struct {
	db database.DB
}

func NewPostgresSkillPassportRepository(db database.DB) *PostgresSkillPassportRepository {
	return &PostgresSkillPassportRepository{db: db}
}

func (r *PostgresSkillPassportRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (StoredPassport, error) {
	row := r.db.QueryRow(ctx,
		`SELECT sp.user_id, sp.passport_json::text, COALESCE(p.business_unit, ''), sp.updated_at
		 FROM skill_passports sp
		 LEFT JOIN profiles p ON p.user_id = sp.user_id
		 WHERE sp.user_id = $1`,
		userID,
	)

	sp, err := scanPassport(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return StoredPassport{}, ErrPassportNotFound
		}
		return StoredPassport{}, err
	}
	return sp, nil
}

func (r *PostgresSkillPassportRepository) Upsert(ctx context.Context, userID uuid.UUID, p onboarding.Passport) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode passport: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO skill_passports (user_id, passport_json)
		 VALUES ($1, $2::jsonb)
		 ON CONFLICT (user_id)
		 DO UPDATE SET passport_json = EXCLUDED.passport_json, updated_at = now()`,
		userID, string(b),
	)
	return err
}

func (r *PostgresSkillPassportRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skill_passports WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSkillPassportRepository) ListWithBusinessUnit(ctx context.Context) ([]StoredPassport, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sp.user_id, sp.passport_json::text, COALESCE(p.business_unit, ''), sp.updated_at
		 FROM skill_passports sp
		 LEFT JOIN profiles p ON p.user_id = sp.user_id
		 ORDER BY sp.updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StoredPassport, 0)
	for rows.Next() {
		sp, err := scanPassport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPassport(row database.Row) (StoredPassport, error) {
	var sp StoredPassport
	var raw string
	if err := row.Scan(&sp.UserID, &raw, &sp.BusinessUnit, &sp.UpdatedAt); err != nil {
		return StoredPassport{}, err
	}
	if err := json.Unmarshal([]byte(raw), &sp.Passport); err != nil {
		return StoredPassport{}, fmt.Errorf("decode passport user=%s: %w", sp.UserID, err)
	}
	return sp, nil
}
