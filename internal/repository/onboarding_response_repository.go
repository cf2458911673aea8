package repository

import (
	"context"
	"time"

	"skilla/internal/database"

	"github.com/google/uuid"
)

type OnboardingResponse struct {
	UserID     uuid.UUID
	QuestionID string
	Response   string
	UpdatedAt  time.Time
}

// OnboardingProgress is one profile's answered-question counts.
type OnboardingProgress struct {
	UserID         uuid.UUID
	FullName       string
	BusinessUnit   string
	AnsweredStatic int
	AnsweredTotal  int
	LastUpdated    time.Time
}

type OnboardingResponseRepository interface {
	UpsertAnswer(ctx context.Context, userID uuid.UUID, questionID string, answer string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OnboardingResponse, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	ListProgress(ctx context.Context) ([]OnboardingProgress, error)
}

type PostgresOnboardingResponseRepository struct {
	db database.DB
}

func NewPostgresOnboardingResponseRepository(db database.DB) *PostgresOnboardingResponseRepository {
	return &PostgresOnboardingResponseRepository{db: db}
}

func (r *PostgresOnboardingResponseRepository) UpsertAnswer(ctx context.Context, userID uuid.UUID, questionID string, answer string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO onboarding_responses (user_id, question_id, response)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, question_id)
		 DO UPDATE SET response = EXCLUDED.response, updated_at = now()`,
		userID, questionID, answer,
	)
	return err
}

func (r *PostgresOnboardingResponseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]OnboardingResponse, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, question_id, response, updated_at
		 FROM onboarding_responses
		 WHERE user_id = $1
		 ORDER BY updated_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OnboardingResponse, 0)
	for rows.Next() {
		var resp OnboardingResponse
		if err := rows.Scan(&resp.UserID, &resp.QuestionID, &resp.Response, &resp.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOnboardingResponseRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM onboarding_responses WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresOnboardingResponseRepository) ListProgress(ctx context.Context) ([]OnboardingProgress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.user_id, p.full_name, p.business_unit,
		        COUNT(q.id) AS answered_static,
		        COUNT(r.question_id) AS answered_total,
		        GREATEST(p.updated_at, COALESCE(MAX(r.updated_at), p.updated_at))
		 FROM profiles p
		 LEFT JOIN onboarding_responses r ON r.user_id = p.user_id
		 LEFT JOIN onboarding_questions q ON q.id::text = r.question_id
		 GROUP BY p.user_id, p.full_name, p.business_unit, p.updated_at
		 ORDER BY p.full_name ASC, p.user_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OnboardingProgress, 0)
	for rows.Next() {
		var p OnboardingProgress
		if err := rows.Scan(&p.UserID, &p.FullName, &p.BusinessUnit, &p.AnsweredStatic, &p.AnsweredTotal, &p.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
