package repository

import (
	"context"
	"fmt"

	"skilla/internal/database"
	"skilla/internal/domain/onboarding"
)

type OnboardingQuestionRepository interface {
	// ListOrdered returns the static questions sorted by question_order.
	ListOrdered(ctx context.Context) ([]onboarding.Question, error)
	Count(ctx context.Context) (int, error)
}

type PostgresOnboardingQuestionRepository struct {
	db database.DB
}

func NewPostgresOnboardingQuestionRepository(db database.DB) *PostgresOnboardingQuestionRepository {
	return &PostgresOnboardingQuestionRepository{db: db}
}

func (r *PostgresOnboardingQuestionRepository) ListOrdered(ctx context.Context) ([]onboarding.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, question_text, question_order::float8, COALESCE(metadata, '{}'::jsonb)::text
		 FROM onboarding_questions
		 ORDER BY question_order ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]onboarding.Question, 0)
	for rows.Next() {
		var q onboarding.Question
		var meta string
		if err := rows.Scan(&q.ID, &q.Text, &q.Order, &meta); err != nil {
			return nil, err
		}
		q.Metadata, err = onboarding.ParseMetadata([]byte(meta))
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOnboardingQuestionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM onboarding_questions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
