package onboarding

import (
	"context"
	"log"
	"time"

	"skilla/internal/domain/onboarding"
	"skilla/internal/infrastructure/cache"
)

type QuestionSource interface {
	ListOrdered(ctx context.Context) ([]onboarding.Question, error)
}

type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedQuestions reads the static question list through the cache. Any
// cache failure falls back to the repository.
type CachedQuestions struct {
	repo   QuestionSource
	cache  JSONCache
	ttl    time.Duration
	logger *log.Logger
}

func NewCachedQuestions(repo QuestionSource, c JSONCache, ttl time.Duration, logger *log.Logger) *CachedQuestions {
	return &CachedQuestions{repo: repo, cache: c, ttl: ttl, logger: logger}
}

func (q *CachedQuestions) ListOrdered(ctx context.Context) ([]onboarding.Question, error) {
	if q.cache != nil {
		var cached []onboarding.Question
		hit, err := q.cache.GetJSON(ctx, cache.QuestionsKey, &cached)
		if err == nil && hit && len(cached) > 0 {
			return cached, nil
		}
	}

	qs, err := q.repo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	if q.cache != nil && len(qs) > 0 {
		if err := q.cache.SetJSON(ctx, cache.QuestionsKey, qs, q.ttl); err != nil && q.logger != nil {
			q.logger.Printf("[Onboarding] cache questions failed err=%v", err)
		}
	}
	return qs, nil
}
