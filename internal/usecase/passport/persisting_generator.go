package passport

import (
	"context"
	"fmt"
	"log"

	"skilla/internal/domain/onboarding"
	"skilla/internal/infrastructure/cache"

	"github.com/google/uuid"
)

type PassportWriter interface {
	Upsert(ctx context.Context, userID uuid.UUID, p onboarding.Passport) error
}

type CacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// PersistingGenerator stores every passport produced by next. A failed write
// fails the generation so the user can retry completion.
type PersistingGenerator struct {
	next   onboarding.PassportGenerator
	store  PassportWriter
	cache  CacheInvalidator
	logger *log.Logger
}

func NewPersistingGenerator(next onboarding.PassportGenerator, store PassportWriter, c CacheInvalidator, logger *log.Logger) *PersistingGenerator {
	if logger == nil {
		logger = log.Default()
	}
	return &PersistingGenerator{next: next, store: store, cache: c, logger: logger}
}

func (g *PersistingGenerator) GeneratePassport(ctx context.Context, userID uuid.UUID, answers map[string]string) (onboarding.Passport, error) {
	p, err := g.next.GeneratePassport(ctx, userID, answers)
	if err != nil {
		return onboarding.Passport{}, err
	}
	if err := p.Validate(); err != nil {
		return onboarding.Passport{}, err
	}

	if err := g.store.Upsert(ctx, userID, p); err != nil {
		return onboarding.Passport{}, fmt.Errorf("save passport: %w", err)
	}
	if g.cache != nil {
		if err := g.cache.Delete(ctx, cache.PassportKey(userID), cache.WorkforceSkillsKey); err != nil {
			g.logger.Printf("[Passport] cache invalidation failed user=%s err=%v", userID, err)
		}
	}

	g.logger.Printf("[Passport] created user=%s skills=%d responses=%d", userID, len(p.Skills), len(answers))
	return p, nil
}

var _ onboarding.PassportGenerator = (*PersistingGenerator)(nil)
var _ onboarding.PassportGenerator = (*LocalGenerator)(nil)
