package seeder

import (
	"context"
	"fmt"
	"log"
	"time"

	"skilla/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults is the seed set applied by cmd/seed.
func Defaults() []Seeder {
	return []Seeder{
		OnboardingQuestionsSeeder{},
	}
}

type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("[Seeder] done name=%s elapsed=%s", s.Name(), time.Since(start).Round(time.Millisecond))
		}
	}
	return nil
}
