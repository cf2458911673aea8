package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSkillsQuestionOrder identifies the "name up to five skills"
	// question among the static questions.
	DefaultSkillsQuestionOrder = 4

	DefaultRequestTimeout = 10 * time.Second
)

// ResponseStore persists one answer per (user, question), overwriting.
type ResponseStore interface {
	UpsertAnswer(ctx context.Context, userID uuid.UUID, questionID string, answer string) error
}

// PassportGenerator turns the full answer map into a passport.
type PassportGenerator interface {
	GeneratePassport(ctx context.Context, userID uuid.UUID, answers map[string]string) (Passport, error)
}

// Step is the outcome of a successful advance or completion attempt.
type Step int

const (
	// StepContinue: the position moved to the next question.
	StepContinue Step = iota
	// StepReadyToComplete: the last question is answered but no passport
	// exists yet. Only returned together with an ErrGeneration error.
	StepReadyToComplete
	// StepPassportReady: the passport was generated.
	StepPassportReady
)

func (s Step) String() string {
	switch s {
	case StepContinue:
		return "continue"
	case StepReadyToComplete:
		return "ready-to-complete"
	case StepPassportReady:
		return "passport-ready"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

type Config struct {
	SkillsQuestionOrder float64
	RequestTimeout      time.Duration
}

type Engine struct {
	store     ResponseStore
	generator PassportGenerator
	cfg       Config
}

func NewEngine(store ResponseStore, generator PassportGenerator, cfg Config) *Engine {
	if cfg.SkillsQuestionOrder == 0 {
		cfg.SkillsQuestionOrder = DefaultSkillsQuestionOrder
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	return &Engine{store: store, generator: generator, cfg: cfg}
}

// Advance records answer for the current question and moves on. The answer
// is persisted first; only after the store confirms is the state mutated,
// expanded with generated questions and moved forward. When no question is
// left the generator is invoked once. A completed flow rejects further
// advances until it is reopened with Retreat.
func (e *Engine) Advance(ctx context.Context, s *FlowState, answer string) (Step, error) {
	if s.IsComplete() {
		return StepPassportReady, fmt.Errorf("%w: onboarding already complete", ErrValidation)
	}
	q, err := s.CurrentQuestion()
	if err != nil {
		return StepContinue, err
	}
	if strings.TrimSpace(answer) == "" {
		return StepContinue, fmt.Errorf("%w: question %s", ErrValidation, q.ID)
	}

	if err := e.persist(ctx, s.userID, q.ID, answer); err != nil {
		return StepContinue, err
	}

	s.answers[q.ID] = answer
	e.expand(s, q, answer)

	if s.position < s.Total()-1 {
		s.exhausted = false
		s.position++
		return StepContinue, nil
	}

	s.exhausted = true
	return e.generate(ctx, s)
}

// Complete retries passport generation for an exhausted flow without
// re-answering any question.
func (e *Engine) Complete(ctx context.Context, s *FlowState) (Step, error) {
	if s.IsComplete() {
		return StepPassportReady, fmt.Errorf("%w: onboarding already complete", ErrValidation)
	}
	if !s.exhausted {
		return StepContinue, fmt.Errorf("%w: unanswered questions remain", ErrValidation)
	}
	return e.generate(ctx, s)
}

func (e *Engine) persist(ctx context.Context, userID uuid.UUID, questionID, answer string) error {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	if err := e.store.UpsertAnswer(callCtx, userID, questionID, answer); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	// The caller gave up while the write was in flight.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (e *Engine) generate(ctx context.Context, s *FlowState) (Step, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	p, err := e.generator.GeneratePassport(callCtx, s.userID, s.Answers())
	if err != nil {
		return StepReadyToComplete, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if err := ctx.Err(); err != nil {
		return StepReadyToComplete, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if err := p.Validate(); err != nil {
		return StepReadyToComplete, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	s.passport = &p
	return StepPassportReady, nil
}

// expand applies the injection rules for the just-answered question q and
// returns how many questions were added.
func (e *Engine) expand(s *FlowState, q Question, answer string) int {
	added := 0
	if e.IsSkillsQuestion(q) {
		for i, skill := range ParseSkills(answer) {
			added += s.appendDynamic(SkillQuestions(q, skill, i)...)
		}
	}
	if fu, ok := FollowUpQuestion(q); ok {
		added += s.appendDynamic(fu)
	}
	return added
}

// IsSkillsQuestion reports whether q is the static question whose answer
// fans out into per-skill questions.
func (e *Engine) IsSkillsQuestion(q Question) bool {
	return !q.Generated() && q.Order == e.cfg.SkillsQuestionOrder
}

func (e *Engine) SkillsQuestionOrder() float64 {
	return e.cfg.SkillsQuestionOrder
}
