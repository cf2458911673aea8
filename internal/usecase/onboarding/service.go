package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"skilla/internal/domain/onboarding"
	"skilla/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrLoad means the questions or saved answers could not be read.
	ErrLoad = errors.New("failed to load onboarding")
	// ErrNoQuestions means the question set is empty.
	ErrNoQuestions = errors.New("no onboarding questions configured")
)

type ResponseRepository interface {
	UpsertAnswer(ctx context.Context, userID uuid.UUID, questionID string, answer string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.OnboardingResponse, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type PassportChecker interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

type RoleChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Notifier receives progress events. Implementations must not block.
type Notifier interface {
	OnboardingProgress(userID uuid.UUID, position, total, answered int)
	PassportReady(userID uuid.UUID, skills int)
}

type Config struct {
	SkillsQuestionOrder float64
	RequestTimeout      time.Duration
	SessionIdle         time.Duration
}

type Service struct {
	questions QuestionSource
	responses ResponseRepository
	passports PassportChecker
	roles     RoleChecker
	notifier  Notifier
	engine    *onboarding.Engine
	sessions  *registry
	cfg       Config
	logger    *log.Logger
}

func NewService(
	questions QuestionSource,
	responses ResponseRepository,
	generator onboarding.PassportGenerator,
	passports PassportChecker,
	roles RoleChecker,
	notifier Notifier,
	cfg Config,
	logger *log.Logger,
) *Service {
	if logger == nil {
		logger = log.Default()
	}
	engine := onboarding.NewEngine(responses, generator, onboarding.Config{
		SkillsQuestionOrder: cfg.SkillsQuestionOrder,
		RequestTimeout:      cfg.RequestTimeout,
	})
	return &Service{
		questions: questions,
		responses: responses,
		passports: passports,
		roles:     roles,
		notifier:  notifier,
		engine:    engine,
		sessions:  newRegistry(cfg.SessionIdle),
		cfg:       cfg,
		logger:    logger,
	}
}

// Start returns the caller's session, creating it from stored data when the
// user has none in memory.
func (s *Service) Start(ctx context.Context, userID uuid.UUID) (View, error) {
	sess, err := s.lock(ctx, userID)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()
	return newView(sess.state, onboarding.StepContinue), nil
}

func (s *Service) Advance(ctx context.Context, userID uuid.UUID, answer string) (View, error) {
	sess, err := s.lock(ctx, userID)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()

	step, err := s.engine.Advance(ctx, sess.state, answer)
	v := newView(sess.state, step)
	if err != nil {
		s.logFailure("advance", userID, err)
		return v, err
	}

	s.publish(sess.state, step)
	return v, nil
}

func (s *Service) Retreat(ctx context.Context, userID uuid.UUID) (View, error) {
	sess, err := s.lock(ctx, userID)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()

	sess.state.Retreat()
	return newView(sess.state, onboarding.StepContinue), nil
}

// Complete retries passport generation for an exhausted flow.
func (s *Service) Complete(ctx context.Context, userID uuid.UUID) (View, error) {
	sess, err := s.lock(ctx, userID)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()

	step, err := s.engine.Complete(ctx, sess.state)
	v := newView(sess.state, step)
	if err != nil {
		s.logFailure("complete", userID, err)
		return v, err
	}

	s.publish(sess.state, step)
	return v, nil
}

// Restart discards the in-memory session and rebuilds it from the store. An
// engine call already running on the old session finishes first.
func (s *Service) Restart(ctx context.Context, userID uuid.UUID) (View, error) {
	s.sessions.retire(userID)
	return s.Start(ctx, userID)
}

type Status struct {
	HasPassport   bool
	ResponseCount int
	IsAdmin       bool
}

func (s *Service) Status(ctx context.Context, userID uuid.UUID) (Status, error) {
	hasPassport, err := s.passports.Exists(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	count, err := s.responses.CountByUser(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	isAdmin, err := s.roles.IsAdmin(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return Status{HasPassport: hasPassport, ResponseCount: count, IsAdmin: isAdmin}, nil
}

// RunJanitor evicts idle sessions until ctx is done.
func (s *Service) RunJanitor(ctx context.Context) {
	every := s.cfg.SessionIdle / 4
	if every <= 0 {
		return
	}
	s.sessions.runJanitor(ctx, every, func(n int) {
		s.logger.Printf("[Onboarding] evicted idle sessions count=%d remaining=%d", n, s.sessions.len())
	})
}

// lock returns the user's live session with its mutex held.
func (s *Service) lock(ctx context.Context, userID uuid.UUID) (*session, error) {
	for {
		sess, err := s.session(ctx, userID)
		if err != nil {
			return nil, err
		}
		sess.mu.Lock()
		if !sess.retired {
			return sess, nil
		}
		sess.mu.Unlock()
	}
}

func (s *Service) session(ctx context.Context, userID uuid.UUID) (*session, error) {
	if sess, ok := s.sessions.get(userID); ok {
		s.sessions.touch(sess)
		return sess, nil
	}

	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.sessions.putIfAbsent(userID, &session{state: state}), nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (*onboarding.FlowState, error) {
	qs, err := s.questions.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: questions: %w", ErrLoad, err)
	}
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}

	saved, err := s.responses.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: responses: %w", ErrLoad, err)
	}
	answers := make(map[string]string, len(saved))
	for _, r := range saved {
		answers[r.QuestionID] = r.Response
	}

	s.logger.Printf("[Onboarding] session loaded user=%s questions=%d saved_answers=%d", userID, len(qs), len(answers))
	return onboarding.NewFlowState(userID, qs, answers), nil
}

func (s *Service) publish(state *onboarding.FlowState, step onboarding.Step) {
	if s.notifier == nil {
		return
	}
	s.notifier.OnboardingProgress(state.UserID(), state.Position(), state.Total(), len(state.Answers()))
	if step == onboarding.StepPassportReady {
		p, _ := state.Passport()
		s.notifier.PassportReady(state.UserID(), len(p.Skills))
	}
}

func (s *Service) logFailure(op string, userID uuid.UUID, err error) {
	if errors.Is(err, onboarding.ErrValidation) {
		return
	}
	s.logger.Printf("[Onboarding] %s failed user=%s err=%v", op, userID, err)
}
