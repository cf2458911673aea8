package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"skilla/internal/infrastructure/cache"
	"skilla/internal/repository"
)

var ErrInternal = errors.New("internal error")

const (
	StatusNotStarted = "not started"
	StatusStarted    = "started"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"

	unknownUser         = "Unknown User"
	unknownBusinessUnit = "Not specified"
)

type ProgressReader interface {
	ListProgress(ctx context.Context) ([]repository.OnboardingProgress, error)
}

type QuestionCounter interface {
	Count(ctx context.Context) (int, error)
}

type PassportLister interface {
	ListWithBusinessUnit(ctx context.Context) ([]repository.StoredPassport, error)
}

type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	progress  ProgressReader
	questions QuestionCounter
	passports PassportLister
	cache     JSONCache
	ttl       time.Duration
	logger    *log.Logger
}

func NewService(progress ProgressReader, questions QuestionCounter, passports PassportLister, c JSONCache, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{progress: progress, questions: questions, passports: passports, cache: c, ttl: ttl, logger: logger}
}

type UserStatus struct {
	UserID               string
	FullName             string
	BusinessUnit         string
	AnsweredQuestions    int
	TotalQuestions       int
	CompletionPercentage int
	Status               string
	LastUpdated          time.Time
}

type OnboardingOverview struct {
	Users      []UserStatus
	Total      int
	Completed  int
	InProgress int
	NotStarted int
}

func (s *Service) OnboardingStatus(ctx context.Context) (OnboardingOverview, error) {
	total, err := s.questions.Count(ctx)
	if err != nil {
		return OnboardingOverview{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	rows, err := s.progress.ListProgress(ctx)
	if err != nil {
		return OnboardingOverview{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	out := OnboardingOverview{Users: make([]UserStatus, 0, len(rows))}
	for _, r := range rows {
		pct := completion(r.AnsweredStatic, total)
		u := UserStatus{
			UserID:               r.UserID.String(),
			FullName:             orDefault(r.FullName, unknownUser),
			BusinessUnit:         orDefault(r.BusinessUnit, unknownBusinessUnit),
			AnsweredQuestions:    r.AnsweredStatic,
			TotalQuestions:       total,
			CompletionPercentage: pct,
			Status:               statusLabel(pct),
			LastUpdated:          r.LastUpdated,
		}
		out.Users = append(out.Users, u)

		switch {
		case pct == 100:
			out.Completed++
		case pct > 0:
			out.InProgress++
		default:
			out.NotStarted++
		}
	}
	out.Total = len(out.Users)
	return out, nil
}

// completion is the rounded answered share, capped at 100.
func completion(answered, total int) int {
	if total <= 0 || answered <= 0 {
		return 0
	}
	pct := int(math.Round(float64(answered) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

func statusLabel(pct int) string {
	switch {
	case pct >= 100:
		return StatusCompleted
	case pct >= 50:
		return StatusInProgress
	case pct > 0:
		return StatusStarted
	default:
		return StatusNotStarted
	}
}

type WorkforceSkill struct {
	SkillName        string  `json:"skill_name"`
	BusinessUnit     string  `json:"business_unit"`
	UserCount        int     `json:"user_count"`
	AverageLevel     float64 `json:"average_level"`
	AverageDecayDays float64 `json:"average_decay_days,omitempty"`
}

// WorkforceSkills aggregates every stored passport by (skill, business unit).
// Skill names are grouped case-insensitively; the first spelling seen wins.
func (s *Service) WorkforceSkills(ctx context.Context) ([]WorkforceSkill, error) {
	if s.cache != nil {
		var cached []WorkforceSkill
		if hit, err := s.cache.GetJSON(ctx, cache.WorkforceSkillsKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	passports, err := s.passports.ListWithBusinessUnit(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	type acc struct {
		skill      WorkforceSkill
		levelSum   int
		decaySum   int
		decayCount int
	}
	groups := map[string]*acc{}
	for _, sp := range passports {
		unit := orDefault(sp.BusinessUnit, orDefault(sp.Passport.Profile.BusinessUnit, "Unknown"))
		seen := map[string]bool{}
		for _, sk := range sp.Passport.Skills {
			name := strings.TrimSpace(sk.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name) + "\x00" + unit
			// A passport counts once per skill.
			if seen[key] {
				continue
			}
			seen[key] = true

			a, ok := groups[key]
			if !ok {
				a = &acc{skill: WorkforceSkill{SkillName: name, BusinessUnit: unit}}
				groups[key] = a
			}
			a.skill.UserCount++
			a.levelSum += sk.Proficiency
			if sk.DaysUntilDecay != nil {
				a.decaySum += *sk.DaysUntilDecay
				a.decayCount++
			}
		}
	}

	out := make([]WorkforceSkill, 0, len(groups))
	for _, a := range groups {
		a.skill.AverageLevel = round2(float64(a.levelSum) / float64(a.skill.UserCount))
		if a.decayCount > 0 {
			a.skill.AverageDecayDays = round2(float64(a.decaySum) / float64(a.decayCount))
		}
		out = append(out, a.skill)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserCount != out[j].UserCount {
			return out[i].UserCount > out[j].UserCount
		}
		if out[i].SkillName != out[j].SkillName {
			return out[i].SkillName < out[j].SkillName
		}
		return out[i].BusinessUnit < out[j].BusinessUnit
	})

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.WorkforceSkillsKey, out, s.ttl); err != nil {
			s.logger.Printf("[Admin] cache workforce skills failed err=%v", err)
		}
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
