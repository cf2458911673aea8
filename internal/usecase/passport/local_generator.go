package passport

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skilla/internal/domain/onboarding"
	"skilla/internal/repository"

	"github.com/google/uuid"
)

const (
	fallbackName         = "Unknown"
	fallbackBusinessUnit = "Not specified"
	defaultProficiency   = 3
)

type QuestionSource interface {
	ListOrdered(ctx context.Context) ([]onboarding.Question, error)
}

type ProfileReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (repository.Profile, error)
}

// LocalGenerator builds the passport in-process from the skill fan-out
// answers and the user's profile.
type LocalGenerator struct {
	questions   QuestionSource
	profiles    ProfileReader
	skillsOrder float64
	now         func() time.Time
}

func NewLocalGenerator(questions QuestionSource, profiles ProfileReader, skillsOrder float64) *LocalGenerator {
	if skillsOrder == 0 {
		skillsOrder = onboarding.DefaultSkillsQuestionOrder
	}
	return &LocalGenerator{
		questions:   questions,
		profiles:    profiles,
		skillsOrder: skillsOrder,
		now:         time.Now,
	}
}

func (g *LocalGenerator) GeneratePassport(ctx context.Context, userID uuid.UUID, answers map[string]string) (onboarding.Passport, error) {
	profile, err := g.profiles.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return onboarding.Passport{}, fmt.Errorf("load profile: %w", err)
	}

	skills, err := g.skillNames(ctx, answers)
	if err != nil {
		return onboarding.Passport{}, err
	}

	now := g.now().UTC()
	out := onboarding.Passport{
		Profile: onboarding.PassportProfile{
			Name:         orDefault(profile.FullName, fallbackName),
			BusinessUnit: orDefault(profile.BusinessUnit, fallbackBusinessUnit),
			CompletedAt:  now,
		},
		Skills: make([]onboarding.PassportSkill, 0, len(skills)),
		Metadata: map[string]any{
			"version":        onboarding.PassportVersion,
			"generatedAt":    now.Format(time.RFC3339),
			"totalResponses": len(answers),
		},
	}
	for _, name := range skills {
		ps := onboarding.PassportSkill{
			Name:        name,
			Proficiency: proficiency(answers[onboarding.SkillQuestionID(name, onboarding.SkillConfidence)]),
		}
		if d, ok := decayDays(answers[onboarding.SkillQuestionID(name, onboarding.SkillTraining)]); ok {
			ps.DaysUntilDecay = &d
		}
		out.Skills = append(out.Skills, ps)
	}
	return out, nil
}

// skillNames re-parses the skills answer the same way the engine did, keeping
// the first spelling of each normalized skill.
func (g *LocalGenerator) skillNames(ctx context.Context, answers map[string]string) ([]string, error) {
	qs, err := g.questions.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	var trigger string
	for _, q := range qs {
		if q.Order == g.skillsOrder {
			trigger = answers[q.ID]
			break
		}
	}

	seen := map[string]bool{}
	out := make([]string, 0, onboarding.MaxSkills)
	for _, s := range onboarding.ParseSkills(trigger) {
		slug := onboarding.SkillSlug(s)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, s)
	}
	return out, nil
}

func proficiency(answer string) int {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return defaultProficiency
	}
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

// decayDays maps the training-recency option to days until the skill is
// considered stale.
func decayDays(answer string) (int, bool) {
	switch strings.TrimSpace(answer) {
	case onboarding.TrainingOptions[0]:
		return 180, true
	case onboarding.TrainingOptions[1]:
		return 120, true
	case onboarding.TrainingOptions[2]:
		return 60, true
	case onboarding.TrainingOptions[3]:
		return 30, true
	default:
		return 0, false
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
