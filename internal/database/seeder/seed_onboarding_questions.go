package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"skilla/internal/database"
	"skilla/internal/domain/onboarding"
)

type OnboardingQuestionsSeeder struct{}

func (OnboardingQuestionsSeeder) Name() string { return "onboarding_questions" }

// StaticQuestions is the ordered static question set. Order 4 is the skills
// question; its answer fans out into per-skill questions.
func StaticQuestions() []onboarding.Question {
	withSection := func(m onboarding.Metadata, section string) onboarding.Metadata {
		m.Section = section
		return m
	}
	withFollowUp := func(m onboarding.Metadata, text string) onboarding.Metadata {
		m.FollowUp = text
		return m
	}

	return []onboarding.Question{
		{Text: "What is your full name?", Order: 1, Metadata: withSection(onboarding.PlainMetadata(), "A")},
		{Text: "Which business unit do you belong to?", Order: 2, Metadata: withSection(onboarding.PlainMetadata(), "A")},
		{
			Text:  "What are your primary technical skills?",
			Order: 3,
			Metadata: withFollowUp(
				withSection(onboarding.PlainMetadata(), "B"),
				"How many years of experience do you have with each of these skills?",
			),
		},
		{Text: "Name up to five skills you use most in your current role.", Order: onboarding.DefaultSkillsQuestionOrder, Metadata: withSection(onboarding.PlainMetadata(), "B")},
		{Text: "What is your current role and what are your main responsibilities?", Order: 5, Metadata: withSection(onboarding.PlainMetadata(), "D")},
		{
			Text:  "Which professional certifications do you hold?",
			Order: 6,
			Metadata: withFollowUp(
				withSection(onboarding.PlainMetadata(), "D"),
				"Which certification are you working towards next?",
			),
		},
		{
			Text:  "How do you prefer to learn new skills?",
			Order: 7,
			Metadata: withSection(onboarding.SelectMetadata(
				"Online courses",
				"Mentoring",
				"On-the-job practice",
				"Classroom training",
				"Reading",
			), "E"),
		},
		{Text: "Is there anything else you would like us to know?", Order: 8, Metadata: withSection(onboarding.PlainMetadata(), "E")},
	}
}

func (OnboardingQuestionsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "onboarding_questions", "id", "question_text", "question_order", "metadata"); err != nil {
		return err
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, q := range StaticQuestions() {
			meta, err := json.Marshal(q.Metadata)
			if err != nil {
				return fmt.Errorf("encode metadata order=%v: %w", q.Order, err)
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO onboarding_questions (question_text, question_order, metadata)
				 VALUES ($1, $2, $3::jsonb)
				 ON CONFLICT (question_order) DO NOTHING`,
				q.Text,
				q.Order,
				string(meta),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
