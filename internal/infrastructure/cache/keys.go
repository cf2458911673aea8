package cache

import "github.com/google/uuid"

const (
	QuestionsKey = "onboarding:questions"

	// OnboardingPattern matches every key derived from the question set.
	OnboardingPattern = "onboarding:*"

	WorkforceSkillsKey = "admin:workforce-skills"
)

func PassportKey(userID uuid.UUID) string {
	return "passport:" + userID.String()
}
