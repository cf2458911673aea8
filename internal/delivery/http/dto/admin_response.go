package dto

import "time"

type OnboardingUserStatusResponse struct {
	UserID               string     `json:"user_id"`
	FullName             string     `json:"full_name"`
	BusinessUnit         string     `json:"business_unit"`
	AnsweredQuestions    int        `json:"answered_questions"`
	TotalQuestions       int        `json:"total_questions"`
	CompletionPercentage int        `json:"completion_percentage"`
	Status               string     `json:"status"`
	LastUpdated          *time.Time `json:"last_updated"`
}

type OnboardingSummaryResponse struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	NotStarted int `json:"not_started"`
}

type OnboardingOverviewResponse struct {
	Users   []OnboardingUserStatusResponse `json:"users"`
	Summary OnboardingSummaryResponse      `json:"summary"`
}

type WorkforceSkillResponse struct {
	SkillName        string  `json:"skill_name"`
	BusinessUnit     string  `json:"business_unit"`
	UserCount        int     `json:"user_count"`
	AverageLevel     float64 `json:"average_level"`
	AverageDecayDays float64 `json:"average_decay_days,omitempty"`
}
