package dto

import (
	"skilla/internal/domain/onboarding"
	onboardinguc "skilla/internal/usecase/onboarding"
)

type QuestionResponse struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Order   float64  `json:"order"`
	Kind    string   `json:"kind"`
	Options []string `json:"options,omitempty"`
	Section string   `json:"section,omitempty"`
	Skill   string   `json:"skill,omitempty"`
}

type OnboardingViewResponse struct {
	Question  *QuestionResponse    `json:"question"`
	Answer    string               `json:"answer"`
	Position  int                  `json:"position"`
	Total     int                  `json:"total"`
	Progress  float64              `json:"progress"`
	IsLast    bool                 `json:"is_last"`
	Exhausted bool                 `json:"exhausted"`
	Complete  bool                 `json:"complete"`
	Step      string               `json:"step"`
	Passport  *onboarding.Passport `json:"passport"`
}

type OnboardingStatusResponse struct {
	HasPassport   bool `json:"has_passport"`
	ResponseCount int  `json:"response_count"`
	IsAdmin       bool `json:"is_admin"`
}

func NewOnboardingViewResponse(v onboardinguc.View) OnboardingViewResponse {
	out := OnboardingViewResponse{
		Answer:    v.Answer,
		Position:  v.Position,
		Total:     v.Total,
		Progress:  v.Progress,
		IsLast:    v.IsLast,
		Exhausted: v.Exhausted,
		Complete:  v.Complete,
		Step:      v.Step.String(),
		Passport:  v.Passport,
	}
	if v.Question != nil {
		q := v.Question
		kind := q.Metadata.Kind
		if kind == "" {
			kind = onboarding.KindPlain
		}
		out.Question = &QuestionResponse{
			ID:      q.ID,
			Text:    q.Text,
			Order:   q.Order,
			Kind:    string(kind),
			Options: q.Metadata.Options,
			Section: q.Metadata.Section,
			Skill:   q.Metadata.Skill,
		}
	}
	return out
}
