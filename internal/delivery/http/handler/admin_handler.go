package handler

import (
	"skilla/internal/delivery/http/dto"
	"skilla/internal/delivery/http/middleware"
	"skilla/internal/pkg/response"
	"skilla/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminHandler struct {
	uc usecase.AdminUsecase
}

func NewAdminHandler(uc usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// RegisterRoutes expects r to be guarded by the admin middleware already.
func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/onboarding-status", h.OnboardingStatus)
	r.Get("/workforce-skills", h.WorkforceSkills)
}

func (h *AdminHandler) OnboardingStatus(c fiber.Ctx) error {
	out, err := h.uc.OnboardingStatus(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	users := make([]dto.OnboardingUserStatusResponse, 0, len(out.Users))
	for _, u := range out.Users {
		item := dto.OnboardingUserStatusResponse{
			UserID:               u.UserID,
			FullName:             u.FullName,
			BusinessUnit:         u.BusinessUnit,
			AnsweredQuestions:    u.AnsweredQuestions,
			TotalQuestions:       u.TotalQuestions,
			CompletionPercentage: u.CompletionPercentage,
			Status:               u.Status,
		}
		if !u.LastUpdated.IsZero() {
			t := u.LastUpdated
			item.LastUpdated = &t
		}
		users = append(users, item)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.OnboardingOverviewResponse{
		Users: users,
		Summary: dto.OnboardingSummaryResponse{
			Total:      out.Total,
			Completed:  out.Completed,
			InProgress: out.InProgress,
			NotStarted: out.NotStarted,
		},
	})
}

func (h *AdminHandler) WorkforceSkills(c fiber.Ctx) error {
	skills, err := h.uc.WorkforceSkills(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := make([]dto.WorkforceSkillResponse, 0, len(skills))
	for _, s := range skills {
		res = append(res, dto.WorkforceSkillResponse{
			SkillName:        s.SkillName,
			BusinessUnit:     s.BusinessUnit,
			UserCount:        s.UserCount,
			AverageLevel:     s.AverageLevel,
			AverageDecayDays: s.AverageDecayDays,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
