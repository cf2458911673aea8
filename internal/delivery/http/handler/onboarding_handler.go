package handler

import (
	"errors"

	"skilla/internal/delivery/http/dto"
	"skilla/internal/delivery/http/middleware"
	"skilla/internal/domain/onboarding"
	"skilla/internal/pkg/response"
	"skilla/internal/usecase"
	uconboarding "skilla/internal/usecase/onboarding"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	msgAnswerRequired    = "Please provide an answer before continuing."
	msgAnswerNotSaved    = "Your answer could not be saved. Please try again."
	msgPassportFailed    = "We couldn't generate your skill passport. Please try again."
	msgOnboardingLoad    = "Failed to load onboarding questions. Please try again."
	msgNoQuestions       = "No onboarding questions are available."
	msgOnboardingUnknown = "Onboarding session not found"
)

type OnboardingHandler struct {
	uc usecase.OnboardingUsecase
}

type advanceRequest struct {
	Answer string `json:"answer"`
}

func NewOnboardingHandler(uc usecase.OnboardingUsecase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

func (h *OnboardingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/onboarding", h.Current)
	r.Get("/onboarding/status", h.Status)
	r.Post("/onboarding/next", h.Next)
	r.Post("/onboarding/previous", h.Previous)
	r.Post("/onboarding/complete", h.Complete)
	r.Post("/onboarding/restart", h.Restart)
}

func (h *OnboardingHandler) Current(c fiber.Ctx) error {
	return h.respond(c, func(userID uuid.UUID) (uconboarding.View, error) {
		return h.uc.Start(c.Context(), userID)
	})
}

func (h *OnboardingHandler) Next(c fiber.Ctx) error {
	var req advanceRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return h.respond(c, func(userID uuid.UUID) (uconboarding.View, error) {
		return h.uc.Advance(c.Context(), userID, req.Answer)
	})
}

func (h *OnboardingHandler) Previous(c fiber.Ctx) error {
	return h.respond(c, func(userID uuid.UUID) (uconboarding.View, error) {
		return h.uc.Retreat(c.Context(), userID)
	})
}

func (h *OnboardingHandler) Complete(c fiber.Ctx) error {
	return h.respond(c, func(userID uuid.UUID) (uconboarding.View, error) {
		return h.uc.Complete(c.Context(), userID)
	})
}

func (h *OnboardingHandler) Restart(c fiber.Ctx) error {
	return h.respond(c, func(userID uuid.UUID) (uconboarding.View, error) {
		return h.uc.Restart(c.Context(), userID)
	})
}

func (h *OnboardingHandler) Status(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	st, err := h.uc.Status(c.Context(), userID)
	if err != nil {
		return mapOnboardingError(err, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.OnboardingStatusResponse{
		HasPassport:   st.HasPassport,
		ResponseCount: st.ResponseCount,
		IsAdmin:       st.IsAdmin,
	})
}

func (h *OnboardingHandler) respond(c fiber.Ctx, call func(userID uuid.UUID) (uconboarding.View, error)) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	v, err := call(userID)
	if err != nil {
		// The view still describes the unchanged session, so the client can
		// keep rendering the same question next to the error.
		var data any
		if v.Total > 0 {
			data = dto.NewOnboardingViewResponse(v)
		}
		return mapOnboardingError(err, data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOnboardingViewResponse(v))
}

func mapOnboardingError(err error, data any) error {
	switch {
	case errors.Is(err, onboarding.ErrValidation):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, msgAnswerRequired, data, err)
	case errors.Is(err, onboarding.ErrPersistence):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgAnswerNotSaved, data, err)
	case errors.Is(err, onboarding.ErrGeneration):
		return middleware.NewAppError(fiber.StatusBadGateway, msgPassportFailed, data, err)
	case errors.Is(err, uconboarding.ErrNoQuestions):
		return middleware.NewAppError(fiber.StatusNotFound, msgNoQuestions, nil, err)
	case errors.Is(err, uconboarding.ErrLoad):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgOnboardingLoad, nil, err)
	case errors.Is(err, onboarding.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgOnboardingUnknown, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
