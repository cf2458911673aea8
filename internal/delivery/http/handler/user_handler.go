package handler

import (
	"errors"

	"skilla/internal/delivery/http/dto"
	"skilla/internal/delivery/http/middleware"
	"skilla/internal/pkg/response"
	"skilla/internal/repository"
	"skilla/internal/usecase"
	ucuser "skilla/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	FullName     *string `json:"full_name"`
	BusinessUnit *string `json:"business_unit"`
}

func NewUserHandler(uc usecase.ProfileUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me/profile", h.GetMe)
	r.Put("/me/profile", h.UpdateMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	prof, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toProfileResponse(prof))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.FullName == nil && req.BusinessUnit == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	prof, err := h.uc.UpdateMe(c.Context(), userID, ucuser.UpdateMeInput{
		FullName:     req.FullName,
		BusinessUnit: req.BusinessUnit,
	})
	if err != nil {
		if errors.Is(err, ucuser.ErrInvalidInput) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Full name is required", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toProfileResponse(prof))
}

func toProfileResponse(p repository.Profile) dto.ProfileResponse {
	res := dto.ProfileResponse{
		UserID:       p.UserID,
		FullName:     p.FullName,
		BusinessUnit: p.BusinessUnit,
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		res.UpdatedAt = &t
	}
	return res
}
