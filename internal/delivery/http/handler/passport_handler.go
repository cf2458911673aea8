package handler

import (
	"errors"

	"skilla/internal/delivery/http/middleware"
	"skilla/internal/pkg/response"
	"skilla/internal/usecase"
	ucpassport "skilla/internal/usecase/passport"

	"github.com/gofiber/fiber/v3"
)

const msgPassportMissing = "Complete your onboarding first."

type PassportHandler struct {
	uc usecase.PassportUsecase
}

func NewPassportHandler(uc usecase.PassportUsecase) *PassportHandler {
	return &PassportHandler{uc: uc}
}

func (h *PassportHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/passport", h.Get)
	r.Get("/passport/download", h.Download)
}

func (h *PassportHandler) Get(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapPassportError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *PassportHandler) Download(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	filename, body, err := h.uc.Download(c.Context(), userID)
	if err != nil {
		return mapPassportError(err)
	}

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(body)
}

func mapPassportError(err error) error {
	if errors.Is(err, ucpassport.ErrNotFound) {
		return middleware.NewAppError(fiber.StatusNotFound, msgPassportMissing, nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
