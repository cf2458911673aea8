package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"skilla/internal/pkg/jwt"
	"skilla/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeRoles struct {
	admins map[uuid.UUID]bool
	err    error
}

func (f fakeRoles) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	return f.admins[userID], f.err
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	for _, h := range handlers {
		app.Use(h)
	}
	app.Get("/x", func(c fiber.Ctx) error {
		id, _ := UserID(c)
		return response.Success(c, fiber.StatusOK, "", id.String())
	})
	return app
}

func decode(t *testing.T, app *fiber.App, target string, header string) response.SemanticResponse {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var sr response.SemanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sr.Status != resp.StatusCode {
		t.Fatalf("envelope status %d != http status %d", sr.Status, resp.StatusCode)
	}
	return sr
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("secret", "")
	auth := NewAuthMiddleware(svc)
	id := uuid.New()
	tok, err := svc.GenerateAccessToken(id, "", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	app := newApp(auth.Middleware())
	if sr := decode(t, app, "/x", ""); sr.Status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", sr.Status)
	}
	if sr := decode(t, app, "/x", "Bearer nope"); sr.Status != fiber.StatusUnauthorized || sr.Message != "Invalid token" {
		t.Fatalf("expected invalid token, got %+v", sr)
	}
	sr := decode(t, app, "/x", "Bearer "+tok)
	if sr.Status != fiber.StatusOK || sr.Data != id.String() {
		t.Fatalf("expected user id, got %+v", sr)
	}

	if sr := decode(t, app, "/x?token="+tok, ""); sr.Status != fiber.StatusUnauthorized {
		t.Fatalf("query token accepted without opt-in")
	}
	wsApp := newApp(auth.WithQueryToken().Middleware())
	if sr := decode(t, wsApp, "/x?token="+tok, ""); sr.Status != fiber.StatusOK {
		t.Fatalf("expected query token accepted, got %+v", sr)
	}
}

func TestRequireAdmin(t *testing.T) {
	svc := jwt.NewHMACService("secret", "")
	admin, member := uuid.New(), uuid.New()
	roles := fakeRoles{admins: map[uuid.UUID]bool{admin: true}}
	app := newApp(NewAuthMiddleware(svc).Middleware(), RequireAdmin(roles))

	tok, _ := svc.GenerateAccessToken(member, "", time.Hour)
	if sr := decode(t, app, "/x", "Bearer "+tok); sr.Status != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", sr.Status)
	}
	tok, _ = svc.GenerateAccessToken(admin, "", time.Hour)
	if sr := decode(t, app, "/x", "Bearer "+tok); sr.Status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", sr.Status)
	}
}

func TestNormalizeError(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{err: NewAppError(fiber.StatusServiceUnavailable, "Failed to save response", nil, errors.New("db down")), status: 503, message: "Failed to save response"},
		{err: NewAppError(fiber.StatusBadGateway, "Failed to create passport", nil, nil), status: 502, message: "Failed to create passport"},
		{err: NewAppError(fiber.StatusInternalServerError, "leaky detail", nil, nil), status: 500, message: response.MessageInternalServerError},
		{err: NewAppError(fiber.StatusUnprocessableEntity, "", nil, nil), status: 422, message: response.MessageUnprocessableEntity},
		{err: fiber.NewError(fiber.StatusNotFound), status: 404, message: "Not Found"},
		{err: errors.New("boom"), status: 500, message: response.MessageInternalServerError},
	}
	for i, tc := range cases {
		status, msg, _ := normalizeError(tc.err)
		if status != tc.status || msg != tc.message {
			t.Fatalf("case %d: expected %d %q, got %d %q", i, tc.status, tc.message, status, msg)
		}
	}
}

func TestAuthMiddleware_ForwardsBearerInContext(t *testing.T) {
	svc := jwt.NewHMACService("secret", "")
	tok, err := svc.GenerateAccessToken(uuid.New(), "", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Use(NewAuthMiddleware(svc).Middleware())
	app.Get("/x", func(c fiber.Ctx) error {
		got, _ := jwt.BearerFromContext(c.Context())
		return response.Success(c, fiber.StatusOK, "", got)
	})

	sr := decode(t, app, "/x", "Bearer "+tok)
	if sr.Status != fiber.StatusOK || sr.Data != tok {
		t.Fatalf("expected bearer token in request context, got %+v", sr)
	}
}
