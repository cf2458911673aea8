package passport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"skilla/internal/domain/onboarding"
	"skilla/internal/pkg/jwt"
	"skilla/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidDocument = errors.New("invalid passport document")

// StoredPassports reads back a passport the remote service saved itself.
type StoredPassports interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (repository.StoredPassport, error)
}

// RemoteGenerator asks an external service to build the passport. The
// caller's bearer token is forwarded so the service can resolve the user.
type RemoteGenerator struct {
	baseURL string
	client  *http.Client
	stored  StoredPassports
	logger  *log.Logger
}

type createPassportRequest struct {
	UserID    string            `json:"user_id"`
	Responses map[string]string `json:"responses"`
}

type wrappedPassport struct {
	Passport json.RawMessage `json:"passport"`
}

// acknowledgement is the reply of a service that stored the passport itself.
type acknowledgement struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SkillsCount int    `json:"skillsCount"`
}

func NewRemoteGenerator(baseURL string, timeout time.Duration, logger *log.Logger) (*RemoteGenerator, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("passport generator url is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RemoteGenerator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// WithStoredPassports lets the generator accept acknowledgement replies by
// reading the saved passport from store.
func (g *RemoteGenerator) WithStoredPassports(store StoredPassports) *RemoteGenerator {
	cp := *g
	cp.stored = store
	return &cp
}

func (g *RemoteGenerator) GeneratePassport(ctx context.Context, userID uuid.UUID, answers map[string]string) (onboarding.Passport, error) {
	endpoint := g.baseURL + "/create-passport"

	if answers == nil {
		answers = map[string]string{}
	}
	b, err := json.Marshal(createPassportRequest{UserID: userID.String(), Responses: answers})
	if err != nil {
		return onboarding.Passport{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return onboarding.Passport{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok, ok := jwt.BearerFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Printf("[Passport] remote request failed endpoint=%s user=%s err=%v", endpoint, userID, err)
		return onboarding.Passport{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		g.logger.Printf("[Passport] remote error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, bodyStr)
		return onboarding.Passport{}, fmt.Errorf("create passport failed: status=%d body=%s", resp.StatusCode, bodyStr)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return onboarding.Passport{}, err
	}
	doc, ack, err := unwrap(raw)
	if err != nil {
		return onboarding.Passport{}, err
	}
	if ack != nil {
		return g.readBack(ctx, userID, *ack)
	}
	if err := validateDocument(doc); err != nil {
		return onboarding.Passport{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var p onboarding.Passport
	if err := json.Unmarshal(doc, &p); err != nil {
		return onboarding.Passport{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	g.logger.Printf("[Passport] remote generated user=%s skills=%d took=%s", userID, len(p.Skills), time.Since(started).Round(time.Millisecond))
	return p, nil
}

func (g *RemoteGenerator) readBack(ctx context.Context, userID uuid.UUID, ack acknowledgement) (onboarding.Passport, error) {
	if !ack.Success {
		return onboarding.Passport{}, fmt.Errorf("create passport failed: %s", ack.Message)
	}
	if g.stored == nil {
		return onboarding.Passport{}, fmt.Errorf("%w: acknowledged without a document", ErrInvalidDocument)
	}
	sp, err := g.stored.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrPassportNotFound) {
		return onboarding.Passport{}, fmt.Errorf("%w: acknowledged passport not stored", ErrInvalidDocument)
	}
	if err != nil {
		return onboarding.Passport{}, err
	}
	g.logger.Printf("[Passport] remote stored user=%s skills=%d acknowledged_skills=%d", userID, len(sp.Passport.Skills), ack.SkillsCount)
	return sp.Passport, nil
}

// unwrap accepts the bare document, {"passport": document}, or an
// acknowledgement {"success", "message", "skillsCount"}.
func unwrap(raw []byte) (json.RawMessage, *acknowledgement, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if _, bare := fields["skills"]; bare {
		return raw, nil, nil
	}
	var w wrappedPassport
	if err := json.Unmarshal(raw, &w); err == nil && len(w.Passport) > 0 && string(w.Passport) != "null" {
		return w.Passport, nil, nil
	}
	if _, ok := fields["success"]; ok {
		var ack acknowledgement
		if err := json.Unmarshal(raw, &ack); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return nil, &ack, nil
	}
	return nil, nil, fmt.Errorf("%w: no passport in response", ErrInvalidDocument)
}

var _ onboarding.PassportGenerator = (*RemoteGenerator)(nil)
