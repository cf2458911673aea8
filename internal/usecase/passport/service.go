package passport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"skilla/internal/domain/onboarding"
	"skilla/internal/infrastructure/cache"
	"skilla/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("passport not found")
	ErrInternal = errors.New("internal error")
)

type PassportReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (repository.StoredPassport, error)
}

type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	passports PassportReader
	cache     JSONCache
	ttl       time.Duration
	logger    *log.Logger
}

func NewService(passports PassportReader, c JSONCache, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{passports: passports, cache: c, ttl: ttl, logger: logger}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (onboarding.Passport, error) {
	key := cache.PassportKey(userID)
	if s.cache != nil {
		var cached onboarding.Passport
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	sp, err := s.passports.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPassportNotFound) {
			return onboarding.Passport{}, ErrNotFound
		}
		return onboarding.Passport{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, sp.Passport, s.ttl); err != nil {
			s.logger.Printf("[Passport] cache set failed user=%s err=%v", userID, err)
		}
	}
	return sp.Passport, nil
}

// Download returns the passport pretty-printed with its attachment name.
func (s *Service) Download(ctx context.Context, userID uuid.UUID) (string, []byte, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	b, err := p.Pretty()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return DownloadFilename(p.Profile.Name), b, nil
}

var nonFilename = regexp.MustCompile(`[^a-z0-9-]+`)

// DownloadFilename is skill-passport-<name>.json with the name lower-cased
// and hyphenated, or "user" when nothing usable is left.
func DownloadFilename(name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	slug = strings.Trim(nonFilename.ReplaceAllString(slug, ""), "-")
	if slug == "" {
		slug = "user"
	}
	return "skill-passport-" + slug + ".json"
}
