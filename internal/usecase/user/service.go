package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skilla/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

const maxFieldLength = 200

type ProfileStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (repository.Profile, error)
	Upsert(ctx context.Context, p repository.Profile) (repository.Profile, error)
}

type UpdateMeInput struct {
	FullName     *string
	BusinessUnit *string
}

type Service struct {
	profiles ProfileStore
}

func NewService(profiles ProfileStore) *Service {
	return &Service{profiles: profiles}
}

// GetMe returns the caller's profile. A user without a profile row gets an
// empty one rather than an error.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return repository.Profile{UserID: userID}, nil
		}
		return repository.Profile{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return p, nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (repository.Profile, error) {
	current, err := s.GetMe(ctx, userID)
	if err != nil {
		return repository.Profile{}, err
	}

	if in.FullName != nil {
		current.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.BusinessUnit != nil {
		current.BusinessUnit = strings.TrimSpace(*in.BusinessUnit)
	}
	if current.FullName == "" || len(current.FullName) > maxFieldLength || len(current.BusinessUnit) > maxFieldLength {
		return repository.Profile{}, ErrInvalidInput
	}

	current.UserID = userID
	updated, err := s.profiles.Upsert(ctx, current)
	if err != nil {
		return repository.Profile{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return updated, nil
}
