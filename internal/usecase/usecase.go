package usecase

import (
	"context"

	"skilla/internal/domain/onboarding"
	"skilla/internal/repository"
	ucadmin "skilla/internal/usecase/admin"
	uconboarding "skilla/internal/usecase/onboarding"
	ucpassport "skilla/internal/usecase/passport"
	ucuser "skilla/internal/usecase/user"

	"github.com/google/uuid"
)

type OnboardingUsecase interface {
	Start(ctx context.Context, userID uuid.UUID) (uconboarding.View, error)
	Advance(ctx context.Context, userID uuid.UUID, answer string) (uconboarding.View, error)
	Retreat(ctx context.Context, userID uuid.UUID) (uconboarding.View, error)
	Complete(ctx context.Context, userID uuid.UUID) (uconboarding.View, error)
	Restart(ctx context.Context, userID uuid.UUID) (uconboarding.View, error)
	Status(ctx context.Context, userID uuid.UUID) (uconboarding.Status, error)
}

type PassportUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (onboarding.Passport, error)
	Download(ctx context.Context, userID uuid.UUID) (string, []byte, error)
}

type ProfileUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (repository.Profile, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateMeInput) (repository.Profile, error)
}

type AdminUsecase interface {
	OnboardingStatus(ctx context.Context) (ucadmin.OnboardingOverview, error)
	WorkforceSkills(ctx context.Context) ([]ucadmin.WorkforceSkill, error)
}

var (
	_ OnboardingUsecase = (*uconboarding.Service)(nil)
	_ PassportUsecase   = (*ucpassport.Service)(nil)
	_ ProfileUsecase    = (*ucuser.Service)(nil)
	_ AdminUsecase      = (*ucadmin.Service)(nil)
)
