package admin

import (
	"context"
	"errors"
	"testing"

	"skilla/internal/domain/onboarding"
	"skilla/internal/repository"

	"github.com/google/uuid"
)

type mockProgress struct {
	rows []repository.OnboardingProgress
	err  error
}

func (m mockProgress) ListProgress(context.Context) ([]repository.OnboardingProgress, error) {
	return m.rows, m.err
}

type mockCount int

func (m mockCount) Count(context.Context) (int, error) { return int(m), nil }

type mockPassports []repository.StoredPassport

func (m mockPassports) ListWithBusinessUnit(context.Context) ([]repository.StoredPassport, error) {
	return m, nil
}

func TestOnboardingStatus(t *testing.T) {
	rows := []repository.OnboardingProgress{
		{UserID: uuid.New(), FullName: "Ada", BusinessUnit: "Eng", AnsweredStatic: 8},
		{UserID: uuid.New(), FullName: "", AnsweredStatic: 4},
		{UserID: uuid.New(), FullName: "Cy", AnsweredStatic: 1},
		{UserID: uuid.New(), FullName: "Dee"},
	}
	svc := NewService(mockProgress{rows: rows}, mockCount(8), nil, nil, 0, nil)

	out, err := svc.OnboardingStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Total != 4 || out.Completed != 1 || out.InProgress != 2 || out.NotStarted != 1 {
		t.Fatalf("unexpected summary %+v", out)
	}

	wantPct := []int{100, 50, 13, 0}
	wantStatus := []string{StatusCompleted, StatusInProgress, StatusStarted, StatusNotStarted}
	for i, u := range out.Users {
		if u.CompletionPercentage != wantPct[i] || u.Status != wantStatus[i] {
			t.Fatalf("user %d: expected %d%% %s, got %d%% %s", i, wantPct[i], wantStatus[i], u.CompletionPercentage, u.Status)
		}
	}
	if out.Users[1].FullName != "Unknown User" || out.Users[1].BusinessUnit != "Not specified" {
		t.Fatalf("expected fallbacks, got %+v", out.Users[1])
	}
}

func TestOnboardingStatus_Error(t *testing.T) {
	svc := NewService(mockProgress{err: errors.New("db down")}, mockCount(8), nil, nil, 0, nil)
	if _, err := svc.OnboardingStatus(context.Background()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestCompletion(t *testing.T) {
	if completion(3, 0) != 0 || completion(12, 8) != 100 || completion(1, 3) != 33 {
		t.Fatalf("unexpected completion values")
	}
}

func TestWorkforceSkills(t *testing.T) {
	d := func(n int) *int { return &n }
	passports := mockPassports{
		{BusinessUnit: "Eng", Passport: onboarding.Passport{Skills: []onboarding.PassportSkill{
			{Name: "Go", Proficiency: 4, DaysUntilDecay: d(180)},
			{Name: "go", Proficiency: 1},
			{Name: "SQL", Proficiency: 3},
		}}},
		{BusinessUnit: "Eng", Passport: onboarding.Passport{Skills: []onboarding.PassportSkill{
			{Name: "GO", Proficiency: 5, DaysUntilDecay: d(60)},
		}}},
		{Passport: onboarding.Passport{Skills: []onboarding.PassportSkill{
			{Name: "Go", Proficiency: 2},
		}}},
	}
	svc := NewService(nil, nil, passports, nil, 0, nil)

	out, err := svc.WorkforceSkills(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 groups, got %+v", out)
	}
	first := out[0]
	if first.SkillName != "Go" || first.BusinessUnit != "Eng" || first.UserCount != 2 || first.AverageLevel != 4.5 || first.AverageDecayDays != 120 {
		t.Fatalf("unexpected first group %+v", first)
	}
	if out[1].BusinessUnit != "Unknown" || out[1].SkillName != "Go" {
		t.Fatalf("expected unknown unit group second, got %+v", out[1])
	}
}
