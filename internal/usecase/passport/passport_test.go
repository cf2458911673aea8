package passport

import (
	"context"
	"errors"
	"testing"
	"time"

	"skilla/internal/domain/onboarding"
	"skilla/internal/repository"

	"github.com/google/uuid"
)

type mockQuestions struct{ qs []onboarding.Question }

func (m mockQuestions) ListOrdered(context.Context) ([]onboarding.Question, error) { return m.qs, nil }

type mockProfiles struct {
	profile repository.Profile
	err     error
}

func (m mockProfiles) FindByUserID(context.Context, uuid.UUID) (repository.Profile, error) {
	return m.profile, m.err
}

type mockStore struct {
	err    error
	writes int
	last   onboarding.Passport
}

func (m *mockStore) Upsert(_ context.Context, _ uuid.UUID, p onboarding.Passport) error {
	m.writes++
	m.last = p
	return m.err
}

type mockInvalidator struct{ keys []string }

func (m *mockInvalidator) Delete(_ context.Context, keys ...string) error {
	m.keys = append(m.keys, keys...)
	return nil
}

type stubGenerator struct {
	p   onboarding.Passport
	err error
}

func (s stubGenerator) GeneratePassport(context.Context, uuid.UUID, map[string]string) (onboarding.Passport, error) {
	return s.p, s.err
}

func skillsQuestion() []onboarding.Question {
	return []onboarding.Question{
		{ID: "name", Order: 1},
		{ID: "skills", Order: onboarding.DefaultSkillsQuestionOrder},
	}
}

func TestLocalGenerator(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewLocalGenerator(
		mockQuestions{qs: skillsQuestion()},
		mockProfiles{profile: repository.Profile{FullName: "Ada Lovelace", BusinessUnit: "Engineering"}},
		0,
	)
	g.now = func() time.Time { return fixed }

	answers := map[string]string{
		"name":                     "Ada",
		"skills":                   "Go, Rust, go, Node.js",
		"go-confidence":            "5",
		"go-training":              "Less than 6 months ago",
		"rust-confidence":          "9",
		"rust-training":            "Never",
		"node-js-confidence":       "probably 4",
		"node-js-training":         "More than 1 year ago",
		"follow-up-certifications": "AWS",
	}

	p, err := g.GeneratePassport(context.Background(), uuid.New(), answers)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("invalid passport: %v", err)
	}
	if p.Profile.Name != "Ada Lovelace" || p.Profile.BusinessUnit != "Engineering" || !p.Profile.CompletedAt.Equal(fixed) {
		t.Fatalf("unexpected profile %+v", p.Profile)
	}
	if len(p.Skills) != 3 {
		t.Fatalf("expected 3 distinct skills, got %+v", p.Skills)
	}

	want := []struct {
		name  string
		prof  int
		decay int
	}{
		{"Go", 5, 180},
		{"Rust", 5, 30},
		{"Node.js", 3, 60},
	}
	for i, w := range want {
		s := p.Skills[i]
		if s.Name != w.name || s.Proficiency != w.prof || s.DaysUntilDecay == nil || *s.DaysUntilDecay != w.decay {
			t.Fatalf("skill %d: expected %+v, got %+v", i, w, s)
		}
	}
	if p.Metadata["version"] != onboarding.PassportVersion || p.Metadata["totalResponses"] != len(answers) {
		t.Fatalf("unexpected metadata %+v", p.Metadata)
	}
}

func TestLocalGenerator_ProfileFallbacks(t *testing.T) {
	g := NewLocalGenerator(mockQuestions{qs: skillsQuestion()}, mockProfiles{err: repository.ErrProfileNotFound}, 0)
	p, err := g.GeneratePassport(context.Background(), uuid.New(), map[string]string{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Profile.Name != "Unknown" || p.Profile.BusinessUnit != "Not specified" {
		t.Fatalf("unexpected fallbacks %+v", p.Profile)
	}
	if p.Skills == nil || len(p.Skills) != 0 {
		t.Fatalf("expected empty skill list, got %#v", p.Skills)
	}

	g = NewLocalGenerator(mockQuestions{}, mockProfiles{err: errors.New("db down")}, 0)
	if _, err := g.GeneratePassport(context.Background(), uuid.New(), nil); err == nil {
		t.Fatalf("expected profile error")
	}
}

func TestPersistingGenerator(t *testing.T) {
	store := &mockStore{}
	inv := &mockInvalidator{}
	good := onboarding.Passport{Skills: []onboarding.PassportSkill{{Name: "Go", Proficiency: 4}}}
	user := uuid.New()

	g := NewPersistingGenerator(stubGenerator{p: good}, store, inv, nil)
	if _, err := g.GeneratePassport(context.Background(), user, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if store.writes != 1 || store.last.Skills[0].Name != "Go" {
		t.Fatalf("passport not stored")
	}
	if len(inv.keys) != 2 || inv.keys[0] != "passport:"+user.String() {
		t.Fatalf("unexpected invalidations %v", inv.keys)
	}

	store.err = errors.New("write failed")
	if _, err := g.GeneratePassport(context.Background(), user, nil); err == nil {
		t.Fatalf("expected store failure to fail generation")
	}

	bad := onboarding.Passport{Skills: []onboarding.PassportSkill{{Name: "Go", Proficiency: 0}}}
	store = &mockStore{}
	g = NewPersistingGenerator(stubGenerator{p: bad}, store, nil, nil)
	if _, err := g.GeneratePassport(context.Background(), user, nil); err == nil {
		t.Fatalf("expected malformed passport rejected")
	}
	if store.writes != 0 {
		t.Fatalf("malformed passport stored")
	}
}

type mockReader struct {
	sp    repository.StoredPassport
	err   error
	calls int
}

func (m *mockReader) FindByUserID(context.Context, uuid.UUID) (repository.StoredPassport, error) {
	m.calls++
	return m.sp, m.err
}

type memCache struct{ m map[string]onboarding.Passport }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	p, ok := c.m[key]
	if ok {
		*(out.(*onboarding.Passport)) = p
	}
	return ok, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.m[key] = value.(onboarding.Passport)
	return nil
}

func TestService_GetAndDownload(t *testing.T) {
	reader := &mockReader{sp: repository.StoredPassport{Passport: onboarding.Passport{
		Profile: onboarding.PassportProfile{Name: "Ada  Lovelace"},
	}}}
	svc := NewService(reader, &memCache{m: map[string]onboarding.Passport{}}, time.Minute, nil)
	user := uuid.New()

	if _, err := svc.Get(context.Background(), user); err != nil {
		t.Fatalf("get: %v", err)
	}
	name, body, err := svc.Download(context.Background(), user)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("expected cached read, got %d db reads", reader.calls)
	}
	if name != "skill-passport-ada-lovelace.json" {
		t.Fatalf("unexpected filename %s", name)
	}
	if want := "{\n  \"profile\": {"; string(body[:len(want)]) != want {
		t.Fatalf("expected 2-space pretty json, got %s", body)
	}
}

func TestService_NotFound(t *testing.T) {
	svc := NewService(&mockReader{err: repository.ErrPassportNotFound}, nil, 0, nil)
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	svc = NewService(&mockReader{err: errors.New("db down")}, nil, 0, nil)
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestDownloadFilename(t *testing.T) {
	cases := map[string]string{
		"Ada Lovelace": "skill-passport-ada-lovelace.json",
		"  ":           "skill-passport-user.json",
		"Zoë O'Neil":   "skill-passport-zo-oneil.json",
	}
	for in, want := range cases {
		if got := DownloadFilename(in); got != want {
			t.Fatalf("DownloadFilename(%q): expected %s, got %s", in, want, got)
		}
	}
}
