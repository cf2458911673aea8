package passport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skilla/internal/domain/onboarding"
	"skilla/internal/pkg/jwt"
	"skilla/internal/repository"

	"github.com/google/uuid"
)

const validDoc = `{"profile":{"name":"Ada","businessUnit":"Eng","completedAt":"2026-01-02T03:04:05Z"},"skills":[{"name":"Go","proficiency":4,"daysUntilDecay":120}],"metadata":{"version":"1.0"}}`

func newTestGenerator(t *testing.T, h http.HandlerFunc) *RemoteGenerator {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	g, err := NewRemoteGenerator(srv.URL+"/", time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

func TestRemoteGenerator_BareDocument(t *testing.T) {
	user := uuid.New()
	var got createPassportRequest
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/create-passport" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(validDoc))
	})

	p, err := g.GeneratePassport(context.Background(), user, map[string]string{"q1": "Ada"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.UserID != user.String() || got.Responses["q1"] != "Ada" {
		t.Fatalf("unexpected request body %+v", got)
	}
	if p.Profile.Name != "Ada" || len(p.Skills) != 1 || p.Skills[0].Proficiency != 4 || *p.Skills[0].DaysUntilDecay != 120 {
		t.Fatalf("unexpected passport %+v", p)
	}
}

func TestRemoteGenerator_WrappedDocument(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"passport":` + validDoc + `}`))
	})
	p, err := g.GeneratePassport(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Profile.BusinessUnit != "Eng" {
		t.Fatalf("unexpected passport %+v", p)
	}
}

func TestRemoteGenerator_SchemaFailure(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"profile":{"name":"Ada","businessUnit":"Eng","completedAt":"2026-01-02T03:04:05Z"},"skills":[{"name":"Go","proficiency":9}]}`))
	})
	_, err := g.GeneratePassport(context.Background(), uuid.New(), nil)
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestRemoteGenerator_MissingPassport(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if _, err := g.GeneratePassport(context.Background(), uuid.New(), nil); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestRemoteGenerator_Non2xx(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := g.GeneratePassport(context.Background(), uuid.New(), nil)
	if err == nil || errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestRemoteGenerator_ContextCancelled(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		// The server only notices the client going away once the body is read.
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.GeneratePassport(ctx, uuid.New(), nil); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestNewRemoteGenerator_RequiresURL(t *testing.T) {
	if _, err := NewRemoteGenerator("  ", 0, nil); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

type fakeStored struct {
	sp    repository.StoredPassport
	err   error
	calls int
}

func (f *fakeStored) FindByUserID(context.Context, uuid.UUID) (repository.StoredPassport, error) {
	f.calls++
	return f.sp, f.err
}

func TestRemoteGenerator_ForwardsBearerToken(t *testing.T) {
	var auth string
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(validDoc))
	})

	ctx := jwt.ContextWithBearer(context.Background(), "user-token")
	if _, err := g.GeneratePassport(ctx, uuid.New(), nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if auth != "Bearer user-token" {
		t.Fatalf("expected forwarded bearer, got %q", auth)
	}

	if _, err := g.GeneratePassport(context.Background(), uuid.New(), nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if auth != "" {
		t.Fatalf("expected no authorization without a caller token, got %q", auth)
	}
}

func TestRemoteGenerator_AcknowledgementReadsStoredPassport(t *testing.T) {
	stored := &fakeStored{sp: repository.StoredPassport{Passport: onboarding.Passport{
		Profile: onboarding.PassportProfile{Name: "Ada"},
		Skills:  []onboarding.PassportSkill{{Name: "Go", Proficiency: 4}, {Name: "SQL", Proficiency: 3}},
	}}}
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"Skill passport created successfully","skillsCount":2}`))
	}).WithStoredPassports(stored)

	p, err := g.GeneratePassport(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stored.calls != 1 || p.Profile.Name != "Ada" || len(p.Skills) != 2 {
		t.Fatalf("expected stored passport, got %+v after %d reads", p, stored.calls)
	}
}

func TestRemoteGenerator_AcknowledgementFailures(t *testing.T) {
	ack := `{"success":true,"message":"ok","skillsCount":1}`
	cases := []struct {
		name   string
		body   string
		stored StoredPassports
		doc    bool
	}{
		{name: "no store", body: ack, doc: true},
		{name: "not stored", body: ack, stored: &fakeStored{err: repository.ErrPassportNotFound}, doc: true},
		{name: "store error", body: ack, stored: &fakeStored{err: errors.New("db down")}},
		{name: "unsuccessful", body: `{"success":false,"message":"no responses"}`, stored: &fakeStored{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			if tc.stored != nil {
				g = g.WithStoredPassports(tc.stored)
			}
			_, err := g.GeneratePassport(context.Background(), uuid.New(), nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			if errors.Is(err, ErrInvalidDocument) != tc.doc {
				t.Fatalf("unexpected error kind: %v", err)
			}
		})
	}
}
