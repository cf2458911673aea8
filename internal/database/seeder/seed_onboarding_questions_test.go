package seeder

import (
	"encoding/json"
	"testing"

	"skilla/internal/domain/onboarding"
)

func TestStaticQuestions(t *testing.T) {
	qs := StaticQuestions()

	seen := map[float64]bool{}
	triggers := 0
	for i, q := range qs {
		if q.Text == "" {
			t.Fatalf("question %d has no text", i)
		}
		if seen[q.Order] {
			t.Fatalf("duplicate order %v", q.Order)
		}
		seen[q.Order] = true
		if i > 0 && q.Order <= qs[i-1].Order {
			t.Fatalf("questions not in ascending order at %d", i)
		}
		if q.Order == onboarding.DefaultSkillsQuestionOrder {
			triggers++
		}
		if err := q.Metadata.Validate(); err != nil {
			t.Fatalf("question %d: %v", i, err)
		}

		b, err := json.Marshal(q.Metadata)
		if err != nil {
			t.Fatalf("question %d: marshal: %v", i, err)
		}
		back, err := onboarding.ParseMetadata(b)
		if err != nil {
			t.Fatalf("question %d: parse: %v", i, err)
		}
		if back.Kind != q.Metadata.Kind || back.FollowUp != q.Metadata.FollowUp {
			t.Fatalf("question %d: metadata changed in storage: %+v", i, back)
		}
	}
	if triggers != 1 {
		t.Fatalf("expected exactly one skills question, got %d", triggers)
	}
}
