package onboarding

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseSkills(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: "Go, Rust", want: []string{"Go", "Rust"}},
		{in: " Go ,\n\n Rust\r\n,,", want: []string{"Go", "Rust"}},
		{in: "a,b,c,d,e,f,g", want: []string{"a", "b", "c", "d", "e"}},
		{in: " , \n ", want: []string{}},
	}
	for _, tc := range cases {
		got := ParseSkills(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseSkills(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestSkillSlug(t *testing.T) {
	cases := map[string]string{
		" Node.js ":            "node-js",
		"node.js":              "node-js",
		"Project   Management": "project-management",
		"C++":                  "cplusplus",
		"C#":                   "csharp",
		"--AWS--":              "aws",
		"...":                  "",
	}
	for in, want := range cases {
		if got := SkillSlug(in); got != want {
			t.Fatalf("SkillSlug(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestSkillQuestions(t *testing.T) {
	trigger := Question{ID: "skills", Order: 4}
	qs := SkillQuestions(trigger, " Project Management ", 1)
	if len(qs) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(qs))
	}

	wantKinds := []Kind{KindScale, KindSelect, KindPlain, KindSelect}
	for i, q := range qs {
		if q.Origin != "skills" {
			t.Fatalf("question %d: unexpected origin %q", i, q.Origin)
		}
		if q.Metadata.Kind != wantKinds[i] {
			t.Fatalf("question %d: expected kind %s, got %s", i, wantKinds[i], q.Metadata.Kind)
		}
		if q.Metadata.Skill != "Project Management" {
			t.Fatalf("question %d: unexpected skill %q", i, q.Metadata.Skill)
		}
		if q.Order <= trigger.Order {
			t.Fatalf("question %d: order %f not after trigger", i, q.Order)
		}
	}
	if qs[0].ID != "project-management-confidence" {
		t.Fatalf("unexpected id %s", qs[0].ID)
	}
	if !reflect.DeepEqual(qs[0].Metadata.Options, []string{"1", "2", "3", "4", "5"}) {
		t.Fatalf("unexpected scale %v", qs[0].Metadata.Options)
	}
	if SkillQuestions(trigger, "!!!", 0) != nil {
		t.Fatalf("expected no questions for a skill without usable characters")
	}
}

func TestParseMetadata(t *testing.T) {
	m, err := ParseMetadata([]byte(`{"section":"C","type":"scale","scale":[1,2,3,4,5],"skill":"Go"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Kind != KindScale || len(m.Options) != 5 || m.Skill != "Go" {
		t.Fatalf("unexpected metadata %+v", m)
	}

	m, err = ParseMetadata([]byte(`{"follow_up_question":"  Why?  "}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Kind != KindPlain || m.FollowUp != "Why?" {
		t.Fatalf("unexpected metadata %+v", m)
	}

	if m, err := ParseMetadata(nil); err != nil || m.Kind != KindPlain {
		t.Fatalf("expected plain metadata for empty input, got %+v %v", m, err)
	}
	if _, err := ParseMetadata([]byte(`{"type":"select"}`)); err == nil {
		t.Fatalf("expected error for select without options")
	}
	if _, err := ParseMetadata([]byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestQuestionJSONKeepsMetadataShape(t *testing.T) {
	q := SkillQuestions(Question{ID: "t", Order: 4}, "Go", 0)[1]
	b, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Question
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, q) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", q, back)
	}
}
