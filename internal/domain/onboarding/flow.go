package onboarding

import (
	"github.com/google/uuid"
)

// FlowState is the in-memory state of one user's onboarding session. It is
// not safe for concurrent use; the owner serializes access.
//
// The traversal sequence is every static question followed by the dynamic
// questions it produced, in the order they were appended. New questions are
// always placed after the question that produced them, so indices at or
// before the current position never move.
type FlowState struct {
	userID uuid.UUID

	static  []Question
	dynamic []Question
	ids     map[string]struct{}

	answers  map[string]string
	position int

	exhausted bool
	passport  *Passport
}

// NewFlowState copies static (already in display order) and pre-populates
// answers from previously saved responses.
func NewFlowState(userID uuid.UUID, static []Question, saved map[string]string) *FlowState {
	s := &FlowState{
		userID:  userID,
		static:  append([]Question(nil), static...),
		ids:     make(map[string]struct{}, len(static)),
		answers: make(map[string]string, len(saved)),
	}
	for _, q := range s.static {
		s.ids[q.ID] = struct{}{}
	}
	for id, a := range saved {
		s.answers[id] = a
	}
	return s
}

func (s *FlowState) UserID() uuid.UUID { return s.userID }

func (s *FlowState) Position() int { return s.position }

func (s *FlowState) Total() int { return len(s.static) + len(s.dynamic) }

func (s *FlowState) StaticCount() int { return len(s.static) }

// DynamicQuestions returns the generated questions in append order.
func (s *FlowState) DynamicQuestions() []Question {
	return append([]Question(nil), s.dynamic...)
}

// Questions returns the full traversal sequence.
func (s *FlowState) Questions() []Question {
	return s.sequence()
}

func (s *FlowState) CurrentQuestion() (Question, error) {
	seq := s.sequence()
	if s.position < 0 || s.position >= len(seq) {
		return Question{}, ErrNotFound
	}
	return seq[s.position], nil
}

// CurrentAnswer is the recorded answer for the current question, or "".
func (s *FlowState) CurrentAnswer() string {
	q, err := s.CurrentQuestion()
	if err != nil {
		return ""
	}
	return s.answers[q.ID]
}

func (s *FlowState) Answer(questionID string) (string, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

func (s *FlowState) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Progress is (position+1)/total. It drops when an answer injects questions.
func (s *FlowState) Progress() float64 {
	total := s.Total()
	if total < 1 {
		total = 1
	}
	return float64(s.position+1) / float64(total)
}

func (s *FlowState) IsLast() bool {
	return s.Total() > 0 && s.position == s.Total()-1
}

// Exhausted reports that the last question was answered and the flow is
// waiting for (or retrying) passport generation.
func (s *FlowState) Exhausted() bool { return s.exhausted }

func (s *FlowState) IsComplete() bool { return s.passport != nil }

func (s *FlowState) Passport() (Passport, bool) {
	if s.passport == nil {
		return Passport{}, false
	}
	return *s.passport, true
}

// Retreat moves back one step, floor 0. Answers and generated questions stay.
// A completed flow is reopened: the in-memory passport is dropped and the
// next exhausting advance generates again.
func (s *FlowState) Retreat() {
	s.exhausted = false
	s.passport = nil
	if s.position > 0 {
		s.position--
	}
}

func (s *FlowState) hasQuestion(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// appendDynamic appends the questions whose ids are not yet known and reports
// how many were added.
func (s *FlowState) appendDynamic(qs ...Question) int {
	added := 0
	for _, q := range qs {
		if q.ID == "" || s.hasQuestion(q.ID) {
			continue
		}
		s.ids[q.ID] = struct{}{}
		s.dynamic = append(s.dynamic, q)
		added++
	}
	return added
}

func (s *FlowState) sequence() []Question {
	out := make([]Question, 0, s.Total())
	if len(s.dynamic) == 0 {
		return append(out, s.static...)
	}

	byOrigin := make(map[string][]Question, len(s.static))
	for _, q := range s.dynamic {
		byOrigin[q.Origin] = append(byOrigin[q.Origin], q)
	}
	for _, q := range s.static {
		out = append(out, q)
		if children, ok := byOrigin[q.ID]; ok {
			out = append(out, children...)
			delete(byOrigin, q.ID)
		}
	}
	// Generated questions whose origin is not a static question keep append
	// order at the tail.
	if len(byOrigin) > 0 {
		for _, q := range s.dynamic {
			if _, ok := byOrigin[q.Origin]; ok {
				out = append(out, q)
			}
		}
	}
	return out
}
