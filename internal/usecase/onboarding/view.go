package onboarding

import "skilla/internal/domain/onboarding"

// View is what the presentation layer renders after every call.
type View struct {
	Question  *onboarding.Question
	Answer    string
	Position  int
	Total     int
	Progress  float64
	IsLast    bool
	Exhausted bool
	Complete  bool
	Step      onboarding.Step
	Passport  *onboarding.Passport
}

func newView(s *onboarding.FlowState, step onboarding.Step) View {
	v := View{
		Answer:    s.CurrentAnswer(),
		Position:  s.Position(),
		Total:     s.Total(),
		Progress:  s.Progress(),
		IsLast:    s.IsLast(),
		Exhausted: s.Exhausted(),
		Complete:  s.IsComplete(),
		Step:      step,
	}
	if q, err := s.CurrentQuestion(); err == nil {
		v.Question = &q
	}
	if p, ok := s.Passport(); ok {
		v.Passport = &p
	}
	return v
}
