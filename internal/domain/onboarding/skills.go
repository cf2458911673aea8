package onboarding

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxSkills caps how many skills one answer to the skills question fans out to.
const MaxSkills = 5

const skillSection = "C"

type SkillQuestionKind string

const (
	SkillConfidence  SkillQuestionKind = "confidence"
	SkillFrequency   SkillQuestionKind = "frequency"
	SkillAchievement SkillQuestionKind = "achievement"
	SkillTraining    SkillQuestionKind = "training"
)

// SkillQuestionKinds is the fixed order of the per-skill sub-questionnaire.
var SkillQuestionKinds = []SkillQuestionKind{
	SkillConfidence,
	SkillFrequency,
	SkillAchievement,
	SkillTraining,
}

var (
	FrequencyOptions = []string{"Daily", "Weekly", "Monthly", "Rarely"}
	TrainingOptions  = []string{"Less than 6 months ago", "6-12 months ago", "More than 1 year ago", "Never"}
)

// ParseSkills splits an answer on commas and newlines, trims each entry,
// drops empties and keeps the first MaxSkills.
func ParseSkills(answer string) []string {
	parts := strings.FieldsFunc(answer, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	out := make([]string, 0, MaxSkills)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == MaxSkills {
			break
		}
	}
	return out
}

// SkillSlug normalizes a skill name for id derivation: lower-cased, every run
// of separators collapsed to one hyphen. "+" and "#" are spelled out so that
// C++ and C# do not collide.
func SkillSlug(skill string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(skill)) {
		var word string
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word = string(r)
		case r == '+':
			word = "plus"
		case r == '#':
			word = "sharp"
		default:
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteString(word)
	}
	return b.String()
}

// SkillQuestionID returns "" when the skill has no usable characters.
func SkillQuestionID(skill string, kind SkillQuestionKind) string {
	slug := SkillSlug(skill)
	if slug == "" {
		return ""
	}
	return slug + "-" + string(kind)
}

// SkillQuestions synthesizes the four follow-up questions for one skill named
// in the answer to trigger. index is the skill's position within that answer
// and only affects the display order.
func SkillQuestions(trigger Question, skill string, index int) []Question {
	skill = strings.TrimSpace(skill)
	if SkillSlug(skill) == "" {
		return nil
	}

	origin := originOf(trigger)
	base := trigger.Order + 0.1 + float64(index)*0.4
	out := make([]Question, 0, len(SkillQuestionKinds))
	for i, kind := range SkillQuestionKinds {
		q := Question{
			ID:     SkillQuestionID(skill, kind),
			Order:  base + float64(i)*0.1,
			Origin: origin,
		}
		switch kind {
		case SkillConfidence:
			q.Text = fmt.Sprintf("On a scale from 1 (novice) to 5 (expert), how confident are you in %s?", skill)
			q.Metadata = ScaleMetadata(1, 5)
		case SkillFrequency:
			q.Text = fmt.Sprintf("How often did you use %s in the past month?", skill)
			q.Metadata = SelectMetadata(FrequencyOptions...)
		case SkillAchievement:
			q.Text = fmt.Sprintf("What was the largest or most complex thing you achieved with %s?", skill)
			q.Metadata = PlainMetadata()
		case SkillTraining:
			q.Text = fmt.Sprintf("When did you last up-skill or train on %s?", skill)
			q.Metadata = SelectMetadata(TrainingOptions...)
		}
		q.Metadata.Section = skillSection
		q.Metadata.Skill = skill
		out = append(out, q)
	}
	return out
}

func FollowUpID(triggerID string) string {
	return "follow-up-" + triggerID
}

// FollowUpQuestion returns the single follow-up configured on trigger, if any.
func FollowUpQuestion(trigger Question) (Question, bool) {
	text := strings.TrimSpace(trigger.Metadata.FollowUp)
	if text == "" {
		return Question{}, false
	}
	return Question{
		ID:       FollowUpID(trigger.ID),
		Text:     text,
		Order:    trigger.Order + 0.5,
		Metadata: PlainMetadata(),
		Origin:   originOf(trigger),
	}, true
}

func originOf(q Question) string {
	if q.Generated() {
		return q.Origin
	}
	return q.ID
}
