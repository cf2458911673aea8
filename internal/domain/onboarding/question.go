package onboarding

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the input shape a question expects.
type Kind string

const (
	KindPlain  Kind = "plain"
	KindScale  Kind = "scale"
	KindSelect Kind = "select"
)

// Metadata is the closed set of question extensions. Options is only
// meaningful for KindScale and KindSelect; FollowUp may be set on any kind.
type Metadata struct {
	Kind     Kind
	Options  []string
	FollowUp string
	Section  string
	Skill    string
}

func PlainMetadata() Metadata {
	return Metadata{Kind: KindPlain}
}

// ScaleMetadata builds an inclusive integer scale, e.g. 1..5.
func ScaleMetadata(lo, hi int) Metadata {
	if hi < lo {
		lo, hi = hi, lo
	}
	opts := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		opts = append(opts, strconv.Itoa(i))
	}
	return Metadata{Kind: KindScale, Options: opts}
}

func SelectMetadata(options ...string) Metadata {
	return Metadata{Kind: KindSelect, Options: append([]string(nil), options...)}
}

func (m Metadata) Validate() error {
	switch m.Kind {
	case KindPlain, "":
		return nil
	case KindScale, KindSelect:
		if len(m.Options) == 0 {
			return fmt.Errorf("%s question without options", m.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown question kind %q", m.Kind)
	}
}

// metadataDoc is the stored jsonb shape of question metadata.
type metadataDoc struct {
	Type             string   `json:"type,omitempty"`
	Options          []string `json:"options,omitempty"`
	Scale            []int    `json:"scale,omitempty"`
	Section          string   `json:"section,omitempty"`
	Skill            string   `json:"skill,omitempty"`
	FollowUpQuestion string   `json:"follow_up_question,omitempty"`
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	doc := metadataDoc{
		Section:          m.Section,
		Skill:            m.Skill,
		FollowUpQuestion: m.FollowUp,
	}
	switch m.Kind {
	case KindScale:
		doc.Type = "scale"
		scale := make([]int, 0, len(m.Options))
		for _, o := range m.Options {
			v, err := strconv.Atoi(o)
			if err != nil {
				scale = nil
				break
			}
			scale = append(scale, v)
		}
		if scale != nil {
			doc.Scale = scale
		} else {
			doc.Options = m.Options
		}
	case KindSelect:
		doc.Type = "select"
		doc.Options = m.Options
	default:
		doc.Type = "text"
	}
	return json.Marshal(doc)
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
	parsed, err := ParseMetadata(b)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMetadata reads the stored metadata document. Empty input, null and
// unknown types all yield plain metadata.
func ParseMetadata(raw []byte) (Metadata, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return PlainMetadata(), nil
	}

	var doc metadataDoc
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return Metadata{}, fmt.Errorf("decode question metadata: %w", err)
	}

	m := Metadata{
		Kind:     KindPlain,
		FollowUp: strings.TrimSpace(doc.FollowUpQuestion),
		Section:  doc.Section,
		Skill:    doc.Skill,
	}
	switch strings.ToLower(strings.TrimSpace(doc.Type)) {
	case "scale":
		m.Kind = KindScale
		for _, v := range doc.Scale {
			m.Options = append(m.Options, strconv.Itoa(v))
		}
		if len(m.Options) == 0 {
			m.Options = append(m.Options, doc.Options...)
		}
	case "select":
		m.Kind = KindSelect
		m.Options = append(m.Options, doc.Options...)
	}
	if err := m.Validate(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

// Question is one step of the onboarding flow. Order is display metadata:
// traversal never sorts by it.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"question_text"`
	Order    float64  `json:"question_order"`
	Metadata Metadata `json:"metadata"`

	// Origin is the id of the static question whose answer produced this
	// one. Empty for static questions.
	Origin string `json:"origin,omitempty"`
}

func (q Question) Generated() bool {
	return q.Origin != ""
}
