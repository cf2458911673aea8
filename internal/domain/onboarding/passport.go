package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const PassportVersion = "1.0"

// Passport is the skill document produced once the flow is exhausted. Field
// names match the stored passport_json shape.
type Passport struct {
	Profile  PassportProfile `json:"profile"`
	Skills   []PassportSkill `json:"skills"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

type PassportProfile struct {
	Name         string    `json:"name"`
	BusinessUnit string    `json:"businessUnit"`
	CompletedAt  time.Time `json:"completedAt"`
}

type PassportSkill struct {
	Name           string `json:"name"`
	Proficiency    int    `json:"proficiency"`
	DaysUntilDecay *int   `json:"daysUntilDecay,omitempty"`
}

var errMalformedPassport = errors.New("malformed passport")

func (p Passport) Validate() error {
	for i, s := range p.Skills {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: skill %d has no name", errMalformedPassport, i)
		}
		if s.Proficiency < 1 || s.Proficiency > 5 {
			return fmt.Errorf("%w: skill %q proficiency %d out of range", errMalformedPassport, s.Name, s.Proficiency)
		}
		if s.DaysUntilDecay != nil && *s.DaysUntilDecay < 0 {
			return fmt.Errorf("%w: skill %q has negative decay horizon", errMalformedPassport, s.Name)
		}
	}
	return nil
}

// Pretty renders the document the way it is offered for download.
func (p Passport) Pretty() ([]byte, error) {
	if p.Skills == nil {
		p.Skills = []PassportSkill{}
	}
	return json.MarshalIndent(p, "", "  ")
}
