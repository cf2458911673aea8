package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOnboardingProgress = "onboarding_progress"
	EventPassportReady      = "passport_ready"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type OnboardingProgressData struct {
	UserID   uuid.UUID `json:"user_id"`
	Position int       `json:"position"`
	Total    int       `json:"total"`
	Answered int       `json:"answered"`
}

type PassportReadyData struct {
	UserID uuid.UUID `json:"user_id"`
	Skills int       `json:"skills"`
}

// Notifier publishes onboarding events on a hub.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) OnboardingProgress(userID uuid.UUID, position, total, answered int) {
	n.publish(EventOnboardingProgress, OnboardingProgressData{
		UserID:   userID,
		Position: position,
		Total:    total,
		Answered: answered,
	})
}

func (n *Notifier) PassportReady(userID uuid.UUID, skills int) {
	n.publish(EventPassportReady, PassportReadyData{UserID: userID, Skills: skills})
}

func (n *Notifier) publish(kind string, data any) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      kind,
		Data:      data,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
