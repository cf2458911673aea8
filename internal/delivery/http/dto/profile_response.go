package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	UserID       uuid.UUID  `json:"user_id"`
	FullName     string     `json:"full_name"`
	BusinessUnit string     `json:"business_unit"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
