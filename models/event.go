package models

import (
	"time"

	"github.com/octabyte/prediction-portal/enums"
)

type SessionEvent struct {
	Type       enums.SessionEventType `json:"type"`
	SessionID  string                 `json:"session_id"`
	UserEmail  string                 `json:"user_email,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
