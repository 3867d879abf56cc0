// Package audit reports session lifecycle events to a message queue.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/octabyte/prediction-portal/enums"
	"github.com/octabyte/prediction-portal/models"
	"github.com/octabyte/prediction-portal/queue"
)

type Recorder interface {
	Record(ctx context.Context, eventType enums.SessionEventType, s *models.Session) error
}

type publisherRecorder struct {
	publisher queue.Publisher
	now       func() time.Time
}

// NewRecorder encodes each event as JSON and hands it to publisher.
func NewRecorder(publisher queue.Publisher) Recorder {
	return &publisherRecorder{publisher: publisher, now: time.Now}
}

func (r *publisherRecorder) Record(ctx context.Context, eventType enums.SessionEventType, s *models.Session) error {
	body, err := json.Marshal(models.SessionEvent{
		Type:       eventType,
		SessionID:  s.ID,
		UserEmail:  s.UserEmail,
		OccurredAt: r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}
	if err := r.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

type discard struct{}

// Discard drops every event. Used when no broker is configured.
func Discard() Recorder {
	return discard{}
}

func (discard) Record(context.Context, enums.SessionEventType, *models.Session) error {
	return nil
}
