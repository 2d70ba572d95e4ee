package autobind

import (
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEvent is an alias for the CloudEvents Event type for convenience.
type CloudEvent = cloudevents.Event

// NewCloudEvent creates a properly formed CloudEvent carrying automation
// data. metadata entries become CloudEvent extensions.
func NewCloudEvent(eventType, source string, data any, metadata map[string]any) CloudEvent {
	event := cloudevents.NewEvent()

	event.SetID(newEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)

	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	for key, value := range metadata {
		event.SetExtension(key, value)
	}

	return event
}

// newEventID generates a UUIDv7 event identifier, giving events
// time-ordered uniqueness. Falls back to v4 should v7 generation fail.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// ValidateCloudEvent checks an event against the CloudEvents
// specification before delivery.
func ValidateCloudEvent(event CloudEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("cloudevent validation failed: %w", err)
	}
	return nil
}
