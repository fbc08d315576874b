package domain

import "context"

const (
	EventActivitiesLoaded = "activities.loaded"
	EventActivitiesFailed = "activities.load_failed"
	EventActivitiesStale  = "activities.stale_discarded"
	EventSignupSucceeded  = "signup.succeeded"
	EventSignupFailed     = "signup.failed"
	EventRemovalSucceeded = "removal.succeeded"
	EventRemovalFailed    = "removal.failed"
	EventRemovalCancelled = "removal.cancelled"
)

type Event struct {
	Type    string
	Payload map[string]any
}

type EventBus interface {
	Publish(ctx context.Context, e Event)
}
