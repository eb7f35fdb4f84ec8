package model

import "strconv"

// WebhookEvent is a single change notification from the pipeline
// system. Notifications arrive as a single object or an array of
// objects on the same endpoint.
type WebhookEvent struct {
	EventID          int64  `json:"eventId"`
	SubscriptionID   int64  `json:"subscriptionId"`
	ObjectID         int64  `json:"objectId"`
	PropertyName     string `json:"propertyName"`
	OccurredAt       int64  `json:"occurredAt"`
	SubscriptionType string `json:"subscriptionType"`
	AttemptNumber    int    `json:"attemptNumber"`
}

// DealID returns the notification's object id as the string deal id
// used across the sync path.
func (e *WebhookEvent) DealID() string {
	return strconv.FormatInt(e.ObjectID, 10)
}
