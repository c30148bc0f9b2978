package models

import "time"

// AuthEventType mirrors the session change notifications a client reacts to.
type AuthEventType string

const (
	EventSignedIn       AuthEventType = "SIGNED_IN"
	EventSignedOut      AuthEventType = "SIGNED_OUT"
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEventType = "USER_UPDATED"
)

// AuthEvent is published on every session change. Route is where the user's
// views should be after the change.
type AuthEvent struct {
	Type   AuthEventType `json:"type"`
	UserID string        `json:"user_id"`
	Route  string        `json:"route"`
	At     time.Time     `json:"at"`
}
