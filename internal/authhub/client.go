package authhub

import "ethereal/backend/internal/models"

// Client is one subscriber to a user's auth-state changes (a browser tab,
// for instance). A user may have several clients at once.
type Client interface {
	// GetUserID returns the user whose session changes the client receives.
	GetUserID() string

	// GetSendChannel returns the channel the hub delivers events on.
	// The hub never blocks on it: a full channel gets the client dropped.
	GetSendChannel() chan<- models.AuthEvent

	// Run starts the client's pumps.
	Run()
	// Close shuts the client down. It must be safe to call more than once.
	Close()
}
