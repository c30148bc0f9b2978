// Package authhub fans auth-state changes (sign-in, sign-out, token refresh,
// user update) out to every live subscriber of the affected user.
package authhub

import (
	"context"
	"errors"

	"ethereal/backend/internal/models"
	"ethereal/backend/internal/storage"

	"go.uber.org/zap"
)

// EventSource carries events between API instances.
type EventSource interface {
	PublishAuthEvent(ctx context.Context, event models.AuthEvent) error
	SubscribeAuthEvents(ctx context.Context) (<-chan models.AuthEvent, error)
}

// ManagerService is the hub. Only the Run goroutine touches Clients.
type ManagerService struct {
	Clients map[string]map[Client]struct{}

	// Channels
	IncomingCh   chan models.AuthEvent
	RegisterCh   chan Client
	UnregisterCh chan Client

	Source EventSource
	Logger *zap.Logger

	started chan struct{}
	stopped chan struct{}
}

// NewManagerService builds a hub. source may be nil, in which case events
// published on this instance are delivered locally only.
func NewManagerService(source EventSource, logger *zap.Logger) *ManagerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManagerService{
		Clients:      make(map[string]map[Client]struct{}),
		IncomingCh:   make(chan models.AuthEvent),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		Source:       source,
		Logger:       logger,
		started:      make(chan struct{}),
		stopped:      make(chan struct{}),
	}
}

// Run processes registrations and events until ctx is done, then closes every client.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.stopped)

	var remote <-chan models.AuthEvent
	if m.Source != nil {
		sub, err := m.Source.SubscribeAuthEvents(ctx)
		switch {
		case errors.Is(err, storage.ErrPubSubUnavailable):
			m.Logger.Info("auth events are local to this instance")
		case err != nil:
			m.Logger.Error("failed to subscribe to auth events", zap.Error(err))
		default:
			remote = sub
		}
	}
	close(m.started)

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case client := <-m.RegisterCh:
			m.register(client)

		case client := <-m.UnregisterCh:
			m.unregister(client)

		case event := <-m.IncomingCh:
			m.broadcast(event)

		case event, ok := <-remote:
			if !ok {
				m.Logger.Warn("auth event subscription closed")
				remote = nil
				continue
			}
			m.broadcast(event)
		}
	}
}

func (m *ManagerService) register(client Client) {
	userID := client.GetUserID()
	set, ok := m.Clients[userID]
	if !ok {
		set = make(map[Client]struct{})
		m.Clients[userID] = set
	}
	set[client] = struct{}{}
	m.Logger.Debug("auth subscriber registered", zap.String("user_id", userID), zap.Int("subscribers", len(set)))
}

func (m *ManagerService) unregister(client Client) {
	userID := client.GetUserID()
	set, ok := m.Clients[userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(m.Clients, userID)
	}
	client.Close()
}

func (m *ManagerService) broadcast(event models.AuthEvent) {
	for client := range m.Clients[event.UserID] {
		select {
		case client.GetSendChannel() <- event:
		default:
			// Slow subscriber: drop it instead of stalling the hub.
			m.Logger.Warn("dropping slow auth subscriber", zap.String("user_id", event.UserID))
			m.unregister(client)
		}
	}
}

func (m *ManagerService) closeAll() {
	for userID, set := range m.Clients {
		for client := range set {
			client.Close()
		}
		delete(m.Clients, userID)
	}
}

// Register adds a client. It returns false once the hub has stopped.
func (m *ManagerService) Register(client Client) bool {
	select {
	case m.RegisterCh <- client:
		return true
	case <-m.stopped:
		return false
	}
}

// Unregister removes and closes a client. Safe to call after the hub stopped.
func (m *ManagerService) Unregister(client Client) {
	select {
	case m.UnregisterCh <- client:
	case <-m.stopped:
	}
}

// Publish announces an auth event. With a working event source the event reaches
// every instance through it; otherwise it is delivered to this hub directly.
func (m *ManagerService) Publish(ctx context.Context, event models.AuthEvent) {
	if m.Source != nil {
		err := m.Source.PublishAuthEvent(ctx, event)
		if err == nil {
			return
		}
		if !errors.Is(err, storage.ErrPubSubUnavailable) {
			m.Logger.Warn("failed to publish auth event, delivering locally",
				zap.String("user_id", event.UserID), zap.Error(err))
		}
	}

	select {
	case m.IncomingCh <- event:
	case <-m.stopped:
	case <-ctx.Done():
	}
}

// Ready is closed once Run has set up its subscription.
func (m *ManagerService) Ready() <-chan struct{} { return m.started }

// Done is closed when Run returns.
func (m *ManagerService) Done() <-chan struct{} { return m.stopped }
