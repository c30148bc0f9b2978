package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ethereal/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const authEventsChannel = "auth:events"

func sessionKey(jti string) string { return "session:" + jti }

// SaveSession records an issued token so it can be revoked before it expires.
func (s *Service) SaveSession(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Set(ctx, sessionKey(jti), userID, ttl).Err()
}

// SessionActive reports whether the token has not been revoked.
// Without Redis every correctly signed token is active.
func (s *Service) SessionActive(ctx context.Context, jti string) (bool, error) {
	if s.Redis == nil {
		return true, nil
	}
	_, err := s.Redis.Get(ctx, sessionKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RevokeSession forgets the token.
func (s *Service) RevokeSession(ctx context.Context, jti string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, sessionKey(jti)).Err()
}

// PublishAuthEvent broadcasts a session change to every API instance.
func (s *Service) PublishAuthEvent(ctx context.Context, event models.AuthEvent) error {
	if s.Redis == nil {
		return ErrPubSubUnavailable
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, authEventsChannel, payload).Err()
}

// SubscribeAuthEvents streams decoded auth events until ctx is done.
func (s *Service) SubscribeAuthEvents(ctx context.Context) (<-chan models.AuthEvent, error) {
	if s.Redis == nil {
		return nil, ErrPubSubUnavailable
	}
	pubsub := s.Redis.Subscribe(ctx, authEventsChannel)
	// Wait for the subscription confirmation so no event published after this call is lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan models.AuthEvent)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.AuthEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					s.Logger.Warn("error unmarshalling auth event", zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
