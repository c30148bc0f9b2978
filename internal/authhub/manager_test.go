package authhub_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ethereal/backend/internal/authhub"
	"ethereal/backend/internal/models"
	"ethereal/backend/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHub(t *testing.T, source authhub.EventSource) (*authhub.ManagerService, context.CancelFunc) {
	t.Helper()
	hub := authhub.NewManagerService(source, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	<-hub.Ready()
	return hub, func() {
		cancel()
		<-hub.Done()
	}
}

func receive(t *testing.T, ch <-chan models.AuthEvent) models.AuthEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return models.AuthEvent{}
	}
}

func TestManager_LocalFanOut(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t, nil)
	defer stop()

	tab1 := newMockClient("user_A", 4)
	tab2 := newMockClient("user_A", 4)
	other := newMockClient("user_B", 4)
	require.True(t, hub.Register(tab1))
	require.True(t, hub.Register(tab2))
	require.True(t, hub.Register(other))

	hub.Publish(context.Background(), models.AuthEvent{Type: models.EventSignedOut, UserID: "user_A", Route: "/auth"})

	assert.Equal(t, models.EventSignedOut, receive(t, tab1.RecvChannel).Type)
	assert.Equal(t, "/auth", receive(t, tab2.RecvChannel).Route)
	assert.Empty(t, other.RecvChannel)
}

func TestManager_Unregister(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t, nil)
	defer stop()

	client := newMockClient("user_A", 4)
	require.True(t, hub.Register(client))
	hub.Unregister(client)
	// Second unregister is a no-op.
	hub.Unregister(client)

	hub.Publish(context.Background(), models.AuthEvent{Type: models.EventUserUpdated, UserID: "user_A"})
	// A registration round-trip guarantees the publish above was processed.
	require.True(t, hub.Register(newMockClient("user_Z", 1)))

	assert.True(t, client.IsClosed())
	assert.Empty(t, client.RecvChannel)
}

func TestManager_DropsSlowSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t, nil)
	defer stop()

	slow := newMockClient("user_A", 0)
	fast := newMockClient("user_A", 4)
	require.True(t, hub.Register(slow))
	require.True(t, hub.Register(fast))

	hub.Publish(context.Background(), models.AuthEvent{Type: models.EventSignedIn, UserID: "user_A"})

	receive(t, fast.RecvChannel)
	require.True(t, hub.Register(newMockClient("user_Z", 1)))
	assert.True(t, slow.IsClosed())
	assert.False(t, fast.IsClosed())
}

func TestManager_StopClosesClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t, nil)
	client := newMockClient("user_A", 1)
	require.True(t, hub.Register(client))

	stop()

	assert.True(t, client.IsClosed())
	assert.False(t, hub.Register(newMockClient("user_B", 1)))
	// Publishing after shutdown must not block.
	hub.Publish(context.Background(), models.AuthEvent{UserID: "user_A"})
}

func TestManager_RedisFanOut(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	source := storage.NewStorageService(nil, rdb, nil)
	hub, stop := startHub(t, source)
	defer stop()

	client := newMockClient("user_A", 4)
	require.True(t, hub.Register(client))

	// Another instance publishes straight to Redis.
	require.NoError(t, source.PublishAuthEvent(context.Background(), models.AuthEvent{
		Type:   models.EventTokenRefreshed,
		UserID: "user_A",
		Route:  "/dashboard/student",
	}))

	ev := receive(t, client.RecvChannel)
	assert.Equal(t, models.EventTokenRefreshed, ev.Type)
	assert.Equal(t, "/dashboard/student", ev.Route)

	// Publish through the hub goes via Redis and comes back once.
	hub.Publish(context.Background(), models.AuthEvent{Type: models.EventSignedOut, UserID: "user_A"})
	assert.Equal(t, models.EventSignedOut, receive(t, client.RecvChannel).Type)
}

func TestWebSocketClient_ReceivesEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t, nil)

	registered := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := authhub.NewWebSocketClient(hub, conn, "user_A")
		hub.Register(client)
		client.Run()
		close(registered)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	<-registered

	hub.Publish(context.Background(), models.AuthEvent{Type: models.EventSignedOut, UserID: "user_A", Route: "/auth"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev models.AuthEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, models.EventSignedOut, ev.Type)
	assert.Equal(t, "/auth", ev.Route)

	stop()

	// The hub closed the subscriber, so the server ends the connection.
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
