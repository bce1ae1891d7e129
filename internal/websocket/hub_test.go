package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taxclarity/internal/events"
	"taxclarity/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("ws-secret")

func token(t *testing.T, user uuid.UUID) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": user.String()}).SignedString(secret)
	require.NoError(t, err)
	return s
}

func startServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, secret) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, tok string) (*gorilla.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok
	return gorilla.DefaultDialer.Dial(url, nil)
}

func TestServeWs_RejectsBadToken(t *testing.T) {
	_, srv := startServer(t)

	_, resp, err := dial(t, srv, "garbage")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_RoutesEventsToOwnerOnly(t *testing.T) {
	hub, srv := startServer(t)
	alice, bob := uuid.New(), uuid.New()

	aliceConn, _, err := dial(t, srv, token(t, alice))
	require.NoError(t, err)
	defer aliceConn.Close()
	bobConn, _, err := dial(t, srv, token(t, bob))
	require.NoError(t, err)
	defer bobConn.Close()

	// registration happens asynchronously after the upgrade
	require.Eventually(t, func() bool {
		return hub.Connections(alice) == 1 && hub.Connections(bob) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.HandleEvent(events.ChecklistEvent{Type: events.EventChecklistReplaced, UserID: alice, ItemCount: 2})

	require.NoError(t, aliceConn.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := aliceConn.ReadMessage()
	require.NoError(t, err)
	var ev events.ChecklistEvent
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, events.EventChecklistReplaced, ev.Type)
	assert.Equal(t, 2, ev.ItemCount)

	require.NoError(t, bobConn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = bobConn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, srv := startServer(t)
	user := uuid.New()

	conn, _, err := dial(t, srv, token(t, user))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connections(user) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Connections(user) == 0 }, 2*time.Second, 10*time.Millisecond)
}
