package broadcast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerStreamsMatchMessages(t *testing.T) {
	hub := startHub(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(NewHandler(ctx, hub, discardLogger(), nil))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?match=21"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.Publish(context.Background(), Message{MatchID: 21, Event: EventPeriodSync}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, int64(21), got.MatchID)
	assert.Equal(t, EventPeriodSync, got.Event)
}

func TestHandlerRejectsBadMatchParam(t *testing.T) {
	h := NewHandler(context.Background(), NewHub(discardLogger(), nil), discardLogger(), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws?match=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerChecksOrigin(t *testing.T) {
	hub := startHub(t, nil)
	srv := httptest.NewServer(NewHandler(context.Background(), hub, discardLogger(), func(origin string) bool {
		return origin == "https://scoreboard.example"
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
