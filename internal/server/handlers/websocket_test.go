package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	mu           sync.Mutex
	fn           func([]byte)
	subscribed   chan struct{}
	unsubscribed chan struct{}
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{
		subscribed:   make(chan struct{}),
		unsubscribed: make(chan struct{}),
	}
}

func (f *fakeSubscriber) Subscribe(fn func([]byte)) (func() error, error) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
	close(f.subscribed)
	return func() error {
		close(f.unsubscribed)
		return nil
	}, nil
}

func (f *fakeSubscriber) emit(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn(data)
}

func TestAnalysisStream(t *testing.T) {
	events := newFakeSubscriber()
	srv := httptest.NewServer(AnalysisStreamHandler(events, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, welcome, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(welcome, &msg))
	assert.Equal(t, "welcome", msg["type"])

	<-events.subscribed
	events.emit([]byte(`{"id":"a1","trend_status":"Early Decline"}`))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a1","trend_status":"Early Decline"}`, string(data))

	conn.Close()

	select {
	case <-events.unsubscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription not released after disconnect")
	}
}
