package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

type mockConn struct {
	mock.Mock
}

var _ Conn = &mockConn{}

func (m *mockConn) Publish(subj string, data []byte) error {
	return m.Called(subj, data).Error(0)
}

func (m *mockConn) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	args := m.Called(subj, cb)
	sub, _ := args.Get(0).(*nats.Subscription)
	return sub, args.Error(1)
}

func result() trend.AnalysisResult {
	return trend.AnalysisResult{
		Query: trend.Query{Keyword: "#Gaming", Platform: "TikTok"},
		Classification: trend.Classification{
			Status:      trend.StatusEarlyDecline,
			Confidence:  0.6,
			DeclineTime: "5–7 days",
		},
		DataSource: trend.DataSourceSimulated,
	}
}

func TestBusPublishAnalysis(t *testing.T) {
	event := trend.NewAnalysisEvent("0b6f2b38-0c4b-4b43-9a4a-1c6f0c1b7a10", result(), time.Now())

	conn := &mockConn{}
	conn.On("Publish", "trend.analyzed", mock.MatchedBy(func(data []byte) bool {
		var got map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			return false
		}
		return got["id"] == event.ID &&
			got["trend_status"] == "Early Decline" &&
			got["data_source"] == "simulated"
	})).Return(nil)

	require.NoError(t, NewBus(conn, "trend", nil).PublishAnalysis(context.Background(), event))
	conn.AssertExpectations(t)
}

func TestBusPublishError(t *testing.T) {
	conn := &mockConn{}
	conn.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed"))

	err := NewBus(conn, "trend", nil).PublishAnalysis(context.Background(), trend.NewAnalysisEvent("0b6f2b38-0c4b-4b43-9a4a-1c6f0c1b7a10", result(), time.Now()))
	assert.ErrorContains(t, err, "connection closed")
}

func TestBusSubscribeError(t *testing.T) {
	conn := &mockConn{}
	conn.On("Subscribe", "alerts.analyzed", mock.Anything).Return(nil, errors.New("nats: invalid subject"))

	_, err := NewBus(conn, "alerts", nil).Subscribe(func([]byte) {})
	assert.ErrorContains(t, err, "alerts.analyzed")
}

func TestNoop(t *testing.T) {
	var p trend.EventPublisher = Noop{}
	assert.NoError(t, p.PublishAnalysis(context.Background(), trend.AnalysisEvent{}))
}
