package broker

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"papertrade.com/dto"
	"papertrade.com/types"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(destination, contentType string, body []byte, opts ...func(*frame.Frame) error) error {
	args := m.Called(destination, contentType, body)
	return args.Error(0)
}

func TestPublisher_TradeExecuted(t *testing.T) {
	s := &mockSender{}
	var sent []byte
	s.On("Send", "trade-executed", "application/json", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).([]byte) }).
		Return(nil).Once()

	p := NewPublisher(s, "trade-executed")
	err := p.TradeExecuted(types.Transaction{
		ID: 9, UserID: 3, Symbol: "AAPL", Side: types.Buy, Shares: 10, PriceCents: 150_00, Reference: "r-1",
	})
	require.NoError(t, err)
	s.AssertExpectations(t)

	var ev dto.TradeEvent
	require.NoError(t, json.Unmarshal(sent, &ev))
	assert.Equal(t, uint(9), ev.TransactionID)
	assert.Equal(t, "AAPL", ev.Symbol)
	assert.Equal(t, "1500", ev.Total.String())
}

func TestPublisher_SendFailure(t *testing.T) {
	s := &mockSender{}
	s.On("Send", "q", "application/json", mock.Anything).Return(errors.New("closed"))

	err := NewPublisher(s, "q").TradeExecuted(types.Transaction{ID: 1})
	assert.ErrorContains(t, err, "failed to send to q")
}

func TestPublisher_WithoutBroker(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.TradeExecuted(types.Transaction{}))
	assert.NoError(t, NewPublisher(nil, "q").TradeExecuted(types.Transaction{}))
}

func TestConnect_NoHost(t *testing.T) {
	conn, err := Connect("tcp", "")
	assert.NoError(t, err)
	assert.Nil(t, conn)
}
