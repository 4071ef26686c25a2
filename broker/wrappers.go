package broker

import (
	"papertrade.com/dto"
	"papertrade.com/types"
)

type Publisher struct {
	sender Sender
	queue  string
}

func NewPublisher(s Sender, queue string) *Publisher {
	return &Publisher{sender: s, queue: queue}
}

// TradeExecuted publishes a committed transaction. Without a broker it does
// nothing.
func (p *Publisher) TradeExecuted(tx types.Transaction) error {
	if p == nil || p.sender == nil {
		return nil
	}
	return sendReliable(p.sender, p.queue, dto.NewTradeEvent(tx))
}
