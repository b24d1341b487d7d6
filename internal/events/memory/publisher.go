package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
)

// Published is one event handed to the Publisher.
type Published struct {
	Topic string
	Event any
}

// Publisher keeps every published event in memory, in publish order.
type Publisher struct {
	mu     sync.Mutex
	events []Published
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, Published{Topic: topic, Event: event})
	return nil
}

// Events returns a copy of what has been published so far.
func (p *Publisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]Published, len(p.events))
	copy(copied, p.events)
	return copied
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
