package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	amqp "github.com/rabbitmq/amqp091-go"
)

type BoardProducer struct {
	Ch *amqp.Channel
	mu sync.Mutex
}

func NewProducer(ch *amqp.Channel) *BoardProducer {
	return &BoardProducer{Ch: ch}
}

// PublishBoardEvent fans ev out to every instance's board queue.
func (p *BoardProducer) PublishBoardEvent(ctx context.Context, ev entity.BoardEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode board event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Transient,
		},
	)
	if err != nil {
		return fmt.Errorf("publish board event: %w", err)
	}
	return nil
}
