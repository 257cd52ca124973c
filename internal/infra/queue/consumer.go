package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	amqp "github.com/rabbitmq/amqp091-go"
)

// BoardSink receives events consumed from the queue.
type BoardSink interface {
	PublishBoardEvent(ctx context.Context, ev entity.BoardEvent) error
}

type Consumer struct {
	Channel *amqp.Channel
	Sink    BoardSink
}

func NewConsumer(ch *amqp.Channel, sink BoardSink) *Consumer {
	return &Consumer{Channel: ch, Sink: sink}
}

// Start consumes queueName until ctx is done or the channel closes.
func (c *Consumer) Start(ctx context.Context, queueName string) error {
	msgs, err := c.Channel.Consume(queueName, "", false, true, false, false, nil)
	if err != nil {
		return err
	}
	log.Printf("[queue] consuming board events on %s", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Printf("[queue] delivery channel closed")
				return nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var ev entity.BoardEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		log.Printf("[queue] malformed board event: %v", err)
		d.Nack(false, false)
		return
	}
	if err := c.Sink.PublishBoardEvent(ctx, ev); err != nil {
		log.Printf("[queue] deliver %s for lead %s: %v", ev.Action, ev.LeadID, err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}
