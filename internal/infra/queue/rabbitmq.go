package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.crm"
	DLXName      = "ex.crm.dlx"
	DLQName      = "q.board.dlq"
	RoutingKey   = "k.board"
)

// RabbitMQ holds one connection with a publishing channel and a consuming
// channel bound to this instance's board queue.
type RabbitMQ struct {
	Conn      *amqp.Connection
	Ch        *amqp.Channel
	ConsumeCh *amqp.Channel
	Queue     string
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	consumeCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open consume channel: %w", err)
	}

	queue, err := setupTopology(ch)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch, ConsumeCh: consumeCh, Queue: queue}, nil
}

// setupTopology declares the board exchange, its dead letter pair and a
// server-named exclusive queue for this instance.
func setupTopology(ch *amqp.Channel) (string, error) {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return "", err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return "", err
	}
	if err := ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil); err != nil {
		return "", err
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return "", err
	}
	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}
	q, err := ch.QueueDeclare("", false, true, true, false, args)
	if err != nil {
		return "", err
	}
	if err := ch.QueueBind(q.Name, RoutingKey, ExchangeName, false, nil); err != nil {
		return "", err
	}
	return q.Name, nil
}

func (r *RabbitMQ) Healthy() bool {
	return r.Conn != nil && !r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() {
	if r.ConsumeCh != nil {
		r.ConsumeCh.Close()
	}
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}
