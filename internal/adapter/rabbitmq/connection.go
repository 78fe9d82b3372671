package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"github.com/YelzhanWeb/coffee-shop/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventsExchange is the topic exchange every shop event goes through.
const EventsExchange = "coffee_events"

type Connection interface {
	Channel() (Channel, error)
	Close() error
	IsClosed() bool
}

type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
	NotifyClose() <-chan *amqp.Error
}

type Queue struct {
	Name      string
	Messages  int
	Consumers int
}

type amqpConnection struct {
	conn   *amqp.Connection
	url    string
	mu     sync.Mutex
	closed bool
}

type amqpChannel struct {
	ch *amqp.Channel
}

func URL(cfg config.RabbitMQConfig) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
}

func Connect(cfg config.RabbitMQConfig) (Connection, error) {
	url := URL(cfg)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return &amqpConnection{conn: conn, url: url}, nil
}

// Channel opens a channel, redialing first if the broker dropped the
// connection since the last call.
func (c *amqpConnection) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("connection is closed")
	}

	if c.conn == nil || c.conn.IsClosed() {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			return nil, fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
		}
		c.conn = conn
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &amqpChannel{ch: ch}, nil
}

func (c *amqpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}

func (c *amqpConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed || c.conn == nil || c.conn.IsClosed()
}

func (ch *amqpChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return ch.ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (ch *amqpChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error) {
	q, err := ch.ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
	if err != nil {
		return Queue{}, err
	}
	return Queue{Name: q.Name, Messages: q.Messages, Consumers: q.Consumers}, nil
}

func (ch *amqpChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return ch.ch.QueueBind(name, key, exchange, noWait, args)
}

func (ch *amqpChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return ch.ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (ch *amqpChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return ch.ch.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
}

func (ch *amqpChannel) Close() error {
	return ch.ch.Close()
}

func (ch *amqpChannel) NotifyClose() <-chan *amqp.Error {
	return ch.ch.NotifyClose(make(chan *amqp.Error, 1))
}

func declareEventsExchange(ch Channel) error {
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}
