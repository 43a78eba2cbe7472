package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

const TypeOrderSettled = "order.settled"

type SettlementEvent struct {
	Type          string       `json:"type"`
	ProductID     uuid.UUID    `json:"productId"`
	OrderID       uuid.UUID    `json:"orderId"`
	Bought        models.Count `json:"bought"`
	TransactionID string       `json:"transactionId"`
	Quantity      models.Count `json:"quantity"`
	Sold          models.Count `json:"sold"`
	SettledAt     time.Time    `json:"settledAt"`
}

func NewSettlementEvent(s models.Settlement, res *models.SettlementResult, at time.Time) SettlementEvent {
	ev := SettlementEvent{
		Type:          TypeOrderSettled,
		ProductID:     s.ProductID,
		OrderID:       s.OrderID,
		Bought:        s.Bought,
		TransactionID: s.TransactionID,
		SettledAt:     at.UTC(),
	}
	if res != nil {
		ev.Quantity = res.Quantity
		ev.Sold = res.Sold
	}
	return ev
}

type Publisher interface {
	PublishSettlement(ctx context.Context, ev SettlementEvent) error
	Close() error
}

type Noop struct{}

func (Noop) PublishSettlement(context.Context, SettlementEvent) error {
	return nil
}

func (Noop) Close() error {
	return nil
}

// AMQPPublisher sends events to a durable queue on the default exchange.
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string

	mu       sync.Mutex
	declared bool
}

func DialAMQP(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	return &AMQPPublisher{conn: conn, queue: queue}, nil
}

func (p *AMQPPublisher) PublishSettlement(ctx context.Context, ev SettlementEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode settlement event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := p.declare(ch); err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         ev.Type,
			MessageId:    ev.TransactionID,
			Timestamp:    ev.SettledAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) declare(ch *amqp.Channel) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.declared {
		return nil
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}
	p.declared = true
	return nil
}

func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}
