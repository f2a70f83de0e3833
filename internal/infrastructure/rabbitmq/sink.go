package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wms-platform/putaway-service/pkg/cloudevents"
)

// HeaderTopic carries the logical topic the outbox addressed the event to
const HeaderTopic = "wms-topic"

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Sink publishes outbox events to a topic exchange with publisher confirms.
// The routing key is the CloudEvent type, so consumers bind on patterns such
// as "wms.putaway.#".
type Sink struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	ch       publishChannel
	acks     <-chan amqp.Confirmation
	exchange string

	mu sync.Mutex
	// tag of the last successful publish; the broker numbers confirms from 1
	lastTag uint64
}

// Dial connects, declares the durable exchange and enables confirms
func Dial(url, exchange string) (*Sink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Sink{conn: conn, channel: ch, ch: ch, acks: acks, exchange: exchange}, nil
}

// PublishEvent publishes event and waits for the broker ack. Calls are
// serialized and confirms are matched by delivery tag, so a confirm that
// arrives after its caller gave up is skipped by the next publish.
func (s *Sink) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	msg, err := NewPublishing(topic, event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ch.PublishWithContext(ctx, s.exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	s.lastTag++
	expected := s.lastTag

	for {
		select {
		case conf, ok := <-s.acks:
			if !ok {
				return errors.New("rabbitmq channel closed before confirm")
			}
			if conf.DeliveryTag < expected {
				continue
			}
			if conf.DeliveryTag > expected {
				return fmt.Errorf("confirm for delivery %d while waiting for %d", conf.DeliveryTag, expected)
			}
			if !conf.Ack {
				return fmt.Errorf("broker nacked event %s", event.ID)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Ping reports whether the connection is still open
func (s *Sink) Ping() error {
	if s.conn == nil || s.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Close closes the channel and the connection
func (s *Sink) Close() error {
	var errs []error
	if s.channel != nil {
		errs = append(errs, s.channel.Close())
	}
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
	}
	return errors.Join(errs...)
}

// NewPublishing encodes event as a persistent JSON message with the CloudEvents
// attributes mirrored into ce-* headers.
func NewPublishing(topic string, event *cloudevents.WMSCloudEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := amqp.Table{
		HeaderTopic:      topic,
		"ce-specversion": event.SpecVersion,
		"ce-type":        event.Type,
		"ce-source":      event.Source,
		"ce-id":          event.ID,
	}
	if event.Subject != "" {
		headers["ce-subject"] = event.Subject
	}
	if event.CorrelationID != "" {
		headers["ce-"+cloudevents.ExtCorrelationID] = event.CorrelationID
	}
	if event.TraceParent != "" {
		headers["ce-"+cloudevents.ExtTraceParent] = event.TraceParent
	}
	if event.TraceState != "" {
		headers["ce-"+cloudevents.ExtTraceState] = event.TraceState
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/cloudevents+json",
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    event.Time,
		Headers:      headers,
		Body:         body,
	}, nil
}
