package queue

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends a JSON payload to the named durable queue.
type Publisher interface {
    Publish(ctx context.Context, queue string, payload interface{}) error
}

// AMQPPublisher dials the broker for every message.  Traffic is low
// (one message per write request) so no connection is held open.
type AMQPPublisher struct {
    URL string
}

// NewAMQPPublisher returns a publisher for url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// Publish declares queue (idempotent) and publishes payload as a
// persistent message.  Errors are logged and returned so callers may
// ignore them without interrupting the request.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, payload interface{}) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare %s failed: %v", queue, err)
        return err
    }

    body, err := json.Marshal(payload)
    if err != nil {
        log.Printf("rabbitmq: marshal %s payload failed: %v", queue, err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish %s failed: %v", queue, err)
        return err
    }
    return nil
}

// NopPublisher drops every message.  Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
