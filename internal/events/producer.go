// Package events publishes install events to an AMQP fanout exchange, so that
// downstream services (e.g. a bot worker that starts posting into a newly
// installed workspace) can react without polling the credential store.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName identifies the fanout exchange that install events are
// published to.
const ExchangeName = "install-events"

// InstalledEvent is emitted once per successful installation callback,
// including re-installs that merely replaced an existing access token.
type InstalledEvent struct {
	Type        string    `json:"type"`
	MessageID   string    `json:"message_id"`
	WorkspaceID string    `json:"workspace_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// channel is the subset of *amqp.Channel that the producer uses
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer publishes install events over an open AMQP connection.
type Producer struct {
	ch channel
}

// FormatConnectionString builds an amqp:// URL from its parts.
func FormatConnectionString(host string, port int, vhost, user, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", user, password, host, port, vhost)
}

func NewProducer(conn *amqp.Connection) (*Producer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Producer{ch: ch}, nil
}

// PublishInstalled emits an app.installed event for the given workspace.
func (p *Producer) PublishInstalled(ctx context.Context, workspaceID string) error {
	data, err := json.Marshal(InstalledEvent{
		Type:        "app.installed",
		MessageID:   uuid.NewString(),
		WorkspaceID: workspaceID,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
	})
}
