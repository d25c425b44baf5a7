package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange  string
	published []amqp.Publishing
	err       error
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.exchange = exchange
	c.published = append(c.published, msg)
	return nil
}

func Test_Producer_PublishInstalled(t *testing.T) {
	ch := &fakeChannel{}
	p := &Producer{ch: ch}

	require.NoError(t, p.PublishInstalled(context.Background(), "T1"))
	require.Len(t, ch.published, 1)
	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	var ev InstalledEvent
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &ev))
	assert.Equal(t, "app.installed", ev.Type)
	assert.Equal(t, "T1", ev.WorkspaceID)
	assert.NotEmpty(t, ev.MessageID)
	assert.False(t, ev.OccurredAt.IsZero())
}

func Test_Producer_propagatesPublishErrors(t *testing.T) {
	wantErr := errors.New("channel closed")
	p := &Producer{ch: &fakeChannel{err: wantErr}}
	assert.ErrorIs(t, p.PublishInstalled(context.Background(), "T1"), wantErr)
}
