package rabbitmq

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/opencashbook/cashbook.go/common"
	"github.com/opencashbook/cashbook.go/db/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/ziflex/lecho/v3"
)

func testLogger() *lecho.Logger {
	return lecho.New(io.Discard)
}

type capturingAMQPClient struct {
	exchange string
	key      string
	body     []byte
}

func (c *capturingAMQPClient) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.body = append([]byte{}, msg.Body...)
	return nil
}

func (c *capturingAMQPClient) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return nil
}

func (c *capturingAMQPClient) Close() error {
	return nil
}

func TestPublishEntryEvent(t *testing.T) {
	captured := &capturingAMQPClient{}
	client := &DefaultClient{
		amqpClient:    captured,
		logger:        testLogger(),
		entryExchange: "cashbook_entry",
	}

	entry := &models.Entry{
		ID:     7,
		BookID: 3,
		Amount: decimal.NewFromInt(100),
		Type:   common.EntryTypeCashIn,
	}
	err := client.PublishEntryEvent(context.Background(), common.EntryEventCreated, entry)
	assert.NoError(t, err)
	assert.Equal(t, "cashbook_entry", captured.exchange)
	assert.Equal(t, "entry.created.3", captured.key)

	var event EntryEvent
	assert.NoError(t, json.Unmarshal(captured.body, &event))
	assert.Equal(t, common.EntryEventCreated, event.Type)
	assert.Equal(t, int64(7), event.Entry.ID)
	assert.False(t, event.PublishedAt.IsZero())
}
