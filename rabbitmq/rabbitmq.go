package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/opencashbook/cashbook.go/db/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses encode buffers between publishes. Sequential publishing
// keeps a single buffer alive, concurrent publishers grow the pool as needed.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const contentTypeJSON = "application/json"

type Client interface {
	PublishEntryEvent(ctx context.Context, eventType string, entry *models.Entry) error
	// Close will close all connections to rabbitmq
	Close() error
}

// EntryEvent is the wire payload published on entry lifecycle changes.
type EntryEvent struct {
	Type        string        `json:"type"`
	Entry       *models.Entry `json:"entry"`
	PublishedAt time.Time     `json:"published_at"`
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	entryExchange string
}

type ClientOption = func(client *DefaultClient)

func WithEntryExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.entryExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// Dial connects to rabbitmq and declares the entry exchange so consumers
// can bind before the first event is published.
func Dial(uri string, options ...ClientOption) (Client, error) {
	amqpClient, err := DialAMQP(uri)
	if err != nil {
		return nil, err
	}

	client := &DefaultClient{
		amqpClient: amqpClient,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		entryExchange: "cashbook_entry",
	}

	for _, opt := range options {
		opt(client)
	}

	err = amqpClient.ExchangeDeclare(
		client.entryExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (client *DefaultClient) Close() error {
	return client.amqpClient.Close()
}

// PublishEntryEvent publishes the entry with routing key
// <event type>.<book id> so consumers can subscribe per event type or
// per book.
func (client *DefaultClient) PublishEntryEvent(ctx context.Context, eventType string, entry *models.Entry) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := json.NewEncoder(payload).Encode(EntryEvent{
		Type:        eventType,
		Entry:       entry,
		PublishedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s.%d", eventType, entry.BookID)
	err = client.amqpClient.PublishWithContext(ctx,
		client.entryExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Published entry event %s for entry %d in book %d", eventType, entry.ID, entry.BookID)
	return nil
}
