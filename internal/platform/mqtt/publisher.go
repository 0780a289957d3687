package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/events"
	"github.com/cenkalti/backoff/v4"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	qosAtLeastOnce = 1
	publishTimeout = 5 * time.Second
	connectRetries = 4
)

// ErrPublishTimeout is reported when the broker does not acknowledge a
// message within publishTimeout.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Connect dials the broker, retrying with exponential backoff. The
// connection is closed when ctx is done.
func Connect(ctx context.Context, cfg config.MQTTConfig, logger *slog.Logger) (paho.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn("mqtt connection lost", "error", err)
		})

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client paho.Client
	err := backoff.Retry(func() error {
		client = paho.NewClient(opts)
		token := client.Connect()
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("connect to %s timed out", cfg.Broker)
		}
		if err := token.Error(); err != nil {
			logger.Warn("failed to connect to mqtt broker", "broker", cfg.Broker, "error", err)
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, connectRetries), ctx))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mqtt broker %s: %w", cfg.Broker, err)
	}

	logger.Info("connected to mqtt broker", "broker", cfg.Broker)
	go func() {
		<-ctx.Done()
		client.Disconnect(250)
	}()
	return client, nil
}

// publishClient is the part of paho.Client the publisher needs.
type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// QuerySummary is the message published for each answered query. It
// carries neither farmer identifiers nor the farmer's own words.
type QuerySummary struct {
	QueryID    uuid.UUID `json:"query_id"`
	Channel    string    `json:"channel"`
	Language   string    `json:"language"`
	Category   string    `json:"category"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
	AskedAt    time.Time `json:"asked_at"`
}

// Publisher forwards query.completed events to
// <prefix>/queries/<category>. Broker acknowledgements are awaited in the
// background so a slow broker never delays the emitting request.
type Publisher struct {
	client  publishClient
	prefix  string
	timeout time.Duration
	logger  *slog.Logger

	// done receives the outcome of every publish.
	done func(topic string, queryID uuid.UUID, err error)
}

var _ events.EventHandler = (*Publisher)(nil)

// NewPublisher creates a Publisher.
func NewPublisher(client publishClient, topicPrefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		client:  client,
		prefix:  strings.TrimSuffix(topicPrefix, "/"),
		timeout: publishTimeout,
		logger:  logger.With("component", "mqtt_publisher"),
	}
	p.done = p.logResult
	return p
}

// Topic returns the topic for a category.
func (p *Publisher) Topic(category string) string {
	if category == "" {
		category = "general"
	}
	return p.prefix + "/queries/" + category
}

// HandleEvent implements events.EventHandler. Unsuccessful queries are
// not published. It returns once the message is handed to the client.
func (p *Publisher) HandleEvent(_ context.Context, ev *events.Event) error {
	if ev.Type != events.TypeQueryCompleted {
		return nil
	}
	var q events.QueryCompleted
	if err := ev.UnmarshalPayload(&q); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", ev.Type, err)
	}
	if !q.Success {
		return nil
	}

	payload, err := json.Marshal(QuerySummary{
		QueryID:    q.QueryID,
		Channel:    q.Channel,
		Language:   q.Language,
		Category:   q.Category,
		Source:     q.Source,
		Confidence: q.Confidence,
		AskedAt:    q.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode query summary: %w", err)
	}

	topic := p.Topic(q.Category)
	token := p.client.Publish(topic, qosAtLeastOnce, false, payload)
	go p.await(topic, q.QueryID, token)
	return nil
}

func (p *Publisher) await(topic string, queryID uuid.UUID, token paho.Token) {
	var err error
	switch {
	case !token.WaitTimeout(p.timeout):
		err = fmt.Errorf("%w: topic %s", ErrPublishTimeout, topic)
	case token.Error() != nil:
		err = fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}
	p.done(topic, queryID, err)
}

func (p *Publisher) logResult(topic string, queryID uuid.UUID, err error) {
	if err != nil {
		p.logger.Warn("query summary not delivered", "topic", topic, "query_id", queryID, "error", err)
		return
	}
	p.logger.Debug("published query summary", "topic", topic, "query_id", queryID)
}
