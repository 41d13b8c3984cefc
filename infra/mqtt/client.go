// Package mqtt publishes finished plans and task completions to an MQTT
// broker with the Eclipse Paho client.
package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/pawpal/core/model"
	"github.com/kilianp07/pawpal/infra/logger"
	"github.com/kilianp07/pawpal/pkg/export"
)

const (
	DefaultTopic      = "pawpal"
	DefaultMaxRetries = 3
	DefaultBackoffMS  = 100
)

// Config defines the connection parameters for the Paho MQTT client.
// Publishing is disabled when Broker is empty.
type Config struct {
	Broker     string      `json:"broker" yaml:"broker"`
	ClientID   string      `json:"client_id" yaml:"client_id"`
	Username   string      `json:"username" yaml:"username"`
	Password   string      `json:"password" yaml:"password"`
	Topic      string      `json:"topic" yaml:"topic"`
	QoS        byte        `json:"qos" yaml:"qos"`
	Retain     bool        `json:"retain" yaml:"retain"`
	UseTLS     bool        `json:"use_tls" yaml:"use_tls"`
	ClientCert string      `json:"client_cert" yaml:"client_cert"`
	ClientKey  string      `json:"client_key" yaml:"client_key"`
	CABundle   string      `json:"ca_bundle" yaml:"ca_bundle"`
	LWTPayload string      `json:"lwt_payload" yaml:"lwt_payload"`
	MaxRetries int         `json:"max_retries" yaml:"max_retries"`
	BackoffMS  int         `json:"backoff_ms" yaml:"backoff_ms"`
	TLSConfig  *tls.Config `json:"-" yaml:"-"`
}

// Enabled reports whether a broker is configured.
func (c Config) Enabled() bool { return c.Broker != "" }

// SetDefaults fills the topic, client id and retry policy.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	c.Topic = strings.TrimSuffix(c.Topic, "/")
	if c.ClientID == "" {
		c.ClientID = "pawpal-" + uuid.NewString()[:8]
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = DefaultBackoffMS
	}
}

// Validate checks QoS and TLS settings.
func (c Config) Validate() error {
	if c.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.QoS)
	}
	if c.UseTLS && c.TLSConfig == nil && (c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "") {
		return fmt.Errorf("mqtt tls requires client_cert, client_key and ca_bundle")
	}
	return nil
}

// PlanTopic is where plans are published.
func (c Config) PlanTopic() string { return c.Topic + "/plan" }

// CompletedTopic is where task completions are published.
func (c Config) CompletedTopic() string { return c.Topic + "/completed" }

// StatusTopic carries the last-will message.
func (c Config) StatusTopic() string { return c.Topic + "/status" }

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher sends plans and completions to the broker.
type Publisher struct {
	cli        pahoClient
	cfg        Config
	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, token.Error())
	}
	return &Publisher{
		cli:        c,
		cfg:        cfg,
		logger:     log,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTPayload != "" {
		opts.SetWill(cfg.StatusTopic(), cfg.LWTPayload, cfg.QoS, true)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// PlanMessage is the payload sent on the plan topic.
type PlanMessage struct {
	MessageID   string          `json:"message_id"`
	PublishedAt time.Time       `json:"published_at"`
	Plan        export.Document `json:"plan"`
}

// CompletionMessage is the payload sent on the completed topic.
type CompletionMessage struct {
	MessageID   string    `json:"message_id"`
	CompletedAt time.Time `json:"completed_at"`
	Task        string    `json:"task"`
	Category    string    `json:"category"`
	Frequency   string    `json:"frequency"`
	// NextDue is set when a recurring task produced its next occurrence.
	NextDue string `json:"next_due,omitempty"`
}

// PublishPlan sends doc to <topic>/plan and returns the message id.
func (p *Publisher) PublishPlan(ctx context.Context, doc export.Document) (string, error) {
	msg := PlanMessage{MessageID: uuid.NewString(), PublishedAt: time.Now().UTC(), Plan: doc}
	return msg.MessageID, p.publishJSON(ctx, p.cfg.PlanTopic(), msg)
}

// PublishCompletion sends the completion of task to <topic>/completed. next
// is the regenerated occurrence, or nil.
func (p *Publisher) PublishCompletion(ctx context.Context, task, next *model.Task) (string, error) {
	msg := CompletionMessage{
		MessageID:   uuid.NewString(),
		CompletedAt: time.Now().UTC(),
		Task:        task.Name,
		Category:    task.Category,
		Frequency:   string(task.Frequency),
	}
	if next != nil {
		msg.NextDue = next.DueDate.Format(model.DateLayout)
	}
	return msg.MessageID, p.publishJSON(ctx, p.cfg.CompletedTopic(), msg)
}

// publishJSON publishes v, retrying with exponential backoff until ctx ends.
func (p *Publisher) publishJSON(ctx context.Context, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Infof("published %d bytes to %s", len(payload), topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("publish to %s: %w", topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
