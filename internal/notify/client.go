package notify

import (
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/Iron-Ham/cobalt/internal/errors"
)

// DefaultBrokerURL is used when no broker is configured.
const DefaultBrokerURL = "tcp://localhost:1883"

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// ClientConfig configures an MQTT client.
type ClientConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	QoS       byte
	Retained  bool
}

// Client wraps the Paho MQTT client.
type Client struct {
	client paho.Client
	cfg    ClientConfig
	mu     sync.Mutex
}

// NewClient creates a new MQTT client but does not connect.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BrokerURL == "" {
		cfg.BrokerURL = DefaultBrokerURL
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username).SetPassword(cfg.Password)
	}

	return &Client{
		client: paho.NewClient(opts),
		cfg:    cfg,
	}
}

// Connect attempts to connect to the broker.
// Returns an error if connection fails, but does not block indefinitely.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return errors.NewTimeoutError("mqtt connect to "+c.cfg.BrokerURL, connectTimeout)
	}
	return token.Error()
}

// Publish sends payload to topic with the configured QoS.
func (c *Client) Publish(topic string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.client.Publish(topic, c.cfg.QoS, c.cfg.Retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.NewTimeoutError("mqtt publish to "+topic, publishTimeout)
	}
	return token.Error()
}

// Disconnect cleanly disconnects from the broker.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client.Disconnect(1000)
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
