package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmeradmin/config"
	"farmeradmin/logger"
	"farmeradmin/retry"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	KEEP_ALIVE             = 60 * time.Second
	CONNECT_TIMEOUT        = 30 * time.Second
	MAX_RECONNECT_INTERVAL = 10 * time.Second
	DISCONNECT_QUIESCE_MS  = 250
	PUBLISH_RETRY_STEP     = 500 * time.Millisecond
)

type MQTTClient interface {
	Connect() error
	Disconnect() error
	IsConnected() bool
	Publish(topic string, payload []byte, qos byte, retain bool, maxRetries int) error
	Subscribe(topic string, handler MessageHandler) error
	Unsubscribe(topic string) error
}

type MessageHandler func(topic string, payload []byte)

type PahoClient struct {
	cfg    *config.MQTTConfig
	client mqtt.Client
	logger logger.Logger

	mu          sync.RWMutex
	subscribers map[string]MessageHandler
}

func NewPahoClient(cfg *config.MQTTConfig, log logger.Logger) *PahoClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &PahoClient{
		cfg:         cfg,
		logger:      log,
		subscribers: make(map[string]MessageHandler),
	}
}

func (c *PahoClient) options() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.cfg.GetMQTTBrokerURL())
	opts.SetClientID(c.cfg.ClientID)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
	}
	if c.cfg.Password != "" {
		opts.SetPassword(c.cfg.Password)
	}

	opts.SetKeepAlive(KEEP_ALIVE)
	opts.SetDefaultPublishHandler(c.defaultMessageHandler)
	opts.SetPingTimeout(CONNECT_TIMEOUT)
	opts.SetConnectTimeout(CONNECT_TIMEOUT)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(MAX_RECONNECT_INTERVAL)
	opts.SetConnectionLostHandler(c.connectionLostHandler)
	opts.SetOnConnectHandler(c.onConnectHandler)
	opts.SetReconnectingHandler(c.reconnectingHandler)
	return opts
}

func (c *PahoClient) Connect() error {
	c.client = mqtt.NewClient(c.options())

	c.logger.Info("Connecting to MQTT broker at %s", c.cfg.GetMQTTBrokerURL())

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	c.logger.Info("Successfully connected to MQTT broker")
	return nil
}

func (c *PahoClient) Disconnect() error {
	if c.client != nil && c.client.IsConnected() {
		c.logger.Info("Disconnecting from MQTT broker")
		c.client.Disconnect(DISCONNECT_QUIESCE_MS)
	}
	return nil
}

func (c *PahoClient) IsConnected() bool {
	if c.client == nil {
		return false
	}
	return c.client.IsConnected()
}

// Publish sends payload, retrying a failed delivery up to maxRetries times.
func (c *PahoClient) Publish(topic string, payload []byte, qos byte, retain bool, maxRetries int) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}

	manager := retry.NewManager(maxRetries > 0, maxRetries, retry.Linear{Step: PUBLISH_RETRY_STEP}, c.logger)
	for {
		token := c.client.Publish(topic, qos, retain, payload)
		token.Wait()
		err := token.Error()
		if err == nil {
			return nil
		}

		if !manager.ShouldReconnect() {
			return fmt.Errorf("failed to publish message to %s: %w", topic, err)
		}
		c.logger.Warn("Publish to %s failed (attempt %d/%d): %v", topic, manager.GetAttempt()+1, maxRetries, err)
		if waitErr := manager.Wait(context.Background()); waitErr != nil {
			return fmt.Errorf("failed to publish message to %s: %w", topic, err)
		}
	}
}

func (c *PahoClient) Subscribe(topic string, handler MessageHandler) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}

	c.mu.Lock()
	c.subscribers[topic] = handler
	c.mu.Unlock()

	token := c.client.Subscribe(topic, c.cfg.QoS, c.dispatch)
	if token.Wait() && token.Error() != nil {
		c.mu.Lock()
		delete(c.subscribers, topic)
		c.mu.Unlock()
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
	}

	c.logger.Info("Successfully subscribed to topic: %s", topic)
	return nil
}

func (c *PahoClient) Unsubscribe(topic string) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}

	token := c.client.Unsubscribe(topic)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to unsubscribe from topic %s: %w", topic, token.Error())
	}

	c.mu.Lock()
	delete(c.subscribers, topic)
	c.mu.Unlock()
	c.logger.Info("Successfully unsubscribed from topic: %s", topic)
	return nil
}

func (c *PahoClient) handler(topic string) (MessageHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.subscribers[topic]
	return h, ok
}

func (c *PahoClient) dispatch(client mqtt.Client, msg mqtt.Message) {
	if h, ok := c.handler(msg.Topic()); ok {
		h(msg.Topic(), msg.Payload())
		return
	}
	c.defaultMessageHandler(client, msg)
}

func (c *PahoClient) defaultMessageHandler(client mqtt.Client, msg mqtt.Message) {
	c.logger.Debug("Received message on topic %s: %s", msg.Topic(), string(msg.Payload()))
}

func (c *PahoClient) connectionLostHandler(client mqtt.Client, err error) {
	c.logger.Warn("MQTT connection lost: %v", err)
}

func (c *PahoClient) onConnectHandler(client mqtt.Client) {
	c.logger.Info("MQTT connection established")

	c.mu.RLock()
	topics := make([]string, 0, len(c.subscribers))
	for topic := range c.subscribers {
		topics = append(topics, topic)
	}
	c.mu.RUnlock()

	for _, topic := range topics {
		c.logger.Info("Resubscribing to topic: %s", topic)
		token := client.Subscribe(topic, c.cfg.QoS, c.dispatch)
		if token.Wait() && token.Error() != nil {
			c.logger.Error("Failed to resubscribe to topic %s: %v", topic, token.Error())
		}
	}
}

func (c *PahoClient) reconnectingHandler(client mqtt.Client, opts *mqtt.ClientOptions) {
	c.logger.Info("Attempting to reconnect to MQTT broker...")
}
