package mqtt

import (
	"encoding/json"
	"fmt"

	"farmeradmin/config"
	"farmeradmin/logger"
	"farmeradmin/websocket"
)

const (
	PUBLISH_MAX_RETRIES = 3

	TOPIC_STATE     = "state"
	TOPIC_PROGRESS  = "progress"
	TOPIC_COMPLETED = "completed"
	TOPIC_ERROR     = "error"
	TOPIC_COMMANDS  = "commands"
)

// Relay republishes service monitor events on the broker under
// <prefix>/services/<id>/<event>.
type Relay struct {
	client MQTTClient
	cfg    *config.MQTTConfig
	logger logger.Logger
}

type errorPayload struct {
	Error string `json:"error"`
}

func NewRelay(client MQTTClient, cfg *config.MQTTConfig, log logger.Logger) *Relay {
	if log == nil {
		log = logger.NewNop()
	}
	return &Relay{client: client, cfg: cfg, logger: log}
}

func (r *Relay) Topic(serviceID string, event string) string {
	return fmt.Sprintf("%s/services/%s/%s", r.cfg.TopicPrefix, serviceID, event)
}

// SubscribeCommands routes <prefix>/services/<id>/commands to handler.
func (r *Relay) SubscribeCommands(serviceID string, handler MessageHandler) error {
	topic := r.Topic(serviceID, TOPIC_COMMANDS)
	if err := r.client.Subscribe(topic, handler); err != nil {
		return err
	}
	r.logger.Info("Subscribed to command topic: %s", topic)
	return nil
}

func (r *Relay) OnStateChanged(serviceID string, state string) {
	r.logger.Debug("Service %s channel state changed: %s", serviceID, state)
	r.publish(r.Topic(serviceID, TOPIC_STATE), []byte(state), r.cfg.Retain)
}

func (r *Relay) OnProgress(serviceID string, update websocket.ProgressUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		r.logger.Error("Failed to marshal progress update: %v", err)
		return
	}
	r.publish(r.Topic(serviceID, TOPIC_PROGRESS), data, false)
}

func (r *Relay) OnCompleted(serviceID string, result json.RawMessage) {
	payload := []byte(result)
	if len(payload) == 0 {
		payload = []byte("null")
	}
	r.publish(r.Topic(serviceID, TOPIC_COMPLETED), payload, r.cfg.Retain)
}

func (r *Relay) OnException(serviceID string, err error) {
	r.logger.Error("Service %s exception: %v", serviceID, err)

	data, marshalErr := json.Marshal(errorPayload{Error: err.Error()})
	if marshalErr != nil {
		r.logger.Error("Failed to marshal error payload: %v", marshalErr)
		return
	}
	r.publish(r.Topic(serviceID, TOPIC_ERROR), data, false)
}

func (r *Relay) publish(topic string, payload []byte, retain bool) {
	if !r.client.IsConnected() {
		r.logger.Debug("MQTT not connected, dropping message for %s", topic)
		return
	}

	if err := r.client.Publish(topic, payload, r.cfg.QoS, retain, PUBLISH_MAX_RETRIES); err != nil {
		r.logger.Error("Failed to publish to MQTT after retries: %v", err)
	}
}
