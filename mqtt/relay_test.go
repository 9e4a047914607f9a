package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"farmeradmin/config"
	"farmeradmin/monitor"
	"farmeradmin/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ monitor.Listener = (*Relay)(nil)
var _ MQTTClient = (*PahoClient)(nil)

type published struct {
	topic   string
	payload string
	qos     byte
	retain  bool
	retries int
}

type fakeClient struct {
	mu         sync.Mutex
	connected  bool
	publishErr error
	messages   []published
	handlers   map[string]MessageHandler
}

func newFakeClient() *fakeClient {
	return &fakeClient{connected: true, handlers: make(map[string]MessageHandler)}
}

func (c *fakeClient) Connect() error { return nil }
func (c *fakeClient) Disconnect() error { return nil }
func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, payload []byte, qos byte, retain bool, maxRetries int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.messages = append(c.messages, published{topic, string(payload), qos, retain, maxRetries})
	return nil
}

func (c *fakeClient) Subscribe(topic string, handler MessageHandler) error {
	c.handlers[topic] = handler
	return nil
}

func (c *fakeClient) Unsubscribe(topic string) error {
	delete(c.handlers, topic)
	return nil
}

func relayConfig() *config.MQTTConfig {
	return &config.MQTTConfig{TopicPrefix: "farm", QoS: 1, Retain: true}
}

func TestRelayTopics(t *testing.T) {
	r := NewRelay(newFakeClient(), relayConfig(), nil)

	assert.Equal(t, "farm/services/svc-1/state", r.Topic("svc-1", TOPIC_STATE))
	assert.Equal(t, "farm/services/svc-1/commands", r.Topic("svc-1", TOPIC_COMMANDS))
}

func TestRelayPublishesEvents(t *testing.T) {
	client := newFakeClient()
	r := NewRelay(client, relayConfig(), nil)

	r.OnStateChanged("svc-1", websocket.WEB_SOCKET_STATE_CONNECTED)
	r.OnProgress("svc-1", websocket.ProgressUpdate{Progress: 50, CurrentStage: "coding"})
	r.OnCompleted("svc-1", json.RawMessage(`{"status":"ready"}`))
	r.OnCompleted("svc-1", nil)
	r.OnException("svc-1", errors.New("boom"))

	require.Len(t, client.messages, 5)

	assert.Equal(t, published{"farm/services/svc-1/state", "ws_connected", 1, true, PUBLISH_MAX_RETRIES}, client.messages[0])

	assert.Equal(t, "farm/services/svc-1/progress", client.messages[1].topic)
	assert.JSONEq(t, `{"progress":50,"current_stage":"coding"}`, client.messages[1].payload)
	assert.False(t, client.messages[1].retain)

	assert.Equal(t, "farm/services/svc-1/completed", client.messages[2].topic)
	assert.JSONEq(t, `{"status":"ready"}`, client.messages[2].payload)
	assert.True(t, client.messages[2].retain)
	assert.Equal(t, "null", client.messages[3].payload)

	assert.Equal(t, "farm/services/svc-1/error", client.messages[4].topic)
	assert.JSONEq(t, `{"error":"boom"}`, client.messages[4].payload)
}

func TestRelaySkipsWhenDisconnected(t *testing.T) {
	client := newFakeClient()
	client.connected = false
	r := NewRelay(client, relayConfig(), nil)

	r.OnStateChanged("svc-1", websocket.WEB_SOCKET_STATE_STOPPED)
	assert.Empty(t, client.messages)
}

func TestRelayPublishFailureIsLogged(t *testing.T) {
	client := newFakeClient()
	client.publishErr = errors.New("broker gone")
	r := NewRelay(client, relayConfig(), nil)

	assert.NotPanics(t, func() {
		r.OnProgress("svc-1", websocket.ProgressUpdate{Progress: 1})
	})
	assert.Empty(t, client.messages)
}

func TestRelaySubscribeCommands(t *testing.T) {
	client := newFakeClient()
	r := NewRelay(client, relayConfig(), nil)

	var got string
	require.NoError(t, r.SubscribeCommands("svc-9", func(topic string, payload []byte) {
		got = topic + " " + string(payload)
	}))

	handler, ok := client.handlers["farm/services/svc-9/commands"]
	require.True(t, ok)
	handler("farm/services/svc-9/commands", []byte(`{"command":"ping"}`))
	assert.Equal(t, `farm/services/svc-9/commands {"command":"ping"}`, got)
}

func TestPahoClientRequiresConnection(t *testing.T) {
	c := NewPahoClient(&config.MQTTConfig{Host: "localhost", Port: 1883, ClientID: "test"}, nil)

	assert.False(t, c.IsConnected())
	assert.EqualError(t, c.Publish("t", []byte("x"), 0, false, 1), "not connected to MQTT broker")
	assert.EqualError(t, c.Subscribe("t", func(string, []byte) {}), "not connected to MQTT broker")
	assert.EqualError(t, c.Unsubscribe("t"), "not connected to MQTT broker")
	assert.NoError(t, c.Disconnect())
}
