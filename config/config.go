package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DEFAULT_REQUEST_TIMEOUT = 30
const DEFAULT_API_PREFIX = "/api/v1"
const DEFAULT_MAX_RECONNECT_ATTEMPTS = 5
const DEFAULT_RECONNECT_STEP_MS = 2000
const DEFAULT_PING_INTERVAL = 30
const DEFAULT_SESSION_PATH = "~/.farmer-admin/session.json"

func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", closeErr)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Environment = env
	}

	if baseURL := os.Getenv("BACKEND_BASE_URL"); baseURL != "" {
		config.Backend.BaseURL = baseURL
	}
	if prefix := os.Getenv("BACKEND_API_PREFIX"); prefix != "" {
		config.Backend.APIPrefix = prefix
	}
	if timeout := os.Getenv("BACKEND_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Backend.Timeout = t
		}
	}
	if maxRetries := os.Getenv("BACKEND_MAX_RETRIES"); maxRetries != "" {
		if mr, err := strconv.Atoi(maxRetries); err == nil {
			config.Backend.MaxRetries = mr
		}
	}

	if origin := os.Getenv("SERVICE_ORIGIN"); origin != "" {
		config.Service.Origin = origin
	}
	if autoReconnect := os.Getenv("SERVICE_AUTO_RECONNECT"); autoReconnect != "" {
		if ar, err := strconv.ParseBool(autoReconnect); err == nil {
			config.Service.AutoReconnect = ar
		}
	}
	if maxReconnect := os.Getenv("SERVICE_MAX_RECONNECT_ATTEMPTS"); maxReconnect != "" {
		if mr, err := strconv.Atoi(maxReconnect); err == nil {
			config.Service.MaxReconnectAttempts = mr
		}
	}
	if step := os.Getenv("SERVICE_RECONNECT_STEP_MS"); step != "" {
		if s, err := strconv.Atoi(step); err == nil {
			config.Service.ReconnectStep = s
		}
	}
	if pingInterval := os.Getenv("SERVICE_PING_INTERVAL"); pingInterval != "" {
		if pi, err := strconv.Atoi(pingInterval); err == nil {
			config.Service.PingInterval = pi
		}
	}
	if suppress := os.Getenv("SERVICE_SUPPRESS_RECONNECT_ON_DISCONNECT"); suppress != "" {
		if s, err := strconv.ParseBool(suppress); err == nil {
			config.Service.SuppressReconnectOnDisconnect = s
		}
	}

	if path := os.Getenv("SESSION_PATH"); path != "" {
		config.Session.Path = path
	}

	if enabled := os.Getenv("MQTT_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.MQTT.Enabled = e
		}
	}
	if host := os.Getenv("MQTT_HOST"); host != "" {
		config.MQTT.Host = host
	}
	if port := os.Getenv("MQTT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.MQTT.Port = p
		}
	}
	if username := os.Getenv("MQTT_USERNAME"); username != "" {
		config.MQTT.Username = username
	}
	if password := os.Getenv("MQTT_PASSWORD"); password != "" {
		config.MQTT.Password = password
	}
	if useTLS := os.Getenv("MQTT_USE_TLS"); useTLS != "" {
		if u, err := strconv.ParseBool(useTLS); err == nil {
			config.MQTT.UseTLS = u
		}
	}
	if clientID := os.Getenv("MQTT_CLIENT_ID"); clientID != "" {
		config.MQTT.ClientID = clientID
	}
	if topicPrefix := os.Getenv("MQTT_TOPIC_PREFIX"); topicPrefix != "" {
		config.MQTT.TopicPrefix = topicPrefix
	}
	if qos := os.Getenv("MQTT_QOS"); qos != "" {
		if q, err := strconv.ParseUint(qos, 10, 8); err == nil {
			config.MQTT.QoS = byte(q)
		}
	}
	if retain := os.Getenv("MQTT_RETAIN"); retain != "" {
		if r, err := strconv.ParseBool(retain); err == nil {
			config.MQTT.Retain = r
		}
	}

	if commands := os.Getenv("MQTT_COMMANDS_ENABLED"); commands != "" {
		if c, err := strconv.ParseBool(commands); err == nil {
			config.MQTT.CommandsEnabled = c
		}
	}

	if address := os.Getenv("METRICS_ADDRESS"); address != "" {
		config.Metrics.Address = address
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		config.Logging.File = file
	}
}

func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", closeErr)
		}
	}()

	_, err = file.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func LoadOrCreateConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		config := DefaultConfig()

		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("default config validation failed: %w", err)
		}

		if err := SaveConfig(config, filename); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
		return config, nil
	}

	config, err := LoadConfig(filename)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func GenerateDefaultConfig(filename string) error {
	config := DefaultConfig()
	return SaveConfig(config, filename)
}

// GetAPIBaseURL joins the backend address and the API prefix.
func (b *BackendConfig) GetAPIBaseURL() string {
	prefix := b.APIPrefix
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(b.BaseURL, "/") + strings.TrimRight(prefix, "/")
}

func (b *BackendConfig) GetTimeout() time.Duration {
	if b.Timeout <= 0 {
		return time.Duration(DEFAULT_REQUEST_TIMEOUT) * time.Second
	}
	return time.Duration(b.Timeout) * time.Second
}

func (s *ServiceConfig) GetReconnectStep() time.Duration {
	if s.ReconnectStep <= 0 {
		return time.Duration(DEFAULT_RECONNECT_STEP_MS) * time.Millisecond
	}
	return time.Duration(s.ReconnectStep) * time.Millisecond
}

func (s *ServiceConfig) GetPingInterval() time.Duration {
	if s.PingInterval <= 0 {
		return time.Duration(DEFAULT_PING_INTERVAL) * time.Second
	}
	return time.Duration(s.PingInterval) * time.Second
}

func (m *MQTTConfig) GetMQTTBrokerURL() string {
	scheme := "tcp"
	if m.UseTLS {
		scheme = "tls"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, m.Host, m.Port)
}

func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Backend: BackendConfig{
			BaseURL:    "http://localhost:8000",
			APIPrefix:  DEFAULT_API_PREFIX,
			Timeout:    DEFAULT_REQUEST_TIMEOUT,
			MaxRetries: 2,
		},
		Service: ServiceConfig{
			Origin:                        "http://localhost:8000",
			AutoReconnect:                 true,
			MaxReconnectAttempts:          DEFAULT_MAX_RECONNECT_ATTEMPTS,
			ReconnectStep:                 DEFAULT_RECONNECT_STEP_MS,
			PingInterval:                  DEFAULT_PING_INTERVAL,
			SuppressReconnectOnDisconnect: true,
		},
		Session: SessionConfig{
			Path: DEFAULT_SESSION_PATH,
		},
		MQTT: MQTTConfig{
			Enabled:     false,
			Host:        "localhost",
			Port:        1883,
			ClientID:    "farmer-admin",
			TopicPrefix: "farmer-admin",
			QoS:         0,
			Retain:      false,
		},
		Metrics: MetricsConfig{
			Address: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend config validation failed: %w", err)
	}

	if err := c.Service.Validate(); err != nil {
		return fmt.Errorf("service config validation failed: %w", err)
	}

	if strings.TrimSpace(c.Session.Path) == "" {
		return fmt.Errorf("session config validation failed: session path cannot be empty")
	}

	if c.MQTT.Enabled {
		if err := c.MQTT.Validate(); err != nil {
			return fmt.Errorf("mqtt config validation failed: %w", err)
		}
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	validEnvs := []string{"development", "production", "testing"}
	found := false
	for _, env := range validEnvs {
		if c.Environment == env {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid environment '%s', must be one of: %s", c.Environment, strings.Join(validEnvs, ", "))
	}

	return nil
}

func (b *BackendConfig) Validate() error {
	if strings.TrimSpace(b.BaseURL) == "" {
		return fmt.Errorf("backend base url cannot be empty")
	}

	u, err := url.Parse(b.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend base url must be an absolute http(s) url, got '%s'", b.BaseURL)
	}

	if b.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %d", b.Timeout)
	}

	if b.MaxRetries < 0 {
		return fmt.Errorf("backend max retries must be non-negative, got %d", b.MaxRetries)
	}

	return nil
}

func (s *ServiceConfig) Validate() error {
	if strings.TrimSpace(s.Origin) == "" {
		return fmt.Errorf("service origin cannot be empty")
	}

	u, err := url.Parse(s.Origin)
	if err != nil || u.Host == "" {
		return fmt.Errorf("service origin must be an absolute url, got '%s'", s.Origin)
	}

	if s.MaxReconnectAttempts < 0 {
		return fmt.Errorf("service max reconnect attempts must be non-negative, got %d", s.MaxReconnectAttempts)
	}

	if s.ReconnectStep < 0 {
		return fmt.Errorf("service reconnect step must be non-negative, got %d", s.ReconnectStep)
	}

	if s.PingInterval < 0 {
		return fmt.Errorf("service ping interval must be non-negative, got %d", s.PingInterval)
	}

	return nil
}

func (m *MQTTConfig) Validate() error {
	if strings.TrimSpace(m.Host) == "" {
		return fmt.Errorf("mqtt host cannot be empty")
	}

	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("mqtt port must be between 1 and 65535, got %d", m.Port)
	}

	if strings.TrimSpace(m.ClientID) == "" {
		return fmt.Errorf("mqtt client ID cannot be empty")
	}

	if strings.TrimSpace(m.TopicPrefix) == "" {
		return fmt.Errorf("mqtt topic prefix cannot be empty")
	}

	if m.QoS > 2 {
		return fmt.Errorf("mqtt QoS must be 0, 1, or 2, got %d", m.QoS)
	}

	if strings.HasPrefix(m.TopicPrefix, "/") || strings.HasSuffix(m.TopicPrefix, "/") {
		return fmt.Errorf("mqtt topic prefix should not start or end with '/', got '%s'", m.TopicPrefix)
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	found := false
	level := strings.ToLower(l.Level)
	for _, validLevel := range validLevels {
		if level == validLevel {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log level '%s', must be one of: %s", l.Level, strings.Join(validLevels, ", "))
	}

	validFormats := []string{"text", "json"}
	found = false
	format := strings.ToLower(l.Format)
	for _, validFormat := range validFormats {
		if format == validFormat {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log format '%s', must be one of: %s", l.Format, strings.Join(validFormats, ", "))
	}

	return nil
}
