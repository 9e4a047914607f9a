package config

type Config struct {
	Environment string        `yaml:"environment" env:"ENVIRONMENT"`
	Backend     BackendConfig `yaml:"backend"`
	Service     ServiceConfig `yaml:"service"`
	Session     SessionConfig `yaml:"session"`
	MQTT        MQTTConfig    `yaml:"mqtt"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Logging     LoggingConfig `yaml:"logging"`
}

type BackendConfig struct {
	BaseURL    string `yaml:"base_url" env:"BACKEND_BASE_URL"`
	APIPrefix  string `yaml:"api_prefix" env:"BACKEND_API_PREFIX"`
	Timeout    int    `yaml:"timeout" env:"BACKEND_TIMEOUT"`
	MaxRetries int    `yaml:"max_retries" env:"BACKEND_MAX_RETRIES"`
}

// ServiceConfig drives the service progress websocket. Origin plays the part
// of the page origin the admin UI is served from.
type ServiceConfig struct {
	Origin                        string `yaml:"origin" env:"SERVICE_ORIGIN"`
	AutoReconnect                 bool   `yaml:"auto_reconnect" env:"SERVICE_AUTO_RECONNECT"`
	MaxReconnectAttempts          int    `yaml:"max_reconnect_attempts" env:"SERVICE_MAX_RECONNECT_ATTEMPTS"`
	ReconnectStep                 int    `yaml:"reconnect_step_ms" env:"SERVICE_RECONNECT_STEP_MS"`
	PingInterval                  int    `yaml:"ping_interval" env:"SERVICE_PING_INTERVAL"`
	SuppressReconnectOnDisconnect bool   `yaml:"suppress_reconnect_on_disconnect" env:"SERVICE_SUPPRESS_RECONNECT_ON_DISCONNECT"`
}

type SessionConfig struct {
	Path string `yaml:"path" env:"SESSION_PATH"`
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled" env:"MQTT_ENABLED"`
	Host        string `yaml:"host" env:"MQTT_HOST"`
	Port        int    `yaml:"port" env:"MQTT_PORT"`
	Username    string `yaml:"username" env:"MQTT_USERNAME"`
	Password    string `yaml:"password" env:"MQTT_PASSWORD"`
	UseTLS      bool   `yaml:"use_tls" env:"MQTT_USE_TLS"`
	ClientID    string `yaml:"client_id" env:"MQTT_CLIENT_ID"`
	TopicPrefix string `yaml:"topic_prefix" env:"MQTT_TOPIC_PREFIX"`
	QoS         byte   `yaml:"qos" env:"MQTT_QOS"`
	Retain      bool   `yaml:"retain" env:"MQTT_RETAIN"`

	CommandsEnabled bool `yaml:"commands_enabled" env:"MQTT_COMMANDS_ENABLED"`
}

type MetricsConfig struct {
	Address string `yaml:"address" env:"METRICS_ADDRESS"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
	File   string `yaml:"file" env:"LOG_FILE"`
}
