package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zonas IANA aunque la imagen no traiga zoneinfo

	"gopkg.in/yaml.v3"
)

// Config del servicio. Orden de carga: defaults, archivo YAML (POOPALS_CONFIG), env.
type Config struct {
	Port string `yaml:"port"`

	// DBDSN vacío => repos en memoria.
	DBDSN string `yaml:"db_dsn"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	AppName   string `yaml:"app_name"`

	DefaultTimezone string `yaml:"default_timezone"`

	Auth    AuthConfig    `yaml:"auth"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Metrics MetricsConfig `yaml:"metrics"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// AuthConfig: sin BaseURL el servicio corre en modo dev (X-Debug-User-ID).
type AuthConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// KafkaConfig: sin brokers la actividad del círculo se descarta.
type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	ActivityTopic string   `yaml:"activity_topic"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		LogLevel:        "info",
		LogFormat:       "text",
		AppName:         "poopals-api",
		DefaultTimezone: "UTC",
		Kafka: KafkaConfig{
			ActivityTopic: "poopals.activity",
		},
		Metrics: MetricsConfig{Enabled: true},
		HTTP: HTTPConfig{
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load arma la configuración desde defaults, el YAML de POOPALS_CONFIG (si existe) y env.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path, ok := lookup("POOPALS_CONFIG"); ok && strings.TrimSpace(path) != "" {
		if err := cfg.loadFile(strings.TrimSpace(path)); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &c.Port)
	str("DB_DSN", &c.DBDSN)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("APP_NAME", &c.AppName)
	str("DEFAULT_TIMEZONE", &c.DefaultTimezone)
	str("AUTH_BASE_URL", &c.Auth.BaseURL)
	str("AUTH_API_KEY", &c.Auth.APIKey)
	str("KAFKA_ACTIVITY_TOPIC", &c.Kafka.ActivityTopic)

	if v, ok := lookup("KAFKA_BROKERS"); ok && strings.TrimSpace(v) != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v, ok := lookup("METRICS_ENABLED"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = b
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid default_timezone %q: %w", c.DefaultTimezone, err)
	}
	if (c.Auth.BaseURL == "") != (c.Auth.APIKey == "") {
		return errors.New("auth base_url and api_key must be set together")
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.ActivityTopic) == "" {
		return errors.New("kafka activity_topic is required when brokers are set")
	}
	return nil
}

// Location devuelve DefaultTimezone ya validada (UTC si falla).
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
