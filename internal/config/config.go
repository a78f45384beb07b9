package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Tracing TracingConfig `yaml:"tracing"`
	Seed    SeedConfig    `yaml:"seed"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
	// Allowed CORS origins (comma-separated)
	AllowedOrigins string `yaml:"allowed_origins"`
	// Max request body size in bytes
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// KafkaConfig holds event publishing configuration. When disabled, events
// stay in the in-process store and the projector is fed synchronously.
type KafkaConfig struct {
	Enabled bool   `yaml:"enabled"`
	Brokers string `yaml:"brokers"` // comma-separated
	Topic   string `yaml:"topic"`
	GroupID string `yaml:"group_id"`
}

// TracingConfig holds OpenTelemetry configuration.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Environment string `yaml:"environment"`
}

// SeedConfig controls demo catalog seeding on startup.
type SeedConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load loads configuration from an optional YAML file, with environment
// variables taking precedence over file values.
func Load(configFile string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: "*",
			MaxBodyBytes:   1 << 20, // 1MB
		},
		Kafka: KafkaConfig{
			Enabled: false,
			Brokers: "localhost:9092",
			Topic:   "storefront-events",
			GroupID: "storefront-projector",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "http://localhost:14268/api/traces",
			Environment: "development",
		},
		Seed: SeedConfig{Enabled: true},
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	overrideFromEnv(cfg)

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = origins
	}
	if size := os.Getenv("MAX_BODY_BYTES"); size != "" {
		if n, err := strconv.ParseInt(size, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = n
		}
	}
	if enabled := os.Getenv("KAFKA_ENABLED"); enabled != "" {
		cfg.Kafka.Enabled = parseBool(enabled)
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = brokers
	}
	if topic := os.Getenv("KAFKA_TOPIC"); topic != "" {
		cfg.Kafka.Topic = topic
	}
	if group := os.Getenv("KAFKA_GROUP_ID"); group != "" {
		cfg.Kafka.GroupID = group
	}
	if enabled := os.Getenv("TRACING_ENABLED"); enabled != "" {
		cfg.Tracing.Enabled = parseBool(enabled)
	}
	if endpoint := os.Getenv("TRACING_ENDPOINT"); endpoint != "" {
		cfg.Tracing.Endpoint = endpoint
	}
	if env := os.Getenv("TRACING_ENVIRONMENT"); env != "" {
		cfg.Tracing.Environment = env
	}
	if seed := os.Getenv("SEED_DEMO_DATA"); seed != "" {
		cfg.Seed.Enabled = parseBool(seed)
	}
}

func parseBool(value string) bool {
	return strings.ToLower(value) == "true" || value == "1"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// BrokerList splits the comma-separated broker string.
func (c *KafkaConfig) BrokerList() []string {
	return strings.Split(c.Brokers, ",")
}

// OriginList splits the comma-separated CORS origins string.
func (c *ServerConfig) OriginList() []string {
	return strings.Split(c.AllowedOrigins, ",")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %q", c.Server.Port)
	}
	if c.Kafka.Enabled {
		if c.Kafka.Brokers == "" {
			return fmt.Errorf("kafka brokers are required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka topic is required when kafka is enabled")
		}
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing endpoint is required when tracing is enabled")
	}
	return nil
}
