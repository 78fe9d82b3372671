package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	RabbitMQ    RabbitMQConfig    `yaml:"rabbitmq"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Inventory   InventoryConfig   `yaml:"inventory"`
	Log         LogConfig         `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Enabled reports whether a broker is configured at all.
func (c RabbitMQConfig) Enabled() bool {
	return c.Host != ""
}

type MaintenanceConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

func (c MaintenanceConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

type InventoryConfig struct {
	AlertThreshold int `yaml:"alert_threshold"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 5000},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "coffee",
			SSLMode:  "disable",
		},
		RabbitMQ: RabbitMQConfig{
			Port: 5672,
			User: "guest",
		},
		Maintenance: MaintenanceConfig{IntervalSeconds: 86400},
		Inventory:   InventoryConfig{AlertThreshold: domain.DefaultAlertThreshold},
		Log:         LogConfig{Level: "info"},
	}
}

// Load reads the yaml file at path (a missing file is fine), then .env,
// then applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse yaml: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Maintenance.IntervalSeconds <= 0 {
		return fmt.Errorf("maintenance interval must be positive, got %d", c.Maintenance.IntervalSeconds)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Inventory.AlertThreshold < 0 {
		return fmt.Errorf("inventory alert threshold must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"DB_HOST", &cfg.Database.Host},
		{"DB_USER", &cfg.Database.User},
		{"DB_PASSWORD", &cfg.Database.Password},
		{"DB_NAME", &cfg.Database.Database},
		{"DB_SSLMODE", &cfg.Database.SSLMode},
		{"RABBITMQ_HOST", &cfg.RabbitMQ.Host},
		{"RABBITMQ_USER", &cfg.RabbitMQ.User},
		{"RABBITMQ_PASSWORD", &cfg.RabbitMQ.Password},
		{"LOG_LEVEL", &cfg.Log.Level},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &cfg.Server.Port},
		{"DB_PORT", &cfg.Database.Port},
		{"RABBITMQ_PORT", &cfg.RabbitMQ.Port},
		{"DB_UPDATE_INTERVAL_SECONDS", &cfg.Maintenance.IntervalSeconds},
		{"INVENTORY_ALERT_THRESHOLD", &cfg.Inventory.AlertThreshold},
	}
	for _, i := range ints {
		v, ok := os.LookupEnv(i.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", i.key, v, err)
		}
		*i.dst = n
	}

	return nil
}
