package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type DatabaseConfig struct {
	Host                   string `mapstructure:"host" envconfig:"DB_HOST"`
	Port                   int    `mapstructure:"port" envconfig:"DB_PORT"`
	User                   string `mapstructure:"user" envconfig:"DB_USER"`
	Password               string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name                   string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode                string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"REDIS_URL"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type OutboxConfig struct {
	BatchSize      int           `mapstructure:"batch_size"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RetentionHours int           `mapstructure:"retention_hours"`
}

// LoadConfig reads config.yaml and applies environment overrides for the
// deployment-sensitive values (database, redis, jwt secret).
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("clinic", &config.Database); err != nil {
		return nil, fmt.Errorf("failed to process database env overrides: %w", err)
	}
	if err := envconfig.Process("clinic", &config.Redis); err != nil {
		return nil, fmt.Errorf("failed to process redis env overrides: %w", err)
	}
	if err := envconfig.Process("clinic", &config.JWT); err != nil {
		return nil, fmt.Errorf("failed to process jwt env overrides: %w", err)
	}

	return &config, nil
}
