// Package config loads and validates the server configuration from YAML
// files and GRIDCLASH_-prefixed environment variables.
package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Server      ServerConfig
	Matchmaking MatchmakingConfig
	Auth        AuthConfig
	Store       StoreConfig
	Broker      BrokerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int // Seconds
	WriteTimeout int // Seconds
	IdleTimeout  int // Seconds
}

type MatchmakingConfig struct {
	BucketWidth float64
}

type AuthConfig struct {
	JWTSecret string
}

type StoreConfig struct {
	Backend  string // "memory" or "redis"
	RedisURL string
}

type BrokerConfig struct {
	Backend string // "none" or "kafka"
	Brokers []string
	Topic   string
}

var (
	instance *AppConfig
	once     sync.Once
)

// Initialize loads config.<env>.yaml from ./configs or the working
// directory, applies defaults and environment overrides, and validates the
// result. It runs at most once per process.
func Initialize(env string) error {
	var initErr error
	once.Do(func() {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")

		viper.AutomaticEnv()
		viper.SetEnvPrefix("GRIDCLASH")

		setDefaults()
		bindEnvVars()

		// Missing config files are fine: defaults plus environment
		// variables form a complete configuration.
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				initErr = fmt.Errorf("config file error: %w", err)
				return
			}
		}

		cfg := &AppConfig{}
		if err := viper.Unmarshal(cfg); err != nil {
			initErr = fmt.Errorf("config unmarshal error: %w", err)
			return
		}

		if err := cfg.Validate(); err != nil {
			initErr = fmt.Errorf("config validation failed: %w", err)
			return
		}
		instance = cfg
	})
	return initErr
}

// Get returns the loaded configuration. It is nil before Initialize.
func Get() *AppConfig {
	return instance
}
