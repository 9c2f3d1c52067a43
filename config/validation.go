package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	if c.Matchmaking.BucketWidth <= 0 {
		return errors.New("matchmaking bucket width must be positive")
	}

	switch strings.ToLower(c.Store.Backend) {
	case "memory":
	case "redis":
		if c.Store.RedisURL == "" {
			return errors.New("store.redisUrl must be set for the redis backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s. Must be 'memory' or 'redis'", c.Store.Backend)
	}

	switch strings.ToLower(c.Broker.Backend) {
	case "none":
	case "kafka":
		if len(c.Broker.Brokers) == 0 {
			return errors.New("kafka brokers must be specified for the kafka backend")
		}
		if c.Broker.Topic == "" {
			return errors.New("kafka topic must be specified for the kafka backend")
		}
	default:
		return fmt.Errorf("invalid broker backend: %s. Must be 'none' or 'kafka'", c.Broker.Backend)
	}

	return nil
}
