package config

import "github.com/spf13/viper"

func setDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readtimeout", 15)
	viper.SetDefault("server.writetimeout", 15)
	viper.SetDefault("server.idletimeout", 60)

	viper.SetDefault("matchmaking.bucketwidth", 200)

	viper.SetDefault("auth.jwtsecret", "")

	viper.SetDefault("store.backend", "memory")
	viper.SetDefault("store.redisurl", "redis://localhost:6379/0")

	viper.SetDefault("broker.backend", "none")
	viper.SetDefault("broker.brokers", []string{"localhost:9092"})
	viper.SetDefault("broker.topic", "gridclash-events")
}

func bindEnvVars() {
	viper.BindEnv("server.host", "GRIDCLASH_SERVER_HOST")
	viper.BindEnv("server.port", "GRIDCLASH_SERVER_PORT")

	viper.BindEnv("matchmaking.bucketwidth", "GRIDCLASH_BUCKET_WIDTH")

	viper.BindEnv("auth.jwtsecret", "GRIDCLASH_JWT_SECRET")

	viper.BindEnv("store.backend", "GRIDCLASH_STORE_BACKEND")
	viper.BindEnv("store.redisurl", "GRIDCLASH_REDIS_URL")

	viper.BindEnv("broker.backend", "GRIDCLASH_BROKER_BACKEND")
	viper.BindEnv("broker.brokers", "GRIDCLASH_KAFKA_BROKERS")
	viper.BindEnv("broker.topic", "GRIDCLASH_KAFKA_TOPIC")
}
