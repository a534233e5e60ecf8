package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sanyaade-fintechnology/aiotrade/pkg/questdb"
)

// Config represents the application configuration.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	QuestDB   questdb.Config  `envPrefix:"QUESTDB_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	TickKafka TickKafkaConfig `envPrefix:"TICK_KAFKA_"`
	FeedKafka FeedKafkaConfig `envPrefix:"FEED_KAFKA_"`
	Snapshot  SnapshotConfig  `envPrefix:"SNAPSHOT_"`
	Market    MarketConfig    `envPrefix:"MARKET_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"aiotrade"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// RedisConfig represents the event-bus Redis configuration.
type RedisConfig struct {
	Addr           string `env:"ADDR" envDefault:"localhost:6379"`
	Username       string `env:"USERNAME"`
	Password       string `env:"PASSWORD"`
	DB             int    `env:"DB" envDefault:"0"`
	ChannelPrefix  string `env:"CHANNEL_PREFIX" envDefault:"aiotrade:"`
	MaxRetries     int    `env:"MAX_RETRIES" envDefault:"3"`
	PoolSize       int    `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns   int    `env:"MIN_IDLE_CONNS" envDefault:"2"`
	ConnectTimeout int    `env:"CONNECT_TIMEOUT_SECONDS" envDefault:"5"`
}

// TickKafkaConfig represents the Kafka configuration for the tick stream.
type TickKafkaConfig struct {
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string   `env:"TOPIC" envDefault:"ticks"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"aiotrade"`
	MaxRetries    int      `env:"MAX_RETRIES" envDefault:"3"`
}

// FeedKafkaConfig represents the Kafka configuration for the quote feed.
type FeedKafkaConfig struct {
	Brokers     []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	TopicPrefix string   `env:"TOPIC_PREFIX" envDefault:"quotes."`
	ServiceName string   `env:"SERVICE_NAME" envDefault:"kafka-feed"`
	CatchUpLag  int64    `env:"CATCH_UP_LAG" envDefault:"0"`
}

// SnapshotConfig tunes the tick snapshot path.
type SnapshotConfig struct {
	FlushQueueSize int    `env:"FLUSH_QUEUE_SIZE" envDefault:"1024"`
	FlushBatchSize int    `env:"FLUSH_BATCH_SIZE" envDefault:"256"`
	FlushInterval  string `env:"FLUSH_INTERVAL" envDefault:"1s"`
}

// MarketConfig describes the instruments this process serves.
type MarketConfig struct {
	Exchange    string   `env:"EXCHANGE" envDefault:"NYSE"`
	Timezone    string   `env:"TIMEZONE" envDefault:"America/New_York"`
	Symbols     []string `env:"SYMBOLS" envSeparator:"," envDefault:"AAPL"`
	DefaultFreq string   `env:"DEFAULT_FREQ" envDefault:"1d"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
