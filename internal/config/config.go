package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Sink kinds accepted by the serve mode.
const (
	SinkKafka = "kafka"
	SinkHTTP  = "http"
)

type Config struct {
	KafkaBrokers       []string `envconfig:"KAFKA_BROKERS"        required:"true"`
	KafkaInputTopic    string   `envconfig:"KAFKA_INPUT_TOPIC"    required:"true"`
	KafkaClientID      string   `envconfig:"KAFKA_CLIENT_ID"      required:"true"`
	KafkaConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" required:"true"`
	KafkaFetchMaxMB    int32    `envconfig:"KAFKA_FETCH_MAX_MB"   default:"16"`

	// Exactly one sink is active. Kafka needs the output topic, HTTP needs
	// the collector URL.
	Sink             string        `envconfig:"SINK" default:"kafka"`
	KafkaOutputTopic string        `envconfig:"KAFKA_OUTPUT_TOPIC"`
	CollectorURL     string        `envconfig:"COLLECTOR_URL"`
	PushPeriod       time.Duration `envconfig:"PUSH_PERIOD" default:"10s"`
	PushRetryCount   int           `envconfig:"PUSH_RETRY_COUNT" default:"3"`

	Pseudonyms bool   `envconfig:"PSEUDONYMS" default:"true"`
	Words      bool   `envconfig:"WORDS" default:"false"`
	SaltScheme string `envconfig:"SALT_SCHEME" default:"hkdf"`
	SaltWindow string `envconfig:"SALT_WINDOW" default:"60m"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	LogLevel      zapcore.Level `envconfig:"LOG_LEVEL" default:"info"`
	KafkaLogLevel zapcore.Level `envconfig:"KAFKA_LOG_LEVEL" default:"error"`
	LogFile       string        `envconfig:"LOG_FILE"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	switch c.Sink {
	case SinkKafka:
		if c.KafkaOutputTopic == "" {
			return nil, errors.New("KAFKA_OUTPUT_TOPIC is required with SINK=kafka")
		}
	case SinkHTTP:
		if c.CollectorURL == "" {
			return nil, errors.New("COLLECTOR_URL is required with SINK=http")
		}
	default:
		return nil, errors.Errorf("unknown sink %q", c.Sink)
	}
	return &c, nil
}
