package app

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kzap"
	"go.uber.org/zap"

	"github.com/ipveil/ipveil/internal/config"
	"github.com/ipveil/ipveil/internal/pipeline"
	"github.com/ipveil/ipveil/internal/saltwindow"
	"github.com/ipveil/ipveil/internal/veil"
)

type App struct {
	kafka *kgo.Client
	pipe  *pipeline.Pipeline[*LogLine, [][]byte]
}

func New(
	c config.Config,
	logger *zap.Logger,
) (*App, error) {
	// The word table must be usable before the first record arrives.
	var table *veil.Table
	if c.Words {
		var err error
		table, err = veil.LoadTable()
		if err != nil {
			logger.Error("Failed to load word table.", zap.Error(err))
			return nil, err
		}
	}

	rotator, err := veil.NewRotator(c.SaltScheme)
	if err != nil {
		logger.Error("Failed to init rotator.", zap.Error(err))
		return nil, err
	}

	var salts saltwindow.Source = saltwindow.Disabled{}
	if c.Pseudonyms {
		window, err := saltwindow.ParseWindow(c.SaltWindow)
		if err != nil {
			logger.Error("Failed to parse salt window.", zap.Error(err))
			return nil, err
		}
		salts = saltwindow.New(window, logger.Named("saltwindow"))
	}

	// Init the Kafka client.
	kafkaClient, err := kgo.NewClient(
		kgo.SeedBrokers(c.KafkaBrokers...),
		kgo.ClientID(c.KafkaClientID),
		kgo.ConsumerGroup(c.KafkaConsumerGroup),
		kgo.ConsumeTopics(c.KafkaInputTopic),
		kgo.AllowAutoTopicCreation(),
		kgo.DisableAutoCommit(),
		kgo.FetchMaxBytes(1024*1024*c.KafkaFetchMaxMB),
		kgo.WithLogger(kzap.New(logger.Named("kafka").WithOptions(zap.IncreaseLevel(c.KafkaLogLevel)))),
	)
	if err != nil {
		logger.Error("Failed to init Kafka client.", zap.Error(err))
		return nil, err
	}

	var sink pipeline.Sink[[][]byte]
	switch c.Sink {
	case config.SinkHTTP:
		sink = NewHTTPPostSink(
			logger.Named("http_sink"), c.CollectorURL, c.PushRetryCount, c.PushPeriod)
	default:
		sink = NewKafkaProduceSink(logger.Named("kafka_sink"), kafkaClient, c.KafkaOutputTopic)
	}

	pipe := pipeline.New(
		logger.Named("pipeline"),
		kafkaClient,
		c.KafkaInputTopic,
		NewLineDecoder(logger.Named("decoder")),
		NewLineSanitizer(
			logger.Named("sanitizer"),
			veil.NewProcessor(rotator, table, c.Words),
			salts,
		),
		func() pipeline.Window[*LogLine, [][]byte] { return NewLineWindow() },
		c.PushPeriod,
		sink,
	)
	return &App{
		kafka: kafkaClient,
		pipe:  pipe,
	}, nil
}

func (app *App) Stop() {
	app.pipe.Stop()
}

func (app *App) Wait() error {
	defer app.kafka.Close()
	return app.pipe.Wait()
}
