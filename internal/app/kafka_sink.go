package app

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// KafkaProduceSink republishes each sanitized line as one record on the
// output topic.
type KafkaProduceSink struct {
	logger *zap.Logger
	kafka  *kgo.Client
	topic  string
}

func NewKafkaProduceSink(logger *zap.Logger, kafkaClient *kgo.Client, topic string) *KafkaProduceSink {
	return &KafkaProduceSink{
		logger: logger,
		kafka:  kafkaClient,
		topic:  topic,
	}
}

func (sink *KafkaProduceSink) Push(ctx context.Context, lines [][]byte, windowSize int) error {
	records := make([]*kgo.Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, &kgo.Record{
			Topic: sink.topic,
			Value: line,
		})
	}

	if err := sink.kafka.ProduceSync(ctx, records...).FirstErr(); err != nil {
		sink.logger.Error(
			"Failed to produce window.",
			zap.String("output_topic", sink.topic),
			zap.Error(err),
		)
		return err
	}

	sink.logger.Info(
		"Window produced successfully.",
		zap.String("output_topic", sink.topic),
		zap.Int("window_size", windowSize),
	)
	return nil
}
