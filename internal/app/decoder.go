package app

import (
	"unicode/utf8"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/ipveil/ipveil/internal/logging"
	"github.com/ipveil/ipveil/internal/pipeline"
)

// LogLine is one access-log line as consumed from Kafka, together with where
// it came from.
type LogLine struct {
	KafkaPartition int32
	KafkaOffset    int64

	Text string
}

// LineDecoder reads record values as UTF-8 text lines. Records that are not
// valid UTF-8 are logged and skipped; the pseudonymization core matches on
// decoded text and must not be handed mojibake.
type LineDecoder struct {
	logger *zap.Logger
}

func NewLineDecoder(logger *zap.Logger) *LineDecoder {
	return &LineDecoder{logger: logger}
}

func (d *LineDecoder) DecodeRecord(r *kgo.Record) (*LogLine, error) {
	if !utf8.Valid(r.Value) {
		d.logger.Warn(
			"Record value is not valid UTF-8.",
			zap.Object("record", (*logging.KafkaRecord)(r)),
		)
		return nil, pipeline.ErrSkipLine
	}
	return &LogLine{
		KafkaPartition: r.Partition,
		KafkaOffset:    r.Offset,
		Text:           string(r.Value),
	}, nil
}
