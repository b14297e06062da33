package app

import (
	"go.uber.org/zap"

	"github.com/ipveil/ipveil/internal/pipeline"
	"github.com/ipveil/ipveil/internal/saltwindow"
	"github.com/ipveil/ipveil/internal/veil"
)

// LineSanitizer applies the pseudonymization core to each line under the
// salt of the current rotation window.
type LineSanitizer struct {
	logger *zap.Logger
	proc   *veil.Processor
	salts  saltwindow.Source
}

func NewLineSanitizer(logger *zap.Logger, proc *veil.Processor, salts saltwindow.Source) *LineSanitizer {
	return &LineSanitizer{logger: logger, proc: proc, salts: salts}
}

func (s *LineSanitizer) SanitizeLine(line *LogLine) (*LogLine, error) {
	salt, err := s.salts.Current()
	if err != nil {
		// No randomness means no safe pseudonyms. Fail closed.
		s.logger.Error("Failed to obtain window salt.", zap.Error(err))
		return nil, err
	}

	text, err := s.proc.Process(line.Text, salt)
	if err != nil {
		s.logger.Warn(
			"Line could not be sanitized, skipping.",
			zap.Int32("kafka_partition", line.KafkaPartition),
			zap.Int64("kafka_offset", line.KafkaOffset),
			zap.Error(err),
		)
		return nil, pipeline.ErrSkipLine
	}
	line.Text = text
	return line, nil
}
