package app_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/ipveil/ipveil/internal/app"
	"github.com/ipveil/ipveil/internal/pipeline"
)

type LineDecoderSuite struct {
	suite.Suite
	decoder *app.LineDecoder
}

func (s *LineDecoderSuite) SetupTest() {
	s.decoder = app.NewLineDecoder(zap.NewNop())
}

func (s *LineDecoderSuite) TestValidLine() {
	line, err := s.decoder.DecodeRecord(&kgo.Record{
		Partition: 3,
		Offset:    42,
		Value:     []byte("GET / from 1.2.3.4"),
	})
	s.Require().NoError(err)
	s.Equal(&app.LogLine{
		KafkaPartition: 3,
		KafkaOffset:    42,
		Text:           "GET / from 1.2.3.4",
	}, line)
}

func (s *LineDecoderSuite) TestInvalidUTF8Skipped() {
	_, err := s.decoder.DecodeRecord(&kgo.Record{
		Value: []byte{0xff, 0xfe, 0xfd},
	})
	s.Require().Error(err)
	s.True(errors.Is(err, pipeline.ErrSkipLine))
}

func TestLineDecoderSuite(t *testing.T) {
	suite.Run(t, new(LineDecoderSuite))
}
