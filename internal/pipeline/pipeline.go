// Package pipeline runs the Kafka side of the service: a consumer loop
// feeding a windowing loop feeding a sink loop, all managed by a single tomb
// so that any unrecoverable error tears the whole thing down. Offsets are
// committed only after the window that contains them was pushed, giving
// at-least-once delivery into the sink.
package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"go.uber.org/zap"
	"gopkg.in/tomb.v2"
)

// ErrSkipLine marks a record or line that should be dropped without killing
// the stream. Decoders and sanitizers return it for per-line failures after
// logging them.
var ErrSkipLine = stderrors.New("skip line")

// Decoder turns a raw Kafka record into a line value.
type Decoder[Line any] interface {
	DecodeRecord(*kgo.Record) (Line, error)
}

// Sanitizer rewrites a single line. It may return ErrSkipLine to drop the
// line; any other error is unrecoverable and stops the pipeline.
type Sanitizer[Line any] interface {
	SanitizeLine(Line) (Line, error)
}

// Window accumulates sanitized lines until the push period fires.
type Window[Line, Batch any] interface {
	Append(Line) error
	Flush() Batch
}

type WindowConstructor[Line, Batch any] func() Window[Line, Batch]

// Sink delivers one flushed window downstream.
type Sink[Batch any] interface {
	Push(ctx context.Context, batch Batch, size int) error
}

type flushContext[Batch any] struct {
	Batch         Batch
	Size          int
	CommitOffsets map[int32]kgo.EpochOffset
}

type Pipeline[Line, Batch any] struct {
	logger     *zap.Logger
	kafka      *kgo.Client
	topic      string
	decoder    Decoder[Line]
	sanitizer  Sanitizer[Line]
	newWindow  WindowConstructor[Line, Batch]
	pushPeriod time.Duration
	sink       Sink[Batch]

	consumerOutputCh chan *kgo.Record
	sinkInputCh      chan flushContext[Batch]

	t tomb.Tomb
}

func New[Line, Batch any](
	logger *zap.Logger,
	kafkaClient *kgo.Client,
	topic string,
	decoder Decoder[Line],
	sanitizer Sanitizer[Line],
	newWindow WindowConstructor[Line, Batch],
	pushPeriod time.Duration,
	sink Sink[Batch],
) *Pipeline[Line, Batch] {
	p := &Pipeline[Line, Batch]{
		logger:           logger,
		kafka:            kafkaClient,
		topic:            topic,
		decoder:          decoder,
		sanitizer:        sanitizer,
		newWindow:        newWindow,
		pushPeriod:       pushPeriod,
		sink:             sink,
		consumerOutputCh: make(chan *kgo.Record, 1),
		sinkInputCh:      make(chan flushContext[Batch], 1),
	}
	p.t.Go(p.consumerLoop)
	p.t.Go(p.windowLoop)
	p.t.Go(p.sinkLoop)
	return p
}

func (p *Pipeline[Line, Batch]) Stop() {
	p.t.Kill(nil)
}

func (p *Pipeline[Line, Batch]) Wait() error {
	return p.t.Wait()
}

func (p *Pipeline[Line, Batch]) consumerLoop() error {
	logger := p.logger.Named("consumer")
	logger.Info("Consumer starting...", zap.String("kafka_topic", p.topic))
	defer logger.Info("Consumer terminated.")

	ctx := p.t.Context(nil)
	for {
		fetches := p.kafka.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return nil
		}

		fetchFailed := false
		fetches.EachError(func(_ string, _ int32, err error) {
			{
				// ErrDataLoss is just for information.
				var ex *kgo.ErrDataLoss
				if errors.As(err, &ex) {
					logger.Warn(
						"Data loss error encountered.",
						zap.String("topic", ex.Topic),
						zap.Int32("partition", ex.Partition),
						zap.Error(ex),
					)
				}
			}

			// Crash for any other error and let the supervisor restart us.
			logger.Error("Unrecoverable fetch error encountered.", zap.Error(err))
			fetchFailed = true
			p.t.Kill(err)
		})
		if fetchFailed {
			// The tomb is already killed with the right error.
			return nil
		}

		fetches.EachRecord(func(r *kgo.Record) {
			select {
			case p.consumerOutputCh <- r:
			case <-ctx.Done():
				return
			}
		})
	}
}

func (p *Pipeline[Line, Batch]) windowLoop() error {
	logger := p.logger.Named("window")
	logger.Info("Window starting...", zap.Duration("push_period", p.pushPeriod))
	defer logger.Info("Window terminated.")

	ctx := p.t.Context(nil)
	ticker := time.NewTicker(p.pushPeriod)
	defer ticker.Stop()

	var (
		window        Window[Line, Batch]
		windowSize    int
		commitOffsets map[int32]kgo.EpochOffset
	)
	resetWindow := func() {
		window = p.newWindow()
		windowSize = 0
		commitOffsets = make(map[int32]kgo.EpochOffset)
	}
	resetWindow()

	for {
		select {
		case m := <-p.consumerOutputCh:
			line, err := p.decoder.DecodeRecord(m)
			if err != nil {
				if stderrors.Is(err, ErrSkipLine) {
					continue
				}
				return err
			}

			// Per-line failures are logged by the sanitizer and skipped.
			// The offset still advances so the bad line is not replayed.
			line, err = p.sanitizer.SanitizeLine(line)
			if err != nil && !stderrors.Is(err, ErrSkipLine) {
				return err
			}
			if err == nil {
				if err := window.Append(line); err != nil {
					if stderrors.Is(err, ErrSkipLine) {
						continue
					}
					return err
				}
				windowSize++
			}

			commitOffsets[m.Partition] = kgo.EpochOffset{
				Epoch:  m.LeaderEpoch,
				Offset: m.Offset,
			}

		case <-ticker.C:
			if windowSize == 0 {
				logger.Info("Window empty, skipping push...")
				continue
			}

			select {
			case p.sinkInputCh <- flushContext[Batch]{
				Batch:         window.Flush(),
				Size:          windowSize,
				CommitOffsets: commitOffsets,
			}:
				resetWindow()

			case <-ctx.Done():
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

func (p *Pipeline[Line, Batch]) sinkLoop() error {
	logger := p.logger.Named("sink")
	logger.Info("Sink starting...")
	defer logger.Info("Sink terminated.")

	ctx := p.t.Context(nil)
	for {
		select {
		case flush := <-p.sinkInputCh:
			// Push with the push period as the timeout.
			pushCtx, cancelPush := context.WithTimeout(ctx, p.pushPeriod)
			err := p.sink.Push(pushCtx, flush.Batch, flush.Size)
			cancelPush()
			if err != nil {
				return err
			}

			logger.Info("Kafka offsets being committed...", zap.Reflect("offsets", flush.CommitOffsets))
			commitErrCh := make(chan error, 1)
			p.kafka.CommitOffsets(ctx, map[string]map[int32]kgo.EpochOffset{
				p.topic: flush.CommitOffsets,
			}, func(_ *kgo.Client, _ *kmsg.OffsetCommitRequest, resp *kmsg.OffsetCommitResponse, err error) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					commitErrCh <- ctxErr
				} else {
					// kgo returns nil error even when the response signals an
					// issue; kgo logs those internally. Worst case the window
					// is processed twice, which at-least-once tolerates.
					commitErrCh <- err
				}
			})

			if err := <-commitErrCh; err != nil {
				// Not fatal, the commit will succeed eventually or we do
				// duplicate processing.
				logger.Error(
					"Failed to commit Kafka offsets.",
					zap.Error(err),
				)
				continue
			}

		case <-ctx.Done():
			return nil
		}
	}
}
