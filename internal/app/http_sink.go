package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// HTTPPostSink posts each flushed window as a newline-joined body to a
// collector endpoint.
type HTTPPostSink struct {
	logger       *zap.Logger
	url          string
	retryCount   int
	retryMaxWait time.Duration
}

func NewHTTPPostSink(
	logger *zap.Logger,
	url string,
	retryCount int,
	retryMaxWait time.Duration,
) *HTTPPostSink {
	return &HTTPPostSink{
		logger:       logger,
		url:          url,
		retryCount:   retryCount,
		retryMaxWait: retryMaxWait,
	}
}

func (sink *HTTPPostSink) Push(ctx context.Context, lines [][]byte, windowSize int) error {
	var body bytes.Buffer
	for _, line := range lines {
		body.Write(line)
		body.WriteByte('\n')
	}

	// Init HTTP client supporting retries.
	client := retryablehttp.NewClient()
	client.RetryMax = sink.retryCount
	client.RetryWaitMax = sink.retryMaxWait
	client.Logger = log.New(io.Discard, "", 0)
	client.ResponseLogHook = func(_ retryablehttp.Logger, resp *http.Response) {
		if resp.StatusCode != http.StatusOK {
			defer resp.Body.Close()
			respBody, _ := io.ReadAll(resp.Body)
			sink.logger.Warn(
				"Collector returned an unexpected status code.",
				zap.String("collector_url", sink.url),
				zap.Int("response_status_code", resp.StatusCode),
				zap.ByteString("response_body", respBody),
			)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodPost, sink.url, &body)
	if err != nil {
		sink.logger.Error("Failed to init HTTP request.", zap.Error(err))
		return err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	// Crash on error since this already includes retries.
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		sink.logger.Error(
			"Failed to post window.",
			zap.String("collector_url", sink.url),
			zap.Error(err),
		)
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http sink: unexpected status code: %d", resp.StatusCode)
	}

	sink.logger.Info(
		"Window pushed successfully.",
		zap.String("collector_url", sink.url),
		zap.Int("window_size", windowSize),
	)
	return nil
}
