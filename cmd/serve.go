package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ipveil/ipveil/internal/app"
	"github.com/ipveil/ipveil/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Consume a Kafka topic and push sanitized windows to a sink",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newServeLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	application, err := app.New(*c, logger)
	if err != nil {
		return errors.Wrap(err, "failed to init app")
	}

	// Stop the app on SIGINT/SIGTERM, force-exit if it hangs past the
	// shutdown timeout.
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		logger.Info("Shutting down.", zap.String("signal", sig.String()))
		application.Stop()

		time.Sleep(c.ShutdownTimeout)
		logger.Fatal("Graceful shutdown timed out.")
	}()

	logger.Info("App started.")
	if err := application.Wait(); err != nil {
		logger.Error("App died.", zap.Error(err))
		return err
	}
	logger.Info("App stopped.")
	return nil
}

// newServeLogger builds a JSON logger at the configured level, writing to
// stderr or, when LOG_FILE is set, to a size-rotated file.
func newServeLogger(c *config.Config) (*zap.Logger, error) {
	if c.LogFile == "" {
		lc := zap.NewProductionConfig()
		lc.Level = zap.NewAtomicLevelAt(c.LogLevel)
		lc.OutputPaths = []string{"stderr"}
		logger, err := lc.Build()
		return logger, errors.Wrap(err, "failed to init logger")
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}),
		c.LogLevel,
	)
	return zap.New(core), nil
}
