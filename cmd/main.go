package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"leafscan/config"
	"leafscan/internal/api/console"
	"leafscan/internal/api/telegram"
	"leafscan/internal/container"
	"leafscan/internal/domain/port"
	"leafscan/internal/infrastructure/storage"
	"leafscan/internal/infrastructure/vision"
)

const hint = `💡 Make sure that:
   • OpenCV 4.x and gocv are installed (https://gocv.io/getting-started/)
   • the binary is built with the gocv tag: go build -tags gocv ./cmd
   • the model file and the dataset directory exist (MODEL_PATH, DATASET_PATH)`

func main() {
	os.Exit(run())
}

func run() (code int) {
	mode := flag.String("mode", "run", "run | check | stats | bot")
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "❌ Unexpected error: %v\n%s\n", r, hint)
			code = 1
		}
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, *mode, cfg, logger); err != nil {
		logger.Debug("finished with error", zap.String("mode", *mode), zap.Error(err))
		fmt.Fprintf(os.Stderr, "\n❌ %v\n%s\n", err, hint)
		return 1
	}
	return 0
}

func execute(ctx context.Context, mode string, cfg *config.Config, logger *zap.Logger) error {
	// stats не требует модели
	var detector port.Detector
	var modelErr error
	modelPath := vision.ResolveModelPath(cfg.BaseDir, cfg.ModelPath)
	if mode != "stats" {
		yolo, err := vision.LoadModel(modelPath, vision.Options{
			InputSize:    cfg.InputSize,
			NMSThreshold: cfg.NMSThreshold,
			Transposed:   cfg.Transposed,
		}, logger)
		if err != nil {
			logger.Warn("model is not available", zap.String("path", modelPath), zap.Error(err))
			modelErr = err
		} else {
			detector = yolo
			defer yolo.Close()
		}
	}

	// Собираем сервисы приложения
	appContainer := container.New(
		storage.NewCSVDatasetLoader(cfg.DatasetPath),
		storage.NewDirImageStore(cfg.DatasetPath),
		detector,
		vision.NewOverlayRenderer(),
		storage.NewMemoryPreferencesRepository(),
		cfg.OutputDir,
		logger,
	)

	opts := console.Options{
		Threshold:  cfg.Confidence,
		SampleSize: cfg.SampleSize,
		ModelPath:  modelPath,
		ModelError: modelErr,
	}

	switch mode {
	case "run":
		return console.New(appContainer, opts, os.Stdin, os.Stdout, logger).Start(ctx)
	case "check":
		return console.New(appContainer, opts, os.Stdin, os.Stdout, logger).QuickCheck(ctx)
	case "stats":
		return console.New(appContainer, opts, os.Stdin, os.Stdout, logger).Stats(ctx)
	case "bot":
		if cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, logger)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		logger.Info("bot is running")
		return bot.Run(ctx)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel), zap.AddCaller())
}
