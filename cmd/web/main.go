package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/myrberg/trainwise/internal/envstruct"
	"github.com/myrberg/trainwise/internal/errors"
	"github.com/myrberg/trainwise/internal/flightrecorder"
	"github.com/myrberg/trainwise/internal/logging"
	"github.com/myrberg/trainwise/internal/personalization"
	"github.com/myrberg/trainwise/internal/pprofserver"
	"github.com/myrberg/trainwise/internal/sqlite"
)

type application struct {
	logger                 *slog.Logger
	personalizationService *personalization.Service
	flightRecorder         *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"TRAINWISE_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"TRAINWISE_SQLITE_URL" envDefault:"./trainwise.sqlite3"`
	// OpenAIAPIKey enables the ML advisor. Leave empty to run heuristic-only.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// MLTimeout bounds a single inference call.
	MLTimeout time.Duration `env:"TRAINWISE_ML_TIMEOUT" envDefault:"2s"`
	// WindowSize is the number of recent sessions considered per request.
	WindowSize int `env:"TRAINWISE_WINDOW_SIZE" envDefault:"10"`
	// PProfAddr is the optional address to listen on for the pprof server.
	PProfAddr string `env:"TRAINWISE_PPROF_ADDR" envDefault:""`
	// TracesDir is the optional directory for timeout flight recordings.
	TracesDir string `env:"TRAINWISE_TRACES_DIR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PProfAddr != "" {
		pprofserver.Launch(ctx, cfg.PProfAddr, logger)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	var recorder *flightrecorder.Service
	if cfg.TracesDir != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			TracesDirectory: cfg.TracesDir,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	app := application{
		logger: logger,
		personalizationService: personalization.NewService(db, logger, personalization.Options{
			OpenAIAPIKey: cfg.OpenAIAPIKey,
			MLTimeout:    cfg.MLTimeout,
			WindowSize:   cfg.WindowSize,
		}),
		flightRecorder: recorder,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
