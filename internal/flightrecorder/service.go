// Package flightrecorder captures runtime traces around request timeouts so
// that slow personalization requests can be analyzed after the fact.
package flightrecorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"
)

const (
	defaultMinAge   = 5 * time.Minute
	defaultMaxBytes = 64 * 1024 * 1024

	// captureCooldown throttles dumps so a burst of timeouts cannot fill
	// the traces directory.
	captureCooldown = 30 * time.Minute

	tracesDirPerm = 0o700
)

// Service owns the process-wide flight recorder and writes trace dumps into
// a configured directory.
type Service struct {
	logger      *slog.Logger
	recorder    *trace.FlightRecorder
	tracesDir   string
	lastCapture atomic.Int64 // Unix timestamp of the last dump
}

// Config configures the flight recorder service. MinAge and MaxBytes fall
// back to defaults when zero.
type Config struct {
	Logger          *slog.Logger
	MinAge          time.Duration
	MaxBytes        uint64
	TracesDirectory string
}

// New creates the service and its traces directory.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.TracesDirectory == "" {
		return nil, errors.New("traces directory is required")
	}

	if stat, err := os.Stat(cfg.TracesDirectory); err != nil {
		if err = os.MkdirAll(cfg.TracesDirectory, tracesDirPerm); err != nil {
			return nil, fmt.Errorf("create traces directory: %w", err)
		}
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("traces path is not a directory: %s", cfg.TracesDirectory)
	}

	minAge := cfg.MinAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}

	recorder := trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   minAge,
		MaxBytes: maxBytes,
	})

	return &Service{
		logger:      cfg.Logger,
		recorder:    recorder,
		tracesDir:   cfg.TracesDirectory,
		lastCapture: atomic.Int64{},
	}, nil
}

// Start begins recording into the in-memory ring buffer.
func (s *Service) Start(ctx context.Context) error {
	if err := s.recorder.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("traces_dir", s.tracesDir))
	return nil
}

// Stop ends recording.
func (s *Service) Stop(ctx context.Context) {
	s.recorder.Stop()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// CaptureTimeoutTrace dumps the trace buffer to a timestamped file. At most
// one dump happens per cooldown window; concurrent callers race on the
// timestamp and only the winner writes.
func (s *Service) CaptureTimeoutTrace(ctx context.Context) {
	now := time.Now().Unix()
	last := s.lastCapture.Load()

	if last > 0 && time.Duration(now-last)*time.Second < captureCooldown {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "trace capture skipped during cooldown",
			slog.Time("last_capture", time.Unix(last, 0)))
		return
	}
	if !s.lastCapture.CompareAndSwap(last, now) {
		return
	}

	timestamp := time.Unix(now, 0).UTC().Format("20060102-150405")
	path := filepath.Join(s.tracesDir, fmt.Sprintf("timeout-%s.trace", timestamp))

	file, err := os.Create(path)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "create trace file",
			slog.String("file", path), slog.Any("error", err))
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "close trace file",
				slog.String("file", path), slog.Any("error", closeErr))
		}
	}()

	written, err := s.recorder.WriteTo(file)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "write trace",
			slog.String("file", path), slog.Any("error", err))
		return
	}

	s.logger.LogAttrs(ctx, slog.LevelWarn, "captured timeout trace",
		slog.String("file", path), slog.Int64("bytes", written))
}
