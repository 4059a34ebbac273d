// Command stresstest hammers a running deployment with concurrent
// personalization and feedback traffic. Same-day requests for one user are
// expected to collapse into a single computation, so this doubles as a check
// that the result cache holds up under contention.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/myrberg/trainwise/internal/logging"
	"github.com/myrberg/trainwise/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout          = 10 * time.Second
	scenarioTimeout         = 2 * time.Minute
	maxConcurrentOperations = 20
	requestsPerUser         = 50
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

type stats struct {
	total     atomic.Int64
	succeeded atomic.Int64

	mu        sync.Mutex
	durations []time.Duration
}

func (s *stats) record(duration time.Duration, ok bool) {
	s.total.Add(1)
	if ok {
		s.succeeded.Add(1)
	}
	s.mu.Lock()
	s.durations = append(s.durations, duration)
	s.mu.Unlock()
}

func (s *stats) percentile(p float64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.durations) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(s.durations))
	copy(sorted, s.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func templateBody(userIndex int) ([]byte, error) {
	template := map[string]any{
		"id":               fmt.Sprintf("stress-template-%d", userIndex),
		"name":             "Stress Template",
		"difficulty":       0.5,
		"duration_minutes": 45,
		"intensity":        0.6,
		"base_volume":      map[string]any{"sets": 3, "reps": 10, "weight_kg": 40, "duration_minutes": 30},
		"exercise_ids":     []int{},
	}
	body, err := json.Marshal(template)
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	return body, nil
}

func personalizeOnce(ctx context.Context, client *http.Client, url, userID string, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		url+"/api/users/"+userID+"/personalize", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("personalize request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func submitFeedback(ctx context.Context, client *http.Client, url, userID, workoutID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body := []byte(`{"difficulty":3,"enjoyment":4,"completion":1}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		url+"/api/users/"+userID+"/workouts/"+workoutID+"/feedback", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("feedback request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// runScenario fires concurrent personalize requests for the stress user,
// interleaved with feedback submissions that invalidate the cache.
func runScenario(ctx context.Context, logger *slog.Logger, client *http.Client, url, userID string, results *stats) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	body, err := templateBody(0)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for i := range requestsPerUser {
		g.Go(func() error {
			start := time.Now()
			status, reqErr := personalizeOnce(gctx, client, url, userID, body)
			ok := reqErr == nil && (status == http.StatusOK || status == http.StatusNotFound)
			results.record(time.Since(start), ok)
			if reqErr != nil {
				logger.LogAttrs(gctx, slog.LevelWarn, "personalize failed", slog.Any("error", reqErr))
			}
			return nil
		})

		// Periodic feedback keeps cache invalidation in the mix.
		if i%10 == 9 {
			g.Go(func() error {
				start := time.Now()
				status, reqErr := submitFeedback(gctx, client, url, userID, "stress-template-0")
				ok := reqErr == nil && (status == http.StatusNoContent || status == http.StatusNotFound)
				results.record(time.Since(start), ok)
				return nil
			})
		}
	}

	if err = g.Wait(); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	hostname := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := &http.Client{Timeout: requestTimeout}
	results := &stats{}
	start := time.Now()

	if err := runScenario(ctx, logger, client, url, "stress-user", results); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress test failed", slog.Any("error", err))
		os.Exit(1)
	}

	total := results.total.Load()
	succeeded := results.succeeded.Load()
	successRate := float64(succeeded) / float64(total) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "stress test completed",
		slog.Int64("total_requests", total),
		slog.Int64("succeeded", succeeded),
		slog.String("success_rate", fmt.Sprintf("%.1f%%", successRate)),
		slog.Duration("p50", results.percentile(0.50)),
		slog.Duration("p95", results.percentile(0.95)),
		slog.Duration("duration", time.Since(start)))

	if successRate < successRateThreshold {
		logger.LogAttrs(ctx, slog.LevelError, "success rate below threshold",
			slog.String("threshold", fmt.Sprintf("%.1f%%", successRateThreshold)))
		os.Exit(1)
	}
}
