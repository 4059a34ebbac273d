// Command smoketest verifies that a running deployment answers its health
// check and serves a personalization round trip.
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
	"strings"
	"time"

	"github.com/myrberg/trainwise/internal/logging"
	"github.com/myrberg/trainwise/internal/testhelpers"
)

const (
	readyTimeout   = 30 * time.Second
	requestTimeout = 10 * time.Second
	readyPollDelay = 500 * time.Millisecond
)

func waitForReady(ctx context.Context, client *http.Client, url string) error {
	deadline := time.Now().Add(readyTimeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/api/healthy", nil)
		if err != nil {
			return fmt.Errorf("build health request: %w", err)
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server not ready after %s: %w", readyTimeout, err)
		}
		time.Sleep(readyPollDelay)
	}
}

func testExerciseInfo(ctx context.Context, client *http.Client, url string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/api/exercises/1/info", nil)
	if err != nil {
		return fmt.Errorf("build exercise info request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch exercise info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("exercise info status %d: %s", resp.StatusCode, body)
	}

	var info struct {
		Name            string `json:"name"`
		DescriptionHTML string `json:"description_html"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("decode exercise info: %w", err)
	}
	if info.Name == "" || info.DescriptionHTML == "" {
		return fmt.Errorf("incomplete exercise info: %+v", info)
	}
	return nil
}

// testPersonalize requires a seeded user; a 404 means the deployment has no
// smoke user and the check degrades to verifying input validation.
func testPersonalize(ctx context.Context, client *http.Client, url, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	template := map[string]any{
		"id":               "smoke-full-body",
		"name":             "Smoke Full Body",
		"difficulty":       0.5,
		"duration_minutes": 45,
		"intensity":        0.6,
		"base_volume":      map[string]any{"sets": 3, "reps": 10, "weight_kg": 40, "duration_minutes": 30},
		"exercise_ids":     []int{},
	}
	body, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		url+"/api/users/"+userID+"/personalize", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build personalize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("personalize request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound:
		return nil
	default:
		responseBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("personalize status %d: %s", resp.StatusCode, responseBody)
	}
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := &http.Client{Timeout: requestTimeout}

	if err := waitForReady(ctx, client, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", slog.Any("error", err))
		os.Exit(1)
	}
	if err := testExerciseInfo(ctx, client, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "exercise info check failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := testPersonalize(ctx, client, url, "smoke-user"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "personalize check failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "smoke test passed", slog.Duration("duration", time.Since(start)))
}
