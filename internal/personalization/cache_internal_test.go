package personalization

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestResultCacheIdempotent(t *testing.T) {
	cache := newResultCache()
	key := newCacheKey("user-1", "workout-1", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

	var calls atomic.Int32
	compute := func(context.Context) (PersonalizedWorkout, error) {
		calls.Add(1)
		return PersonalizedWorkout{UserID: "user-1", TemplateID: "workout-1", Difficulty: 0.55}, nil
	}

	first, err := cache.getOrCompute(t.Context(), key, compute)
	if err != nil {
		t.Fatalf("first getOrCompute: %v", err)
	}
	second, err := cache.getOrCompute(t.Context(), key, compute)
	if err != nil {
		t.Fatalf("second getOrCompute: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("compute ran %d times, want 1", calls.Load())
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated calls differ (-first +second):\n%s", diff)
	}
}

func TestResultCacheCollapsesConcurrentRequests(t *testing.T) {
	cache := newResultCache()
	key := newCacheKey("user-1", "workout-1", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) (PersonalizedWorkout, error) {
		calls.Add(1)
		<-release
		return PersonalizedWorkout{UserID: "user-1", TemplateID: "workout-1"}, nil
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make([]PersonalizedWorkout, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workout, err := cache.getOrCompute(t.Context(), key, compute)
			if err != nil {
				t.Errorf("getOrCompute: %v", err)
				return
			}
			results[i] = workout
		}()
	}

	// Give the goroutines time to pile onto the same flight before the
	// computation finishes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("compute ran %d times, want 1", calls.Load())
	}
	for i := 1; i < workers; i++ {
		if diff := cmp.Diff(results[0], results[i]); diff != "" {
			t.Errorf("worker %d got a different result (-first +got):\n%s", i, diff)
		}
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	cache := newResultCache()
	key := newCacheKey("user-1", "workout-1", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

	var calls atomic.Int32
	compute := func(context.Context) (PersonalizedWorkout, error) {
		calls.Add(1)
		return PersonalizedWorkout{UserID: "user-1"}, nil
	}

	if _, err := cache.getOrCompute(t.Context(), key, compute); err != nil {
		t.Fatalf("getOrCompute: %v", err)
	}
	cache.invalidate("user-1", "workout-1")
	if _, err := cache.getOrCompute(t.Context(), key, compute); err != nil {
		t.Fatalf("getOrCompute after invalidate: %v", err)
	}

	if calls.Load() != 2 {
		t.Errorf("compute ran %d times, want 2 after invalidation", calls.Load())
	}
}

func TestResultCacheDropsPreviousDay(t *testing.T) {
	cache := newResultCache()
	monday := newCacheKey("user-1", "workout-1", time.Date(2026, 8, 24, 23, 0, 0, 0, time.UTC))
	tuesday := newCacheKey("user-1", "workout-1", time.Date(2026, 8, 25, 1, 0, 0, 0, time.UTC))

	cache.store(monday, PersonalizedWorkout{UserID: "user-1"})
	cache.store(tuesday, PersonalizedWorkout{UserID: "user-1"})

	cache.mu.RLock()
	defer cache.mu.RUnlock()
	if _, ok := cache.entries[monday]; ok {
		t.Error("previous day's entry survived the rollover")
	}
	if _, ok := cache.entries[tuesday]; !ok {
		t.Error("current day's entry missing")
	}
}

func TestResultCacheComputationSurvivesCancellation(t *testing.T) {
	cache := newResultCache()
	key := newCacheKey("user-1", "workout-1", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// The compute context must stay alive even though the caller's
	// context is already cancelled.
	workout, err := cache.getOrCompute(ctx, key, func(computeCtx context.Context) (PersonalizedWorkout, error) {
		if computeCtx.Err() != nil {
			t.Errorf("compute context cancelled: %v", computeCtx.Err())
		}
		return PersonalizedWorkout{UserID: "user-1"}, nil
	})
	if err != nil {
		t.Fatalf("getOrCompute: %v", err)
	}
	if workout.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", workout.UserID)
	}
}
