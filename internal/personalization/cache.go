package personalization

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheKey identifies at most one prescription per user, workout, and
// calendar day.
type cacheKey struct {
	UserID    string
	WorkoutID string
	Day       string // formatted as 2006-01-02
}

func newCacheKey(userID, workoutID string, date time.Time) cacheKey {
	return cacheKey{
		UserID:    userID,
		WorkoutID: workoutID,
		Day:       date.Format(time.DateOnly),
	}
}

func (k cacheKey) String() string {
	return k.UserID + "|" + k.WorkoutID + "|" + k.Day
}

// resultCache guarantees at most one computation per key. Concurrent requests
// for the same key collapse into a single computation through singleflight,
// and all callers receive the same result once ready.
type resultCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]PersonalizedWorkout
	day     string
	group   singleflight.Group
}

func newResultCache() *resultCache {
	return &resultCache{
		entries: make(map[cacheKey]PersonalizedWorkout),
	}
}

// getOrCompute returns the cached prescription for key, computing and caching
// it when absent.
//
// The computation runs detached from the caller's cancellation: a caller that
// disconnects mid-computation still populates the cache for concurrent and
// future callers. Only response delivery is dropped, which the disconnected
// caller's transport handles.
func (c *resultCache) getOrCompute(
	ctx context.Context,
	key cacheKey,
	compute func(context.Context) (PersonalizedWorkout, error),
) (PersonalizedWorkout, error) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	detachedCtx := context.WithoutCancel(ctx)
	result, err, _ := c.group.Do(key.String(), func() (any, error) {
		// Re-check under the flight: a previous flight may have stored
		// the entry between our read and this call.
		c.mu.RLock()
		entry, exists := c.entries[key]
		c.mu.RUnlock()
		if exists {
			return entry, nil
		}

		workout, computeErr := compute(detachedCtx)
		if computeErr != nil {
			return PersonalizedWorkout{}, computeErr
		}
		c.store(key, workout)
		return workout, nil
	})
	if err != nil {
		return PersonalizedWorkout{}, err //nolint:wrapcheck // compute errors pass through unchanged
	}

	workout, ok := result.(PersonalizedWorkout)
	if !ok {
		// Treat an unreadable entry as a miss and recompute from scratch.
		c.invalidateKey(key)
		return c.getOrCompute(ctx, key, compute)
	}
	return workout, nil
}

// store caches the result and drops entries from previous days. Entries do
// not outlive their calendar day.
func (c *resultCache) store(key cacheKey, workout PersonalizedWorkout) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.day != key.Day {
		for existing := range c.entries {
			if existing.Day != key.Day {
				delete(c.entries, existing)
			}
		}
		c.day = key.Day
	}
	c.entries[key] = workout
}

// invalidate removes all cached prescriptions for the user/workout pair,
// forcing a recompute on the next request. Triggered by feedback submission.
func (c *resultCache) invalidate(userID, workoutID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.UserID == userID && key.WorkoutID == workoutID {
			delete(c.entries, key)
		}
	}
}

func (c *resultCache) invalidateKey(key cacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
