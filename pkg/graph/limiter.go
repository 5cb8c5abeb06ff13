package graph

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces provider calls with one token bucket per credential, so
// every API key stays under its own requests-per-minute quota. When the
// provider signals throttling, Backoff pushes that credential's next
// allowance out without slowing the other keys down.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	penalty  map[string]time.Time
	limit    rate.Limit
	burst    int
	cooldown time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLimiterParams configures a Limiter.
type NewLimiterParams struct {
	// RequestsPerMinute is the per-credential request ceiling.
	RequestsPerMinute float64
	// Burst allows short bursts above the steady rate; defaults to 1.
	Burst int
	// Cooldown is the pause applied to a credential after the provider
	// reports throttling; defaults to 30s.
	Cooldown time.Duration
}

// NewLimiter creates a Limiter.
func NewLimiter(params NewLimiterParams) *Limiter {
	rpm := params.RequestsPerMinute
	if rpm <= 0 {
		rpm = 12
	}
	burst := params.Burst
	if burst <= 0 {
		burst = 1
	}
	cooldown := params.Cooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return &Limiter{
		buckets:  make(map[string]*rate.Limiter),
		penalty:  make(map[string]time.Time),
		limit:    rate.Limit(rpm / 60.0),
		burst:    burst,
		cooldown: cooldown,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the credential may issue its next request: first any
// active throttling penalty, then the credential's token bucket.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	until, penalized := l.penalty[key]
	if penalized {
		delete(l.penalty, key)
	}
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	if penalized {
		if d := until.Sub(l.now()); d > 0 {
			if err := l.sleep(ctx, d); err != nil {
				return err
			}
		}
	}

	return bucket.Wait(ctx)
}

// Backoff records a throttling signal for the credential. The next Wait on
// the same key blocks for the configured cooldown.
func (l *Limiter) Backoff(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.penalty[key] = l.now().Add(l.cooldown)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
