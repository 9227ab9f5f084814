package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goliatone/go-cancel-accounts/core"
	goerrors "github.com/goliatone/go-errors"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type Option func(*SlidingWindow)

func WithClock(now func() time.Time) Option {
	return func(w *SlidingWindow) {
		if now != nil {
			w.Now = now
		}
	}
}

func WithSleeper(sleep Sleeper) Option {
	return func(w *SlidingWindow) {
		if sleep != nil {
			w.Sleep = sleep
		}
	}
}

func WithLogger(logger core.Logger) Option {
	return func(w *SlidingWindow) {
		if logger != nil {
			w.Logger = logger
		}
	}
}

// SlidingWindow admits at most Quota calls in any Window. Admit blocks the
// caller until the oldest recorded call leaves the window.
type SlidingWindow struct {
	Quota  int
	Window time.Duration
	Now    func() time.Time
	Sleep  Sleeper
	Logger core.Logger

	mu    sync.Mutex
	calls []time.Time
}

func NewSlidingWindow(quota int, window time.Duration, opts ...Option) (*SlidingWindow, error) {
	if quota <= 0 || window <= 0 {
		return nil, goerrors.New("ratelimit: quota and window must be positive", goerrors.CategoryBadInput).
			WithCode(http.StatusBadRequest).
			WithTextCode(core.ErrorBadInput).
			WithMetadata(map[string]any{"quota": quota, "window_ms": window.Milliseconds()})
	}
	limiter := &SlidingWindow{
		Quota:  quota,
		Window: window,
		Now:    time.Now,
		Sleep:  waitWithContext,
		calls:  make([]time.Time, 0, quota),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(limiter)
		}
	}
	limiter.Logger = core.ResolveLogger("ratelimit", nil, limiter.Logger)
	return limiter, nil
}

// Admit records a call, waiting first when the window is full.
func (w *SlidingWindow) Admit(ctx context.Context) error {
	if w == nil {
		return core.NewInternalError("ratelimit: limiter is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.evict(now)
	if len(w.calls) >= w.Quota {
		wait := w.waitFor(now)
		core.LogEvent(ctx, w.Logger, core.LevelInfo, "rate limit reached, waiting", map[string]any{
			"quota":   w.Quota,
			"window":  w.Window.String(),
			"wait_ms": wait.Milliseconds(),
		})
		if err := w.sleep(ctx, wait); err != nil {
			return err
		}
		now = w.now()
		w.evict(now)
		for len(w.calls) >= w.Quota {
			w.calls = w.calls[1:]
		}
	}
	w.calls = append(w.calls, now)

	core.LogEvent(ctx, w.Logger, core.LevelDebug, "call admitted", map[string]any{
		"in_window": len(w.calls),
		"quota":     w.Quota,
	})
	return nil
}

// InWindow reports how many recorded calls are still inside the window.
func (w *SlidingWindow) InWindow() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.evict(w.now())
	return len(w.calls)
}

func (w *SlidingWindow) evict(now time.Time) {
	cutoff := now.Add(-w.Window)
	drop := 0
	for drop < len(w.calls) && !w.calls[drop].After(cutoff) {
		drop++
	}
	if drop > 0 {
		w.calls = append(w.calls[:0], w.calls[drop:]...)
	}
}

// waitFor is clamped to [0, Window] so a clock moving backward cannot produce
// a negative or unbounded wait.
func (w *SlidingWindow) waitFor(now time.Time) time.Duration {
	if len(w.calls) == 0 {
		return 0
	}
	wait := w.calls[0].Add(w.Window).Sub(now)
	if wait < 0 {
		return 0
	}
	if wait > w.Window {
		return w.Window
	}
	return wait
}

// now keeps the monotonic reading of time.Now so wall clock steps do not
// move the window.
func (w *SlidingWindow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *SlidingWindow) sleep(ctx context.Context, d time.Duration) error {
	if w.Sleep != nil {
		return w.Sleep(ctx, d)
	}
	return waitWithContext(ctx, d)
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ core.RateLimiter = (*SlidingWindow)(nil)
