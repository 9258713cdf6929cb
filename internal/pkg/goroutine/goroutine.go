// Package goroutine runs background work with a bounded concurrency limit.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/notekeep/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets a
// non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanic wraps a value recovered from a task.
var ErrPanic = errors.New("goroutine: task panicked")

// Manager runs tasks on at most cap(slots) goroutines. Once Wait is called
// no new tasks are accepted.
type Manager struct {
	slots chan struct{}
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
	errs   []error
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{slots: make(chan struct{}, maxGoroutine)}
}

// Go runs f in its own goroutine and reports whether it was scheduled. It
// never blocks: a full pool or a closed manager drops the task.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, task dropped")
		return false
	}

	select {
	case g.slots <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "limit", cap(g.slots))
		return false
	}

	g.wg.Go(func() {
		defer func() { <-g.slots }()

		if ctx.Err() != nil {
			slog.WarnContext(ctx, "goroutine canceled before start", "because", ctx.Err())
			return
		}
		if err := runGuarded(ctx, f); err != nil {
			g.record(err)
		}
	})
	return true
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait stops accepting tasks, blocks until running ones return, and joins
// their errors. A recovered panic is reported as ErrPanic.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

// Every runs f on each tick of interval until ctx is done. Failures and
// panics of a single run are logged and the loop continues. A non-positive
// interval schedules nothing.
func (g *Manager) Every(ctx context.Context, name string, interval time.Duration, f func(ctx context.Context) error) {
	if interval <= 0 {
		slog.InfoContext(ctx, "periodic job disabled", "job", name)
		return
	}

	g.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				start := time.Now()
				switch err := runGuarded(ctx, f); {
				case err == nil:
					slog.DebugContext(ctx, "periodic job done", "job", name, "took", time.Since(start))
				case errors.Is(err, ErrPanic):
					// already logged with its stack
				default:
					slog.ErrorContext(ctx, "periodic job failed", "job", name, "error", err)
				}
			}
		}
	})
}

func runGuarded(ctx context.Context, f func(ctx context.Context) error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		var trace any = string(stack)
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			trace = paths
		}
		slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", trace)
		err = fmt.Errorf("%w: %v", ErrPanic, rvr)
	}()

	return f(ctx)
}
