// Package idempotency guards side-effecting operations behind a client key.
//
// State lives in Redis: SETNX claims the key as in_progress, and the outcome
// is recorded as completed or failed for a TTL. Requests that reuse a key
// inside that window get a typed error instead of running again.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	ErrAlreadyCompleted  = errors.New("idempotency: operation already completed")
	ErrAlreadyFailed     = errors.New("idempotency: operation already failed")
	// ErrInvalidState means the key holds a value this package never writes.
	ErrInvalidState = errors.New("idempotency: invalid state")
)

// State is the recorded progress of a keyed operation.
type State string

const (
	StateNone       State = "none" // caller now owns the key
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateError      State = "error" // Redis could not answer
)

func (s State) String() string { return string(s) }

// reuseErr maps a recorded state to the error Exec returns for it.
var reuseErr = map[State]error{
	StateInProgress: ErrAlreadyInProgress,
	StateCompleted:  ErrAlreadyCompleted,
	StateFailed:     ErrAlreadyFailed,
}

// Idempotency runs fn at most once per key within the state TTL.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// DefaultPrefix namespaces keys when New receives an empty prefix.
const DefaultPrefix = "notekeep:idempotency:"

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, prefix string) *StateTracker {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &StateTracker{client: client, prefix: prefix}
}

type Option func(*execOptions)

type execOptions struct {
	lockDuration   time.Duration
	stateTTL       time.Duration
	releaseOnError bool
}

// WithLockDuration bounds how long an in-flight claim is held if the
// process dies before recording an outcome.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long the outcome is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// WithReleaseOnError deletes the key when fn fails instead of recording
// StateFailed, so the client may retry with the same key.
func WithReleaseOnError() Option {
	return func(o *execOptions) { o.releaseOnError = true }
}

// Acquire claims key for lockDuration. StateNone means the caller owns it;
// any other state is what an earlier caller left behind.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	// A second round covers the key expiring between SETNX and GET.
	for range 2 {
		ok, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
		if err != nil {
			return StateError, err
		}
		if ok {
			return StateNone, nil
		}

		current, err := s.client.Get(ctx, fk).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return StateError, err
		}

		state := State(current)
		if _, known := reuseErr[state]; !known {
			return StateError, fmt.Errorf("%w: %q", ErrInvalidState, current)
		}
		return state, nil
	}

	return StateError, ErrInvalidState
}

func (s *StateTracker) record(ctx context.Context, key string, state State, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, state.String(), ttl).Err()
}

// Exec runs fn once for key. A reused key returns ErrAlreadyInProgress,
// ErrAlreadyCompleted or ErrAlreadyFailed without calling fn. The outcome is
// written even if ctx was canceled while fn ran.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}
	if err := reuseErr[state]; err != nil {
		return err
	}

	runErr := fn(ctx)
	bg := context.WithoutCancel(ctx)

	switch {
	case runErr == nil:
		return s.record(bg, key, StateCompleted, o.stateTTL)
	case o.releaseOnError:
		return errors.Join(runErr, s.client.Del(bg, s.prefix+key).Err())
	default:
		return errors.Join(runErr, s.record(bg, key, StateFailed, o.stateTTL))
	}
}
