// Package idempotency guards side effects against client resubmission using
// a Redis key per operation.
//
// A key moves none -> in_progress -> completed. A failed operation removes
// the key so the client may retry with the same key.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrAlreadyInProgress means another request holds the key.
	ErrAlreadyInProgress = errors.New("operation already in progress")
	// ErrAlreadyCompleted means the operation already succeeded for this key.
	ErrAlreadyCompleted = errors.New("operation already completed")
	// ErrInvalidState means the key holds an unknown value.
	ErrInvalidState = errors.New("invalid idempotency state")
	// ErrEmptyKey is returned for a blank key.
	ErrEmptyKey = errors.New("idempotency key is empty")
)

// State is the stored progress of an operation.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

const (
	defaultPrefix       = "idempotency:"
	defaultLockDuration = time.Minute
	defaultStateTTL     = 10 * time.Minute
)

// Idempotency runs fn at most once per key.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// Option tunes a single Exec call.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-progress key blocks retries if the
// holder dies.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// StateTracker is the Redis implementation.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New returns a StateTracker storing keys under prefix (default "idempotency:").
func New(client redis.UniversalClient, prefix string) *StateTracker {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &StateTracker{client: client, prefix: prefix}
}

// Acquire claims key for lockDuration. It returns StateNone when the caller
// owns the key, otherwise the state found.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	for range 2 {
		ok, err := s.client.SetNX(ctx, fk, string(StateInProgress), lockDuration).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return StateNone, nil
		}

		current, err := s.client.Get(ctx, fk).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return "", err
		}

		switch State(current) {
		case StateInProgress, StateCompleted:
			return State(current), nil
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidState, current)
		}
	}

	return "", ErrInvalidState
}

// Exec runs fn unless key is in progress or completed. On success the key is
// marked completed for the state TTL; on failure it is released.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	if key == "" {
		return ErrEmptyKey
	}

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

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		if delErr := s.client.Del(context.WithoutCancel(ctx), s.prefix+key).Err(); delErr != nil {
			return errors.Join(err, delErr)
		}
		return err
	}

	return s.client.Set(context.WithoutCancel(ctx), s.prefix+key, string(StateCompleted), o.stateTTL).Err()
}
