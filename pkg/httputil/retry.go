package httputil

import (
	"context"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
)

// Retry defaults.
const (
	DefaultAttempts  = 3
	DefaultBaseDelay = time.Second
)

// maxShift bounds the backoff exponent so the delay cannot overflow.
const maxShift = 30

// Retrier runs an operation with bounded attempts and exponential backoff.
// The zero value uses [DefaultAttempts], [DefaultBaseDelay] and a [TimerSleeper].
type Retrier struct {
	Attempts  int
	BaseDelay time.Duration
	Sleeper   Sleeper

	// OnFailure, if set, is called after every failed attempt with the
	// 0-based attempt index, its error and the delay about to be slept.
	// The delay is zero after the final attempt.
	OnFailure func(attempt int, err error, delay time.Duration)
}

// Do calls fn until it succeeds or the attempts run out.
//
// It returns the number of attempts made. If every attempt failed the error
// is an *errors.RetriesExhaustedError whose Last field is fn's final error.
// If ctx is cancelled during a backoff, Do stops and returns ctx.Err().
func (r Retrier) Do(ctx context.Context, fn func(attempt int) error) (int, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	base := r.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	sleeper := r.Sleeper
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}

	var last error
	for i := range attempts {
		if last = fn(i); last == nil {
			return i + 1, nil
		}

		var delay time.Duration
		if i < attempts-1 {
			delay = Backoff(base, i)
		}
		if r.OnFailure != nil {
			r.OnFailure(i, last, delay)
		}
		if delay > 0 {
			if err := sleeper.Sleep(ctx, delay); err != nil {
				return i + 1, err
			}
		}
	}
	return attempts, &errors.RetriesExhaustedError{Attempts: attempts, Last: last}
}

// Backoff returns the delay after the failed attempt with 0-based index
// attempt: base * 2^attempt.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return base << uint(min(attempt, maxShift))
}

// Retry executes fn up to attempts times with exponential backoff starting
// at delay, sleeping on a real timer. See [Retrier.Do].
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	_, err := Retrier{Attempts: attempts, BaseDelay: delay}.Do(ctx, func(int) error { return fn() })
	return err
}
