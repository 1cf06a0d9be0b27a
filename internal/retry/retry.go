package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// ErrExhausted marks a call that kept failing through every attempt.
var ErrExhausted = errors.New("EXTERNAL_CALL_EXHAUSTED")

// ExhaustedError wraps the last failure after all attempts are spent.
type ExhaustedError struct {
	Label    string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s failed after %d attempts: %v", ErrExhausted, e.Label, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Permanent marks err as not worth retrying; the invoker returns it
// immediately without the exhausted wrapper.
func Permanent(err error) error { return backoff.Permanent(err) }

// Invoker runs outbound calls with bounded retry and deterministic
// exponential backoff: 2s, 4s, 8s between attempts, no jitter. The
// backoff sleep blocks only the calling worker, which is how overall
// service load is throttled.
type Invoker struct {
	MaxAttempts int
	Timer       backoff.Timer // nil uses real timers
	Log         *logrus.Entry
}

// New returns an Invoker with the given attempt ceiling.
func New(maxAttempts int, log *logrus.Entry) *Invoker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Invoker{MaxAttempts: maxAttempts, Log: log}
}

// Do executes op until it succeeds, is marked Permanent, the context
// ends, or MaxAttempts is reached. Every retry is logged with the
// attempt number and error.
func (inv *Invoker) Do(ctx context.Context, label string, op func() (string, error)) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = time.Hour
	bo.MaxElapsedTime = 0

	var out string
	attempts := 0
	wrapped := func() error {
		attempts++
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if inv.Log != nil {
			inv.Log.WithFields(logrus.Fields{
				"call":     label,
				"attempt":  attempts,
				"retry_in": wait.String(),
			}).WithField("error", err.Error()).Warn("external call failed, retrying")
		}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(inv.MaxAttempts-1)), ctx)
	err := backoff.RetryNotifyWithTimer(wrapped, b, notify, inv.Timer)
	if err == nil {
		return out, nil
	}
	if attempts >= inv.MaxAttempts {
		if inv.Log != nil {
			inv.Log.WithField("call", label).WithField("error", err.Error()).Error("external call exhausted")
		}
		return "", &ExhaustedError{Label: label, Attempts: attempts, Last: err}
	}
	// Permanent failure or cancelled context: pass through untouched.
	return "", err
}
