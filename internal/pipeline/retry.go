package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy is the uniform transient-fault policy applied to every pipeline
// step: fixed attempt budget, doubling backoff between attempts.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// callWithRetry runs fn under the policy. Non-transient errors return
// immediately; transient ones are retried until the attempt budget runs out.
// Every outcome is wrapped in a StepError for the given step.
func callWithRetry(ctx context.Context, log zerolog.Logger, policy RetryPolicy, step StepKind, fn func(context.Context) error) error {
	backoff := policy.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return &StepError{Step: step, Err: err}
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}
		log.Warn().
			Str("step", string(step)).
			Int("attempt", attempt).
			Int("maxAttempts", policy.MaxAttempts).
			Str("backoff", backoff.String()).
			Err(err).
			Msg("Step failed, will retry.")

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return &StepError{Step: step, Err: ctx.Err()}
		}
	}

	return &StepError{Step: step, Err: fmt.Errorf("failed after %d attempts: %w", policy.MaxAttempts, lastErr)}
}
