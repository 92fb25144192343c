// Package retry provides the retry policy shared by the embedding and
// generation calls.
package retry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

// Policy bounds how an operation is retried: a total attempt count, a fixed
// delay between attempts, and a predicate selecting which errors retry.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool // nil retries every error
}

// Do runs op until it succeeds, the attempts are exhausted, or ctx is
// cancelled. Errors rejected by Retryable fail immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

// RateLimited reports whether err is an HTTP 429 from the OpenAI API.
func RateLimited(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
