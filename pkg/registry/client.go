// Package registry implements the npm metadata provider: an HTTP client for
// a registry speaking the npm wire format, with retries, a persistent
// response cache, and an in-process LRU in front of it.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/depscope/depscope/pkg/resolve"
)

const (
	httpTimeout   = 10 * time.Second
	retryAttempts = 3
	retryDelay    = 500 * time.Millisecond
	userAgent     = "depscope (+https://github.com/depscope/depscope)"
)

// retryableError marks transient failures worth another attempt.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// getJSON performs a GET against url and decodes the JSON body into v,
// retrying transient failures with exponential backoff. Status codes map
// onto the resolver's error taxonomy: 404 is resolve.ErrNotFound,
// connection failures and 5xx are resolve.ErrUnavailable, and an
// undecodable body is resolve.ErrMalformed.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	fetch := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return &retryableError{fmt.Errorf("%w: %v", resolve.ErrUnavailable, err)}
		}
		defer resp.Body.Close()

		if err := checkStatus(resp.StatusCode); err != nil {
			return err
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &retryableError{fmt.Errorf("%w: %v", resolve.ErrUnavailable, err)}
		}
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("%w: %v", resolve.ErrMalformed, err)
		}
		return nil
	}
	return retry(ctx, retryAttempts, retryDelay, fetch)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return resolve.ErrNotFound
	case code >= 500:
		return &retryableError{fmt.Errorf("%w: status %d", resolve.ErrUnavailable, code)}
	default:
		return fmt.Errorf("%w: status %d", resolve.ErrUnavailable, code)
	}
}

// retry runs fn up to attempts times, doubling the delay after each failed
// try. Only errors wrapped in retryableError are retried; anything else is
// returned immediately. Cancellation wins over the remaining attempts.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *retryableError
		if !errors.As(err, &re) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
