// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Policy controls retry behavior for transient HTTP failures.
type Policy struct {
	// MaxRetries is the number of retry attempts after the first request.
	// Zero means the default of 4.
	MaxRetries int

	// BaseDelay is the first backoff duration; it doubles per attempt.
	// Zero means the default of 5 s. Tests set a tiny value to avoid
	// real sleeps.
	BaseDelay time.Duration
}

const (
	defaultMaxRetries = 4
	defaultBaseDelay  = 5 * time.Second
)

// retryable reports whether a status is worth another attempt. The document
// archive answers 429 when probed too fast and occasionally 503 during
// maintenance windows; everything else is final.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Do executes the request and retries transient failures with exponential
// backoff. On each retry the response body is drained and closed before
// sleeping. If the context is cancelled during a backoff wait, ctx.Err() is
// returned. After exhausting retries the last response is returned as-is so
// the caller can inspect it.
func Do(ctx context.Context, client *http.Client, req *http.Request, policy Policy) (*http.Response, error) {
	maxRetries := policy.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	delay := policy.BaseDelay
	if delay <= 0 {
		delay = defaultBaseDelay
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
