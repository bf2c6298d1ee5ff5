package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"media-provider-go/pkg/config"
)

type retryKey struct{}

// retryBackoff is the wait before the second attempt. It grows linearly.
var retryBackoff = 200 * time.Millisecond

// WithRetry returns a context that makes Client.Do retry with params.
func WithRetry(ctx context.Context, params config.NetworkRetryParameters) context.Context {
	return context.WithValue(ctx, retryKey{}, params)
}

func retryFromContext(ctx context.Context) (config.NetworkRetryParameters, bool) {
	p, ok := ctx.Value(retryKey{}).(config.NetworkRetryParameters)
	return p, ok
}

// retryable reports whether a response status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func (c *Client) doWithRetry(client *http.Client, req *http.Request, params config.NetworkRetryParameters) (*http.Response, error) {
	attempts := max(params.MaxAttempts, 1)
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		attempts = 1
	}

	ctx := req.Context()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ctx.Err(), lastErr)
			case <-time.After(retryBackoff * time.Duration(attempt-1)):
			}
		}

		r, cancel, err := prepareAttempt(req, params.Timeout)
		if err != nil {
			return nil, err
		}

		c.limiter.Take()
		resp, err := client.Do(r)
		if err == nil && (!retryable(resp.StatusCode) || attempt == attempts) {
			resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = errors.New(resp.Status)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		cancel()

		if ctx.Err() != nil {
			return nil, errors.Join(ctx.Err(), lastErr)
		}
		c.log.Debug("retrying request", "url", req.URL.String(), "attempt", attempt, "max_attempts", attempts, "error", lastErr)
	}
	return nil, lastErr
}

// prepareAttempt clones req with a fresh body and an optional per-attempt
// deadline.
func prepareAttempt(req *http.Request, timeout time.Duration) (*http.Request, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(req.Context())
	if timeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(req.Context(), timeout)
	}

	r := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			cancel()
			return nil, nil, err
		}
		r.Body = body
	}
	return r, cancel, nil
}

// cancelBody releases the attempt context once the caller is done reading.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
