// Package api provides typed endpoint clients over the upstream pipeline.
// Each client is a thin wrapper: it captures the call as a descriptor, hands
// it to the pipeline, and unwraps the upstream response envelope. No business
// rules live here; the upstream server stays authoritative.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
	"github.com/auto88/auto88-ui/internal/upstream"
)

// Caller is the slice of the pipeline client the typed endpoints depend on.
// *upstream.Client satisfies it; tests substitute fakes.
type Caller interface {
	Do(ctx context.Context, d *upstream.Descriptor) (*http.Response, error)
	BaseURL() string
}

// Envelope is the upstream response wrapper: a business code alongside the
// HTTP status, a human message, and the payload.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// maxBodyBytes bounds how much of an upstream response we are willing to
// buffer.
const maxBodyBytes = 8 << 20

// call dispatches the descriptor and unwraps an enveloped payload. Business
// codes other than 200/201 become upstream errors carrying the envelope
// message.
func call[T any](ctx context.Context, c Caller, d *upstream.Descriptor) (T, error) {
	var zero T
	body, status, err := exchange(ctx, c, d)
	if err != nil {
		return zero, err
	}

	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, apperrors.Wrapf(err, apperrors.ErrCodeUpstream,
			"decode %s %s response", d.Method, d.Path)
	}
	if env.Code != http.StatusOK && env.Code != http.StatusCreated {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("%s %s failed with code %d", d.Method, d.Path, env.Code)
		}
		return zero, apperrors.Upstream(status, msg)
	}
	return env.Data, nil
}

// callVoid is call for endpoints whose payload we discard.
func callVoid(ctx context.Context, c Caller, d *upstream.Descriptor) error {
	_, err := call[json.RawMessage](ctx, c, d)
	return err
}

// callRaw dispatches the descriptor and decodes a bare, unenveloped body.
// A handful of read endpoints (meta, compare, home sections, search) respond
// without the wrapper.
func callRaw[T any](ctx context.Context, c Caller, d *upstream.Descriptor) (T, error) {
	var zero T
	body, _, err := exchange(ctx, c, d)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, apperrors.Wrapf(err, apperrors.ErrCodeUpstream,
			"decode %s %s response", d.Method, d.Path)
	}
	return out, nil
}

// exchange runs the pipeline and buffers the response body. Pass-through
// error statuses (anything >= 400 the reconciler did not translate) are
// surfaced as upstream errors with the best message the body offers.
func exchange(ctx context.Context, c Caller, d *upstream.Descriptor) ([]byte, int, error) {
	resp, err := c.Do(ctx, d)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, apperrors.Wrapf(err, apperrors.ErrCodeUpstream,
			"read %s %s response", d.Method, d.Path)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := envelopeMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("%s %s returned %d", d.Method, d.Path, resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, resp.StatusCode, apperrors.Unauthorized(msg)
		}
		return nil, resp.StatusCode, apperrors.Upstream(resp.StatusCode, msg)
	}
	return body, resp.StatusCode, nil
}

// envelopeMessage best-effort extracts the message field from an error body.
func envelopeMessage(body []byte) string {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
