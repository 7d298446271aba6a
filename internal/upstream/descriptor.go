package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// attemptState tracks where a descriptor is in its renewal lifecycle. The
// transitions firstAttempt -> refreshing -> retriedOnce are one-way, which is
// what enforces the at-most-one-renewal invariant structurally.
type attemptState int

const (
	stateFirstAttempt attemptState = iota
	stateRefreshing
	stateRetriedOnce
)

func (s attemptState) String() string {
	switch s {
	case stateFirstAttempt:
		return "first-attempt"
	case stateRefreshing:
		return "refreshing"
	case stateRetriedOnce:
		return "retried-once"
	default:
		return "unknown"
	}
}

// Descriptor is the captured record of one outgoing call. The request fields
// are immutable after construction; only the attempt state advances. Each
// call owns its own descriptor, so one call's retry never affects another's.
type Descriptor struct {
	// ID correlates log lines for the call and its eventual replay.
	ID     string
	Method string
	// Path is relative to the configured base URL.
	Path  string
	Query url.Values
	// Body is the captured payload, replayable as-is on retry.
	Body []byte
	// ContentType is the payload media type. For multipart payloads it must
	// come from the encoder so the boundary parameter is correct.
	ContentType string
	// Multipart marks payloads whose content type must never be overridden
	// by a preset default.
	Multipart bool

	state attemptState
}

// NewDescriptor captures a bodyless call.
func NewDescriptor(method, path string) *Descriptor {
	return &Descriptor{ID: uuid.NewString(), Method: method, Path: path}
}

// NewJSONDescriptor captures a call with a JSON payload.
func NewJSONDescriptor(method, path string, payload any) (*Descriptor, error) {
	d := NewDescriptor(method, path)
	if payload != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode %s %s payload: %w", method, path, err)
		}
		d.Body = buf.Bytes()
		d.ContentType = "application/json"
	}
	return d, nil
}

// NewMultipartDescriptor captures a call with an already encoded multipart
// payload. contentType must be the encoder's FormDataContentType so the
// boundary survives; any preset default is discarded at send time.
func NewMultipartDescriptor(method, path string, body []byte, contentType string) *Descriptor {
	d := NewDescriptor(method, path)
	d.Body = body
	d.ContentType = contentType
	d.Multipart = true
	return d
}

// WithQuery attaches query parameters and returns the descriptor for
// chaining during construction.
func (d *Descriptor) WithQuery(q url.Values) *Descriptor {
	d.Query = q
	return d
}

// contentType returns the header value to send. Preset non-multipart values
// are dropped for multipart payloads so the encoder's boundary wins.
func (d *Descriptor) contentType() string {
	if d.Multipart && !strings.HasPrefix(d.ContentType, "multipart/") {
		return ""
	}
	return d.ContentType
}

// beginRefresh transitions the descriptor into the refreshing state. It
// fails once the descriptor has already been through a renewal cycle, which
// is what prevents infinite refresh loops.
func (d *Descriptor) beginRefresh() error {
	if d.state != stateFirstAttempt {
		return fmt.Errorf("renewal already attempted for this call (state %s)", d.state)
	}
	d.state = stateRefreshing
	return nil
}

// markRetried records that the renewal succeeded and the call is being
// replayed.
func (d *Descriptor) markRetried() {
	d.state = stateRetriedOnce
}

// retried reports whether this descriptor has exhausted its single renewal
// budget.
func (d *Descriptor) retried() bool {
	return d.state != stateFirstAttempt
}
