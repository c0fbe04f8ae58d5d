package analysis

import (
	"errors"
	"fmt"
)

// ErrTransport classifies every analysis failure that reaches the caller:
// a non-2xx or network error from the provider, or a reply with no JSON.
var ErrTransport = errors.New("analysis transport failure")

// Error codes carried by UpstreamError.
const (
	CodeUpstreamFailed = "UPSTREAM_ANALYSIS_FAILED"
	CodeNoJSON         = "NO_JSON_IN_RESPONSE"
)

// UpstreamError describes a failed analysis call.
type UpstreamError struct {
	Code   string
	Status int    // HTTP status, 0 when none was received
	Body   string // provider error text or the offending reply
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("analysis %s (status %d): %s", e.Code, e.Status, e.Body)
	}
	return fmt.Sprintf("analysis %s: %s", e.Code, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is reports membership in the ErrTransport class.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrTransport
}
