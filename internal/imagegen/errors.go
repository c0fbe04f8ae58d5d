package imagegen

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches a failed or rejected submit request.
	ErrTransport = errors.New("image submit failed")

	// ErrNoTaskID matches a submit reply with neither a task nor an image.
	ErrNoTaskID = errors.New("image submit returned no task id")

	// ErrTaskFailed matches a job the provider reported as FAILED.
	ErrTaskFailed = errors.New("image task failed")

	// ErrTaskTimeout matches a job still unfinished after the poll budget.
	ErrTaskTimeout = errors.New("image task timed out")
)

// Error codes carried by Error.
const (
	CodeSubmitFailed = "UPSTREAM_IMAGE_SUBMIT_FAILED"
	CodeNoTaskID     = "NO_TASK_ID"
	CodeTaskFailed   = "IMAGE_TASK_FAILED"
	CodeTaskTimeout  = "IMAGE_TASK_TIMEOUT"
)

var codeSentinels = map[string]error{
	CodeSubmitFailed: ErrTransport,
	CodeNoTaskID:     ErrNoTaskID,
	CodeTaskFailed:   ErrTaskFailed,
	CodeTaskTimeout:  ErrTaskTimeout,
}

// Error describes a failed image generation.
type Error struct {
	Code   string
	Status int    // HTTP status of the submit request, when relevant
	Body   string // response body or detail
	TaskID string
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	msg := "image " + e.Code
	if e.TaskID != "" {
		msg += " task " + e.TaskID
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's code.
func (e *Error) Is(target error) bool {
	s, ok := codeSentinels[e.Code]
	return ok && s == target
}
