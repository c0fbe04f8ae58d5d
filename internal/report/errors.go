package report

import (
	"errors"
	"fmt"
)

// CodeExportFailure is the code carried by every ExportError.
const CodeExportFailure = "EXPORT_FAILURE"

// ErrExport matches any *ExportError via errors.Is.
var ErrExport = errors.New("report export failed")

// ExportError is returned when a report could not be rendered, assembled,
// saved or delivered. The Result it was built from is not affected.
type ExportError struct {
	Op  string // "render", "document", "save" or "share"
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", CodeExportFailure, e.Op, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

func (e *ExportError) Is(target error) bool { return target == ErrExport }

func exportErr(op string, err error) error {
	return &ExportError{Op: op, Err: err}
}
