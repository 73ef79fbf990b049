// Package files defines the uploaded-file value passed from HTTP handlers to
// domain services and the error codes the object store reports.
package files

import (
	"errors"
	"fmt"
	"io"
)

// Kind restricts what an upload may contain.
type Kind string

const (
	KindAny   Kind = ""
	KindImage Kind = "IMAGE"
)

// File is one uploaded file. Reader is consumed by the storage gateway.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Storage error codes.
const (
	CodeInvalidImage = "FILE_001"
	CodeTooLarge     = "FILE_002"
	CodeUpload       = "FILE_003"
)

// Error is returned by storage gateways; Code is one of the FILE_xxx codes.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the storage code carried by err, or "" if none.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
