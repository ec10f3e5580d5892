// Package domain defines the core domain models for vfsnap.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes use the form VS-<FAMILY>-<NNNN>, where the numeric suffix follows
// HTTP status conventions (4040 = not found, 5001 = internal persistence).
type DomainError struct {
	Code    string // Error code (e.g., "VS-SNAP-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Snapshot Errors (SNAP)
// ============================================================================

var (
	// ErrSnapshotNotFound indicates the named snapshot does not exist.
	ErrSnapshotNotFound = NewDomainError("VS-SNAP-4040", "snapshot not found")

	// ErrSnapshotNameInvalid indicates the snapshot name is empty or unusable.
	ErrSnapshotNameInvalid = NewDomainError("VS-SNAP-4000", "invalid snapshot name")

	// ErrSnapshotDecode indicates a snapshot file entry could not be decoded.
	ErrSnapshotDecode = NewDomainError("VS-SNAP-4220", "snapshot entry decode failed")

	// ErrSnapshotPersist indicates the snapshot document could not be written
	// to the reserved namespace. The snapshot remains usable in memory.
	ErrSnapshotPersist = NewDomainError("VS-SNAP-5001", "snapshot persistence failed")

	// ErrSnapshotExport indicates a snapshot could not be written to an
	// external file.
	ErrSnapshotExport = NewDomainError("VS-SNAP-5002", "snapshot export failed")

	// ErrSnapshotImport indicates an external snapshot file could not be
	// read or parsed.
	ErrSnapshotImport = NewDomainError("VS-SNAP-5003", "snapshot import failed")
)

// ============================================================================
// Filesystem Errors (FS)
// ============================================================================

var (
	// ErrPathNotFound indicates the path does not exist.
	ErrPathNotFound = NewDomainError("VS-FS-4040", "path not found")

	// ErrInvalidPath indicates the path is syntactically unusable.
	ErrInvalidPath = NewDomainError("VS-FS-4000", "invalid path")

	// ErrNotDirectory indicates a directory operation hit a file.
	ErrNotDirectory = NewDomainError("VS-FS-4001", "not a directory")

	// ErrNotFile indicates a file operation hit a directory.
	ErrNotFile = NewDomainError("VS-FS-4002", "not a file")

	// ErrDirNotEmpty indicates rmdir was called on a non-empty directory.
	ErrDirNotEmpty = NewDomainError("VS-FS-4090", "directory not empty")

	// ErrPathExists indicates the path already exists.
	ErrPathExists = NewDomainError("VS-FS-4091", "path already exists")

	// ErrNotSupported indicates the backend does not implement the operation.
	ErrNotSupported = NewDomainError("VS-FS-5010", "operation not supported by backend")

	// ErrStorageIO indicates a backend I/O failure.
	ErrStorageIO = NewDomainError("VS-FS-5001", "storage io failure")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal error.
	ErrInternal = NewDomainError("VS-SYS-5000", "internal error")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("VS-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("VS-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("VS-ARG-1002", "missing required argument")
)
