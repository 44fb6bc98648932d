package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrIO reports an external collaborator process or query failure.
	ErrIO = errors.New("collaborator i/o failure")

	// ErrParse reports malformed collaborator output.
	ErrParse = errors.New("malformed collaborator output")

	// ErrReconcileInProgress is returned when a bulk reconciliation is already running.
	// The request is dropped, not queued.
	ErrReconcileInProgress = errors.New("bulk reconciliation already in progress")

	// ErrUnsupported is returned by collaborators that cannot run on this platform.
	ErrUnsupported = errors.New("operation not supported on this platform")
)

// InstallError is returned when the install pipeline exits unsuccessfully.
type InstallError struct {
	// ExitCode is the installer's exit code, or -1 if it did not exit normally.
	ExitCode int
	// Err is the underlying failure, if any.
	Err error
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("installation failed with code %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("installation failed with code %d", e.ExitCode)
}

// Unwrap lets errors.Is match ErrIO and the underlying cause.
func (e *InstallError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrIO, e.Err}
	}
	return []error{ErrIO}
}
