package junction

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidTarget means the requested target is missing or not a directory
	ErrInvalidTarget = fmt.Errorf("junction target is not an existing directory")

	// ErrAlreadyExists means the junction path is already a directory
	// and overwriting wasn't requested
	ErrAlreadyExists = fmt.Errorf("junction path already exists")

	// ErrNotAJunction means the path exists but carries no mount point
	// reparse data (plain file, plain directory, or some other reparse tag)
	ErrNotAJunction = fmt.Errorf("path is not a junction point")
)

// An OsError is any platform failure we don't classify further. Code
// keeps the raw win32 error code around for diagnostics — the reparse
// codes (4390-4394) in particular are worth telling apart.
type OsError struct {
	Message string
	Code    syscall.Errno
	Cause   error
}

func (e *OsError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (win32 error %d)", e.Message, uint64(e.Code))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

func (e *OsError) Unwrap() error {
	return e.Cause
}

// osError wraps a platform failure, lifting the error code out of the
// cause when there is one.
func osError(message string, cause error) error {
	oe := &OsError{
		Message: message,
		Cause:   cause,
	}
	if code, ok := cause.(syscall.Errno); ok {
		oe.Code = code
	}
	return errors.WithStack(oe)
}

// IsInvalidTarget returns true if err means the junction target
// is missing or not a directory.
func IsInvalidTarget(err error) bool {
	return errors.Cause(err) == ErrInvalidTarget
}

// IsAlreadyExists returns true if err means the junction path was
// already taken and overwrite wasn't requested.
func IsAlreadyExists(err error) bool {
	return errors.Cause(err) == ErrAlreadyExists
}

// IsNotAJunction returns true if err means the path exists but isn't
// a junction point.
func IsNotAJunction(err error) bool {
	return errors.Cause(err) == ErrNotAJunction
}

// AsOsError digs an *OsError out of err, if there is one.
func AsOsError(err error) (*OsError, bool) {
	oe, ok := errors.Cause(err).(*OsError)
	return oe, ok
}
