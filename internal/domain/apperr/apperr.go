// Package apperr defines the error kinds that command handlers turn into replies.
package apperr

import "github.com/cockroachdb/errors"

// Error kinds. Concrete errors are marked with one of these so callers can
// classify them with errors.Is without knowing the originating package.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrEmpty            = errors.New("empty")
)

// NotFound returns a formatted error marked as ErrNotFound.
func NotFound(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// PermissionDenied returns a formatted error marked as ErrPermissionDenied.
func PermissionDenied(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrPermissionDenied)
}

// InvalidArgument returns a formatted error marked as ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidArgument)
}

// Empty returns a formatted error marked as ErrEmpty.
func Empty(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrEmpty)
}

// Kind returns the error kind of err, or nil if err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrPermissionDenied, ErrInvalidArgument, ErrEmpty} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
