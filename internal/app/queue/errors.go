package queue

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/noteblock/internal/domain/apperr"
)

func markInvalid(err error) error {
	return errors.Mark(err, apperr.ErrInvalidArgument)
}

// RejectionCode returns the filter code carried by err, if any.
func RejectionCode(err error) (string, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Code, true
	}
	return "", false
}
