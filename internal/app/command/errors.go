package command

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/domain/chat"
)

// replyError carries the message shown to the user for a failed command.
type replyError struct {
	cause error
	reply chat.Message
}

func (e *replyError) Error() string { return e.cause.Error() }
func (e *replyError) Unwrap() error { return e.cause }

// failWith attaches a user-facing reply to err. err should carry an apperr kind.
func failWith(err error, reply chat.Message) error {
	return &replyError{cause: err, reply: reply}
}

// notice builds a plain text reply.
func notice(text string, ephemeral bool) chat.Message {
	return chat.Message{Content: text, Ephemeral: ephemeral}
}

// replyFor turns an error into the message sent back to the user.
func replyFor(err error) (chat.Message, bool) {
	var re *replyError
	if errors.As(err, &re) {
		return re.reply, true
	}

	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		return notice("❌ Not found.", true), true
	case apperr.ErrPermissionDenied:
		return notice(msgNeedVoice, false), true
	case apperr.ErrInvalidArgument:
		return notice("❌ Invalid argument.", true), true
	case apperr.ErrEmpty:
		return notice("Nothing to show.", true), true
	default:
		return notice(msgInternalError, true), false
	}
}
