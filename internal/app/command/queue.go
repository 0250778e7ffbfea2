package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/noteblock/internal/app/queue"
	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/domain/chat"
)

func (d *Dispatcher) queueAdd(ctx context.Context, req Request) (chat.Message, error) {
	id := req.Option(optTrack)

	if err := d.queue.Enqueue(ctx, id, req.Listener.UserID); err != nil {
		if code, ok := queue.RejectionCode(err); ok {
			return chat.Message{}, failWith(err, notice(d.config.Messages.GetMessage(code), true))
		}
		if errors.Is(err, apperr.ErrNotFound) {
			return chat.Message{}, trackNotFound(id)
		}
		return chat.Message{}, err
	}

	return chat.Message{Embed: &chat.Embed{
		Title:       titleAdded,
		Description: fmt.Sprintf(descAdded, id),
		Color:       chat.ColorGreen,
	}}, nil
}

func (d *Dispatcher) queueRemove(ctx context.Context, req Request) (chat.Message, error) {
	id := req.Option(optTrack)

	if err := d.queue.Remove(id); err != nil {
		return chat.Message{}, failWith(err, notice(msgNotInQueue, true))
	}

	return chat.Message{Embed: &chat.Embed{
		Title:       titleRemoved,
		Description: fmt.Sprintf(descRemoved, id),
		Color:       chat.ColorOrange,
	}}, nil
}

// queueView lists the queue. While repeat or shuffle is on the queue is not consulted,
// so the listing is refused instead.
func (d *Dispatcher) queueView(ctx context.Context, req Request) (chat.Message, error) {
	modes := d.queue.Modes()
	switch {
	case modes.Repeat:
		return chat.Message{Content: msgRepeatBlocks}, nil
	case modes.Shuffle:
		return chat.Message{Content: msgShuffleBlocks}, nil
	}

	items := d.queue.View()
	if len(items) == 0 {
		return chat.Message{}, failWith(apperr.Empty("queue is empty"), notice(msgQueueEmpty, false))
	}

	lines := make([]string, len(items))
	for i, id := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, id)
	}
	return chat.Message{Embed: &chat.Embed{
		Title:       titleQueue,
		Description: strings.Join(lines, "\n"),
		Color:       chat.ColorBlue,
	}}, nil
}

func (d *Dispatcher) queueClear(ctx context.Context, req Request) (chat.Message, error) {
	d.queue.Clear()
	return chat.Message{Content: msgQueueCleared}, nil
}
