// Package notification posts unsolicited messages (now playing, missing tracks) to the
// text channel each guild last used for playback.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/domain/chat"
)

const defaultSendTimeout = 5 * time.Second

// ErrSendTimeout is returned when a channel does not accept a message in time.
var ErrSendTimeout = errors.New("notification send timed out")

// subscription represents a guild's announce channel.
type subscription struct {
	id      string
	guildID string
	channel chat.ReplyChannel
}

// Manager manages announce channels and delivery.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription // keyed by guild ID
	sendTimeout   time.Duration
}

// NewManager creates a new notification manager. A non-positive timeout uses 5s.
func NewManager(sendTimeout time.Duration) *Manager {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   sendTimeout,
	}
}

// Subscribe sets the guild's announce channel, replacing any previous one.
func (m *Manager) Subscribe(guildID string, channel chat.ReplyChannel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &subscription{
		id:      uuid.New().String(),
		guildID: guildID,
		channel: channel,
	}
	m.subscriptions[guildID] = sub
	zlog.Debug().Msgf("notification: subscribed: guild=%s subscription=%s", guildID, sub.id)
}

// Unsubscribe removes the guild's announce channel.
func (m *Manager) Unsubscribe(guildID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, guildID)
}

// Send posts msg to the guild's announce channel. A guild without one is a no-op.
func (m *Manager) Send(ctx context.Context, guildID string, msg chat.Message) error {
	m.mu.RLock()
	sub, ok := m.subscriptions[guildID]
	m.mu.RUnlock()

	if !ok {
		zlog.Debug().Msgf("notification: no announce channel: guild=%s", guildID)
		return nil
	}
	return m.deliver(ctx, sub, msg)
}

// Broadcast posts msg to every announce channel in parallel.
func (m *Manager) Broadcast(ctx context.Context, msg chat.Message) {
	m.mu.RLock()
	// Copy subscriptions to avoid holding lock during sends
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			if err := m.deliver(ctx, s, msg); err != nil {
				zlog.Warn().Msgf("notification: broadcast failed: guild=%s subscription=%s error=%v", s.guildID, s.id, err)
			}
		}(sub)
	}
	wg.Wait()
}

// SubscriberCount returns the number of announce channels.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}

// deliver sends with a timeout so a stalled channel cannot block the playback loop.
func (m *Manager) deliver(ctx context.Context, sub *subscription, msg chat.Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sub.channel.Send(ctx, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrapf(err, "failed to send notification to guild %s", sub.guildID)
		}
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ErrSendTimeout, "guild %s", sub.guildID)
	}
}
