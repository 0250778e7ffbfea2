// Package session keeps one playback controller per guild.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/playback"
)

var ErrNoSession = errors.New("no session for guild")

// VoiceFactory creates the voice session for a guild.
type VoiceFactory func(guildID string) (playback.VoiceSession, error)

// EventHandler receives every playback event of every session.
type EventHandler func(ctx context.Context, event playback.Event)

// Session is an active audio connection of one guild.
type Session struct {
	ID         string
	GuildID    string
	Controller *playback.Controller
	CreatedAt  time.Time

	done chan struct{}
}

// Dependencies are shared by every controller the manager creates.
type Dependencies struct {
	Catalog  playback.Catalog
	Queue    playback.QueueLen
	Chooser  playback.Chooser
	NewVoice VoiceFactory
	OnEvent  EventHandler
}

// Manager manages guild sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Dependencies

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a new session manager.
func NewManager(deps Dependencies) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetEventHandler replaces the event handler. Sessions created afterwards use it.
func (m *Manager) SetEventHandler(h EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deps.OnEvent = h
}

// GetOrCreate returns the guild's session, creating it on first use.
func (m *Manager) GetOrCreate(guildID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[guildID]; ok {
		return s, nil
	}

	voice, err := m.deps.NewVoice(guildID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create voice session for guild %s", guildID)
	}

	s := &Session{
		ID:         uuid.New().String(),
		GuildID:    guildID,
		Controller: playback.NewController(guildID, voice, m.deps.Catalog, m.deps.Queue, m.deps.Chooser),
		CreatedAt:  time.Now(),
		done:       make(chan struct{}),
	}
	m.sessions[guildID] = s

	go m.playbackLoop(s, m.deps.OnEvent)

	zlog.Info().Msgf("session created: guild=%s session_id=%s", guildID, s.ID)
	return s, nil
}

// Get returns the guild's session.
func (m *Manager) Get(guildID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[guildID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Remove closes and forgets the guild's session.
func (m *Manager) Remove(guildID string) {
	m.mu.Lock()
	s, ok := m.sessions[guildID]
	delete(m.sessions, guildID)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Controller.Close()
	<-s.done
	zlog.Info().Msgf("session removed: guild=%s session_id=%s", guildID, s.ID)
}

// Count returns the number of sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close closes every session.
func (m *Manager) Close() {
	m.mu.RLock()
	guildIDs := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		guildIDs = append(guildIDs, id)
	}
	m.mu.RUnlock()

	for _, id := range guildIDs {
		m.Remove(id)
	}
	m.cancel()
}

// playbackLoop forwards controller events until the controller closes its channel.
func (m *Manager) playbackLoop(s *Session, handler EventHandler) {
	defer close(s.done)

	for event := range s.Controller.Events() {
		zlog.Debug().Msgf("playback event: guild=%s session_id=%s type=%s", s.GuildID, s.ID, event.Type)
		if handler == nil {
			continue
		}
		m.handleEvent(handler, event)
	}
}

func (m *Manager) handleEvent(handler EventHandler, event playback.Event) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("playback event handler panicked: guild=%s type=%s panic=%v", event.GuildID, event.Type, r)
		}
	}()
	handler(m.ctx, event)
}
