package command

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/notification"
	"github.com/osa030/noteblock/internal/app/queue"
	"github.com/osa030/noteblock/internal/app/session"
	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/domain/chat"
	"github.com/osa030/noteblock/internal/domain/listener"
	"github.com/osa030/noteblock/internal/domain/track"
)

// MusicListButtonPrefix prefixes the custom IDs of musiclist navigation buttons.
const MusicListButtonPrefix = "musiclist:"

// Catalog is what commands need from the track catalog.
type Catalog interface {
	HasMusicDir() bool
	ListTracks() []string
	HasTrack(id string) bool
	ListRecipes() []string
	ResolveRecipe(id string) (track.Recipe, error)
	AutocompleteTracks(query string) []string
	AutocompleteRecipes(query string) []string
}

// Messages resolves filter rejection codes to user-facing text.
type Messages interface {
	GetMessage(code string) string
}

// Config holds dispatcher settings.
type Config struct {
	PageSize int
	Messages Messages
	// Intn picks random ping responses and facts. nil uses math/rand/v2.
	Intn func(n int) int
}

// Dispatcher routes commands to their handlers.
type Dispatcher struct {
	catalog  Catalog
	queue    *queue.Store
	sessions *session.Manager
	notifier *notification.Manager
	config   Config

	commands []Command
	byName   map[string]Command
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(catalog Catalog, q *queue.Store, sessions *session.Manager, notifier *notification.Manager, cfg Config) *Dispatcher {
	if cfg.Intn == nil {
		cfg.Intn = rand.IntN
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 15
	}

	d := &Dispatcher{
		catalog:  catalog,
		queue:    q,
		sessions: sessions,
		notifier: notifier,
		config:   cfg,
	}
	d.commands = d.buildCommands()
	d.byName = make(map[string]Command, len(d.commands))
	for _, c := range d.commands {
		d.byName[c.Name] = c
	}
	return d
}

// Commands returns the command table.
func (d *Dispatcher) Commands() []Command {
	return d.commands
}

// Lookup returns the command or sub-command for name and sub.
func (d *Dispatcher) Lookup(name, sub string) (Command, bool) {
	c, ok := d.byName[name]
	if !ok {
		return Command{}, false
	}
	if sub == "" {
		return c, c.handler != nil
	}
	for _, sc := range c.SubCommands {
		if sc.Name == sub {
			return sc, true
		}
	}
	return Command{}, false
}

// Precheck runs the command's cheap validation without side effects. A deferred
// command should only be acknowledged when this returns nil, so a refusal can still
// be answered ephemerally.
func (d *Dispatcher) Precheck(req Request) error {
	c, ok := d.Lookup(req.Name, req.SubCommand)
	if !ok || c.precheck == nil {
		return nil
	}
	return c.precheck(req)
}

// AnnounceShutdown tells every announce channel that the bot is going offline.
func (d *Dispatcher) AnnounceShutdown(ctx context.Context) {
	count := d.notifier.SubscriberCount()
	if count == 0 {
		return
	}
	zlog.Info().Msgf("announcing shutdown: channels=%d", count)
	d.notifier.Broadcast(ctx, chat.Message{Embed: &chat.Embed{Title: titleOffline, Color: chat.ColorRed}})
}

// Dispatch runs the command and sends its reply. Errors are turned into replies here;
// the returned error is only non-nil when the reply itself could not be sent.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	zlog.Info().Msgf("command received: name=%s sub=%s user=%s guild=%s",
		req.Name, req.SubCommand, req.Listener.UserID, req.Listener.GuildID)

	c, ok := d.Lookup(req.Name, req.SubCommand)
	if !ok {
		return req.Reply.Send(ctx, notice(msgUnknownCommand, true))
	}

	msg, err := c.handler(ctx, req)
	if err != nil {
		reply, expected := replyFor(err)
		if expected {
			zlog.Info().Msgf("command refused: name=%s sub=%s reason=%v", req.Name, req.SubCommand, err)
		} else {
			zlog.Error().Msgf("command failed: name=%s sub=%s error=%+v", req.Name, req.SubCommand, err)
		}
		msg = reply
	}

	if err := req.Reply.Send(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to reply to %s", req.Name)
	}
	return nil
}

// HandleComponent handles a button click. Only musiclist navigation exists.
func (d *Dispatcher) HandleComponent(ctx context.Context, customID string, l listener.Listener, reply chat.ReplyChannel) error {
	raw, ok := strings.CutPrefix(customID, MusicListButtonPrefix)
	if !ok {
		zlog.Warn().Msgf("unknown component: custom_id=%s", customID)
		return nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid musiclist page %q", raw)
	}

	msg, err := d.musicListPage(page)
	if err != nil {
		msg, _ = replyFor(err)
		return reply.Send(ctx, msg)
	}
	return reply.Edit(ctx, msg)
}

// Autocomplete returns choices for the focused option.
func (d *Dispatcher) Autocomplete(name, sub, option, query string) []string {
	switch {
	case option == optTrack && (name == "play" || (name == "queue" && sub == "add")):
		return d.catalog.AutocompleteTracks(query)
	case option == optTrack && name == "queue" && sub == "remove":
		return matchQueued(d.queue.View(), query)
	case option == optItem && name == "recipe":
		return d.catalog.AutocompleteRecipes(query)
	default:
		return []string{}
	}
}

// requireGuild rejects commands issued outside a guild.
func requireGuild(l listener.Listener) error {
	if !l.InGuild() {
		return failWith(apperr.PermissionDenied("command used outside a guild"), notice(msgGuildOnly, true))
	}
	return nil
}
