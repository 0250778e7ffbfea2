// Package discordbot connects the command dispatcher and playback sessions to Discord.
package discordbot

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/command"
	"github.com/osa030/noteblock/internal/infra/transcode"
)

// Config represents Discord bot configuration.
type Config struct {
	Token    string
	GuildIDs []string // Sync commands to these guilds only; empty registers globally
	Stream   transcode.StreamConfig
}

// Bot owns the gateway connection and routes interactions to the dispatcher.
type Bot struct {
	client     *bot.Client
	config     Config
	dispatcher *command.Dispatcher

	inflight sync.WaitGroup // Interaction handlers still running
}

// New creates a bot. The gateway is not opened until Start.
func New(cfg Config) (*Bot, error) {
	b := &Bot{config: cfg}

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildVoiceStates),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagChannels, cache.FlagVoiceStates),
		),
		// Joining voice waits for voice gateway events; listeners must not block the reader.
		bot.WithEventManagerConfigOpts(bot.WithAsyncEventsEnabled()),
		bot.WithEventListenerFunc(b.onReady),
		bot.WithEventListenerFunc(b.onSlashCommand),
		bot.WithEventListenerFunc(b.onAutocomplete),
		bot.WithEventListenerFunc(b.onComponent),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create discord client")
	}
	b.client = client
	return b, nil
}

// Start syncs the command table and opens the gateway.
func (b *Bot) Start(ctx context.Context, d *command.Dispatcher) error {
	b.dispatcher = d

	guildIDs, err := parseIDs(b.config.GuildIDs)
	if err != nil {
		return err
	}

	cmds := SlashCommands(d.Commands())
	if err := handler.SyncCommands(b.client, cmds, guildIDs); err != nil {
		return errors.Wrap(err, "failed to sync commands")
	}
	zlog.Info().Msgf("commands synced: count=%d guilds=%d", len(cmds), len(guildIDs))

	if err := b.client.OpenGateway(ctx); err != nil {
		return errors.Wrap(err, "failed to open gateway")
	}
	return nil
}

// Close waits for running interaction handlers, then disconnects from the gateway.
func (b *Bot) Close(ctx context.Context) {
	if err := b.wait(ctx); err != nil {
		zlog.Warn().Msgf("closing with interaction handlers still running: error=%v", err)
	}
	b.client.Close(ctx)
}

// handleAsync runs fn on its own goroutine with the interaction timeout.
// Event listeners return at once so the gateway keeps delivering voice events
// that a running handler may be waiting for.
func (b *Bot) handleAsync(name string, fn func(ctx context.Context)) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				zlog.Error().Msgf("interaction handler panicked: name=%s panic=%v", name, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// wait blocks until every handler started by handleAsync has returned.
func (b *Bot) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "interaction handlers did not finish")
	}
}

func (b *Bot) onReady(event *events.Ready) {
	zlog.Info().Msgf("bot ready: user=%s guilds=%d", event.User.Username, len(event.Guilds))
}

// parseIDs converts configured snowflake strings.
func parseIDs(raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, s := range raw {
		id, err := snowflake.Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid id %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
