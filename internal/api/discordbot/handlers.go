package discordbot

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/command"
	"github.com/osa030/noteblock/internal/domain/listener"
)

// commandTimeout bounds one interaction. Discord invalidates the token after 15 minutes.
const commandTimeout = 30 * time.Second

func (b *Bot) onSlashCommand(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	sub := ""
	if data.SubCommandName != nil {
		sub = *data.SubCommandName
	}

	options := make(map[string]string, len(data.Options))
	for name := range data.Options {
		if v, ok := data.OptString(name); ok {
			options[name] = v
		}
	}

	channelID := event.Channel().ID()
	reply := &interactionReply{event: event}
	req := command.Request{
		Name:       data.CommandName(),
		SubCommand: sub,
		Options:    options,
		Listener:   b.listenerFor(event.GuildID(), event.User(), channelID),
		Reply:      reply,
		Announce:   &channelReply{client: b.client, channelID: channelID},
	}

	// A refused request is answered directly so its reply can stay ephemeral.
	if b.shouldDefer(req) {
		if err := event.DeferCreateMessage(false); err != nil {
			zlog.Error().Msgf("failed to defer response: command=%s error=%v", req.Name, err)
			return
		}
		reply.deferred = true
	}

	b.handleAsync(req.Name, func(ctx context.Context) {
		if err := b.dispatcher.Dispatch(ctx, req); err != nil {
			zlog.Error().Msgf("failed to handle command: command=%s error=%v", req.Name, err)
		}
	})
}

// shouldDefer reports whether the command is acknowledged before it runs.
func (b *Bot) shouldDefer(req command.Request) bool {
	c, ok := b.dispatcher.Lookup(req.Name, req.SubCommand)
	if !ok || !c.Deferred {
		return false
	}
	return b.dispatcher.Precheck(req) == nil
}

func (b *Bot) onAutocomplete(event *events.AutocompleteInteractionCreate) {
	focused := event.Data.Focused()
	sub := ""
	if event.Data.SubCommandName != nil {
		sub = *event.Data.SubCommandName
	}

	values := b.dispatcher.Autocomplete(event.Data.CommandName, sub, focused.Name, focused.String())
	if err := event.AutocompleteResult(autocompleteChoices(values)); err != nil {
		zlog.Warn().Msgf("failed to send autocomplete: command=%s error=%v", event.Data.CommandName, err)
	}
}

func (b *Bot) onComponent(event *events.ComponentInteractionCreate) {
	customID := event.Data.CustomID()
	l := b.listenerFor(event.GuildID(), event.User(), event.Channel().ID())

	b.handleAsync(customID, func(ctx context.Context) {
		if err := b.dispatcher.HandleComponent(ctx, customID, l, &componentReply{event: event}); err != nil {
			zlog.Error().Msgf("failed to handle component: custom_id=%s error=%v", customID, err)
		}
	})
}

// listenerFor describes the interaction's user, looking up their voice channel in the cache.
func (b *Bot) listenerFor(guildID *snowflake.ID, user discord.User, channelID snowflake.ID) listener.Listener {
	var voiceChannelID *snowflake.ID
	if guildID != nil {
		if vs, ok := b.client.Caches.VoiceState(*guildID, user.ID); ok {
			voiceChannelID = vs.ChannelID
		}
	}
	return newListener(guildID, user, channelID, voiceChannelID)
}

func newListener(guildID *snowflake.ID, user discord.User, channelID snowflake.ID, voiceChannelID *snowflake.ID) listener.Listener {
	l := listener.Listener{
		UserID:        user.ID.String(),
		DisplayName:   user.EffectiveName(),
		TextChannelID: channelID.String(),
	}
	if guildID != nil {
		l.GuildID = guildID.String()
	}
	if voiceChannelID != nil {
		l.VoiceChannelID = voiceChannelID.String()
	}
	return l
}

func autocompleteChoices(values []string) []discord.AutocompleteChoice {
	choices := make([]discord.AutocompleteChoice, 0, len(values))
	for _, v := range values {
		choices = append(choices, discord.AutocompleteChoiceString{Name: v, Value: v})
	}
	return choices
}
