package discordbot

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/osa030/noteblock/internal/domain/chat"
)

// interactionReply answers a slash command, either directly or by filling in a deferred response.
type interactionReply struct {
	event    *events.ApplicationCommandInteractionCreate
	deferred bool
}

func (r *interactionReply) Send(ctx context.Context, msg chat.Message) error {
	if r.deferred {
		_, err := r.event.Client().Rest.UpdateInteractionResponse(
			r.event.ApplicationID(), r.event.Token(), toMessageUpdate(msg), rest.WithCtx(ctx))
		return errors.Wrap(err, "failed to update deferred response")
	}
	return errors.Wrap(r.event.CreateMessage(toMessageCreate(msg), rest.WithCtx(ctx)), "failed to create response")
}

func (r *interactionReply) Edit(ctx context.Context, msg chat.Message) error {
	_, err := r.event.Client().Rest.UpdateInteractionResponse(
		r.event.ApplicationID(), r.event.Token(), toMessageUpdate(msg), rest.WithCtx(ctx))
	return errors.Wrap(err, "failed to edit response")
}

// componentReply answers a button click. Edit replaces the message the button belongs to.
type componentReply struct {
	event *events.ComponentInteractionCreate
}

func (r *componentReply) Send(ctx context.Context, msg chat.Message) error {
	return errors.Wrap(r.event.CreateMessage(toMessageCreate(msg), rest.WithCtx(ctx)), "failed to create response")
}

func (r *componentReply) Edit(ctx context.Context, msg chat.Message) error {
	return errors.Wrap(r.event.UpdateMessage(toMessageUpdate(msg), rest.WithCtx(ctx)), "failed to update message")
}

// channelReply posts unsolicited messages to a text channel.
type channelReply struct {
	client    *bot.Client
	channelID snowflake.ID
}

func (r *channelReply) Send(ctx context.Context, msg chat.Message) error {
	// Channel messages cannot be ephemeral.
	msg.Ephemeral = false
	_, err := r.client.Rest.CreateMessage(r.channelID, toMessageCreate(msg), rest.WithCtx(ctx))
	return errors.Wrapf(err, "failed to post to channel %s", r.channelID)
}

func (r *channelReply) Edit(ctx context.Context, msg chat.Message) error {
	return r.Send(ctx, msg)
}

func toMessageCreate(msg chat.Message) discord.MessageCreate {
	m := discord.NewMessageCreate().
		WithContent(msg.Content).
		WithEphemeral(msg.Ephemeral)
	if msg.Embed != nil {
		m = m.WithEmbeds(toEmbed(msg.Embed))
	}
	if len(msg.Buttons) > 0 {
		m = m.AddActionRow(toButtons(msg.Buttons)...)
	}
	if msg.File != nil {
		m = m.AddFile(msg.File.Name, "", msg.File.Reader)
	}
	return m
}

// toMessageUpdate always sets content and embeds so an edit replaces both.
func toMessageUpdate(msg chat.Message) discord.MessageUpdate {
	m := discord.NewMessageUpdate().WithContent(msg.Content)
	if msg.Embed != nil {
		m = m.WithEmbeds(toEmbed(msg.Embed))
	} else {
		m = m.ClearEmbeds()
	}
	if len(msg.Buttons) > 0 {
		m = m.AddActionRow(toButtons(msg.Buttons)...)
	}
	if msg.File != nil {
		m = m.AddFile(msg.File.Name, "", msg.File.Reader)
	}
	return m
}

func toEmbed(e *chat.Embed) discord.Embed {
	b := discord.NewEmbedBuilder().
		SetTitle(e.Title).
		SetDescription(e.Description).
		SetColor(e.Color)
	if e.Footer != "" {
		b.SetFooterText(e.Footer)
	}
	for _, f := range e.Fields {
		b.AddField(f.Name, f.Value, f.Inline)
	}
	return b.Build()
}

func toButtons(buttons []chat.Button) []discord.InteractiveComponent {
	out := make([]discord.InteractiveComponent, 0, len(buttons))
	for _, btn := range buttons {
		out = append(out, discord.NewPrimaryButton(btn.Label, btn.CustomID).WithDisabled(btn.Disabled))
	}
	return out
}
