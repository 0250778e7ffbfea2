package discordbot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/noteblock/internal/app/command"
	"github.com/osa030/noteblock/internal/domain/chat"
	"github.com/osa030/noteblock/internal/domain/listener"
	"github.com/osa030/noteblock/internal/domain/track"
)

func TestSlashCommands(t *testing.T) {
	d := command.NewDispatcher(nil, nil, nil, nil, command.Config{})
	cmds := SlashCommands(d.Commands())
	require.Len(t, cmds, len(d.Commands()))

	byName := make(map[string]discord.SlashCommandCreate, len(cmds))
	for _, c := range cmds {
		sc, ok := c.(discord.SlashCommandCreate)
		require.True(t, ok)
		byName[sc.Name] = sc
	}

	play := byName["play"]
	require.Len(t, play.Options, 1)
	track, ok := play.Options[0].(discord.ApplicationCommandOptionString)
	require.True(t, ok)
	assert.Equal(t, "track", track.Name)
	assert.True(t, track.Required)
	assert.True(t, track.Autocomplete)

	queue := byName["queue"]
	require.Len(t, queue.Options, 4)
	names := make([]string, 0, 4)
	for _, o := range queue.Options {
		sub, ok := o.(discord.ApplicationCommandOptionSubCommand)
		require.True(t, ok)
		names = append(names, sub.Name)
	}
	assert.Equal(t, []string{"add", "remove", "view", "clear"}, names)

	assert.Empty(t, byName["ping"].Options)
}

func TestToMessageCreate(t *testing.T) {
	msg := chat.Message{
		Content:   "hello",
		Ephemeral: true,
		Embed: &chat.Embed{
			Title:  "🎵   Available Minecraft Songs",
			Footer: "Page 1 of 3",
			Color:  chat.ColorBlue,
			Fields: []chat.Field{{Name: "/help", Value: "Shows a list"}},
		},
		Buttons: []chat.Button{
			{Label: "Previous", CustomID: "musiclist:0", Disabled: true},
			{Label: "Next", CustomID: "musiclist:2"},
		},
		File: &chat.File{Name: "craft_Bread.png", Reader: strings.NewReader("png")},
	}

	mc := toMessageCreate(msg)

	assert.Equal(t, "hello", mc.Content)
	assert.True(t, mc.Flags.Has(discord.MessageFlagEphemeral))
	require.Len(t, mc.Embeds, 1)
	assert.Equal(t, "🎵   Available Minecraft Songs", mc.Embeds[0].Title)
	assert.Equal(t, chat.ColorBlue, mc.Embeds[0].Color)
	require.NotNil(t, mc.Embeds[0].Footer)
	assert.Equal(t, "Page 1 of 3", mc.Embeds[0].Footer.Text)
	require.Len(t, mc.Embeds[0].Fields, 1)
	assert.Equal(t, "/help", mc.Embeds[0].Fields[0].Name)
	assert.Len(t, mc.Components, 1)
	require.Len(t, mc.Files, 1)
	assert.Equal(t, "craft_Bread.png", mc.Files[0].Name)
}

func TestToMessageCreate_Plain(t *testing.T) {
	mc := toMessageCreate(chat.Message{Content: "Pong!"})

	assert.Equal(t, "Pong!", mc.Content)
	assert.False(t, mc.Flags.Has(discord.MessageFlagEphemeral))
	assert.Empty(t, mc.Embeds)
	assert.Empty(t, mc.Components)
	assert.Empty(t, mc.Files)
}

func TestToMessageUpdate(t *testing.T) {
	mu := toMessageUpdate(chat.Message{Content: "x", Embed: &chat.Embed{Title: "Page"}})

	require.NotNil(t, mu.Content)
	assert.Equal(t, "x", *mu.Content)
	require.NotNil(t, mu.Embeds)
	assert.Equal(t, "Page", (*mu.Embeds)[0].Title)
}

func TestToMessageUpdate_ReplacesEmbeds(t *testing.T) {
	mu := toMessageUpdate(chat.Message{
		Content: "Page 2",
		Buttons: []chat.Button{{Label: "Next", CustomID: "musiclist:3"}},
	})

	require.NotNil(t, mu.Embeds)
	assert.Empty(t, *mu.Embeds)
	require.NotNil(t, mu.Components)
	assert.Len(t, *mu.Components, 1)
}

func TestToButtons(t *testing.T) {
	buttons := toButtons([]chat.Button{
		{Label: "Previous", CustomID: "musiclist:0", Disabled: true},
		{Label: "Next", CustomID: "musiclist:2"},
	})
	require.Len(t, buttons, 2)

	prev, ok := buttons[0].(discord.ButtonComponent)
	require.True(t, ok)
	assert.Equal(t, "Previous", prev.Label)
	assert.Equal(t, "musiclist:0", prev.CustomID)
	assert.True(t, prev.Disabled)

	next, ok := buttons[1].(discord.ButtonComponent)
	require.True(t, ok)
	assert.False(t, next.Disabled)
}

func TestNewListener(t *testing.T) {
	guild := snowflake.ID(100)
	voice := snowflake.ID(300)
	globalName := "Alex"
	user := discord.User{ID: 1, Username: "alex01", GlobalName: &globalName}

	tests := []struct {
		name        string
		guildID     *snowflake.ID
		voiceID     *snowflake.ID
		wantGuild   string
		wantVoice   string
		wantInVoice bool
	}{
		{name: "guild member in voice", guildID: &guild, voiceID: &voice, wantGuild: "100", wantVoice: "300", wantInVoice: true},
		{name: "guild member not in voice", guildID: &guild, wantGuild: "100"},
		{name: "direct message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newListener(tt.guildID, user, snowflake.ID(200), tt.voiceID)

			assert.Equal(t, "1", l.UserID)
			assert.Equal(t, "Alex", l.DisplayName)
			assert.Equal(t, "200", l.TextChannelID)
			assert.Equal(t, tt.wantGuild, l.GuildID)
			assert.Equal(t, tt.wantVoice, l.VoiceChannelID)
			assert.Equal(t, tt.wantInVoice, l.InVoice())
		})
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"123", "456"})
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{123, 456}, ids)

	ids, err = parseIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseIDs([]string{"guild"})
	assert.Error(t, err)
}

func TestAutocompleteChoices(t *testing.T) {
	choices := autocompleteChoices([]string{"calm1", "calm2"})
	require.Len(t, choices, 2)
	assert.Equal(t, discord.AutocompleteChoiceString{Name: "calm1", Value: "calm1"}, choices[0])

	assert.Empty(t, autocompleteChoices(nil))
}

type stubCatalog struct{}

func (stubCatalog) HasMusicDir() bool { return true }
func (stubCatalog) ListTracks() []string { return []string{"calm1"} }
func (stubCatalog) HasTrack(id string) bool { return id == "calm1" }
func (stubCatalog) ListRecipes() []string { return nil }
func (stubCatalog) ResolveRecipe(id string) (track.Recipe, error) { return track.Recipe{}, nil }
func (stubCatalog) AutocompleteTracks(query string) []string { return nil }
func (stubCatalog) AutocompleteRecipes(query string) []string { return nil }

func TestBot_ShouldDefer(t *testing.T) {
	b := &Bot{dispatcher: command.NewDispatcher(stubCatalog{}, nil, nil, nil, command.Config{})}
	inVoice := listener.Listener{UserID: "u1", GuildID: "g1", VoiceChannelID: "voice-1"}

	tests := []struct {
		name string
		req  command.Request
		want bool
	}{
		{name: "playable track", req: command.Request{Name: "play", Options: map[string]string{"track": "calm1"}, Listener: inVoice}, want: true},
		{name: "unknown track answers ephemerally", req: command.Request{Name: "play", Options: map[string]string{"track": "piano"}, Listener: inVoice}},
		{name: "caller not in voice", req: command.Request{Name: "play", Options: map[string]string{"track": "calm1"}, Listener: listener.Listener{UserID: "u1", GuildID: "g1"}}},
		{name: "immediate command", req: command.Request{Name: "ping", Listener: inVoice}},
		{name: "unknown command", req: command.Request{Name: "dance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.shouldDefer(tt.req))
		})
	}
}

func TestBot_HandleAsyncDoesNotBlockListener(t *testing.T) {
	b := &Bot{}
	started := make(chan struct{})
	release := make(chan struct{})

	returned := make(chan struct{})
	go func() {
		b.handleAsync("play", func(ctx context.Context) {
			close(started)
			<-release
		})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("listener blocked on a running handler")
	}
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, b.wait(ctx), "handler is still running")

	close(release)
	require.NoError(t, b.wait(context.Background()))
}

func TestBot_HandleAsyncRecoversPanic(t *testing.T) {
	b := &Bot{}
	b.handleAsync("boom", func(ctx context.Context) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		panic("boom")
	})
	require.NoError(t, b.wait(context.Background()))
}
