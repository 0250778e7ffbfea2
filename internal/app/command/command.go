// Package command maps slash commands to queue, catalog and playback operations and
// formats the replies.
package command

import (
	"context"

	"github.com/osa030/noteblock/internal/domain/chat"
	"github.com/osa030/noteblock/internal/domain/listener"
)

// Request is one command invocation.
type Request struct {
	Name       string            // Top-level command, e.g. "queue"
	SubCommand string            // Sub-command, e.g. "add"; empty when none
	Options    map[string]string // String options by name
	Listener   listener.Listener
	Reply      chat.ReplyChannel // Answers this interaction
	Announce   chat.ReplyChannel // Posts to the text channel the command came from
}

// Option returns the named option, or "".
func (r *Request) Option(name string) string {
	return r.Options[name]
}

// HandlerFunc handles a command and returns the reply to send.
type HandlerFunc func(ctx context.Context, req Request) (chat.Message, error)

// Option describes a string option of a command.
type Option struct {
	Name         string
	Description  string
	Required     bool
	Autocomplete bool
}

// Command is an entry of the command table.
type Command struct {
	Name        string
	Description string
	Options     []Option
	SubCommands []Command
	// Deferred commands are acknowledged first and answered by editing the response.
	Deferred bool

	handler  HandlerFunc
	precheck func(req Request) error
}

// Option names shared by several commands.
const (
	optTrack = "track"
	optState = "state"
	optItem  = "item"
)

// buildCommands returns the command table in help order.
func (d *Dispatcher) buildCommands() []Command {
	trackOption := Option{Name: optTrack, Description: "Track name", Required: true, Autocomplete: true}
	stateOption := Option{Name: optState, Description: "on or off", Required: true}

	return []Command{
		{Name: "help", Description: "Shows a list of all available commands", handler: d.help},
		{Name: "ping", Description: "Checks if the bot is online", handler: d.ping},
		{Name: "musiclist", Description: "Shows a list of available Minecraft music discs and tracks.", handler: d.musicList},
		{Name: "play", Description: "Plays Minecraft music/music disks", Options: []Option{trackOption}, Deferred: true, handler: d.play, precheck: d.validatePlay},
		{Name: "pause", Description: "Pauses the minecraft music playing", handler: d.pause},
		{Name: "resume", Description: "Resumes the minecraft music that was paused", handler: d.resume},
		{Name: "next", Description: "Plays the next track in the queue", handler: d.next},
		{Name: "repeat", Description: "Turn repeat mode on/off", Options: []Option{stateOption}, handler: d.repeat},
		{Name: "shuffle", Description: "Turn shuffle mode on/off", Options: []Option{stateOption}, handler: d.shuffle},
		{
			Name:        "queue",
			Description: "Manage the music queue",
			SubCommands: []Command{
				{Name: "add", Description: "Adds a track to the music queue", Options: []Option{trackOption}, handler: d.queueAdd},
				{Name: "remove", Description: "Removes a track from the music queue", Options: []Option{{Name: optTrack, Description: "Track name", Required: true}}, handler: d.queueRemove},
				{Name: "view", Description: "Displays the current music queue", handler: d.queueView},
				{Name: "clear", Description: "Clears the entire music queue", handler: d.queueClear},
			},
		},
		{Name: "stop", Description: "Stops the minecaft music playing", handler: d.stop},
		{Name: "recipe", Description: "Shows a recipe of a craftable item", Options: []Option{{Name: optItem, Description: "Item name", Required: true, Autocomplete: true}}, handler: d.recipe},
		{Name: "randomfact", Description: "Shows a random minecraft fact", handler: d.randomFact},
	}
}
