// Package chat provides platform-neutral message types and the reply capability
// supplied by the chat platform adapter.
package chat

import (
	"context"
	"io"
)

// Colors used by embeds.
const (
	ColorBlurple = 0x5865F2
	ColorBlue    = 0x3498DB
	ColorGreen   = 0x2ECC71
	ColorOrange  = 0xE67E22
	ColorYellow  = 0xF1C40F
	ColorRed     = 0xE74C3C
)

// Field is a single embed field.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	Description string
	Footer      string
	Color       int
	Fields      []Field
}

// Button is an interactive button. CustomID is echoed back by the platform on click.
type Button struct {
	Label    string
	CustomID string
	Disabled bool
}

// File is an attachment.
type File struct {
	Name   string
	Reader io.Reader
}

// Message is a reply to a command, button click or an unsolicited announcement.
type Message struct {
	Content   string
	Embed     *Embed
	Buttons   []Button
	File      *File
	Ephemeral bool
}

// ReplyChannel sends messages back to where a command came from.
type ReplyChannel interface {
	// Send posts a new message (or the initial interaction response).
	Send(ctx context.Context, msg Message) error
	// Edit replaces the message the interaction is attached to.
	Edit(ctx context.Context, msg Message) error
}
