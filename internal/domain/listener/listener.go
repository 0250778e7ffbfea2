// Package listener provides the Listener domain entity: the user issuing a command
// and where they are.
package listener

import "github.com/osa030/noteblock/internal/domain/apperr"

// Listener represents the member who issued a command.
type Listener struct {
	UserID         string // Platform user ID
	DisplayName    string // Display name
	GuildID        string // Guild the command was issued in ("" for DMs)
	TextChannelID  string // Text channel the command was issued in
	VoiceChannelID string // Voice channel the user is connected to ("" if none)
}

// InGuild reports whether the command came from a guild.
func (l *Listener) InGuild() bool {
	return l.GuildID != ""
}

// InVoice reports whether the user is connected to a voice channel.
func (l *Listener) InVoice() bool {
	return l.VoiceChannelID != ""
}

// RequireVoice returns a permission error unless the user is in a voice channel
// of a guild.
func (l *Listener) RequireVoice() error {
	if !l.InGuild() {
		return apperr.PermissionDenied("command used outside a guild")
	}
	if !l.InVoice() {
		return apperr.PermissionDenied("user %s is not in a voice channel", l.UserID)
	}
	return nil
}
