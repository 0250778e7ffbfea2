// Package track provides the Track and Recipe domain entities.
package track

import "strings"

// Track represents an audio file in the music directory.
// The ID is the file name without extension and doubles as the display name.
type Track struct {
	ID     string // File stem
	Name   string // Display name (same as ID)
	Path   string // Filesystem path
	Title  string // Title tag (optional)
	Artist string // Artist tag (optional)
	Album  string // Album tag (optional)
}

// New creates a track from its identifier and path.
func New(id, path string) Track {
	return Track{
		ID:   id,
		Name: id,
		Path: path,
	}
}

// HasTags reports whether any descriptive tag was read from the file.
func (t *Track) HasTags() bool {
	return t.Title != "" || t.Artist != "" || t.Album != ""
}

// Credits returns "Artist - Title" from the file tags, or an empty string.
func (t *Track) Credits() string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return t.Artist
	}
}

// Recipe represents a crafting recipe image.
type Recipe struct {
	ID       string // Lower-cased item name
	FileName string // Original file name, e.g. craft_Diamond_Sword.png
	Path     string // Filesystem path
}

// DisplayName returns the item name with underscores replaced by spaces.
func (r *Recipe) DisplayName() string {
	return strings.ReplaceAll(r.ID, "_", " ")
}
