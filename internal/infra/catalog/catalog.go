// Package catalog discovers tracks and recipes on disk.
//
// Nothing is cached: every call lists the directory again, so files added or removed
// while the bot runs are picked up by the next command.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/domain/track"
)

// MaxChoices is the most autocomplete choices the platform accepts.
const MaxChoices = 25

// Config holds catalog locations.
type Config struct {
	MusicDir     string // Directory of <id><MusicExt> files
	MusicExt     string // Audio extension including the dot
	RecipesDir   string // Directory of <RecipePrefix><id>.<ext> images
	RecipePrefix string // File name prefix of recipe images
}

// Catalog lists and resolves tracks and recipes.
type Catalog struct {
	config Config
}

// New creates a new catalog.
func New(cfg Config) *Catalog {
	return &Catalog{config: cfg}
}

// HasMusicDir reports whether the music directory exists.
func (c *Catalog) HasMusicDir() bool {
	info, err := os.Stat(c.config.MusicDir)
	return err == nil && info.IsDir()
}

// ListTracks returns all track IDs sorted alphabetically.
// An absent music directory yields an empty list.
func (c *Catalog) ListTracks() []string {
	entries, err := os.ReadDir(c.config.MusicDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zlog.Warn().Msgf("catalog: failed to list music dir: dir=%s error=%v", c.config.MusicDir, err)
		}
		return []string{}
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), c.config.MusicExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), c.config.MusicExt))
	}
	sort.Strings(ids)
	return ids
}

// TrackCount returns the number of tracks currently on disk.
func (c *Catalog) TrackCount() int {
	return len(c.ListTracks())
}

// ListRecipes returns all recipe IDs, lower-cased and sorted.
func (c *Catalog) ListRecipes() []string {
	recipes := c.recipeFiles()
	ids := make([]string, 0, len(recipes))
	for id := range recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveTrack maps a track ID to its file. Tags are read when the file has any.
func (c *Catalog) ResolveTrack(id string) (track.Track, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return track.Track{}, apperr.NotFound("track %q not found", id)
	}

	path := filepath.Join(c.config.MusicDir, id+c.config.MusicExt)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return track.Track{}, apperr.NotFound("track %q not found", id)
	}

	t := track.New(id, path)
	readTags(&t)
	return t, nil
}

// HasTrack reports whether a track file exists for the ID.
func (c *Catalog) HasTrack(id string) bool {
	_, err := c.ResolveTrack(id)
	return err == nil
}

// ResolveRecipe maps a recipe ID to its image. Matching is case-insensitive.
func (c *Catalog) ResolveRecipe(id string) (track.Recipe, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	name, ok := c.recipeFiles()[key]
	if !ok {
		return track.Recipe{}, apperr.NotFound("recipe %q not found", id)
	}
	return track.Recipe{
		ID:       key,
		FileName: name,
		Path:     filepath.Join(c.config.RecipesDir, name),
	}, nil
}

// AutocompleteTracks returns up to MaxChoices track IDs containing query.
func (c *Catalog) AutocompleteTracks(query string) []string {
	return Match(c.ListTracks(), query)
}

// AutocompleteRecipes returns up to MaxChoices recipe IDs containing query.
func (c *Catalog) AutocompleteRecipes(query string) []string {
	return Match(c.ListRecipes(), query)
}

// Match returns the candidates containing query, case-insensitively, capped at MaxChoices.
func Match(candidates []string, query string) []string {
	q := strings.ToLower(query)
	matches := make([]string, 0, MaxChoices)
	for _, candidate := range candidates {
		if !strings.Contains(strings.ToLower(candidate), q) {
			continue
		}
		matches = append(matches, candidate)
		if len(matches) == MaxChoices {
			break
		}
	}
	return matches
}

// recipeFiles maps lower-cased recipe IDs to file names.
func (c *Catalog) recipeFiles() map[string]string {
	entries, err := os.ReadDir(c.config.RecipesDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zlog.Warn().Msgf("catalog: failed to list recipes dir: dir=%s error=%v", c.config.RecipesDir, err)
		}
		return map[string]string{}
	}

	files := make(map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, c.config.RecipePrefix) {
			continue
		}
		stem := strings.TrimSuffix(strings.TrimPrefix(name, c.config.RecipePrefix), filepath.Ext(name))
		if stem == "" {
			continue
		}
		files[strings.ToLower(stem)] = name
	}
	return files
}

// readTags fills descriptive fields from the file's metadata, if any.
func readTags(t *track.Track) {
	f, err := os.Open(t.Path)
	if err != nil {
		return
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		zlog.Debug().Msgf("catalog: no tags: track=%s error=%v", t.ID, err)
		return
	}
	t.Title = strings.TrimSpace(meta.Title())
	t.Artist = strings.TrimSpace(meta.Artist())
	t.Album = strings.TrimSpace(meta.Album())
}
