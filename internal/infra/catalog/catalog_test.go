package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/noteblock/internal/domain/apperr"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func newTestCatalog(t *testing.T) (*Catalog, string, string) {
	t.Helper()
	root := t.TempDir()
	musicDir := filepath.Join(root, "music")
	recipesDir := filepath.Join(root, "recipes")
	return New(Config{
		MusicDir:     musicDir,
		MusicExt:     ".mp3",
		RecipesDir:   recipesDir,
		RecipePrefix: "craft_",
	}), musicDir, recipesDir
}

func TestCatalog_ListTracks(t *testing.T) {
	c, musicDir, _ := newTestCatalog(t)

	assert.False(t, c.HasMusicDir())
	assert.Empty(t, c.ListTracks(), "absent directory yields an empty list")

	touch(t, musicDir, "sweden.mp3", "calm1.mp3", "notes.txt", "aria_math.mp3")
	require.NoError(t, os.Mkdir(filepath.Join(musicDir, "nested.mp3"), 0o755))

	assert.True(t, c.HasMusicDir())
	assert.Equal(t, []string{"aria_math", "calm1", "sweden"}, c.ListTracks())
	assert.Equal(t, 3, c.TrackCount())
}

func TestCatalog_ResolveTrack(t *testing.T) {
	c, musicDir, _ := newTestCatalog(t)
	touch(t, musicDir, "calm1.mp3")

	trk, err := c.ResolveTrack("calm1")
	require.NoError(t, err)
	assert.Equal(t, "calm1", trk.ID)
	assert.Equal(t, "calm1", trk.Name)
	assert.Equal(t, filepath.Join(musicDir, "calm1.mp3"), trk.Path)
	assert.False(t, trk.HasTags(), "a bare file carries no tags")
	assert.True(t, c.HasTrack("calm1"))

	for _, id := range []string{"missing", "", "../calm1", `..\calm1`} {
		_, err := c.ResolveTrack(id)
		assert.True(t, errors.Is(err, apperr.ErrNotFound), "id=%q", id)
	}
	assert.False(t, c.HasTrack("missing"))
}

func TestCatalog_Recipes(t *testing.T) {
	c, _, recipesDir := newTestCatalog(t)
	assert.Empty(t, c.ListRecipes())

	touch(t, recipesDir, "craft_Diamond_Sword.png", "craft_bread.png", "logo.png", "craft_.png")

	assert.Equal(t, []string{"bread", "diamond_sword"}, c.ListRecipes())

	r, err := c.ResolveRecipe("DIAMOND_sword")
	require.NoError(t, err)
	assert.Equal(t, "diamond_sword", r.ID)
	assert.Equal(t, "craft_Diamond_Sword.png", r.FileName)
	assert.Equal(t, filepath.Join(recipesDir, "craft_Diamond_Sword.png"), r.Path)

	_, err = c.ResolveRecipe("logo")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCatalog_Autocomplete(t *testing.T) {
	c, musicDir, recipesDir := newTestCatalog(t)

	names := make([]string, 0, 32)
	for i := 1; i <= 30; i++ {
		names = append(names, fmt.Sprintf("calm%02d.mp3", i))
	}
	names = append(names, "Sweden.mp3", "wet_hands.mp3")
	touch(t, musicDir, names...)
	touch(t, recipesDir, "craft_Bread.png", "craft_cake.png")

	assert.Len(t, c.AutocompleteTracks("calm"), MaxChoices, "30 matches are capped at 25")
	assert.Len(t, c.AutocompleteTracks(""), MaxChoices)
	assert.Equal(t, []string{"Sweden"}, c.AutocompleteTracks("SWE"), "matching ignores case")
	assert.Equal(t, []string{"wet_hands"}, c.AutocompleteTracks("hand"))
	assert.Empty(t, c.AutocompleteTracks("zzz"))
	assert.Equal(t, []string{"bread"}, c.AutocompleteRecipes("BRE"))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		query      string
		expected   []string
	}{
		{name: "substring", candidates: []string{"calm1", "calm2", "hal1"}, query: "al", expected: []string{"calm1", "calm2", "hal1"}},
		{name: "case insensitive", candidates: []string{"Calm1"}, query: "cALM", expected: []string{"Calm1"}},
		{name: "no match", candidates: []string{"calm1"}, query: "piano", expected: []string{}},
		{name: "no candidates", candidates: nil, query: "x", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.candidates, tt.query))
		})
	}
}
