package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/domain/chat"
	"github.com/osa030/noteblock/internal/domain/playlist"
	"github.com/osa030/noteblock/internal/infra/catalog"
)

func (d *Dispatcher) help(ctx context.Context, req Request) (chat.Message, error) {
	fields := make([]chat.Field, 0, len(d.commands))
	for _, c := range d.commands {
		fields = append(fields, chat.Field{Name: "/" + c.Name, Value: c.Description})
	}
	return chat.Message{Embed: &chat.Embed{
		Title:       titleHelp,
		Description: descHelp,
		Color:       chat.ColorBlurple,
		Fields:      fields,
	}}, nil
}

func (d *Dispatcher) ping(ctx context.Context, req Request) (chat.Message, error) {
	return chat.Message{Content: pingResponses[d.config.Intn(len(pingResponses))]}, nil
}

func (d *Dispatcher) randomFact(ctx context.Context, req Request) (chat.Message, error) {
	return chat.Message{Content: facts[d.config.Intn(len(facts))]}, nil
}

func (d *Dispatcher) musicList(ctx context.Context, req Request) (chat.Message, error) {
	return d.musicListPage(1)
}

// musicListPage renders one page of the track list with Previous/Next buttons.
// The buttons carry the page they lead to, so no per-message state is kept.
func (d *Dispatcher) musicListPage(number int) (chat.Message, error) {
	if !d.catalog.HasMusicDir() {
		return chat.Message{}, failWith(apperr.NotFound("music dir missing"), notice(msgMusicDirMissing, true))
	}

	pl := playlist.Playlist{Name: "music", Items: d.catalog.ListTracks()}
	page, ok := pl.Page(number, d.config.PageSize)
	if !ok {
		return chat.Message{}, failWith(apperr.Empty("no tracks"), notice(msgNoSongs, true))
	}

	return chat.Message{
		Embed: &chat.Embed{
			Title:       titleMusicList,
			Description: strings.Join(page.Items, "\n"),
			Footer:      fmt.Sprintf(footerPage, page.Number, page.Total),
			Color:       chat.ColorBlue,
		},
		Buttons: []chat.Button{
			{Label: "Previous", CustomID: MusicListButtonPrefix + strconv.Itoa(page.Number-1), Disabled: !page.HasPrevious()},
			{Label: "Next", CustomID: MusicListButtonPrefix + strconv.Itoa(page.Number+1), Disabled: !page.HasNext()},
		},
	}, nil
}

func (d *Dispatcher) recipe(ctx context.Context, req Request) (chat.Message, error) {
	item := req.Option(optItem)

	r, err := d.catalog.ResolveRecipe(item)
	if err != nil {
		return chat.Message{}, failWith(err, notice(fmt.Sprintf(msgRecipeNotFound, item), false))
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		return chat.Message{}, errors.Wrapf(err, "failed to read recipe %s", r.FileName)
	}

	return chat.Message{
		Content: fmt.Sprintf(titleRecipe, cases.Title(language.English).String(r.DisplayName())),
		File:    &chat.File{Name: r.FileName, Reader: bytes.NewReader(data)},
	}, nil
}

// matchQueued returns distinct queued IDs matching query.
func matchQueued(queued []string, query string) []string {
	seen := make(map[string]bool, len(queued))
	distinct := make([]string, 0, len(queued))
	for _, id := range queued {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	return catalog.Match(distinct, query)
}
