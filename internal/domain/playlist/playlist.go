// Package playlist provides paged listings of catalog entries.
package playlist

// Playlist is a named, ordered list of entries shown page by page.
type Playlist struct {
	Name  string
	Items []string
}

// Page is one page of a playlist. Number is 1-based.
type Page struct {
	Number int
	Total  int
	Items  []string
}

// HasPrevious reports whether a page exists before this one.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// HasNext reports whether a page exists after this one.
func (p Page) HasNext() bool {
	return p.Number < p.Total
}

// PageCount returns the number of pages for the given page size.
func (p *Playlist) PageCount(size int) int {
	if size <= 0 || len(p.Items) == 0 {
		return 0
	}
	return (len(p.Items) + size - 1) / size
}

// Page returns the page with the given 1-based number, clamped to the valid range.
// The second return value is false when the playlist is empty.
func (p *Playlist) Page(number, size int) (Page, bool) {
	total := p.PageCount(size)
	if total == 0 {
		return Page{}, false
	}
	if number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}

	start := (number - 1) * size
	end := start + size
	if end > len(p.Items) {
		end = len(p.Items)
	}

	items := make([]string, end-start)
	copy(items, p.Items[start:end])
	return Page{Number: number, Total: total, Items: items}, true
}

// Pages returns every page of the playlist.
func (p *Playlist) Pages(size int) []Page {
	total := p.PageCount(size)
	pages := make([]Page, 0, total)
	for i := 1; i <= total; i++ {
		page, _ := p.Page(i, size)
		pages = append(pages, page)
	}
	return pages
}
