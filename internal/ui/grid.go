package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/paging"
	"github.com/desertthunder/mvx/internal/services"
)

// searchDebounce is how long the search input must be idle before the query
// commits and triggers a fetch.
const searchDebounce = 500 * time.Millisecond

// gridModel drives the movie listing view: debounced search, a filter sheet,
// and a paginated grid of results.
type gridModel struct {
	ctx     context.Context
	catalog services.Catalog
	keys    keyMap

	searchInput textinput.Model
	searching   bool
	query       string
	debounceSeq int

	filters models.MovieFilters
	sheet   *filterSheet
	studios []models.Studio
	genres  []models.Genre

	page      int
	pageCount int
	total     int
	movies    []models.Movie
	cursor    int
	loading   bool
	err       error

	fetchSeq    int
	fetchCancel context.CancelFunc
}

func newGridModel(ctx context.Context, catalog services.Catalog, keys keyMap) gridModel {
	input := textinput.New()
	input.Placeholder = "search movies"
	input.CharLimit = 120

	return gridModel{
		ctx:         ctx,
		catalog:     catalog,
		keys:        keys,
		searchInput: input,
		page:        1,
		pageCount:   1,
	}
}

func (m *gridModel) Init() tea.Cmd {
	return tea.Batch(m.fetchMovies(), m.fetchStudios(), m.fetchGenres())
}

// fetchMovies starts a listing fetch for the current query, filters, and page.
// The previous in-flight fetch is cancelled and its eventual response dropped
// by the sequence stamp.
func (m *gridModel) fetchMovies() tea.Cmd {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.fetchCancel = cancel
	m.fetchSeq++
	m.loading = true

	seq := m.fetchSeq
	filters := m.filters
	filters.Query = m.query
	page := m.page

	return func() tea.Msg {
		listing, err := m.catalog.ListMovies(ctx, filters, page, paging.DefaultPageSize)
		return moviesFetchedMsg{seq: seq, page: listing, err: err}
	}
}

func (m *gridModel) fetchStudios() tea.Cmd {
	return func() tea.Msg {
		studios, err := m.catalog.ListStudios(m.ctx)
		return studiosFetchedMsg{studios: studios, err: err}
	}
}

func (m *gridModel) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.catalog.ListGenres(m.ctx)
		return genresFetchedMsg{genres: genres, err: err}
	}
}

func (m *gridModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case moviesFetchedMsg:
		if msg.seq != m.fetchSeq {
			return nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return nil
		}
		m.err = nil
		m.movies = msg.page.Items
		m.total = msg.page.Total
		m.pageCount = paging.PageCount(msg.page.Total, paging.DefaultPageSize)
		if m.page > m.pageCount {
			m.page = m.pageCount
			return m.fetchMovies()
		}
		if m.cursor >= len(m.movies) {
			m.cursor = 0
		}
		return nil

	case searchDebounceMsg:
		if msg.seq != m.debounceSeq {
			return nil
		}
		if m.searchInput.Value() == m.query {
			return nil
		}
		m.query = m.searchInput.Value()
		m.page = 1
		return m.fetchMovies()

	case studiosFetchedMsg:
		if msg.err == nil {
			m.studios = msg.studios
		}
		return nil

	case genresFetchedMsg:
		if msg.err == nil {
			m.genres = msg.genres
		}
		return nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return nil
}

func (m *gridModel) handleKeys(msg tea.KeyMsg) tea.Cmd {
	if m.sheet != nil {
		return m.handleSheetKeys(msg)
	}

	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			if m.searchInput.Value() != m.query {
				m.query = m.searchInput.Value()
				m.page = 1
				return m.fetchMovies()
			}
			return nil
		}

		var cmd tea.Cmd
		before := m.searchInput.Value()
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() != before {
			m.debounceSeq++
			seq := m.debounceSeq
			debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
				return searchDebounceMsg{seq: seq}
			})
			return tea.Batch(cmd, debounce)
		}
		return cmd
	}

	switch msg.String() {
	case "/":
		m.searching = true
		return m.searchInput.Focus()
	case "f":
		m.openSheet()
		return nil
	case "r":
		return m.fetchMovies()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.movies)-1 {
			m.cursor++
		}
	case "left", "h":
		if m.page > 1 {
			m.page--
			return m.fetchMovies()
		}
	case "right", "l":
		if m.page < m.pageCount {
			m.page++
			return m.fetchMovies()
		}
	}

	return nil
}

// selectedMovie returns the movie under the cursor, or nil.
func (m *gridModel) selectedMovie() *models.Movie {
	if m.cursor < 0 || m.cursor >= len(m.movies) {
		return nil
	}
	return &m.movies[m.cursor]
}

func (m *gridModel) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Movies"))
	b.WriteString("\n")

	if m.searching || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	if label := m.filterSummary(); label != "" {
		b.WriteString(styles.help.Render("filters: " + label))
		b.WriteString("\n")
	}

	if m.sheet != nil {
		b.WriteString("\n")
		b.WriteString(m.sheet.View(m.studios, m.genres))
		return b.String()
	}

	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.loading && len(m.movies) == 0:
		b.WriteString(styles.help.Render("Loading..."))
	case len(m.movies) == 0:
		b.WriteString(styles.help.Render("No movies found"))
	default:
		for i, movie := range m.movies {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			ring := RenderRing(RatingPercent(float64(movie.Approbation), false), 10)
			fmt.Fprintf(&b, "%s%s (%d) %s %s %s\n",
				cursor,
				movie.Title,
				movie.ReleaseYear,
				formatter.FormatRuntime(movie.RuntimeMinutes),
				movie.Status,
				ring,
			)
		}

		fmt.Fprintf(&b, "\n%s  %d movies\n", pageWindow(m.page, m.pageCount), m.total)
	}

	return b.String()
}

func (m *gridModel) filterSummary() string {
	var parts []string
	if m.query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", m.query))
	}
	if m.filters.StartYear != nil || m.filters.EndYear != nil {
		parts = append(parts, fmt.Sprintf("years %s-%s", optInt(m.filters.StartYear), optInt(m.filters.EndYear)))
	}
	if m.filters.RuntimeMin != nil || m.filters.RuntimeMax != nil {
		parts = append(parts, fmt.Sprintf("runtime %s-%s", optInt(m.filters.RuntimeMin), optInt(m.filters.RuntimeMax)))
	}
	if m.filters.StudioID != "" {
		parts = append(parts, "studio "+m.studioName(m.filters.StudioID))
	}
	if m.filters.GenreID != "" {
		parts = append(parts, "genre "+m.genreName(m.filters.GenreID))
	}
	return strings.Join(parts, ", ")
}

func (m *gridModel) studioName(id string) string {
	for _, s := range m.studios {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}

func (m *gridModel) genreName(id string) string {
	for _, g := range m.genres {
		if g.ID == id {
			return g.Name
		}
	}
	return id
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// pageWindow renders the pagination footer: first page, a window around the
// current page, and the last page, with ellipses over the gaps.
func pageWindow(page, pageCount int) string {
	numbers := paging.PageNumbers(page, pageCount)

	var parts []string
	prev := 0
	for _, n := range numbers {
		if prev > 0 && n > prev+1 {
			parts = append(parts, "…")
		}
		if n == page {
			parts = append(parts, fmt.Sprintf("[%d]", n))
		} else {
			parts = append(parts, strconv.Itoa(n))
		}
		prev = n
	}
	return strings.Join(parts, " ")
}
