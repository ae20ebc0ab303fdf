package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/forms"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/services"
)

// Form text input positions, followed by the selector positions.
const (
	formTitle = iota
	formOriginalTitle
	formSubtitle
	formOverview
	formReleaseYear
	formRuntime
	formBudget
	formRevenue
	formProfit
	formTrailer
	formApprobation
	formPoster
	formInputCount
)

const (
	formRating = formInputCount + iota
	formStatus
	formStudio
	formGenres
	formFieldCount
)

// fieldNames maps input positions to the JSON field names used by validation
// so errors land under the right control.
var fieldNames = map[int]string{
	formTitle:         "title",
	formOriginalTitle: "originalTitle",
	formSubtitle:      "subtitle",
	formOverview:      "overview",
	formReleaseYear:   "releaseYear",
	formRuntime:       "runtimeMinutes",
	formBudget:        "budget",
	formRevenue:       "revenue",
	formProfit:        "profit",
	formTrailer:       "trailerYouTubeId",
	formApprobation:   "approbation",
	formPoster:        "posterFile",
}

// formModel drives movie creation and editing.
//
// Studios and genres load concurrently and fail independently: a failed load
// disables only the affected control while the rest of the form stays usable.
// Validation errors are shown per field; a failed submission keeps the input
// intact. A successful create resets the form, a successful edit keeps it.
type formModel struct {
	ctx     context.Context
	catalog services.Catalog
	keys    keyMap

	editing *models.Movie
	inputs  []textinput.Model
	focus   int

	ratingIdx int // 0 = unset, i+1 = ContentRatings()[i]
	statusIdx int // 0 = unset, i+1 = Statuses()[i]
	studioIdx int // 0 = unset, i+1 = studios[i]

	studios     []models.Studio
	studiosErr  error
	genreSelect *MultiSelect
	genresErr   error

	fieldErrs forms.FieldErrors
	submitErr error
	saving    bool
	statusMsg string
}

var formLabels = []string{
	"title", "original title", "subtitle", "overview",
	"release year", "runtime (minutes)", "budget (USD)", "revenue (USD)",
	"profit (USD)", "trailer youtube id", "approbation (1-100)", "poster file path",
}

func newFormModel(ctx context.Context, catalog services.Catalog, keys keyMap, editing *models.Movie) formModel {
	m := formModel{
		ctx:         ctx,
		catalog:     catalog,
		keys:        keys,
		editing:     editing,
		genreSelect: NewMultiSelect("genres"),
	}

	for _, label := range formLabels {
		input := textinput.New()
		input.Placeholder = label
		input.CharLimit = 500
		m.inputs = append(m.inputs, input)
	}
	m.inputs[formTitle].Focus()

	if editing != nil {
		m.populate(editing)
	}

	return m
}

// populate prefills the form from an existing movie. Money fields hold bare
// digit strings; FormatUSD is applied at render time only.
func (m *formModel) populate(movie *models.Movie) {
	m.inputs[formTitle].SetValue(movie.Title)
	m.inputs[formOriginalTitle].SetValue(movie.OriginalTitle)
	m.inputs[formSubtitle].SetValue(movie.Subtitle)
	m.inputs[formOverview].SetValue(movie.Overview)
	m.inputs[formReleaseYear].SetValue(strconv.Itoa(movie.ReleaseYear))
	if movie.RuntimeMinutes != nil {
		m.inputs[formRuntime].SetValue(strconv.Itoa(*movie.RuntimeMinutes))
	}
	if movie.Budget != nil {
		m.inputs[formBudget].SetValue(strconv.FormatInt(*movie.Budget, 10))
	}
	if movie.Revenue != nil {
		m.inputs[formRevenue].SetValue(strconv.FormatInt(*movie.Revenue, 10))
	}
	if movie.Profit != nil {
		m.inputs[formProfit].SetValue(strconv.FormatInt(*movie.Profit, 10))
	}
	m.inputs[formTrailer].SetValue(movie.TrailerYouTubeID)
	if movie.Approbation > 0 {
		m.inputs[formApprobation].SetValue(strconv.Itoa(movie.Approbation))
	}

	for i, rating := range models.ContentRatings() {
		if rating == movie.ContentRating {
			m.ratingIdx = i + 1
		}
	}
	for i, status := range models.Statuses() {
		if status == movie.Status {
			m.statusIdx = i + 1
		}
	}

	genreIDs := make([]string, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	m.genreSelect.SetSelected(genreIDs)
}

func (m *formModel) Init() tea.Cmd {
	return tea.Batch(m.fetchStudios(), m.fetchGenres())
}

func (m *formModel) fetchStudios() tea.Cmd {
	return func() tea.Msg {
		studios, err := m.catalog.ListStudios(m.ctx)
		return studiosFetchedMsg{studios: studios, err: err}
	}
}

func (m *formModel) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.catalog.ListGenres(m.ctx)
		return genresFetchedMsg{genres: genres, err: err}
	}
}

func (m *formModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case studiosFetchedMsg:
		if msg.err != nil {
			m.studiosErr = msg.err
			return nil
		}
		m.studiosErr = nil
		m.studios = msg.studios
		if m.editing != nil && m.editing.Studio != nil {
			for i, s := range m.studios {
				if s.ID == m.editing.Studio.ID {
					m.studioIdx = i + 1
				}
			}
		}
		return nil

	case genresFetchedMsg:
		if msg.err != nil {
			m.genresErr = msg.err
			m.genreSelect.SetDisabled(true)
			return nil
		}
		m.genresErr = nil
		m.genreSelect.SetDisabled(false)
		options := make([]Option, len(msg.genres))
		for i, g := range msg.genres {
			options[i] = Option{Value: g.ID, Label: g.Name}
		}
		m.genreSelect.SetOptions(options)
		return nil

	case movieSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.submitErr = msg.err
			return nil
		}

		m.submitErr = nil
		m.fieldErrs = nil
		if msg.created {
			m.reset()
			m.statusMsg = fmt.Sprintf("Created %q", msg.movie.Title)
		} else {
			m.editing = msg.movie
			m.statusMsg = fmt.Sprintf("Saved %q", msg.movie.Title)
		}
		return nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return nil
}

// reset clears every field after a successful create.
func (m *formModel) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.ratingIdx = 0
	m.statusIdx = 0
	m.studioIdx = 0
	m.genreSelect.SetSelected(nil)
	m.genreSelect.Filter("")
	m.setFocus(formTitle)
}

func (m *formModel) handleKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		if m.focus != formGenres || msg.String() == "tab" {
			m.setFocus((m.focus + 1) % formFieldCount)
			return nil
		}
	case "shift+tab":
		m.setFocus((m.focus + formFieldCount - 1) % formFieldCount)
		return nil
	}

	switch m.focus {
	case formRating:
		return m.cycleKey(msg, &m.ratingIdx, len(models.ContentRatings())+1)
	case formStatus:
		return m.cycleKey(msg, &m.statusIdx, len(models.Statuses())+1)
	case formStudio:
		return m.cycleKey(msg, &m.studioIdx, len(m.studios)+1)
	case formGenres:
		m.handleGenreKeys(msg)
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *formModel) cycleKey(msg tea.KeyMsg, idx *int, size int) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		*idx = cycle(*idx, -1, size)
	case "right", "l", " ", "enter":
		*idx = cycle(*idx, 1, size)
	}
	return nil
}

func (m *formModel) handleGenreKeys(msg tea.KeyMsg) {
	switch msg.String() {
	case "up":
		m.genreSelect.CursorUp()
		return
	case "down":
		m.genreSelect.CursorDown()
		return
	case " ", "enter":
		m.genreSelect.ToggleCursor()
		return
	case "backspace":
		query := m.genreSelect.Query()
		if query != "" {
			m.genreSelect.Filter(query[:len(query)-1])
		}
		return
	}

	if msg.Type == tea.KeyRunes {
		m.genreSelect.Filter(m.genreSelect.Query() + string(msg.Runes))
	}
}

func (m *formModel) setFocus(focus int) {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// input snapshots the form as raw validation input.
func (m *formModel) input() forms.MovieInput {
	input := forms.MovieInput{
		Title:            strings.TrimSpace(m.inputs[formTitle].Value()),
		OriginalTitle:    strings.TrimSpace(m.inputs[formOriginalTitle].Value()),
		Subtitle:         strings.TrimSpace(m.inputs[formSubtitle].Value()),
		Overview:         strings.TrimSpace(m.inputs[formOverview].Value()),
		ReleaseYear:      strings.TrimSpace(m.inputs[formReleaseYear].Value()),
		RuntimeMinutes:   strings.TrimSpace(m.inputs[formRuntime].Value()),
		Budget:           strings.TrimSpace(m.inputs[formBudget].Value()),
		Revenue:          strings.TrimSpace(m.inputs[formRevenue].Value()),
		Profit:           strings.TrimSpace(m.inputs[formProfit].Value()),
		TrailerYouTubeID: strings.TrimSpace(m.inputs[formTrailer].Value()),
		Approbation:      strings.TrimSpace(m.inputs[formApprobation].Value()),
		PosterPath:       strings.TrimSpace(m.inputs[formPoster].Value()),
		Genres:           m.genreSelect.Selected(),
	}
	if m.ratingIdx > 0 {
		input.ContentRating = string(models.ContentRatings()[m.ratingIdx-1])
	}
	if m.statusIdx > 0 {
		input.Status = string(models.Statuses()[m.statusIdx-1])
	}
	if m.studioIdx > 0 && m.studioIdx <= len(m.studios) {
		input.StudioID = m.studios[m.studioIdx-1].ID
	}
	return input
}

func (m *formModel) submit() tea.Cmd {
	if m.saving {
		return nil
	}

	input := m.input()
	payload, fieldErrs := input.Validate()
	if len(fieldErrs) > 0 {
		m.fieldErrs = fieldErrs
		m.statusMsg = ""
		return nil
	}

	m.fieldErrs = nil
	m.submitErr = nil
	m.statusMsg = ""
	m.saving = true

	editing := m.editing
	posterPath := input.PosterPath

	return func() tea.Msg {
		if editing == nil {
			movie, err := m.catalog.CreateMovie(m.ctx, payload, posterPath)
			return movieSavedMsg{movie: movie, created: true, err: err}
		}
		movie, err := m.catalog.UpdateMovie(m.ctx, editing.ID, payload, posterPath)
		return movieSavedMsg{movie: movie, created: false, err: err}
	}
}

func (m *formModel) View() string {
	var b strings.Builder

	title := "New Movie"
	if m.editing != nil {
		title = fmt.Sprintf("Edit %q", m.editing.Title)
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	for i := range m.inputs {
		marker := "  "
		if m.focus == i {
			marker = "> "
		}

		view := m.inputs[i].View()
		if (i == formBudget || i == formRevenue || i == formProfit) && !m.inputs[i].Focused() {
			if formatted := forms.ReformatUSD(m.inputs[i].Value()); formatted != "" {
				view = fmt.Sprintf("%s: %s", formLabels[i], formatted)
			}
		}
		fmt.Fprintf(&b, "%s%s\n", marker, view)

		if msg, ok := m.fieldErrs[fieldNames[i]]; ok {
			fmt.Fprintf(&b, "    %s\n", styles.err.Render(msg))
		}
	}

	b.WriteString(m.renderSelector(formRating, "rating", m.ratingLabel(), m.fieldErrs["contentRating"]))
	b.WriteString(m.renderSelector(formStatus, "status", m.statusLabel(), m.fieldErrs["status"]))

	studioLabel := m.studioLabel()
	studioErr := m.fieldErrs["studioId"]
	if m.studiosErr != nil {
		studioLabel = "unavailable"
		studioErr = "failed to load studios"
	}
	b.WriteString(m.renderSelector(formStudio, "studio", studioLabel, studioErr))

	marker := "  "
	if m.focus == formGenres {
		marker = "> "
	}
	b.WriteString(marker)
	b.WriteString(strings.ReplaceAll(m.genreSelect.View(), "\n", "\n  "))
	b.WriteString("\n")

	if m.saving {
		b.WriteString(styles.help.Render("Saving..."))
		b.WriteString("\n")
	}
	if m.submitErr != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.submitErr)))
		b.WriteString("\n")
	}
	if m.statusMsg != "" {
		b.WriteString(styles.ok.Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render("ctrl+s save • tab next field • esc back"))
	return b.String()
}

func (m *formModel) renderSelector(pos int, label, value, errMsg string) string {
	marker := "  "
	if m.focus == pos {
		marker = "> "
	}
	line := fmt.Sprintf("%s%s: ◀ %s ▶\n", marker, label, value)
	if errMsg != "" {
		line += fmt.Sprintf("    %s\n", styles.err.Render(errMsg))
	}
	return line
}

func (m *formModel) ratingLabel() string {
	if m.ratingIdx == 0 {
		return "select"
	}
	return string(models.ContentRatings()[m.ratingIdx-1])
}

func (m *formModel) statusLabel() string {
	if m.statusIdx == 0 {
		return "select"
	}
	return string(models.Statuses()[m.statusIdx-1])
}

func (m *formModel) studioLabel() string {
	if m.studioIdx == 0 || m.studioIdx > len(m.studios) {
		return "select"
	}
	return m.studios[m.studioIdx-1].Name
}
