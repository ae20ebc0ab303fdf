package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/models"
)

// Filter sheet field positions: four numeric inputs then the two selectors.
const (
	sheetStartYear = iota
	sheetEndYear
	sheetRuntimeMin
	sheetRuntimeMax
	sheetStudio
	sheetGenre
	sheetFieldCount
)

// filterSheet edits the listing filters. Values are staged here and only
// applied to the grid on enter; esc discards them.
type filterSheet struct {
	inputs    []textinput.Model
	focus     int
	studioIdx int // 0 = any, i+1 = studios[i]
	genreIdx  int // 0 = any, i+1 = genres[i]
}

func (m *gridModel) openSheet() {
	labels := []string{"start year", "end year", "runtime min", "runtime max"}
	values := []*int{m.filters.StartYear, m.filters.EndYear, m.filters.RuntimeMin, m.filters.RuntimeMax}

	sheet := &filterSheet{}
	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label
		input.CharLimit = 4
		if values[i] != nil {
			input.SetValue(strconv.Itoa(*values[i]))
		}
		sheet.inputs = append(sheet.inputs, input)
	}
	sheet.inputs[0].Focus()

	for i, s := range m.studios {
		if s.ID == m.filters.StudioID {
			sheet.studioIdx = i + 1
		}
	}
	for i, g := range m.genres {
		if g.ID == m.filters.GenreID {
			sheet.genreIdx = i + 1
		}
	}

	m.sheet = sheet
}

func (m *gridModel) handleSheetKeys(msg tea.KeyMsg) tea.Cmd {
	sheet := m.sheet

	switch msg.String() {
	case "esc":
		m.sheet = nil
		return nil

	case "enter":
		m.filters = sheet.filters(m.studios, m.genres)
		m.sheet = nil
		m.page = 1
		return m.fetchMovies()

	case "tab", "down":
		sheet.setFocus((sheet.focus + 1) % sheetFieldCount)
		return nil

	case "shift+tab", "up":
		sheet.setFocus((sheet.focus + sheetFieldCount - 1) % sheetFieldCount)
		return nil

	case "left":
		switch sheet.focus {
		case sheetStudio:
			sheet.studioIdx = cycle(sheet.studioIdx, -1, len(m.studios)+1)
			return nil
		case sheetGenre:
			sheet.genreIdx = cycle(sheet.genreIdx, -1, len(m.genres)+1)
			return nil
		}

	case "right":
		switch sheet.focus {
		case sheetStudio:
			sheet.studioIdx = cycle(sheet.studioIdx, 1, len(m.studios)+1)
			return nil
		case sheetGenre:
			sheet.genreIdx = cycle(sheet.genreIdx, 1, len(m.genres)+1)
			return nil
		}
	}

	if sheet.focus < len(sheet.inputs) {
		var cmd tea.Cmd
		sheet.inputs[sheet.focus], cmd = sheet.inputs[sheet.focus].Update(msg)
		return cmd
	}
	return nil
}

func (s *filterSheet) setFocus(focus int) {
	s.focus = focus
	for i := range s.inputs {
		if i == focus {
			s.inputs[i].Focus()
		} else {
			s.inputs[i].Blur()
		}
	}
}

// filters builds a MovieFilters from the staged values. Non-numeric input is
// treated as unset; range clamping happens later in Normalize.
func (s *filterSheet) filters(studios []models.Studio, genres []models.Genre) models.MovieFilters {
	f := models.MovieFilters{
		StartYear:  parseOptInt(s.inputs[sheetStartYear].Value()),
		EndYear:    parseOptInt(s.inputs[sheetEndYear].Value()),
		RuntimeMin: parseOptInt(s.inputs[sheetRuntimeMin].Value()),
		RuntimeMax: parseOptInt(s.inputs[sheetRuntimeMax].Value()),
	}
	if s.studioIdx > 0 && s.studioIdx <= len(studios) {
		f.StudioID = studios[s.studioIdx-1].ID
	}
	if s.genreIdx > 0 && s.genreIdx <= len(genres) {
		f.GenreID = genres[s.genreIdx-1].ID
	}
	return f
}

func (s *filterSheet) View(studios []models.Studio, genres []models.Genre) string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Filters"))
	b.WriteString("\n")

	for i, input := range s.inputs {
		marker := "  "
		if s.focus == i {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, input.View())
	}

	studioLabel := "any"
	if s.studioIdx > 0 && s.studioIdx <= len(studios) {
		studioLabel = studios[s.studioIdx-1].Name
	}
	genreLabel := "any"
	if s.genreIdx > 0 && s.genreIdx <= len(genres) {
		genreLabel = genres[s.genreIdx-1].Name
	}

	marker := "  "
	if s.focus == sheetStudio {
		marker = "> "
	}
	fmt.Fprintf(&b, "%sstudio: ◀ %s ▶\n", marker, studioLabel)

	marker = "  "
	if s.focus == sheetGenre {
		marker = "> "
	}
	fmt.Fprintf(&b, "%sgenre: ◀ %s ▶\n", marker, genreLabel)

	b.WriteString("\n")
	b.WriteString(styles.help.Render("enter apply • esc cancel • tab next field"))
	return b.String()
}

func parseOptInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func cycle(current, delta, size int) int {
	if size <= 0 {
		return 0
	}
	return ((current+delta)%size + size) % size
}
