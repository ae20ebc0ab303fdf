package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	GridView
	DetailView
	FormView
	ConfirmView
)

// Callbacks let the CLI layer react to auth state changes: persisting the
// session and attaching the bearer token on login, clearing both on logout.
type Callbacks struct {
	OnLogin  func(auth *models.AuthResponse) error
	OnLogout func()
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	catalog services.Catalog
	auth    services.Auth
	cb      Callbacks

	view       ViewState
	returnView ViewState

	grid          gridModel
	form          *formModel
	login         loginModel
	detail        detailModel
	pendingDelete *models.Movie

	width  int
	height int
	help   help.Model
	keys   keyMap
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
// authenticated controls whether the session starts on the grid or the login view.
func NewModel(ctx context.Context, catalog services.Catalog, auth services.Auth, authenticated bool, cb Callbacks) *Model {
	keys := newKeyMap()

	view := LoginView
	if authenticated {
		view = GridView
	}

	return &Model{
		ctx:        ctx,
		catalog:    catalog,
		auth:       auth,
		cb:         cb,
		view:       view,
		returnView: GridView,
		grid:       newGridModel(ctx, catalog, keys),
		login:      newLoginModel(ctx, auth, keys),
		help:       help.New(),
		keys:       keys,
	}
}

// Init loads the movie grid when a session already exists.
func (m *Model) Init() tea.Cmd {
	if m.view == GridView {
		return m.grid.Init()
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case loginDoneMsg:
		if msg.err == nil {
			if m.cb.OnLogin != nil {
				if err := m.cb.OnLogin(msg.auth); err != nil {
					m.login.pending = false
					m.login.err = err
					return m, nil
				}
			}
			m.login.pending = false
			m.view = m.returnView
			return m, m.grid.Init()
		}
		return m, m.login.Update(msg)

	case registerDoneMsg:
		return m, m.login.Update(msg)

	case moviesFetchedMsg:
		if m.sessionExpired(msg.err, GridView) {
			return m, nil
		}
		return m, m.grid.Update(msg)

	case searchDebounceMsg:
		return m, m.grid.Update(msg)

	case studiosFetchedMsg, genresFetchedMsg:
		// Both the grid's filter sheet and the form consume reference data.
		cmd := m.grid.Update(msg)
		if m.form != nil {
			return m, tea.Batch(cmd, m.form.Update(msg))
		}
		return m, cmd

	case movieFetchedMsg:
		if m.sessionExpired(msg.err, DetailView) {
			return m, nil
		}
		m.detail.loading = false
		m.detail.movie = msg.movie
		m.detail.err = msg.err
		return m, nil

	case movieSavedMsg:
		if m.sessionExpired(msg.err, FormView) {
			return m, nil
		}
		if m.form != nil {
			return m, m.form.Update(msg)
		}
		return m, nil

	case movieDeletedMsg:
		if m.sessionExpired(msg.err, GridView) {
			return m, nil
		}
		m.pendingDelete = nil
		if msg.err != nil {
			m.err = msg.err
			m.view = GridView
			return m, nil
		}
		m.err = nil
		m.view = GridView
		return m, m.grid.fetchMovies()
	}

	return m, nil
}

// sessionExpired redirects to the login view when the API rejects the stored
// token. The interrupted view is preserved and restored after the next login.
func (m *Model) sessionExpired(err error, returnTo ViewState) bool {
	if err == nil || !errors.Is(err, shared.ErrSessionExpired) {
		return false
	}

	if m.cb.OnLogout != nil {
		m.cb.OnLogout()
	}

	m.returnView = returnTo
	m.view = LoginView
	m.login.pending = false
	m.login.notice = "Session expired, log in again"
	return true
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case LoginView:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.login.Update(msg)

	case GridView:
		return m.handleGridKeys(msg)

	case DetailView:
		return m.handleDetailKeys(msg)

	case FormView:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "esc" {
			m.form = nil
			m.view = GridView
			return m, m.grid.fetchMovies()
		}
		if m.form != nil {
			return m, m.form.Update(msg)
		}
		return m, nil

	case ConfirmView:
		return m.handleConfirmKeys(msg)
	}

	return m, nil
}

func (m *Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search and the filter sheet capture all keys while active.
	if m.grid.searching || m.grid.sheet != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.grid.Update(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "enter":
		if movie := m.grid.selectedMovie(); movie != nil {
			m.view = DetailView
			m.detail = detailModel{loading: true}
			return m, m.fetchMovie(movie.ID)
		}
		return m, nil

	case "n":
		form := newFormModel(m.ctx, m.catalog, m.keys, nil)
		m.form = &form
		m.view = FormView
		return m, m.form.Init()

	case "e":
		if movie := m.grid.selectedMovie(); movie != nil {
			form := newFormModel(m.ctx, m.catalog, m.keys, movie)
			m.form = &form
			m.view = FormView
			return m, m.form.Init()
		}
		return m, nil

	case "d":
		if movie := m.grid.selectedMovie(); movie != nil {
			m.pendingDelete = movie
			m.view = ConfirmView
		}
		return m, nil
	}

	return m, m.grid.Update(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.view = GridView
		return m, nil

	case "e":
		if m.detail.movie != nil {
			form := newFormModel(m.ctx, m.catalog, m.keys, m.detail.movie)
			m.form = &form
			m.view = FormView
			return m, m.form.Init()
		}
		return m, nil

	case "d":
		if m.detail.movie != nil {
			m.pendingDelete = m.detail.movie
			m.view = ConfirmView
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if m.pendingDelete != nil {
			id := m.pendingDelete.ID
			return m, func() tea.Msg {
				err := m.catalog.DeleteMovie(m.ctx, id)
				return movieDeletedMsg{id: id, err: err}
			}
		}
		m.view = GridView
		return m, nil

	case "n", "esc":
		m.pendingDelete = nil
		m.view = GridView
		return m, nil

	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) fetchMovie(id string) tea.Cmd {
	return func() tea.Msg {
		movie, err := m.catalog.GetMovie(m.ctx, id)
		return movieFetchedMsg{movie: movie, err: err}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.login.View()
	case GridView:
		view := m.grid.View()
		if m.err != nil {
			view += "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
		}
		return view
	case DetailView:
		return m.detail.View()
	case FormView:
		if m.form != nil {
			return m.form.View()
		}
		return ""
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) renderConfirm() string {
	if m.pendingDelete == nil {
		return ""
	}

	title := styles.title.Render(fmt.Sprintf("Delete %q?", m.pendingDelete.Title))
	info := fmt.Sprintf("\n%s (%d) will be removed from the catalog.\n", m.pendingDelete.Title, m.pendingDelete.ReleaseYear)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}
