package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
	apptesting "github.com/desertthunder/mvx/internal/testing"
)

func testModel(catalog *apptesting.MockCatalog, cb Callbacks) *Model {
	auth := &apptesting.MockAuth{}
	return NewModel(context.Background(), catalog, auth, true, cb)
}

func TestModel(t *testing.T) {
	t.Run("starts on the login view without a session", func(t *testing.T) {
		m := NewModel(context.Background(), &apptesting.MockCatalog{}, &apptesting.MockAuth{}, false, Callbacks{})
		if m.view != LoginView {
			t.Errorf("expected LoginView, got %v", m.view)
		}
		if m.Init() != nil {
			t.Error("expected no initial fetch before login")
		}
	})

	t.Run("expired session redirects to login and preserves the view", func(t *testing.T) {
		loggedOut := false
		m := testModel(&apptesting.MockCatalog{}, Callbacks{OnLogout: func() { loggedOut = true }})

		expired := fmt.Errorf("listing movies: %w", shared.ErrSessionExpired)
		m.Update(moviesFetchedMsg{seq: m.grid.fetchSeq, err: expired})

		if !loggedOut {
			t.Error("expected the logout callback to fire")
		}
		if m.view != LoginView {
			t.Errorf("expected LoginView, got %v", m.view)
		}
		if m.returnView != GridView {
			t.Errorf("expected GridView return target, got %v", m.returnView)
		}
		if !strings.Contains(m.login.View(), "Session expired") {
			t.Error("expected the session notice on the login view")
		}
	})

	t.Run("login returns to the interrupted view", func(t *testing.T) {
		var token string
		m := testModel(&apptesting.MockCatalog{}, Callbacks{
			OnLogin: func(auth *models.AuthResponse) error {
				token = auth.AccessToken
				return nil
			},
		})

		expired := fmt.Errorf("saving movie: %w", shared.ErrSessionExpired)
		m.Update(movieSavedMsg{err: expired})
		if m.returnView != FormView {
			t.Fatalf("expected FormView return target, got %v", m.returnView)
		}

		m.Update(loginDoneMsg{auth: &models.AuthResponse{AccessToken: "token-abc"}})
		if token != "token-abc" {
			t.Errorf("expected login callback with token, got %q", token)
		}
		if m.view != FormView {
			t.Errorf("expected return to FormView, got %v", m.view)
		}
	})

	t.Run("delete confirmation", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{
			Movies: []models.Movie{{ID: "m1", Title: "Dune", ReleaseYear: 2021}},
		}
		m := testModel(catalog, Callbacks{})
		m.Update(moviesFetchedMsg{seq: m.grid.fetchSeq, page: &models.MoviePage{
			Items: catalog.Movies, Total: 1,
		}})

		t.Run("n cancels without deleting", func(t *testing.T) {
			m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
			if m.view != ConfirmView {
				t.Fatalf("expected ConfirmView, got %v", m.view)
			}
			if !strings.Contains(m.View(), `Delete "Dune"?`) {
				t.Error("expected confirmation prompt")
			}

			m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
			if m.view != GridView {
				t.Errorf("expected GridView after cancel, got %v", m.view)
			}
			if len(catalog.Deleted) != 0 {
				t.Errorf("cancel must not delete, got %v", catalog.Deleted)
			}
		})

		t.Run("y deletes and refreshes the listing", func(t *testing.T) {
			m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
			if cmd == nil {
				t.Fatal("expected a delete command")
			}

			msg := cmd()
			deleted, ok := msg.(movieDeletedMsg)
			if !ok {
				t.Fatalf("expected movieDeletedMsg, got %T", msg)
			}
			if deleted.id != "m1" {
				t.Errorf("expected m1 deleted, got %q", deleted.id)
			}
			if len(catalog.Deleted) != 1 || catalog.Deleted[0] != "m1" {
				t.Errorf("expected delete call for m1, got %v", catalog.Deleted)
			}

			_, refetch := m.Update(deleted)
			if m.view != GridView {
				t.Errorf("expected GridView after delete, got %v", m.view)
			}
			if refetch == nil {
				t.Error("expected a listing refresh after delete")
			}
		})
	})

	t.Run("enter opens the detail view for the selected movie", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{
			Movies: []models.Movie{{ID: "m1", Title: "Dune", ReleaseYear: 2021}},
			Movie:  &models.Movie{ID: "m1", Title: "Dune", ReleaseYear: 2021, Approbation: 84},
		}
		m := testModel(catalog, Callbacks{})
		m.Update(moviesFetchedMsg{seq: m.grid.fetchSeq, page: &models.MoviePage{
			Items: catalog.Movies, Total: 1,
		}})

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != DetailView {
			t.Fatalf("expected DetailView, got %v", m.view)
		}
		if cmd == nil {
			t.Fatal("expected a fetch command")
		}

		m.Update(cmd())
		if m.detail.movie == nil || m.detail.movie.Title != "Dune" {
			t.Errorf("expected detail movie, got %+v", m.detail.movie)
		}
		if !strings.Contains(m.View(), "Dune (2021)") {
			t.Error("expected detail header in view")
		}
	})

	t.Run("esc in the form returns to the grid", func(t *testing.T) {
		m := testModel(&apptesting.MockCatalog{}, Callbacks{})
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		if m.view != FormView {
			t.Fatalf("expected FormView, got %v", m.view)
		}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != GridView {
			t.Errorf("expected GridView after esc, got %v", m.view)
		}
		if cmd == nil {
			t.Error("expected a listing refresh after leaving the form")
		}
	})
}
