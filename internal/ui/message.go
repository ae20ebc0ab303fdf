package ui

import (
	"github.com/desertthunder/mvx/internal/models"
)

// moviesFetchedMsg carries one listing page. seq identifies the fetch that
// produced it; stale sequences are dropped.
type moviesFetchedMsg struct {
	seq  int
	page *models.MoviePage
	err  error
}

// searchDebounceMsg fires when the search debounce window elapses. Only the
// message matching the latest keystroke sequence commits the query.
type searchDebounceMsg struct {
	seq int
}

type movieFetchedMsg struct {
	movie *models.Movie
	err   error
}

type studiosFetchedMsg struct {
	studios []models.Studio
	err     error
}

type genresFetchedMsg struct {
	genres []models.Genre
	err    error
}

type movieSavedMsg struct {
	movie   *models.Movie
	created bool
	err     error
}

type movieDeletedMsg struct {
	id  string
	err error
}

type loginDoneMsg struct {
	auth *models.AuthResponse
	err  error
}

type registerDoneMsg struct {
	user *models.User
	err  error
}
