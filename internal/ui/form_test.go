package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/mvx/internal/models"
	apptesting "github.com/desertthunder/mvx/internal/testing"
)

const testStudioID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func refData() (studios []models.Studio, genres []models.Genre) {
	studios = []models.Studio{{ID: testStudioID, Name: "Warner Bros"}}
	genres = []models.Genre{{ID: "g1", Name: "Drama"}, {ID: "g2", Name: "Science Fiction"}}
	return studios, genres
}

func filledForm(catalog *apptesting.MockCatalog) formModel {
	m := newFormModel(context.Background(), catalog, newKeyMap(), nil)

	studios, genres := refData()
	m.Update(studiosFetchedMsg{studios: studios})
	m.Update(genresFetchedMsg{genres: genres})

	m.inputs[formTitle].SetValue("Dune")
	m.inputs[formOriginalTitle].SetValue("Dune")
	m.inputs[formReleaseYear].SetValue("2021")
	m.inputs[formApprobation].SetValue("84")
	m.ratingIdx = 1 // ALL_AGES
	m.statusIdx = 1 // RELEASED
	m.studioIdx = 1
	return m
}

func TestFormModel(t *testing.T) {
	t.Run("validation failure keeps input and shows field errors", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{}
		m := filledForm(catalog)
		m.inputs[formReleaseYear].SetValue("1800")

		if cmd := m.submit(); cmd != nil {
			t.Fatal("expected no save command for invalid input")
		}
		if !m.fieldErrs.Has("releaseYear") {
			t.Errorf("expected a releaseYear error, got %v", m.fieldErrs)
		}
		if m.inputs[formReleaseYear].Value() != "1800" {
			t.Error("validation failure cleared the input")
		}
	})

	t.Run("successful create resets the form", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{}
		m := filledForm(catalog)
		m.genreSelect.Toggle("g2")

		cmd := m.submit()
		if cmd == nil {
			t.Fatalf("expected a save command, got field errors: %v", m.fieldErrs)
		}

		msg := cmd()
		saved, ok := msg.(movieSavedMsg)
		if !ok {
			t.Fatalf("expected movieSavedMsg, got %T", msg)
		}
		if !saved.created {
			t.Error("expected a create save")
		}

		m.Update(saved)
		if m.inputs[formTitle].Value() != "" {
			t.Error("expected form reset after create")
		}
		if len(m.genreSelect.Selected()) != 0 {
			t.Error("expected genre selection cleared after create")
		}
		if !strings.Contains(m.statusMsg, "Created") {
			t.Errorf("expected create status message, got %q", m.statusMsg)
		}
	})

	t.Run("successful edit keeps the values", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{}
		studios, genres := refData()

		year := 2021
		movie := &models.Movie{
			ID:            "m1",
			Title:         "Dune",
			OriginalTitle: "Dune",
			ReleaseYear:   year,
			ContentRating: models.RatingAge12,
			Status:        models.StatusReleased,
			Studio:        &studios[0],
			Genres:        []models.Genre{genres[1]},
			Approbation:   84,
		}

		m := newFormModel(context.Background(), catalog, newKeyMap(), movie)
		m.Update(studiosFetchedMsg{studios: studios})
		m.Update(genresFetchedMsg{genres: genres})

		if m.inputs[formTitle].Value() != "Dune" {
			t.Error("expected edit form to be pre-populated")
		}
		if m.studioIdx != 1 {
			t.Errorf("expected studio preselected, got idx %d", m.studioIdx)
		}
		if got := m.genreSelect.Selected(); len(got) != 1 || got[0] != "g2" {
			t.Errorf("expected genre preselected, got %v", got)
		}

		cmd := m.submit()
		if cmd == nil {
			t.Fatalf("expected a save command, got field errors: %v", m.fieldErrs)
		}

		m.Update(cmd())
		if m.inputs[formTitle].Value() != "Dune" {
			t.Error("expected edit form to keep values after save")
		}
		if !strings.Contains(m.statusMsg, "Saved") {
			t.Errorf("expected save status message, got %q", m.statusMsg)
		}
	})

	t.Run("failed save keeps input intact", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{Err: errors.New("boom")}
		m := filledForm(catalog)

		cmd := m.submit()
		if cmd == nil {
			t.Fatalf("expected a save command, got field errors: %v", m.fieldErrs)
		}

		m.Update(cmd())
		if m.submitErr == nil {
			t.Error("expected a submit error")
		}
		if m.inputs[formTitle].Value() != "Dune" {
			t.Error("failed save cleared the input")
		}
	})

	t.Run("genre load failure disables only the genre control", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{}
		m := newFormModel(context.Background(), catalog, newKeyMap(), nil)

		studios, _ := refData()
		m.Update(studiosFetchedMsg{studios: studios})
		m.Update(genresFetchedMsg{err: errors.New("service down")})

		if !m.genreSelect.Disabled() {
			t.Error("expected genre control disabled")
		}
		if m.studiosErr != nil {
			t.Error("studio control should be unaffected")
		}

		// submission of the unaffected fields still works
		m.inputs[formTitle].SetValue("Dune")
		m.inputs[formOriginalTitle].SetValue("Dune")
		m.inputs[formReleaseYear].SetValue("2021")
		m.inputs[formApprobation].SetValue("84")
		m.ratingIdx = 1
		m.statusIdx = 1
		m.studioIdx = 1

		if cmd := m.submit(); cmd == nil {
			t.Errorf("expected submission to proceed without genres, got field errors: %v", m.fieldErrs)
		}
	})

	t.Run("studio load failure shows a field-local error", func(t *testing.T) {
		catalog := &apptesting.MockCatalog{}
		m := newFormModel(context.Background(), catalog, newKeyMap(), nil)

		m.Update(studiosFetchedMsg{err: errors.New("service down")})
		if m.studiosErr == nil {
			t.Fatal("expected studio load error to be recorded")
		}
		if view := m.View(); !strings.Contains(view, "failed to load studios") {
			t.Error("expected studio error rendered in the form")
		}
	})
}
