package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/models"
)

// detailModel renders a single movie's metrics panel.
type detailModel struct {
	movie   *models.Movie
	loading bool
	err     error
}

func (m *detailModel) View() string {
	if m.loading {
		return styles.help.Render("Loading...")
	}
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back", m.err))
	}
	if m.movie == nil {
		return styles.help.Render("No movie selected")
	}

	movie := m.movie
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("%s (%d)", movie.Title, movie.ReleaseYear)))
	b.WriteString("\n")

	if movie.Subtitle != "" {
		b.WriteString(styles.help.Render(movie.Subtitle))
		b.WriteString("\n")
	}
	if movie.Overview != "" {
		b.WriteString("\n")
		b.WriteString(movie.Overview)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	pct := RatingPercent(float64(movie.Approbation), false)
	fmt.Fprintf(&b, "Approbation  %s\n", RenderRing(pct, 10))
	fmt.Fprintf(&b, "Runtime      %s\n", formatter.FormatRuntime(movie.RuntimeMinutes))
	fmt.Fprintf(&b, "Status       %s\n", movie.Status)
	fmt.Fprintf(&b, "Rating       %s\n", movie.ContentRating)
	fmt.Fprintf(&b, "Budget       %s\n", formatter.MoneyUSD(movie.Budget))
	fmt.Fprintf(&b, "Revenue      %s\n", formatter.MoneyUSD(movie.Revenue))
	fmt.Fprintf(&b, "Profit       %s\n", formatter.MoneyUSD(movie.Profit))

	if movie.Studio != nil {
		fmt.Fprintf(&b, "Studio       %s\n", movie.Studio.Name)
	}
	if names := movie.GenreNames(); len(names) > 0 {
		fmt.Fprintf(&b, "Genres       %s\n", strings.Join(names, ", "))
	}
	if movie.TrailerYouTubeID != "" {
		fmt.Fprintf(&b, "Trailer      https://youtu.be/%s\n", movie.TrailerYouTubeID)
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render("e edit • d delete • esc back • q quit"))
	return b.String()
}
