// package models defines the data model for the mvx catalog admin client
package models

import (
	"time"
)

// Model defines the base interface for all persistent models stored in the local database.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// ContentRating is the movie content-rating classification used by the catalog API.
type ContentRating string

const (
	RatingAllAges ContentRating = "ALL_AGES"
	RatingAge10   ContentRating = "AGE_10"
	RatingAge12   ContentRating = "AGE_12"
	RatingAge14   ContentRating = "AGE_14"
	RatingAge16   ContentRating = "AGE_16"
	RatingAge18   ContentRating = "AGE_18"
)

// ContentRatings lists every valid content rating in display order.
func ContentRatings() []ContentRating {
	return []ContentRating{RatingAllAges, RatingAge10, RatingAge12, RatingAge14, RatingAge16, RatingAge18}
}

// Valid reports whether c is one of the fixed content ratings.
func (c ContentRating) Valid() bool {
	for _, r := range ContentRatings() {
		if c == r {
			return true
		}
	}
	return false
}

// Status is the movie release status used by the catalog API.
type Status string

const (
	StatusReleased     Status = "RELEASED"
	StatusAnnounced    Status = "ANNOUNCED"
	StatusCanceled     Status = "CANCELED"
	StatusInProduction Status = "IN_PRODUCTION"
)

// Statuses lists every valid status in display order.
func Statuses() []Status {
	return []Status{StatusReleased, StatusAnnounced, StatusCanceled, StatusInProduction}
}

// Valid reports whether s is one of the fixed statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses() {
		if s == st {
			return true
		}
	}
	return false
}

// Studio represents a production studio, read-only reference data fetched from the catalog API.
type Studio struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Genre represents a movie genre, read-only reference data fetched from the catalog API.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Movie represents one catalog entry as returned by the external API.
type Movie struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	OriginalTitle    string        `json:"originalTitle"`
	Subtitle         string        `json:"subtitle,omitempty"`
	Overview         string        `json:"overview,omitempty"`
	RuntimeMinutes   *int          `json:"runtimeMinutes,omitempty"`
	ReleaseYear      int           `json:"releaseYear"`
	ReleaseDate      string        `json:"releaseDate,omitempty"`
	ContentRating    ContentRating `json:"contentRating"`
	Status           Status        `json:"status"`
	Budget           *int64        `json:"budget,omitempty"`
	Revenue          *int64        `json:"revenue,omitempty"`
	Profit           *int64        `json:"profit,omitempty"`
	Studio           *Studio       `json:"studio,omitempty"`
	PosterURL        string        `json:"posterUrl,omitempty"`
	BackdropURL      string        `json:"backdropUrl,omitempty"`
	TrailerYouTubeID string        `json:"trailerYouTubeId,omitempty"`
	Genres           []Genre       `json:"genres,omitempty"`
	Approbation      int           `json:"approbation,omitempty"`
	CreatedAt        string        `json:"createdAt,omitempty"`
	UpdatedAt        string        `json:"updatedAt,omitempty"`
}

// GenreNames returns the display names of the movie's genres in stored order.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// MoviePage is one page of a filtered listing, already normalized to items + total.
type MoviePage struct {
	Items []Movie `json:"items"`
	Total int     `json:"total"`
}

// CatalogExport bundles a snapshot of the movie listing for file export.
type CatalogExport struct {
	Name    string  `json:"name"`
	Filters string  `json:"filters,omitempty"`
	Movies  []Movie `json:"movies"`
}

// MovieFilters holds the ephemeral listing filters. Nil fields mean "not filtered".
type MovieFilters struct {
	Query      string
	StartYear  *int
	EndYear    *int
	RuntimeMin *int
	RuntimeMax *int
	StudioID   string
	GenreID    string
}

// Year and runtime bounds enforced on filters and form input.
const (
	MinReleaseYear   = 1888
	MaxReleaseYear   = 2100
	MaxRuntimeFilter = 300
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize clamps year bounds to [1888, 2100] and runtime bounds to [0, 300],
// and swaps inverted ranges so min <= max always holds.
func (f MovieFilters) Normalize() MovieFilters {
	out := f
	if out.StartYear != nil {
		y := clamp(*out.StartYear, MinReleaseYear, MaxReleaseYear)
		out.StartYear = &y
	}
	if out.EndYear != nil {
		y := clamp(*out.EndYear, MinReleaseYear, MaxReleaseYear)
		out.EndYear = &y
	}
	if out.StartYear != nil && out.EndYear != nil && *out.StartYear > *out.EndYear {
		out.StartYear, out.EndYear = out.EndYear, out.StartYear
	}
	if out.RuntimeMin != nil {
		r := clamp(*out.RuntimeMin, 0, MaxRuntimeFilter)
		out.RuntimeMin = &r
	}
	if out.RuntimeMax != nil {
		r := clamp(*out.RuntimeMax, 0, MaxRuntimeFilter)
		out.RuntimeMax = &r
	}
	if out.RuntimeMin != nil && out.RuntimeMax != nil && *out.RuntimeMin > *out.RuntimeMax {
		out.RuntimeMin, out.RuntimeMax = out.RuntimeMax, out.RuntimeMin
	}
	return out
}

// IsZero reports whether no filter is set.
func (f MovieFilters) IsZero() bool {
	return f.Query == "" && f.StartYear == nil && f.EndYear == nil &&
		f.RuntimeMin == nil && f.RuntimeMax == nil && f.StudioID == "" && f.GenreID == ""
}

// User represents an authenticated catalog user.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// AuthResponse is the login response from the catalog API.
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
