// package forms implements validation and coercion of raw movie form input.
//
// The entry point is [MovieInput.Validate], a pure function from untyped form
// strings to either a fully typed [MoviePayload] or a set of per-field error
// messages. Typed constraints (ranges, enum membership, UUID studio IDs) are
// enforced with go-playground/validator struct tags; string-to-type coercion
// and the poster file checks happen before the validator runs.
package forms

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// MaxPosterBytes is the poster upload size limit (5 MiB).
const MaxPosterBytes = 5 * 1024 * 1024

// FieldErrors maps a field's JSON name to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no field errors"
	}
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Has reports whether the named field failed validation.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// MovieInput holds raw form values exactly as typed. Numeric and money fields
// stay strings until Validate coerces them; an empty string means "absent" for
// every optional field.
type MovieInput struct {
	Title            string
	OriginalTitle    string
	Subtitle         string
	ReleaseYear      string
	RuntimeMinutes   string
	Budget           string
	Revenue          string
	Profit           string
	Genres           []string
	PosterPath       string
	TrailerYouTubeID string
	Overview         string
	ContentRating    string
	Status           string
	StudioID         string
	Approbation      string
}

// MoviePayload is the typed create/edit payload sent to the catalog API.
type MoviePayload struct {
	Title            string               `json:"title" validate:"required"`
	OriginalTitle    string               `json:"originalTitle" validate:"required"`
	Subtitle         string               `json:"subtitle,omitempty"`
	Overview         string               `json:"overview,omitempty"`
	RuntimeMinutes   *int                 `json:"runtimeMinutes,omitempty" validate:"omitempty,gt=0"`
	ReleaseYear      int                  `json:"releaseYear" validate:"required,gte=1888,lte=2100"`
	ContentRating    models.ContentRating `json:"contentRating" validate:"required,oneof=ALL_AGES AGE_10 AGE_12 AGE_14 AGE_16 AGE_18"`
	Status           models.Status        `json:"status" validate:"required,oneof=RELEASED ANNOUNCED CANCELED IN_PRODUCTION"`
	Budget           *int64               `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Revenue          *int64               `json:"revenue,omitempty" validate:"omitempty,gte=0"`
	Profit           *int64               `json:"profit,omitempty" validate:"omitempty,gte=0"`
	StudioID         string               `json:"studioId" validate:"required,uuid"`
	TrailerYouTubeID string               `json:"trailerYouTubeId,omitempty"`
	Genres           []string             `json:"genres,omitempty"`
	Approbation      int                  `json:"approbation" validate:"required,gte=1,lte=100"`
}

var validate = newValidator()

// newValidator builds a validator that reports fields by their JSON names so
// FieldErrors keys line up with the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate coerces the raw input and validates the result.
//
// Pure with respect to program state: the only I/O is reading the poster file
// header when a poster path is present. Returns the typed payload on success,
// or a non-empty FieldErrors and a nil payload.
func (in MovieInput) Validate() (*MoviePayload, FieldErrors) {
	errs := FieldErrors{}

	payload := &MoviePayload{
		Title:            strings.TrimSpace(in.Title),
		OriginalTitle:    strings.TrimSpace(in.OriginalTitle),
		Subtitle:         strings.TrimSpace(in.Subtitle),
		Overview:         strings.TrimSpace(in.Overview),
		ContentRating:    models.ContentRating(in.ContentRating),
		Status:           models.Status(in.Status),
		StudioID:         strings.TrimSpace(in.StudioID),
		TrailerYouTubeID: strings.TrimSpace(in.TrailerYouTubeID),
		Genres:           in.Genres,
	}

	if year, ok := coerceInt(in.ReleaseYear); ok {
		payload.ReleaseYear = year
	} else if strings.TrimSpace(in.ReleaseYear) == "" {
		errs["releaseYear"] = "release year is required"
	} else {
		errs["releaseYear"] = "release year must be a whole number"
	}

	if runtime, ok, bad := coerceOptionalInt(in.RuntimeMinutes); bad {
		errs["runtimeMinutes"] = "runtime must be a whole number of minutes"
	} else if ok {
		payload.RuntimeMinutes = &runtime
	}

	payload.Budget = ParseUSD(in.Budget)
	payload.Revenue = ParseUSD(in.Revenue)
	payload.Profit = ParseUSD(in.Profit)

	if score, ok := coerceInt(in.Approbation); ok {
		payload.Approbation = score
	} else if strings.TrimSpace(in.Approbation) == "" {
		errs["approbation"] = "approval score is required"
	} else {
		errs["approbation"] = "approval score must be a whole number"
	}

	if in.PosterPath != "" {
		if msg := checkPoster(in.PosterPath); msg != "" {
			errs["posterFile"] = msg
		}
	}

	if err := validate.Struct(payload); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				// Coercion errors already explain the failure better.
				if _, seen := errs[fe.Field()]; !seen {
					errs[fe.Field()] = messageFor(fe)
				}
			}
		} else {
			errs["form"] = err.Error()
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return payload, nil
}

// checkPoster verifies the poster file's MIME type and size, returning a
// message for the first violation and "" when the file is acceptable.
// Type and size violations produce distinct messages.
func checkPoster(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("poster file not readable: %v", err)
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Sprintf("poster file not readable: %v", err)
	}
	if !mime.Is("image/jpeg") && !mime.Is("image/png") {
		return "poster must be a JPEG or PNG image"
	}

	if info.Size() > MaxPosterBytes {
		return "poster must be 5MB or smaller"
	}

	return ""
}

// messageFor converts a validator error into the message surfaced next to the field.
func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "title":
		return "title is required"
	case "originalTitle":
		return "original title is required"
	case "releaseYear":
		return "release year must be between 1888 and 2100"
	case "runtimeMinutes":
		return "runtime must be greater than zero"
	case "contentRating":
		return "select a valid content rating"
	case "status":
		return "select a valid status"
	case "budget", "revenue", "profit":
		return fe.Field() + " must not be negative"
	case "studioId":
		return "select a valid studio"
	case "approbation":
		return "approval score must be between 1 and 100"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func coerceInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// coerceOptionalInt treats "" as absent: (0, false, false). A present but
// unparseable value reports bad=true.
func coerceOptionalInt(s string) (n int, ok bool, bad bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false, true
	}
	return n, true, false
}
