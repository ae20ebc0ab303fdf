package formatter

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/mvx/internal/models"
	apptesting "github.com/desertthunder/mvx/internal/testing"
)

func ptr[T any](v T) *T { return &v }

func testExport() *models.CatalogExport {
	return &models.CatalogExport{
		Name:    "catalog",
		Filters: "q=dune",
		Movies: []models.Movie{
			{
				ID:             "m1",
				Title:          "Dune",
				OriginalTitle:  "Dune",
				ReleaseYear:    2021,
				RuntimeMinutes: ptr(155),
				ContentRating:  models.RatingAge12,
				Status:         models.StatusReleased,
				Studio:         &models.Studio{ID: "s1", Name: "Warner Bros"},
				Genres:         []models.Genre{{ID: "g1", Name: "Science Fiction"}, {ID: "g2", Name: "Adventure"}},
				Approbation:    84,
			},
			{
				ID:            "m2",
				Title:         "Dune: Part Two",
				OriginalTitle: "Dune: Part Two",
				ReleaseYear:   2024,
				ContentRating: models.RatingAge12,
				Status:        models.StatusAnnounced,
				Approbation:   90,
			},
		},
	}
}

func TestFormatRuntime(t *testing.T) {
	tests := []struct {
		name    string
		minutes *int
		want    string
	}{
		{"absent", nil, "-"},
		{"zero", ptr(0), "-"},
		{"sub hour", ptr(45), "45m"},
		{"exact hour", ptr(120), "2h 0m"},
		{"hours and minutes", ptr(166), "2h 46m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatRuntime(tc.minutes); got != tc.want {
				t.Errorf("FormatRuntime(%v) = %q, want %q", tc.minutes, got, tc.want)
			}
		})
	}
}

func TestMoneyUSD(t *testing.T) {
	if got := MoneyUSD(nil); got != "-" {
		t.Errorf("expected '-' for absent amount, got %q", got)
	}
	if got := MoneyUSD(ptr(int64(165000000))); got != "$165,000,000" {
		t.Errorf("unexpected formatting: %q", got)
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(testExport())
	if err != nil {
		t.Fatalf("failed to generate CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse generated CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 records, got %d rows", len(records))
	}
	if records[0][0] != "ID" || records[0][8] != "Genres" {
		t.Errorf("unexpected headers: %v", records[0])
	}
	if records[1][1] != "Dune" || records[1][4] != "2h 35m" {
		t.Errorf("unexpected first record: %v", records[1])
	}
	if records[1][8] != "Science Fiction; Adventure" {
		t.Errorf("expected genres joined in order, got %q", records[1][8])
	}
	if records[2][4] != "-" || records[2][7] != "" {
		t.Errorf("expected absent runtime and studio rendered empty: %v", records[2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("Without Image", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport(), "")
		if err != nil {
			t.Fatalf("failed to generate Markdown: %v", err)
		}

		md := string(data)
		if !strings.Contains(md, "# catalog") {
			t.Error("expected title heading")
		}
		if !strings.Contains(md, "**Filters**: q=dune") {
			t.Error("expected filters line")
		}
		if !strings.Contains(md, "1. Dune (2021) - Warner Bros [2h 35m]") {
			t.Errorf("unexpected movie line in:\n%s", md)
		}
		if strings.Contains(md, "![Poster]") {
			t.Error("did not expect poster reference")
		}
	})

	t.Run("With Image", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport(), "poster.jpg")
		if err != nil {
			t.Fatalf("failed to generate Markdown: %v", err)
		}
		if !strings.Contains(string(data), "![Poster](poster.jpg)") {
			t.Error("expected poster reference")
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(testExport())
	if err != nil {
		t.Fatalf("failed to generate text: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Catalog: catalog") {
		t.Error("expected catalog header")
	}
	if !strings.Contains(text, "2. Dune: Part Two (2024) - ANNOUNCED") {
		t.Errorf("unexpected listing in:\n%s", text)
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "export")

	result, err := WriteCSVExport(testExport(), base)
	if err != nil {
		t.Fatalf("failed to write CSV export: %v", err)
	}

	apptesting.AssertFileExists(t, result.MoviesFile)
	apptesting.AssertFileExists(t, result.MetadataFile)

	metadata := apptesting.MustReadFile(t, result.MetadataFile)
	if !strings.Contains(metadata, `"name": "catalog"`) {
		t.Errorf("unexpected metadata: %s", metadata)
	}
	if strings.Contains(metadata, "Dune") {
		t.Error("metadata should not contain the movie list")
	}
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("Without Image", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")

		result, err := WriteMarkdownExport(testExport(), dir, "")
		if err != nil {
			t.Fatalf("failed to write Markdown export: %v", err)
		}

		apptesting.AssertDirExists(t, result.Directory)
		apptesting.AssertFileExists(t, filepath.Join(dir, "README.md"))
		if result.PosterImage != "" {
			t.Error("did not expect a poster image")
		}
	})

	t.Run("With Image", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake image bytes"))
		}))
		defer server.Close()

		dir := filepath.Join(t.TempDir(), "out")
		result, err := WriteMarkdownExport(testExport(), dir, server.URL+"/poster.jpg")
		if err != nil {
			t.Fatalf("failed to write Markdown export: %v", err)
		}

		apptesting.AssertFileExists(t, result.PosterImage)
		md := apptesting.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(md, "![Poster](poster.jpg)") {
			t.Error("expected poster reference in README")
		}
	})
}

func TestWriteTextExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listing.txt")

	written, err := WriteTextExport(testExport(), path)
	if err != nil {
		t.Fatalf("failed to write text export: %v", err)
	}
	if written != path {
		t.Errorf("expected %s, got %s", path, written)
	}

	content := apptesting.MustReadFile(t, path)
	if !strings.Contains(content, "Movies: 2") {
		t.Errorf("unexpected content:\n%s", content)
	}
}

func TestDownloadImage(t *testing.T) {
	t.Run("Empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Non-200 Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404 response")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("failed to download image: %v", err)
		}
		if string(data) != "image bytes" {
			t.Errorf("unexpected image data: %s", data)
		}
	})
}
