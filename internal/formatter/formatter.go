// package formatter provides functions to export catalog listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/mvx/internal/forms"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
)

// FormatRuntime renders runtime minutes as "2h 46m". Returns "-" when the
// runtime is absent or zero, and "45m" for sub-hour runtimes.
func FormatRuntime(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return "-"
	}

	h := *minutes / 60
	m := *minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// MoneyUSD renders a money amount for detail views. Absent values render as "-".
func MoneyUSD(amount *int64) string {
	if amount == nil {
		return "-"
	}
	return forms.FormatUSD(amount)
}

// ExportToCSV converts a CatalogExport to CSV format with columns:
// ID, Title, Original Title, Year, Runtime, Rating, Status, Studio, Genres, Approbation
func ExportToCSV(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Original Title", "Year", "Runtime", "Rating", "Status", "Studio", "Genres", "Approbation"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.OriginalTitle,
			strconv.Itoa(movie.ReleaseYear),
			FormatRuntime(movie.RuntimeMinutes),
			string(movie.ContentRating),
			string(movie.Status),
			studioName(movie),
			strings.Join(movie.GenreNames(), "; "),
			strconv.Itoa(movie.Approbation),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a CatalogExport to Markdown format with optional poster image
func ExportToMarkdown(export *models.CatalogExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Poster](%s)\n\n", imageFilename))
	}

	if export.Filters != "" {
		buf.WriteString(fmt.Sprintf("**Filters**: %s\n\n", export.Filters))
	}

	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(export.Movies)))

	buf.WriteString("## Movies\n\n")
	for i, movie := range export.Movies {
		yearPart := ""
		if movie.ReleaseYear > 0 {
			yearPart = fmt.Sprintf(" (%d)", movie.ReleaseYear)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s - %s [%s]\n", i+1, movie.Title, yearPart, studioName(movie), FormatRuntime(movie.RuntimeMinutes)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a CatalogExport to plain text format
func ExportToText(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Catalog: %s\n", export.Name))
	if export.Filters != "" {
		buf.WriteString(fmt.Sprintf("Filters: %s\n", export.Filters))
	}
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(export.Movies)))

	for i, movie := range export.Movies {
		buf.WriteString(fmt.Sprintf("%d. %s (%d) - %s\n", i+1, movie.Title, movie.ReleaseYear, string(movie.Status)))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of the export metadata (without the movie list)
func ToMetadataJSON(export *models.CatalogExport) ([]byte, error) {
	meta := models.CatalogExport{Name: export.Name, Filters: export.Filters}
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports a catalog snapshot to CSV format with accompanying metadata JSON file.
//
// Defaults to the export name as the base filename & creates {base}_movies.csv and {base}_metadata.json
func WriteCSVExport(export *models.CatalogExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Name
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_movies.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		MoviesFile:   moviesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory   string
	Files       []string
	PosterImage string
}

// WriteMarkdownExport exports a catalog snapshot to Markdown format in a dedicated directory.
//
// Directory name defaults to the export name.
// The imageURL parameter is optional - if provided, attempts to download a poster image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/poster.jpg
func WriteMarkdownExport(export *models.CatalogExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Name
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var posterFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download poster image: %v\n", err)
		} else {
			posterFilename = "poster.jpg"
			posterPath := fmt.Sprintf("%s/%s", outputDir, posterFilename)
			if err := os.WriteFile(posterPath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save poster image: %v\n", err)
				posterFilename = ""
			} else {
				result.PosterImage = posterPath
				result.Files = append(result.Files, posterPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, posterFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a catalog snapshot to plain text format.
//
// Defaults to {name}_movies.txt as the filename.
func WriteTextExport(export *models.CatalogExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_movies.txt", export.Name)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

func studioName(m models.Movie) string {
	if m.Studio == nil {
		return ""
	}
	return m.Studio.Name
}
