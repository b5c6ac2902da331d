// package formatter provides functions to export catalog data to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// Export formats accepted by [Export].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// Formats lists the accepted export formats.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// CatalogExport is a movie list together with the IDs the user marked as favorite.
type CatalogExport struct {
	Title     string
	Movies    []models.Movie
	Favorites []string
}

// IsFavorite reports whether id is in the export's favorites.
func (e *CatalogExport) IsFavorite(id string) bool {
	return slices.Contains(e.Favorites, id)
}

// OnlyFavorites returns a copy of the export restricted to favorite movies.
func (e *CatalogExport) OnlyFavorites() *CatalogExport {
	movies := make([]models.Movie, 0, len(e.Favorites))
	for _, m := range e.Movies {
		if e.IsFavorite(m.ID) {
			movies = append(movies, m)
		}
	}
	return &CatalogExport{Title: e.Title, Movies: movies, Favorites: slices.Clone(e.Favorites)}
}

// Export renders the catalog in the named format.
func Export(export *CatalogExport, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return ExportToText(export)
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ExportToCSV converts a CatalogExport to CSV format with columns: ID, Title, Genre, Director, Featured, Favorite
func ExportToCSV(export *CatalogExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "Director", "Featured", "Favorite"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.Genre.Name,
			movie.Director.Name,
			strconv.FormatBool(movie.Featured),
			strconv.FormatBool(export.IsFavorite(movie.ID)),
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

// ExportToMarkdown converts a CatalogExport to Markdown with a section per movie
func ExportToMarkdown(export *CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", titleOf(export))
	fmt.Fprintf(&buf, "**Movies**: %d\n", len(export.Movies))
	fmt.Fprintf(&buf, "**Favorites**: %d\n\n", len(export.Favorites))

	for _, movie := range export.Movies {
		marker := ""
		if export.IsFavorite(movie.ID) {
			marker = " ★"
		}
		fmt.Fprintf(&buf, "## %s%s\n\n", movie.Title, marker)

		if movie.ImagePath != "" {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", movie.Title, movie.ImagePath)
		}
		if movie.Genre.Name != "" {
			fmt.Fprintf(&buf, "- **Genre**: %s\n", movie.Genre.Name)
		}
		if movie.Director.Name != "" {
			fmt.Fprintf(&buf, "- **Director**: %s\n", movie.Director.Name)
		}
		fmt.Fprintf(&buf, "- **ID**: `%s`\n\n", movie.ID)

		if movie.Description != "" {
			fmt.Fprintf(&buf, "%s\n\n", movie.Description)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a CatalogExport to plain text format, one movie per line
func ExportToText(export *CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", titleOf(export))
	fmt.Fprintf(&buf, "Movies: %d\n\n", len(export.Movies))

	for i, movie := range export.Movies {
		marker := " "
		if export.IsFavorite(movie.ID) {
			marker = "★"
		}
		fmt.Fprintf(&buf, "%s %d. %s", marker, i+1, movie.Title)
		if movie.Genre.Name != "" {
			fmt.Fprintf(&buf, " [%s]", movie.Genre.Name)
		}
		fmt.Fprintf(&buf, " (%s)\n", movie.ID)
	}

	return buf.Bytes(), nil
}

type jsonMovie struct {
	models.Movie
	Favorite bool `json:"favorite"`
}

// ExportToJSON writes the movies as an indented JSON array with a favorite flag on each entry
func ExportToJSON(export *CatalogExport) ([]byte, error) {
	movies := make([]jsonMovie, 0, len(export.Movies))
	for _, m := range export.Movies {
		movies = append(movies, jsonMovie{Movie: m, Favorite: export.IsFavorite(m.ID)})
	}

	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func titleOf(export *CatalogExport) string {
	if export.Title == "" {
		return "Movies"
	}
	return export.Title
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to download image: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// PosterFilename derives a file name for a movie poster from its ID and image URL extension.
//
// Path separators in the ID become underscores so the name never leaves its directory.
// Defaults to .jpg when the URL has no extension. Empty, "." and ".." IDs are rejected.
func PosterFilename(movie models.Movie) (string, error) {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator || r == 0 {
			return '_'
		}
		return r
	}, strings.TrimSpace(movie.ID))
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: unusable movie id %q for a file name", shared.ErrInvalidArgument, movie.ID)
	}

	ext := filepath.Ext(strings.SplitN(movie.ImagePath, "?", 2)[0])
	if ext == "" || len(ext) > 5 || strings.ContainsAny(ext, `/\\`) {
		ext = ".jpg"
	}
	return name + ext, nil
}

// WriteExport renders the catalog and writes it to path.
//
// Defaults to movies.{format} as the filename.
func WriteExport(export *CatalogExport, format, path string) (string, error) {
	data, err := Export(export, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		if format == "" {
			format = FormatText
		}
		path = "movies." + format
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
