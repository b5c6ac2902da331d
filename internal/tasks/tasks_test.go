package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	tu "github.com/desertthunder/myflix/internal/testing"
)

func testMovies(n int) []models.Movie {
	movies := make([]models.Movie, n)
	for i := range movies {
		movies[i] = models.Movie{
			ID:        fmt.Sprintf("m%d", i+1),
			Title:     fmt.Sprintf("Movie %d", i+1),
			ImagePath: fmt.Sprintf("https://img.test/m%d.png", i+1),
		}
	}
	return movies
}

func fakeFetcher(fail map[string]bool) ImageFetcher {
	return func(ctx context.Context, url string) ([]byte, error) {
		if fail[url] {
			return nil, fmt.Errorf("%w: status 404", shared.ErrAPIRequest)
		}
		return []byte("image:" + url), nil
	}
}

func TestBulkDownload(t *testing.T) {
	logger := shared.NewLogger(tu.Discard{})

	t.Run("downloads every poster", func(t *testing.T) {
		dir := t.TempDir()
		engine := NewPosterEngine(fakeFetcher(nil), logger)

		result, err := engine.BulkDownload(context.Background(), nil, testMovies(3), BulkDownloadOpts{
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Successful != 3 || result.Failed != 0 {
			t.Errorf("expected 3 successful, 0 failed, got %d/%d", result.Successful, result.Failed)
		}
		for i, res := range result.Results {
			want := fmt.Sprintf("m%d", i+1)
			if res.MovieID != want {
				t.Errorf("result %d: expected movie %s, got %s", i, want, res.MovieID)
			}
			tu.AssertFileExists(t, filepath.Join(dir, want+".png"))
		}
		tu.AssertFileExists(t, result.ManifestPath)
	})

	t.Run("records failures without aborting", func(t *testing.T) {
		dir := t.TempDir()
		movies := testMovies(4)
		movies[3].ImagePath = ""
		engine := NewPosterEngine(fakeFetcher(map[string]bool{movies[1].ImagePath: true}), logger)

		result, err := engine.BulkDownload(context.Background(), nil, movies, BulkDownloadOpts{
			OutputDir:  dir,
			NumWorkers: 2,
			RateLimit:  1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Successful != 2 || result.Failed != 2 {
			t.Errorf("expected 2 successful, 2 failed, got %d/%d", result.Successful, result.Failed)
		}
		if !errors.Is(result.Results[1].Error, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest for m2, got %v", result.Results[1].Error)
		}
		if !errors.Is(result.Results[3].Error, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for m4, got %v", result.Results[3].Error)
		}

		var manifest struct {
			Total   int `json:"total"`
			Failed  int `json:"failed"`
			Results []struct {
				MovieID string `json:"movie_id"`
				Success bool   `json:"success"`
				Error   string `json:"error"`
			} `json:"results"`
		}
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if manifest.Total != 4 || manifest.Failed != 2 {
			t.Errorf("unexpected manifest totals: %+v", manifest)
		}
		if manifest.Results[1].Error == "" || manifest.Results[0].Error != "" {
			t.Errorf("expected error only on failed entries: %+v", manifest.Results)
		}
	})

	t.Run("limits concurrency to the worker count", func(t *testing.T) {
		var active, peak atomic.Int32
		fetch := func(ctx context.Context, url string) ([]byte, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return []byte("x"), nil
		}

		engine := NewPosterEngine(fetch, logger)
		result, err := engine.BulkDownload(context.Background(), nil, testMovies(8), BulkDownloadOpts{
			OutputDir:  t.TempDir(),
			NumWorkers: 2,
			RateLimit:  1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Successful != 8 {
			t.Errorf("expected 8 successful, got %d", result.Successful)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent downloads, saw %d", peak.Load())
		}
	})

	t.Run("reports progress", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 16)
		engine := NewPosterEngine(fakeFetcher(nil), logger)

		if _, err := engine.BulkDownload(context.Background(), progress, testMovies(2), BulkDownloadOpts{
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		phases := map[Phase]int{}
		for update := range progress {
			phases[update.Phase]++
		}
		if phases[QueuePosters] != 1 || phases[DownloadPoster] != 2 || phases[WriteManifest] != 1 {
			t.Errorf("unexpected progress phases: %v", phases)
		}
	})

	t.Run("never blocks on a full progress channel", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		engine := NewPosterEngine(fakeFetcher(nil), logger)

		result, err := engine.BulkDownload(context.Background(), progress, testMovies(3), BulkDownloadOpts{
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Successful != 3 {
			t.Errorf("expected 3 successful, got %d", result.Successful)
		}
	})

	t.Run("cancelled context marks unqueued movies", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var once sync.Once
		fetch := func(_ context.Context, url string) ([]byte, error) {
			once.Do(cancel)
			return []byte("x"), nil
		}

		engine := NewPosterEngine(fetch, logger)
		result, err := engine.BulkDownload(ctx, nil, testMovies(5), BulkDownloadOpts{
			OutputDir:  t.TempDir(),
			NumWorkers: 1,
			RateLimit:  1,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed == 0 {
			t.Fatal("expected unqueued movies to be reported as failed")
		}
		for _, res := range result.Results {
			if !res.Success && !errors.Is(res.Error, context.Canceled) {
				t.Errorf("expected context.Canceled for %s, got %v", res.MovieID, res.Error)
			}
		}
	})

	t.Run("keeps posters inside the output directory", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "posters")
		var fetched atomic.Int32
		fetch := func(ctx context.Context, url string) ([]byte, error) {
			fetched.Add(1)
			return []byte("x"), nil
		}
		movies := []models.Movie{
			{ID: "../escaped", Title: "Escaped", ImagePath: "http://h/p.jpg"},
			{ID: "", Title: "No ID", ImagePath: "http://h/q.jpg"},
		}

		result, err := NewPosterEngine(fetch, logger).BulkDownload(context.Background(), nil, movies, BulkDownloadOpts{
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		escaped := result.Results[0]
		if !escaped.Success {
			t.Fatalf("expected sanitized id to download, got %v", escaped.Error)
		}
		if filepath.Dir(escaped.Path) != dir {
			t.Errorf("expected poster inside %s, got %s", dir, escaped.Path)
		}
		if _, err := os.Stat(filepath.Join(root, "escaped.jpg")); !os.IsNotExist(err) {
			t.Error("expected nothing written outside the output directory")
		}

		if !errors.Is(result.Results[1].Error, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty id, got %v", result.Results[1].Error)
		}
		if fetched.Load() != 1 {
			t.Errorf("expected only the valid poster to be fetched, got %d fetches", fetched.Load())
		}
	})

	t.Run("nil fetcher", func(t *testing.T) {
		_, err := NewPosterEngine(nil, logger).BulkDownload(context.Background(), nil, testMovies(1), BulkDownloadOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("default output directory", func(t *testing.T) {
		originalDir := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, originalDir)
		engine := NewPosterEngine(fakeFetcher(nil), logger)

		result, err := engine.BulkDownload(context.Background(), nil, nil, BulkDownloadOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(result.OutputDirectory, "posters_") {
			t.Errorf("expected posters_ prefix, got %s", result.OutputDirectory)
		}
		if _, err := os.Stat(result.ManifestPath); err != nil {
			t.Errorf("expected manifest: %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	for phase, want := range map[Phase]string{
		QueuePosters:   "queue_posters",
		DownloadPoster: "download_poster",
		WriteManifest:  "write_manifest",
		Phase(99):      "",
	} {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
