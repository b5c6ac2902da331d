package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/formatter"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 4
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
	ManifestFilename = "poster_manifest.json"
)

// ImageFetcher downloads the bytes behind an image URL.
type ImageFetcher func(ctx context.Context, url string) ([]byte, error)

// BulkDownloadOpts contains configuration for bulk poster downloads.
type BulkDownloadOpts struct {
	OutputDir  string  // Base output directory (default: posters_{epoch})
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// PosterResult is the outcome for one movie.
type PosterResult struct {
	MovieID string `json:"movie_id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Path    string `json:"path,omitempty"`
	Bytes   int    `json:"bytes,omitempty"`
	Success bool   `json:"success"`
	Error   error  `json:"-"`
}

// BulkDownloadResult summarizes a bulk download.
type BulkDownloadResult struct {
	Total           int            `json:"total"`
	Successful      int            `json:"successful"`
	Failed          int            `json:"failed"`
	OutputDirectory string         `json:"output_directory"`
	ManifestPath    string         `json:"-"`
	Results         []PosterResult `json:"results"`
}

var errNotQueued = errors.New("poster not queued")

type posterJob struct {
	index int
	movie models.Movie
}

// PosterEngine downloads movie posters concurrently.
type PosterEngine struct {
	fetch  ImageFetcher
	logger *log.Logger
}

// NewPosterEngine creates a PosterEngine around fetch.
func NewPosterEngine(fetch ImageFetcher, logger *log.Logger) *PosterEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PosterEngine{fetch: fetch, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PosterEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// BulkDownload fetches every movie poster into opts.OutputDir.
//
// Results keep the order of movies regardless of completion order. A cancelled context
// stops queueing; movies never queued are reported as failed with the context error.
func (e *PosterEngine) BulkDownload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	movies []models.Movie,
	opts BulkDownloadOpts,
) (*BulkDownloadResult, error) {
	if e.fetch == nil {
		return nil, fmt.Errorf("%w: image fetcher not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("posters_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkDownloadResult{
		Total:           len(movies),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PosterResult, len(movies)),
	}
	for i, m := range movies {
		result.Results[i] = PosterResult{MovieID: m.ID, Title: m.Title, URL: m.ImagePath, Error: errNotQueued}
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan posterJob)
	results := make(chan posterJob, len(movies))
	done := make([]PosterResult, len(movies))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				done[job.index] = e.downloadOne(ctx, job.movie, opts.OutputDir)
				results <- job
			}
		}()
	}

	e.sendProgress(prog, queuedUpdate(len(movies)))
	go func() {
		defer close(jobs)
		for i, m := range movies {
			if err := limiter.Wait(ctx); err != nil {
				e.logger.Warn("poster queue stopped", "queued", i, "error", err)
				return
			}
			select {
			case jobs <- posterJob{index: i, movie: m}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for job := range results {
		completed++
		res := done[job.index]
		result.Results[job.index] = res
		if res.Success {
			e.sendProgress(prog, downloadedUpdate(completed, len(movies), res))
		} else {
			e.sendProgress(prog, failedUpdate(completed, len(movies), res))
		}
	}

	if err := ctx.Err(); err != nil {
		for i := range result.Results {
			if errors.Is(result.Results[i].Error, errNotQueued) {
				result.Results[i].Error = err
			}
		}
	}
	for _, res := range result.Results {
		if res.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFilename)
	e.sendProgress(prog, manifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("download completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *PosterEngine) downloadOne(ctx context.Context, m models.Movie, dir string) PosterResult {
	res := PosterResult{MovieID: m.ID, Title: m.Title, URL: m.ImagePath}

	if m.ImagePath == "" {
		res.Error = fmt.Errorf("%w: %s has no poster", shared.ErrInvalidArgument, m.Title)
		return res
	}

	name, err := formatter.PosterFilename(m)
	if err != nil {
		res.Error = err
		return res
	}

	data, err := e.fetch(ctx, m.ImagePath)
	if err != nil {
		res.Error = err
		e.logger.Debug("poster download failed", "movie", m.ID, "error", err)
		return res
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		res.Error = fmt.Errorf("failed to write poster: %w", err)
		return res
	}

	res.Path = path
	res.Bytes = len(data)
	res.Success = true
	return res
}

type manifestEntry struct {
	PosterResult
	Error string `json:"error,omitempty"`
}

func writeManifest(result *BulkDownloadResult, path string) error {
	entries := make([]manifestEntry, len(result.Results))
	for i, res := range result.Results {
		entries[i] = manifestEntry{PosterResult: res}
		if res.Error != nil {
			entries[i].Error = res.Error.Error()
		}
	}

	data, err := json.MarshalIndent(struct {
		*BulkDownloadResult
		Results []manifestEntry `json:"results"`
	}{result, entries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
