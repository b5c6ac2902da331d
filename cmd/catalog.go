package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/formatter"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MoviesList prints or exports the catalog with favorites marked.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.Reload(ctx); err != nil {
		return err
	}

	export := &formatter.CatalogExport{
		Title:     "myFlix movies",
		Movies:    catalog.Movies(),
		Favorites: catalog.Favorites(),
	}
	if cmd.Bool("favorites") {
		export = export.OnlyFavorites()
		export.Title = "Favorite movies"
	}

	format := cmd.String("format")
	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteExport(export, format, output)
		if err != nil {
			return err
		}
		r.logger.Info("catalog exported", "path", path, "movies", len(export.Movies))
		return r.writePlain("✓ Exported %d movies to %s\n", len(export.Movies), path)
	}

	data, err := formatter.Export(export, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// MovieGenre opens the genre dialog for a movie.
func (r *Runner) MovieGenre(ctx context.Context, cmd *cli.Command) error {
	return r.withMovie(ctx, cmd, func(c *controllers.CatalogController, m models.Movie) {
		c.OpenGenre(m.Genre.Name, m.Genre.Description)
	})
}

// MovieDirector opens the director dialog for a movie.
func (r *Runner) MovieDirector(ctx context.Context, cmd *cli.Command) error {
	return r.withMovie(ctx, cmd, func(c *controllers.CatalogController, m models.Movie) {
		c.OpenDirector(m.Director.Name, m.Director.Bio, m.Director.Birth)
	})
}

// MovieSummary opens the synopsis dialog for a movie.
func (r *Runner) MovieSummary(ctx context.Context, cmd *cli.Command) error {
	return r.withMovie(ctx, cmd, func(c *controllers.CatalogController, m models.Movie) {
		c.OpenSummary(m.Title, m.Description)
	})
}

// MoviePoster downloads a movie poster or opens it in the browser.
func (r *Runner) MoviePoster(ctx context.Context, cmd *cli.Command) error {
	return r.withMovieErr(ctx, cmd, func(_ *controllers.CatalogController, m models.Movie) error {
		if m.ImagePath == "" {
			return fmt.Errorf("%w: %s has no poster", shared.ErrInvalidArgument, m.Title)
		}

		if cmd.Bool("open") {
			r.logger.Info("opening poster", "url", m.ImagePath)
			return shared.OpenBrowser(m.ImagePath)
		}

		path := cmd.String("output")
		if path == "" {
			name, err := formatter.PosterFilename(m)
			if err != nil {
				return err
			}
			path = name
		}

		data, err := formatter.DownloadImage(ctx, r.httpClient, m.ImagePath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write poster: %w", err)
		}
		return r.writePlain("✓ Saved poster for %s to %s\n", m.Title, path)
	})
}

// MoviePosters downloads posters for the whole catalog, or only favorites, with a worker pool.
func (r *Runner) MoviePosters(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.Reload(ctx); err != nil {
		return err
	}

	export := &formatter.CatalogExport{Movies: catalog.Movies(), Favorites: catalog.Favorites()}
	if cmd.Bool("favorites") {
		export = export.OnlyFavorites()
	}

	engine := tasks.NewPosterEngine(func(ctx context.Context, url string) ([]byte, error) {
		return formatter.DownloadImage(ctx, r.httpClient, url)
	}, r.logger)

	progress := make(chan tasks.ProgressUpdate, 16)
	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := engine.BulkDownload(ctx, progress, export.Movies, tasks.BulkDownloadOpts{
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  r.config.API.RequestsPerSecond,
	})
	close(progress)
	if err != nil {
		return err
	}

	if err := r.writePlain("✓ Downloaded %d/%d posters to %s\n", result.Successful, result.Total, result.OutputDirectory); err != nil {
		return err
	}
	for _, res := range result.Results {
		if res.Success {
			continue
		}
		if err := r.writePlain("  ✗ %s: %v\n", res.Title, res.Error); err != nil {
			return err
		}
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}

func (r *Runner) withMovie(ctx context.Context, cmd *cli.Command, open func(*controllers.CatalogController, models.Movie)) error {
	return r.withMovieErr(ctx, cmd, func(c *controllers.CatalogController, m models.Movie) error {
		open(c, m)
		return nil
	})
}

// withMovieErr loads the catalog and resolves the id argument to a movie.
func (r *Runner) withMovieErr(ctx context.Context, cmd *cli.Command, fn func(*controllers.CatalogController, models.Movie) error) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.LoadCatalog(ctx); err != nil {
		return err
	}

	movie, ok := catalog.Movie(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}
	return fn(catalog, movie)
}

// FavoritesList prints the titles of the favorite movies.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.Reload(ctx); err != nil {
		return err
	}

	favorites := catalog.Favorites()
	if len(favorites) == 0 {
		return r.writePlain("No favorite movies yet. Add one with `myflix favorites add <id>`.\n")
	}

	for _, id := range favorites {
		line := id
		if movie, ok := catalog.Movie(id); ok {
			line = fmt.Sprintf("%s (%s)", movie.Title, id)
		}
		if err := r.writePlain("★ %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// FavoritesAdd adds a movie to favorites.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd, (*controllers.CatalogController).AddToFavorite)
}

// FavoritesRemove removes a movie from favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd, (*controllers.CatalogController).RemoveFromFavorites)
}

func (r *Runner) mutateFavorite(
	ctx context.Context,
	cmd *cli.Command,
	mutate func(*controllers.CatalogController, context.Context, string) error,
) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if err := mutate(catalog, ctx, id); err != nil {
		return err
	}

	r.logger.Debug("favorites now", "count", len(catalog.Favorites()))
	return nil
}
