package controllers

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// Notice texts and display settings used by the catalog.
const (
	NoticeFavoriteAdded   = "Movie added to favorites"
	NoticeFavoriteRemoved = "Movie removed from favorites"
	NoticeAction          = "OK"
	NoticeDuration        = 2000 * time.Millisecond

	DetailDialogWidth = 48
)

// CatalogOpts contains the dependencies of a [CatalogController].
type CatalogOpts struct {
	Gateway  Gateway
	Dialogs  DialogHost
	Notifier Notifier
	Logger   *log.Logger
}

// CatalogController keeps the movie list and the user's favorite IDs and mediates favorite changes.
type CatalogController struct {
	gateway  Gateway
	dialogs  DialogHost
	notifier Notifier
	logger   *log.Logger

	mu        sync.RWMutex
	movies    []models.Movie
	favorites []string
}

// NewCatalogController creates a [CatalogController] with empty state.
func NewCatalogController(opts CatalogOpts) *CatalogController {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &CatalogController{
		gateway:  opts.Gateway,
		dialogs:  opts.Dialogs,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
}

// LoadCatalog replaces the movie list with the API response, verbatim.
// On failure the previous list is kept.
func (c *CatalogController) LoadCatalog(ctx context.Context) error {
	movies, err := c.gateway.Movies(ctx)
	if err != nil {
		c.logger.Error("failed to load movies", "error", err)
		return err
	}

	c.mu.Lock()
	c.movies = movies
	c.mu.Unlock()

	c.logger.Debug("movies loaded", "count", len(movies))
	return nil
}

// LoadFavorites replaces the favorites with the FavoriteMovies of the current user.
func (c *CatalogController) LoadFavorites(ctx context.Context) error {
	user, err := c.gateway.CurrentUser(ctx)
	if err != nil {
		c.logger.Error("failed to load favorites", "error", err)
		return err
	}

	c.mu.Lock()
	c.favorites = user.FavoriteMovies
	c.mu.Unlock()

	c.logger.Debug("favorites loaded", "count", len(user.FavoriteMovies))
	return nil
}

// Reload runs [CatalogController.LoadCatalog] then [CatalogController.LoadFavorites].
// Both always run; the first error is returned.
func (c *CatalogController) Reload(ctx context.Context) error {
	catalogErr := c.LoadCatalog(ctx)
	favoritesErr := c.LoadFavorites(ctx)
	if catalogErr != nil {
		return catalogErr
	}
	return favoritesErr
}

// IsFavorite reports whether id is in the current favorites.
func (c *CatalogController) IsFavorite(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.favorites, id)
}

// AddToFavorite adds id through the API, then shows a notice and reloads everything.
//
// If the API call fails nothing else happens and the error is returned. A reload failure after a
// successful mutation is logged, not returned.
func (c *CatalogController) AddToFavorite(ctx context.Context, id string) error {
	return c.mutate(ctx, id, c.gateway.AddFavorite, NoticeFavoriteAdded)
}

// RemoveFromFavorites removes id through the API, then shows a notice and reloads everything.
func (c *CatalogController) RemoveFromFavorites(ctx context.Context, id string) error {
	return c.mutate(ctx, id, c.gateway.RemoveFavorite, NoticeFavoriteRemoved)
}

func (c *CatalogController) mutate(
	ctx context.Context,
	id string,
	call func(context.Context, string) (*models.User, error),
	notice string,
) error {
	user, err := call(ctx, id)
	if err != nil {
		c.logger.Error("favorite update failed", "movie", id, "error", err)
		return err
	}
	if user != nil {
		c.logger.Debug("favorite updated", "movie", id, "favorites", len(user.FavoriteMovies))
	} else {
		c.logger.Debug("favorite updated", "movie", id)
	}

	c.notifier.Notify(Notice{Message: notice, Action: NoticeAction, Duration: NoticeDuration})

	if err := c.Reload(ctx); err != nil {
		c.logger.Warn("reload after favorite update failed", "movie", id, "error", err)
	}
	return nil
}

// OpenGenre shows the genre dialog.
func (c *CatalogController) OpenGenre(name, description string) {
	c.dialogs.Open(Dialog{
		Kind:    GenreDialog,
		Data:    map[string]string{"Name": name, "Description": description},
		Display: DisplayConfig{Width: DetailDialogWidth, PanelClass: "genre-dialog-background"},
	})
}

// OpenDirector shows the director dialog.
func (c *CatalogController) OpenDirector(name, bio, birth string) {
	c.dialogs.Open(Dialog{
		Kind:    DirectorDialog,
		Data:    map[string]string{"Name": name, "Bio": bio, "Birth": birth},
		Display: DisplayConfig{Width: DetailDialogWidth, PanelClass: "director-dialog-background"},
	})
}

// OpenSummary shows the synopsis dialog.
func (c *CatalogController) OpenSummary(title, description string) {
	c.dialogs.Open(Dialog{
		Kind:    SummaryDialog,
		Data:    map[string]string{"Title": title, "Description": description},
		Display: DisplayConfig{Width: DetailDialogWidth, PanelClass: "summary-dialog-background"},
	})
}

// Movies returns a copy of the current movie list.
func (c *CatalogController) Movies() []models.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.movies)
}

// Favorites returns a copy of the current favorite IDs, in API order.
func (c *CatalogController) Favorites() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.favorites)
}

// Movie looks up a loaded movie by ID.
func (c *CatalogController) Movie(id string) (models.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.movies {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}
