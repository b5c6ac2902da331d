package controllers

import (
	"context"
	"time"

	"github.com/desertthunder/myflix/internal/models"
)

// Route names understood by a [Navigator].
const (
	RouteCatalog = "movies"
	RouteProfile = "profile"
	RouteWelcome = "welcome"
)

// DialogKind identifies the overlay component to show.
type DialogKind string

const (
	GenreDialog    DialogKind = "genre"
	DirectorDialog DialogKind = "director"
	SummaryDialog  DialogKind = "summary"
	LoginDialog    DialogKind = "login"
	RegisterDialog DialogKind = "register"
)

// DisplayConfig is the fixed presentation of an overlay. Width is in terminal cells.
type DisplayConfig struct {
	Width      int
	PanelClass string
}

// Dialog is a request to open an overlay. Data is opaque display data and may be nil.
type Dialog struct {
	Kind    DialogKind
	Data    map[string]string
	Display DisplayConfig
}

// Notice is a transient message with an action label.
type Notice struct {
	Message  string
	Action   string
	Duration time.Duration
}

// Gateway is the remote API as seen by the catalog.
type Gateway interface {
	Movies(ctx context.Context) ([]models.Movie, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	AddFavorite(ctx context.Context, movieID string) (*models.User, error)
	RemoveFavorite(ctx context.Context, movieID string) (*models.User, error)
}

// DialogHost opens overlays. No result is read back.
type DialogHost interface {
	Open(d Dialog)
}

// Notifier shows transient notices.
type Notifier interface {
	Notify(n Notice)
}

// Navigator switches to a named route.
type Navigator interface {
	Navigate(route string)
}

// SessionStore is the persistent session state; Clear removes every key.
type SessionStore interface {
	Clear(ctx context.Context) error
}
