package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/myflix/internal/models"
)

var _ list.Item = movieItem{}

const favoriteMark = "★"

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return fmt.Sprintf("%s %s", favoriteMark, i.movie.Title)
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	desc := i.movie.Genre.Name
	if i.movie.Director.Name != "" {
		if desc != "" {
			desc += " • "
		}
		desc += i.movie.Director.Name
	}
	return desc
}

// movieItems builds list items, marking favorites with isFavorite.
func movieItems(movies []models.Movie, isFavorite func(string) bool) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, favorite: isFavorite(m.ID)}
	}
	return items
}
