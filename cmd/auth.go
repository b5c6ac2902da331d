package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/ui"
	"github.com/urfave/cli/v3"
)

// Login exchanges credentials for a token and stores it in the session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(ctx)
	if err != nil {
		return err
	}

	result, err := client.Login(ctx, models.Credentials{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
	})
	if err != nil {
		return err
	}

	host := newCLIHost(r.output)
	host.Notify(controllers.Notice{Message: ui.NoticeLoggedIn})
	r.writePlain("Logged in as %s (%d favorites)\n", result.User.Username, len(result.User.FavoriteMovies))
	host.Navigate(controllers.RouteCatalog)
	return nil
}

// Register creates an account. It does not log in.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(ctx)
	if err != nil {
		return err
	}

	user, err := client.Register(ctx, models.Registration{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
		Email:    cmd.String("email"),
		Birthday: cmd.String("birthday"),
	})
	if err != nil {
		return err
	}

	newCLIHost(r.output).Notify(controllers.Notice{Message: ui.NoticeRegistered})
	return r.writePlain("Account %s created, run `myflix login -u %s` next\n", user.Username, user.Username)
}

// Logout clears every session key.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	session, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	nav := controllers.NewNavigationController(newCLIHost(r.output), session, r.logger)
	if err := nav.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// Profile shows the current user and the titles of their favorites.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(ctx)
	if err != nil {
		return err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.LoadCatalog(ctx); err != nil {
		return err
	}

	r.writePlainHeader("Profile")
	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email:    %s\n", user.Email)
	if user.Birthday != "" {
		r.writePlain("Birthday: %s\n", user.Birthday)
	}

	r.writePlainln("Favorite movies (%d):", len(user.FavoriteMovies))
	for _, id := range user.FavoriteMovies {
		title := id
		if movie, ok := catalog.Movie(id); ok {
			title = fmt.Sprintf("%s (%s)", movie.Title, id)
		}
		r.writePlain("  ★ %s\n", title)
	}
	return nil
}
