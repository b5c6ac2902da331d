// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/myflix/internal/formatter"
	"github.com/desertthunder/myflix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for configuration and the session database.
func setupCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml from the built-in template",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the session database and run migrations",
				Flags: []cli.Flag{
					configFlag,
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// loginCommand exchanges credentials for a session token
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("MYFLIX_PASSWORD")},
		},
		Action: r.Login,
	}
}

// registerCommand creates an account
func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "register",
		Aliases: []string{"signup"},
		Usage:   "Create a myFlix account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username (letters and digits, at least 5)", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address", Required: true},
			&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "Birthday as YYYY-MM-DD"},
		},
		Action: r.Register,
	}
}

// logoutCommand clears the session
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored session",
		Action: r.Logout,
	}
}

// profileCommand shows the current user
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the logged-in user and their favorite movies",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Profile,
	}
}

// moviesCommand handles catalog operations
func moviesCommand(r *Runner) *cli.Command {
	idArg := []cli.Argument{&cli.StringArg{Name: "id"}}

	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"catalog"},
		Usage:   "Movie catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the catalog, favorites marked with ★",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
						Value:   formatter.FormatText,
					},
					&cli.BoolFlag{
						Name:  "favorites",
						Usage: "Only list favorite movies",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:      "genre",
				Usage:     "Show the genre of a movie",
				Arguments: idArg,
				Action:    r.MovieGenre,
			},
			{
				Name:      "director",
				Usage:     "Show the director of a movie",
				Arguments: idArg,
				Action:    r.MovieDirector,
			},
			{
				Name:      "summary",
				Aliases:   []string{"synopsis"},
				Usage:     "Show the synopsis of a movie",
				Arguments: idArg,
				Action:    r.MovieSummary,
			},
			{
				Name:      "poster",
				Usage:     "Download a movie poster",
				Arguments: idArg,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: <id>.<ext>)",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the poster URL in the browser instead of downloading",
					},
				},
				Action: r.MoviePoster,
			},
			{
				Name:  "posters",
				Usage: "Download every poster in the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "favorites",
						Usage: "Only download posters of favorite movies",
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default: posters_{epoch})",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent downloads (max 10)",
						Value:   tasks.DefaultWorkers,
					},
				},
				Action: r.MoviePosters,
			},
		},
	}
}

// favoritesCommand handles favorite list operations
func favoritesCommand(r *Runner) *cli.Command {
	idArg := []cli.Argument{&cli.StringArg{Name: "id"}}

	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorite movies",
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to favorites",
				Arguments: idArg,
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from favorites",
				Arguments: idArg,
				Action:    r.FavoritesRemove,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the myFlix API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authenticated GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// mockAPICommand serves the in-memory myFlix API
func mockAPICommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mock-api",
		Usage: "Run a local in-memory myFlix API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Address to bind", Value: r.config.Mock.Host},
			&cli.IntFlag{Name: "port", Usage: "Port to listen on", Value: r.config.Mock.Port},
		},
		Action: r.MockAPI,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}
