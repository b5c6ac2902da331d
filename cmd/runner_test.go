package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/repositories"
	"github.com/desertthunder/myflix/internal/server"
	"github.com/desertthunder/myflix/internal/shared"
	tu "github.com/desertthunder/myflix/internal/testing"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.session != nil || runner.client != nil {
				t.Error("expected session and client to be opened lazily")
			}
		})

		t.Run("Close without session", func(t *testing.T) {
			if err := NewRunner(RunnerOpts{}).Close(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "login", "register", "logout", "profile", "movies", "favorites", "api", "mock-api", "tui"} {
			if !names[want] {
				t.Errorf("expected command %q to be registered", want)
			}
		}
	})
}

func TestCLIHost(t *testing.T) {
	out := &bytes.Buffer{}
	host := newCLIHost(out)

	host.Notify(controllers.Notice{Message: "Movie added to favorites"})
	host.Navigate(controllers.RouteWelcome)
	host.Open(controllers.Dialog{
		Kind:    controllers.GenreDialog,
		Data:    map[string]string{"Name": "Drama", "Description": "Serious"},
		Display: controllers.DisplayConfig{Width: controllers.DetailDialogWidth, PanelClass: "genre-dialog-background"},
	})

	got := out.String()
	for _, want := range []string{"✓ Movie added to favorites\n", "→ welcome", "Drama", "Serious"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

// newTestRunner wires a runner to an in-memory session store and a mock API server.
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	logger := shared.NewLogger(tu.Discard{})
	api, err := server.NewMockAPI(logger, server.WithPasswordCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("failed to create mock API: %v", err)
	}
	srv := httptest.NewServer(server.NewMockRouter(api, logger))
	t.Cleanup(srv.Close)

	config := shared.DefaultConfig()
	config.API.BaseURL = srv.URL
	config.API.RequestsPerSecond = 0
	config.Session.Path = ":memory:"

	session, err := repositories.NewSessionStore(context.Background(), config.Session, logger)
	if err != nil {
		t.Fatalf("failed to open session store: %v", err)
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Session: session,
		Logger:  logger,
		Output:  output,
	})
	t.Cleanup(func() { runner.Close() })
	return runner, output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "myflix", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"myflix"}, args...))
}

func TestCommands(t *testing.T) {
	const alien = "65a1f0c2e4b0a1b2c3d4e501"

	r, out := newTestRunner(t)

	t.Run("requires login", func(t *testing.T) {
		err := run(t, r, "movies", "list")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("login", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "login", "-u", server.DemoUsername, "-p", server.DemoPassword); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !strings.Contains(out.String(), "✓ Login successful") {
			t.Errorf("expected login notice, got:\n%s", out.String())
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		err := run(t, r, "login", "-u", server.DemoUsername, "-p", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("favorites add", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "favorites", "add", alien); err != nil {
			t.Fatalf("favorites add failed: %v", err)
		}
		if !strings.Contains(out.String(), "✓ Movie added to favorites") {
			t.Errorf("expected notice, got:\n%s", out.String())
		}
	})

	t.Run("favorites add unknown movie", func(t *testing.T) {
		out.Reset()
		err := run(t, r, "favorites", "add", "missing")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no notice on failure, got:\n%s", out.String())
		}
	})

	t.Run("movies list csv", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "movies", "list", "--format", "csv"); err != nil {
			t.Fatalf("movies list failed: %v", err)
		}
		if !strings.Contains(out.String(), alien+",Alien,Horror,Ridley Scott,true,true") {
			t.Errorf("expected Alien marked as favorite, got:\n%s", out.String())
		}
	})

	t.Run("movies list to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.md")
		if err := run(t, r, "movies", "list", "--favorites", "--format", "md", "--output", path); err != nil {
			t.Fatalf("movies list failed: %v", err)
		}
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "## Alien ★") || strings.Contains(content, "Heat") {
			t.Errorf("unexpected export:\n%s", content)
		}
	})

	t.Run("movies director", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "movies", "director", alien); err != nil {
			t.Fatalf("movies director failed: %v", err)
		}
		if !strings.Contains(out.String(), "Ridley Scott") || !strings.Contains(out.String(), "1937") {
			t.Errorf("expected director panel, got:\n%s", out.String())
		}
	})

	t.Run("movies genre unknown id", func(t *testing.T) {
		err := run(t, r, "movies", "genre", "nope")
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Fatalf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("favorites list", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "favorites", "list"); err != nil {
			t.Fatalf("favorites list failed: %v", err)
		}
		if !strings.Contains(out.String(), "★ Alien") {
			t.Errorf("expected Alien, got:\n%s", out.String())
		}
	})

	t.Run("favorites list write failure", func(t *testing.T) {
		r.output = &tu.FWriter{}
		defer func() { r.output = out }()

		err := run(t, r, "favorites", "list")
		if err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Fatalf("expected write error, got %v", err)
		}
	})

	t.Run("api get", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "api", "get", "users/"+server.DemoUsername); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if !strings.Contains(out.String(), `"Username": "moviefan"`) {
			t.Errorf("expected pretty JSON profile, got:\n%s", out.String())
		}
	})

	t.Run("favorites remove", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "favorites", "remove", alien); err != nil {
			t.Fatalf("favorites remove failed: %v", err)
		}
		if !strings.Contains(out.String(), "✓ Movie removed from favorites") {
			t.Errorf("expected notice, got:\n%s", out.String())
		}
	})

	t.Run("logout", func(t *testing.T) {
		out.Reset()
		if err := run(t, r, "logout"); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if !strings.Contains(out.String(), "→ welcome") {
			t.Errorf("expected navigation to welcome, got:\n%s", out.String())
		}

		keys, err := r.session.Keys(context.Background())
		if err != nil {
			t.Fatalf("failed to list session keys: %v", err)
		}
		if len(keys) != 0 {
			t.Errorf("expected empty session, got %v", keys)
		}

		if err := run(t, r, "profile"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	r := NewRunner(RunnerOpts{Logger: shared.NewLogger(tu.Discard{}), Output: &bytes.Buffer{}})

	if err := run(t, r, "setup", "config", "--config", configPath); err != nil {
		t.Fatalf("setup config failed: %v", err)
	}
	tu.AssertFileExists(t, configPath)

	if err := run(t, r, "setup", "config", "--config", configPath); err == nil {
		t.Error("expected error when config already exists")
	}

	r.config.Session.Path = filepath.Join(dir, "session.db")
	if err := run(t, r, "setup", "database", "--config", filepath.Join(dir, "missing.toml")); err != nil {
		t.Fatalf("setup database failed: %v", err)
	}
	tu.AssertFileExists(t, r.config.Session.Path)

	if err := run(t, r, "setup", "database", "--rollback", "--config", filepath.Join(dir, "missing2.toml")); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}
}
