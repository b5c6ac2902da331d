// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
)

// Discard is an [io.Writer] that drops everything, for quiet loggers.
type Discard struct{}

func (Discard) Write(p []byte) (int, error) { return len(p), nil }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MemorySession is an in-memory session store with optional injected failure.
type MemorySession struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func NewMemorySession() *MemorySession {
	return &MemorySession{data: map[string]string{}}
}

// FailWith makes every subsequent call return err (nil restores normal behavior).
func (s *MemorySession) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemorySession) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.data[key], nil
}

func (s *MemorySession) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

func (s *MemorySession) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	clear(s.data)
	return nil
}

// Keys returns the stored keys, sorted.
func (s *MemorySession) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.data))
}

// FakeGateway is a scripted [controllers.Gateway] that counts calls.
type FakeGateway struct {
	mu sync.Mutex

	MoviesResult []models.Movie
	User         models.User
	MoviesErr    error
	UserErr      error
	MutateErr    error
	// MutateDelay holds AddFavorite/RemoveFavorite open, to overlap concurrent calls.
	MutateDelay time.Duration
	// NilUser makes a successful mutation return a nil profile.
	NilUser bool

	MoviesCalls int
	UserCalls   int
	Added       []string
	Removed     []string
}

var _ controllers.Gateway = (*FakeGateway)(nil)

func (g *FakeGateway) Movies(context.Context) ([]models.Movie, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.MoviesCalls++
	if g.MoviesErr != nil {
		return nil, g.MoviesErr
	}
	return g.MoviesResult, nil
}

func (g *FakeGateway) CurrentUser(context.Context) (*models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.UserCalls++
	if g.UserErr != nil {
		return nil, g.UserErr
	}
	u := g.User
	u.FavoriteMovies = slices.Clone(g.User.FavoriteMovies)
	return &u, nil
}

func (g *FakeGateway) AddFavorite(ctx context.Context, id string) (*models.User, error) {
	return g.mutate(ctx, id, true)
}

func (g *FakeGateway) RemoveFavorite(ctx context.Context, id string) (*models.User, error) {
	return g.mutate(ctx, id, false)
}

func (g *FakeGateway) mutate(ctx context.Context, id string, add bool) (*models.User, error) {
	g.mu.Lock()
	delay, err := g.MutateDelay, g.MutateErr
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if add {
		g.Added = append(g.Added, id)
		g.User.FavoriteMovies = append(g.User.FavoriteMovies, id)
	} else {
		g.Removed = append(g.Removed, id)
		g.User.FavoriteMovies = slices.DeleteFunc(g.User.FavoriteMovies, func(f string) bool { return f == id })
	}
	if g.NilUser {
		return nil, nil
	}
	u := g.User
	return &u, nil
}

// Calls returns the movie and user fetch counts.
func (g *FakeGateway) Calls() (movies, users int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.MoviesCalls, g.UserCalls
}

// RecordingHost implements every controller host and records what it was asked to do.
type RecordingHost struct {
	mu      sync.Mutex
	Dialogs []controllers.Dialog
	Notices []controllers.Notice
	Routes  []string
}

var (
	_ controllers.DialogHost = (*RecordingHost)(nil)
	_ controllers.Notifier   = (*RecordingHost)(nil)
	_ controllers.Navigator  = (*RecordingHost)(nil)
)

func (h *RecordingHost) Open(d controllers.Dialog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Dialogs = append(h.Dialogs, d)
}

func (h *RecordingHost) Notify(n controllers.Notice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Notices = append(h.Notices, n)
}

func (h *RecordingHost) Navigate(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Routes = append(h.Routes, route)
}

// NoticeCount returns the number of notices shown so far.
func (h *RecordingHost) NoticeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Notices)
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file %s to exist", path)
	}
}

// LimitedWriter forwards the first n writes to w and fails every write after that.
type LimitedWriter struct {
	n, written int
	w          io.Writer
}

// NewLimitedWriter allows n successful writes; written seeds the counter.
func NewLimitedWriter(n, written int, w io.Writer) LimitedWriter {
	return LimitedWriter{n: n, written: written, w: w}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.n {
		return 0, errors.New("write limit reached")
	}
	l.written++
	return l.w.Write(p)
}
