package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:embed seed/movies.json
var seedMovies []byte

var errUserExists = errors.New("user already exists")

// Demo account created by [NewMockAPI].
const (
	DemoUsername = "moviefan"
	DemoPassword = "popcorn123"
)

type account struct {
	user         models.User
	passwordHash []byte
}

// MockAPI is an in-memory myFlix API.
type MockAPI struct {
	mu       sync.RWMutex
	movies   []models.Movie
	accounts map[string]*account
	tokens   map[string]string // token → username

	mux       *http.ServeMux
	validator *validation.Validator
	logger    *log.Logger
	cost      int
}

// MockOption configures a [MockAPI].
type MockOption func(*MockAPI)

// WithMovies replaces the seeded catalog.
func WithMovies(movies []models.Movie) MockOption {
	return func(m *MockAPI) { m.movies = slices.Clone(movies) }
}

// WithPasswordCost sets the bcrypt cost used for stored passwords.
func WithPasswordCost(cost int) MockOption {
	return func(m *MockAPI) { m.cost = cost }
}

// NewMockAPI creates a mock API seeded with the embedded catalog and the demo account.
func NewMockAPI(logger *log.Logger, opts ...MockOption) (*MockAPI, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &MockAPI{
		accounts:  map[string]*account{},
		tokens:    map[string]string{},
		validator: validation.New(),
		logger:    logger,
		cost:      bcrypt.DefaultCost,
	}
	if err := json.Unmarshal(seedMovies, &m.movies); err != nil {
		return nil, fmt.Errorf("failed to parse seed movies: %w", err)
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := m.CreateUser(models.Registration{
		Username: DemoUsername,
		Password: DemoPassword,
		Email:    DemoUsername + "@myflix.dev",
	}); err != nil {
		return nil, err
	}

	m.mux = http.NewServeMux()
	m.mux.HandleFunc("POST /login", m.handleLogin)
	m.mux.HandleFunc("POST /users", m.handleRegister)
	m.mux.Handle("GET /movies", m.requireAuth(http.HandlerFunc(m.handleMovies)))
	m.mux.Handle("GET /users/{Username}", m.requireAuth(m.requireSelf(http.HandlerFunc(m.handleUser))))
	m.mux.Handle("POST /users/{Username}/movies/{MovieID}", m.requireAuth(m.requireSelf(http.HandlerFunc(m.handleAddFavorite))))
	m.mux.Handle("DELETE /users/{Username}/movies/{MovieID}", m.requireAuth(m.requireSelf(http.HandlerFunc(m.handleRemoveFavorite))))

	return m, nil
}

// Routes returns the HTTP routes this handler serves.
func (m *MockAPI) Routes() []string {
	return []string{
		"POST /login",
		"POST /users",
		"GET /movies",
		"GET /users/{Username}",
		"POST /users/{Username}/movies/{MovieID}",
		"DELETE /users/{Username}/movies/{MovieID}",
	}
}

// ServeHTTP dispatches to the endpoint handlers.
func (m *MockAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

// NewMockRouter returns a router serving m behind the request ID, logging and recovery middleware.
func NewMockRouter(m *MockAPI, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(Recoverer(logger), RequestID(), RequestLogger(logger))
	r.Handler(m)
	return r
}

// CreateUser validates reg and stores a new account.
func (m *MockAPI) CreateUser(reg models.Registration) (*models.User, error) {
	if err := m.validator.Validate(reg); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), m.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[strings.ToLower(reg.Username)]; ok {
		return nil, fmt.Errorf("%w: %s", errUserExists, reg.Username)
	}

	user := models.User{
		ID:             uuid.NewString(),
		Username:       reg.Username,
		Email:          reg.Email,
		Birthday:       reg.Birthday,
		FavoriteMovies: []string{},
	}
	m.accounts[strings.ToLower(reg.Username)] = &account{user: user, passwordHash: hash}
	return &user, nil
}

// User returns a copy of the named account's profile.
func (m *MockAPI) User(username string) (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[strings.ToLower(username)]
	if !ok {
		return models.User{}, false
	}
	return cloneUser(acct.user), true
}

// IssueToken logs username in without a password and returns the token.
func (m *MockAPI) IssueToken(username string) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.tokens[token] = username
	m.mu.Unlock()
	return token
}

func cloneUser(u models.User) models.User {
	u.FavoriteMovies = slices.Clone(u.FavoriteMovies)
	return u
}

func (m *MockAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	username, password := q.Get("Username"), q.Get("Password")

	m.mu.RLock()
	acct, ok := m.accounts[strings.ToLower(username)]
	m.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		writeError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	user, _ := m.User(username)
	token := m.IssueToken(user.Username)
	m.logger.Debug("login", "user", user.Username)
	writeJSON(w, http.StatusOK, models.LoginResult{User: user, Token: token})
}

func (m *MockAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := m.CreateUser(reg)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, errUserExists) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (m *MockAPI) handleMovies(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	movies := slices.Clone(m.movies)
	m.mu.RUnlock()
	writeJSON(w, http.StatusOK, movies)
}

func (m *MockAPI) handleUser(w http.ResponseWriter, r *http.Request) {
	user, ok := m.User(r.PathValue("Username"))
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (m *MockAPI) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	m.updateFavorites(w, r, func(favorites []string, id string) []string {
		if slices.Contains(favorites, id) {
			return favorites
		}
		return append(favorites, id)
	})
}

func (m *MockAPI) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	m.updateFavorites(w, r, func(favorites []string, id string) []string {
		return slices.DeleteFunc(favorites, func(f string) bool { return f == id })
	})
}

func (m *MockAPI) updateFavorites(w http.ResponseWriter, r *http.Request, update func([]string, string) []string) {
	username, movieID := r.PathValue("Username"), r.PathValue("MovieID")

	m.mu.Lock()
	acct, ok := m.accounts[strings.ToLower(username)]
	if !ok {
		m.mu.Unlock()
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if !slices.ContainsFunc(m.movies, func(mv models.Movie) bool { return mv.ID == movieID }) {
		m.mu.Unlock()
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	acct.user.FavoriteMovies = update(acct.user.FavoriteMovies, movieID)
	user := cloneUser(acct.user)
	m.mu.Unlock()

	m.logger.Debug("favorites updated", "user", username, "movie", movieID, "count", len(user.FavoriteMovies))
	writeJSON(w, http.StatusOK, user)
}

type userKey struct{}

// requireAuth resolves the bearer token to a username.
func (m *MockAPI) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		m.mu.RLock()
		username, ok := m.tokens[token]
		m.mu.RUnlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, username)))
	})
}

// requireSelf rejects requests for another user's profile.
func (m *MockAPI) requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := r.Context().Value(userKey{}).(string)
		if !strings.EqualFold(caller, r.PathValue("Username")) {
			writeError(w, http.StatusForbidden, "not your account")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
