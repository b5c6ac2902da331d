// myFlix API client
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/validation"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL           string
	Session           Session
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 means unlimited
	Transport         http.RoundTripper
	Logger            *log.Logger
}

// Client talks to the myFlix API on behalf of the user stored in the session.
type Client struct {
	public    *APIService
	authed    *APIService
	session   Session
	validator *validation.Validator
	logger    *log.Logger
}

// NewClient creates a [Client]. Authenticated calls attach the session token through [oauth2.Transport].
func NewClient(opts ClientOpts) *Client {
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	public := &http.Client{Transport: opts.Transport, Timeout: opts.Timeout}
	authed := &http.Client{
		Transport: &oauth2.Transport{Source: NewSessionTokenSource(opts.Session), Base: opts.Transport},
		Timeout:   opts.Timeout,
	}

	return &Client{
		public:    NewAPIService(opts.BaseURL, public).WithLimiter(limiter),
		authed:    NewAPIService(opts.BaseURL, authed).WithLimiter(limiter),
		session:   opts.Session,
		validator: validation.New(),
		logger:    opts.Logger,
	}
}

// API returns the authenticated raw transport, for ad-hoc requests.
func (c *Client) API() *APIService {
	return c.authed
}

// Movies fetches the full catalog.
func (c *Client) Movies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := c.call(ctx, c.authed, http.MethodGet, "/movies", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// CurrentUser fetches the profile of the user stored in the session.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	username, err := c.Username(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.call(ctx, c.authed, http.MethodGet, "/users/"+url.PathEscape(username), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AddFavorite adds movieID to the current user's favorites and returns the updated profile.
func (c *Client) AddFavorite(ctx context.Context, movieID string) (*models.User, error) {
	return c.favorite(ctx, http.MethodPost, movieID)
}

// RemoveFavorite removes movieID from the current user's favorites and returns the updated profile.
func (c *Client) RemoveFavorite(ctx context.Context, movieID string) (*models.User, error) {
	return c.favorite(ctx, http.MethodDelete, movieID)
}

func (c *Client) favorite(ctx context.Context, method, movieID string) (*models.User, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	username, err := c.Username(ctx)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/users/%s/movies/%s", url.PathEscape(username), url.PathEscape(movieID))
	var user models.User
	if err := c.call(ctx, c.authed, method, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token and stores the token and username in the session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	if err := c.validator.Validate(creds); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("Username", creds.Username)
	q.Set("Password", creds.Password)

	var result models.LoginResult
	if err := c.call(ctx, c.public, http.MethodPost, "/login?"+q.Encode(), nil, &result); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", shared.ErrAuthFailed)
	}

	username := result.User.Username
	if username == "" {
		username = creds.Username
	}
	if err := c.session.Set(ctx, SessionUserKey, username); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	if err := c.session.Set(ctx, SessionTokenKey, result.Token); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}

	c.logger.Info("logged in", "user", username)
	return &result, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if err := c.validator.Validate(reg); err != nil {
		return nil, err
	}

	var user models.User
	if err := c.call(ctx, c.public, http.MethodPost, "/users", reg, &user); err != nil {
		return nil, err
	}
	c.logger.Info("registered", "user", user.Username)
	return &user, nil
}

// Username returns the logged-in username or [shared.ErrNotAuthenticated].
func (c *Client) Username(ctx context.Context) (string, error) {
	username, err := c.session.Get(ctx, SessionUserKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	if username == "" {
		return "", shared.ErrNotAuthenticated
	}
	return username, nil
}

// call sends payload (JSON-encoded when non-nil) and decodes a 2xx body into out.
func (c *Client) call(ctx context.Context, api *APIService, method, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = data
	}

	c.logger.Debug("api request", "method", method, "path", redactQuery(path))

	resp, err := api.Do(ctx, method, path, body)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrSessionStore) {
			return err
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if err := statusError(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s: %v", shared.ErrAPIRequest, method, redactQuery(path), err)
	}
	return nil
}

func statusError(resp *APIResponse) error {
	if resp.OK() {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body))
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrNotAuthenticated, resp.StatusCode, body)
	}
	return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, body)
}

// redactQuery drops the query string, which carries the password on /login.
func redactQuery(path string) string {
	p, _, _ := strings.Cut(path, "?")
	return p
}
