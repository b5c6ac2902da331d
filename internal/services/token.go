package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/myflix/internal/shared"
	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*SessionTokenSource)(nil)

// SessionTokenSource implements [oauth2.TokenSource] over the session store.
//
// The token is re-read on every call so a cleared session stops authenticating at once;
// do not wrap it in [oauth2.ReuseTokenSource].
type SessionTokenSource struct {
	session Session
}

// NewSessionTokenSource creates a token source reading [SessionTokenKey].
func NewSessionTokenSource(session Session) *SessionTokenSource {
	return &SessionTokenSource{session: session}
}

// Token returns the stored bearer token or [shared.ErrNotAuthenticated].
func (s *SessionTokenSource) Token() (*oauth2.Token, error) {
	value, err := s.session.Get(context.Background(), SessionTokenKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	if value == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: value, TokenType: "Bearer"}, nil
}
