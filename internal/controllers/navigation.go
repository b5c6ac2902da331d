package controllers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/shared"
)

// NavigationController routes between views and tears the session down on logout.
type NavigationController struct {
	navigator Navigator
	session   SessionStore
	logger    *log.Logger
}

// NewNavigationController creates a [NavigationController].
func NewNavigationController(navigator Navigator, session SessionStore, logger *log.Logger) *NavigationController {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &NavigationController{navigator: navigator, session: session, logger: logger}
}

// ToCatalog navigates to the movie list. No authentication check is made.
func (n *NavigationController) ToCatalog() {
	n.navigator.Navigate(RouteCatalog)
}

// ToProfile navigates to the profile. No authentication check is made.
func (n *NavigationController) ToProfile() {
	n.navigator.Navigate(RouteProfile)
}

// Logout navigates to the welcome route and wipes every session key.
//
// Navigation happens even when clearing fails; the clear error is returned.
func (n *NavigationController) Logout(ctx context.Context) error {
	n.navigator.Navigate(RouteWelcome)

	if err := n.session.Clear(ctx); err != nil {
		n.logger.Error("failed to clear session", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	n.logger.Info("logged out")
	return nil
}
