package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.Level)
	r.SetLogger(fileLogger)

	client, err := r.apiClient(ctx)
	if err != nil {
		return err
	}
	session, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	start := controllers.RouteWelcome
	if user, err := session.Get(ctx, services.SessionUserKey); err == nil && user != "" {
		start = controllers.RouteCatalog
	}

	host := ui.NewHost(ui.DefaultEventBuffer, r.logger)
	defer host.Close()
	model := ui.NewModel(ctx, ui.ModelOpts{
		Account: client,
		Catalog: controllers.NewCatalogController(controllers.CatalogOpts{
			Gateway:  client,
			Dialogs:  host,
			Notifier: host,
			Logger:   r.logger,
		}),
		Navigation: controllers.NewNavigationController(host, session, r.logger),
		Welcome:    controllers.NewWelcomeController(host),
		Host:       host,
		StartRoute: start,
		Logger:     r.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
