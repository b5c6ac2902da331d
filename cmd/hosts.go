package main

import (
	"fmt"
	"io"

	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/ui"
)

var (
	_ controllers.DialogHost = (*cliHost)(nil)
	_ controllers.Notifier   = (*cliHost)(nil)
	_ controllers.Navigator  = (*cliHost)(nil)
)

// cliHost prints controller requests: dialogs as panels, notices as a line, routes as a hint.
type cliHost struct {
	out io.Writer
}

func newCLIHost(out io.Writer) *cliHost {
	return &cliHost{out: out}
}

func (h *cliHost) Open(d controllers.Dialog) {
	fmt.Fprintln(h.out, ui.RenderDialog(d))
}

func (h *cliHost) Notify(n controllers.Notice) {
	fmt.Fprintf(h.out, "✓ %s\n", n.Message)
}

func (h *cliHost) Navigate(route string) {
	switch route {
	case controllers.RouteCatalog:
		fmt.Fprintln(h.out, "→ movies: run `myflix movies list`")
	case controllers.RouteProfile:
		fmt.Fprintln(h.out, "→ profile: run `myflix profile`")
	case controllers.RouteWelcome:
		fmt.Fprintln(h.out, "→ welcome: run `myflix login` or `myflix register`")
	default:
		fmt.Fprintf(h.out, "→ %s\n", route)
	}
}
