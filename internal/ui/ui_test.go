package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	tu "github.com/desertthunder/myflix/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccount struct {
	creds    models.Credentials
	reg      models.Registration
	loginErr error
	user     models.User
}

func (a *fakeAccount) Login(_ context.Context, creds models.Credentials) (*models.LoginResult, error) {
	a.creds = creds
	if a.loginErr != nil {
		return nil, a.loginErr
	}
	return &models.LoginResult{User: models.User{Username: creds.Username}, Token: "tok"}, nil
}

func (a *fakeAccount) Register(_ context.Context, reg models.Registration) (*models.User, error) {
	a.reg = reg
	return &models.User{Username: reg.Username}, nil
}

func (a *fakeAccount) CurrentUser(context.Context) (*models.User, error) {
	u := a.user
	return &u, nil
}

type fixture struct {
	model   *Model
	host    *Host
	account *fakeAccount
	gateway *tu.FakeGateway
	session *tu.MemorySession
}

func newFixture(t *testing.T, route string) *fixture {
	t.Helper()

	logger := shared.NewLogger(tu.Discard{})
	host := NewHost(8, logger)
	gw := &tu.FakeGateway{
		MoviesResult: []models.Movie{
			{ID: "1", Title: "Alien", Description: "Space horror", Genre: models.Genre{Name: "Horror", Description: "Scary"}},
			{ID: "2", Title: "Heat", Director: models.Director{Name: "Michael Mann", Bio: "Chicago", Birth: "1943"}},
		},
		User: models.User{Username: "moviefan", Email: "fan@myflix.dev", FavoriteMovies: []string{"2"}},
	}
	session := tu.NewMemorySession()
	account := &fakeAccount{user: gw.User}

	m := NewModel(context.Background(), ModelOpts{
		Account:    account,
		Catalog:    controllers.NewCatalogController(controllers.CatalogOpts{Gateway: gw, Dialogs: host, Notifier: host, Logger: logger}),
		Navigation: controllers.NewNavigationController(host, session, logger),
		Welcome:    controllers.NewWelcomeController(host),
		Host:       host,
		StartRoute: route,
		Logger:     logger,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	return &fixture{model: m, host: host, account: account, gateway: gw, session: session}
}

// next feeds the oldest pending host event to the model.
func (f *fixture) next(t *testing.T) Msg {
	t.Helper()
	select {
	case msg := <-f.host.Events():
		f.model.Update(msg)
		return msg.(Msg)
	default:
		t.Fatal("expected a host event")
		return Msg{}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWelcomeLogin(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, controllers.RouteWelcome, f.model.Route())
	assert.Contains(t, f.model.View(), "Welcome to myFlix")

	f.model.Update(runes("l"))
	msg := f.next(t)
	require.Equal(t, MsgDialogOpened, msg.Kind())
	require.NotNil(t, f.model.form)
	assert.Contains(t, f.model.View(), "Log in")

	f.model.Update(runes("moviefan"))
	f.model.Update(tea.KeyMsg{Type: tea.KeyTab})
	f.model.Update(runes("popcorn123"))
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	f.model.Update(cmd())
	assert.Equal(t, models.Credentials{Username: "moviefan", Password: "popcorn123"}, f.account.creds)
	assert.Nil(t, f.model.dialog)
	require.NotNil(t, f.model.notice)
	assert.Equal(t, NoticeLoggedIn, f.model.notice.Message)

	msg = f.next(t)
	assert.Equal(t, MsgNavigated, msg.Kind())
	assert.Equal(t, controllers.RouteCatalog, f.model.Route())
}

func TestWelcomeLoginFailureKeepsForm(t *testing.T) {
	f := newFixture(t, "")
	f.account.loginErr = shared.ErrAuthFailed

	f.model.Update(runes("l"))
	f.next(t)
	f.model.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f.model.Update(cmd())

	require.NotNil(t, f.model.form)
	assert.ErrorIs(t, f.model.form.err, shared.ErrAuthFailed)
	assert.Equal(t, controllers.RouteWelcome, f.model.Route())
}

func TestWelcomeRegister(t *testing.T) {
	f := newFixture(t, "")

	f.model.Update(runes("r"))
	f.next(t)
	require.NotNil(t, f.model.form)
	assert.Len(t, f.model.form.inputs, 4)

	for _, v := range []string{"newfan1", "pw", "new@fan.dev"} {
		f.model.Update(runes(v))
		f.model.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f.model.Update(cmd())

	assert.Equal(t, models.Registration{Username: "newfan1", Password: "pw", Email: "new@fan.dev"}, f.account.reg)
	assert.Nil(t, f.model.dialog)
	assert.Equal(t, NoticeRegistered, f.model.notice.Message)
}

func TestCatalogView(t *testing.T) {
	f := newFixture(t, controllers.RouteCatalog)

	cmd := f.model.loadCatalog()
	f.model.Update(cmd())

	view := f.model.View()
	assert.Contains(t, view, "Alien")
	assert.Contains(t, view, "★ Heat")

	f.model.Update(runes("g"))
	msg := f.next(t)
	require.Equal(t, MsgDialogOpened, msg.Kind())
	assert.Equal(t, controllers.GenreDialog, f.model.dialog.Kind)
	assert.Contains(t, f.model.View(), "Scary")

	f.model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, f.model.dialog)
}

func TestCatalogToggleFavorite(t *testing.T) {
	f := newFixture(t, controllers.RouteCatalog)
	f.model.Update(f.model.loadCatalog()())

	_, cmd := f.model.Update(runes("f"))
	require.NotNil(t, cmd)
	f.model.Update(cmd())

	assert.Equal(t, []string{"1"}, f.gateway.Added)
	msg := f.next(t)
	assert.Equal(t, MsgNoticeShown, msg.Kind())
	assert.Equal(t, controllers.NoticeFavoriteAdded, f.model.notice.Message)
	assert.Contains(t, f.model.View(), "★ Alien")
}

func TestNoticeExpiry(t *testing.T) {
	f := newFixture(t, "")

	f.model.Update(noticeShownMsg(controllers.Notice{Message: "first", Action: "OK", Duration: time.Second}))
	f.model.Update(noticeShownMsg(controllers.Notice{Message: "second", Action: "OK", Duration: time.Second}))

	f.model.Update(noticeExpiredMsg(1))
	require.NotNil(t, f.model.notice)
	assert.Equal(t, "second", f.model.notice.Message)

	f.model.Update(noticeExpiredMsg(2))
	assert.Nil(t, f.model.notice)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, controllers.RouteCatalog)
	f.session.Set(context.Background(), "token", "tok")

	_, cmd := f.model.Update(runes("o"))
	f.model.Update(cmd())
	f.next(t)

	assert.Equal(t, controllers.RouteWelcome, f.model.Route())
	assert.Empty(t, f.session.Keys())
}

func TestHostDropsWhenFull(t *testing.T) {
	host := NewHost(1, shared.NewLogger(tu.Discard{}))
	defer host.Close()
	host.Notify(controllers.Notice{Message: "first"})
	host.Notify(controllers.Notice{Message: "second"})

	assert.Len(t, host.Events(), 1)
}

func TestHostKeepsRouteChangesWhenFull(t *testing.T) {
	host := NewHost(1, shared.NewLogger(tu.Discard{}))
	defer host.Close()
	defer host.Close()

	host.Notify(controllers.Notice{Message: "busy"})
	host.Navigate(controllers.RouteWelcome)
	host.Open(controllers.Dialog{Kind: controllers.LoginDialog})
	host.Navigate(controllers.RouteCatalog)

	var kinds []MsgKind
	var routes []string
	for range 3 {
		select {
		case msg := <-host.Events():
			m := msg.(Msg)
			kinds = append(kinds, m.Kind())
			if route, ok := m.data.(string); ok && m.Kind() == MsgNavigated {
				routes = append(routes, route)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for host events, got %v", kinds)
		}
	}

	assert.Equal(t, []MsgKind{MsgNoticeShown, MsgNavigated, MsgNavigated}, kinds)
	assert.Equal(t, []string{controllers.RouteWelcome, controllers.RouteCatalog}, routes)

	select {
	case msg := <-host.Events():
		t.Fatalf("expected the dialog to be dropped, got %v", msg)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestRenderDialog(t *testing.T) {
	d := controllers.Dialog{
		Kind: controllers.DirectorDialog,
		Data: map[string]string{"Name": "Ridley Scott", "Bio": "English director", "Birth": "1937"},
		Display: controllers.DisplayConfig{
			Width:      controllers.DetailDialogWidth,
			PanelClass: "director-dialog-background",
		},
	}

	out := RenderDialog(d)
	assert.Contains(t, out, "Ridley Scott")
	assert.Contains(t, out, "1937")
	assert.Contains(t, out, "English director")

	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, controllers.DetailDialogWidth+2, lipgloss.Width(line))
	}
}
