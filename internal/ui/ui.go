package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// Notices shown by the authentication forms.
const (
	NoticeLoggedIn   = "Login successful"
	NoticeRegistered = "User registration successful"
)

// Account is the part of the API client used by the login, registration and profile views.
type Account interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// ModelOpts contains the dependencies of a [Model].
type ModelOpts struct {
	Account    Account
	Catalog    *controllers.CatalogController
	Navigation *controllers.NavigationController
	Welcome    *controllers.WelcomeController
	Host       *Host
	// StartRoute is the first route shown; defaults to welcome.
	StartRoute string
	Logger     *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	account Account
	catalog *controllers.CatalogController
	nav     *controllers.NavigationController
	welcome *controllers.WelcomeController
	host    *Host
	logger  *log.Logger

	route     string
	width     int
	height    int
	movieList list.Model
	favList   list.Model
	profile   *models.User
	loading   bool

	dialog    *controllers.Dialog
	form      *authForm
	notice    *controllers.Notice
	noticeSeq int
	err       error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.StartRoute == "" {
		opts.StartRoute = controllers.RouteWelcome
	}

	movieList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	movieList.Title = "Movies"
	movieList.SetShowHelp(false)

	favList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	favList.Title = "Favorite movies"
	favList.SetShowHelp(false)

	return &Model{
		ctx:       ctx,
		account:   opts.Account,
		catalog:   opts.Catalog,
		nav:       opts.Navigation,
		welcome:   opts.Welcome,
		host:      opts.Host,
		logger:    opts.Logger,
		route:     opts.StartRoute,
		movieList: movieList,
		favList:   favList,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts draining host events and loads the first route.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.enter(m.route))
}

// Route returns the current route.
func (m *Model) Route() string { return m.route }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		m.favList.SetSize(max(msg.Width-4, 0), max(msg.Height-14, 0))
		return m, nil

	case tea.KeyMsg:
		if m.dialog != nil {
			return m.handleDialogKeys(msg)
		}
		switch m.route {
		case controllers.RouteWelcome:
			return m.handleWelcomeKeys(msg)
		case controllers.RouteCatalog:
			return m.handleCatalogKeys(msg)
		case controllers.RouteProfile:
			return m.handleProfileKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgDialogOpened:
		d := msg.data.(controllers.Dialog)
		m.dialog = &d
		m.form = nil
		if d.Kind == controllers.LoginDialog || d.Kind == controllers.RegisterDialog {
			m.form = newAuthForm(d.Kind, d.Display.Width)
		}
		return m, m.waitForEvent()

	case MsgNoticeShown:
		n := msg.data.(controllers.Notice)
		return m, tea.Batch(m.showNotice(n), m.waitForEvent())

	case MsgNoticeExpired:
		if msg.data.(int) == m.noticeSeq {
			m.notice = nil
		}
		return m, nil

	case MsgNavigated:
		route := msg.data.(string)
		m.route = route
		m.dialog, m.form = nil, nil
		return m, tea.Batch(m.enter(route), m.waitForEvent())

	case MsgCatalogLoaded, MsgFavoriteToggled:
		m.loading = false
		m.err = msg.errOf()
		m.refreshLists()
		return m, nil

	case MsgProfileLoaded:
		m.loading = false
		res := msg.data.(profileResult)
		m.err = res.err
		if res.user != nil {
			m.profile = res.user
		}
		m.refreshLists()
		return m, nil

	case MsgLoggedIn:
		if err := msg.errOf(); err != nil {
			return m, m.formFailed(err)
		}
		m.dialog, m.form = nil, nil
		m.nav.ToCatalog()
		return m, m.showNotice(authNotice(NoticeLoggedIn))

	case MsgRegistered:
		if err := msg.errOf(); err != nil {
			return m, m.formFailed(err)
		}
		m.dialog, m.form = nil, nil
		return m, m.showNotice(authNotice(NoticeRegistered))

	case MsgLoggedOut:
		m.err = msg.errOf()
		m.profile = nil
		return m, nil
	}
	return m, nil
}

func authNotice(message string) controllers.Notice {
	return controllers.Notice{
		Message:  message,
		Action:   controllers.NoticeAction,
		Duration: controllers.NoticeDuration,
	}
}

func (m *Model) formFailed(err error) tea.Cmd {
	if m.form != nil {
		m.form.submitting = false
		m.form.err = err
	}
	return nil
}

func (m *Model) showNotice(n controllers.Notice) tea.Cmd {
	m.notice = &n
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(n.Duration, func(_ time.Time) tea.Msg { return noticeExpiredMsg(seq) })
}

// enter loads the data a route needs.
func (m *Model) enter(route string) tea.Cmd {
	switch route {
	case controllers.RouteCatalog:
		m.loading = true
		return m.loadCatalog()
	case controllers.RouteProfile:
		m.loading = true
		return m.loadProfile()
	default:
		m.profile = nil
		m.movieList.SetItems(nil)
		m.favList.SetItems(nil)
		return nil
	}
}

func (m *Model) refreshLists() {
	movies := m.catalog.Movies()
	m.movieList.SetItems(movieItems(movies, m.catalog.IsFavorite))

	favorites := make([]models.Movie, 0)
	for _, id := range m.catalog.Favorites() {
		if movie, ok := m.catalog.Movie(id); ok {
			favorites = append(favorites, movie)
		}
	}
	m.favList.SetItems(movieItems(favorites, m.catalog.IsFavorite))
}

func (m *Model) selected(l list.Model) (models.Movie, bool) {
	item, ok := l.SelectedItem().(movieItem)
	if !ok {
		return models.Movie{}, false
	}
	return item.movie, true
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.dialog, m.form = nil, nil
		return m, nil
	}

	if m.form == nil {
		if key.Matches(msg, m.keys.summary) {
			m.dialog = nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.form.submitting {
		return m, nil
	}

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit) && m.form.last():
		m.form.submitting = true
		m.form.err = nil
		return m, m.submitForm()
	case key.Matches(msg, m.keys.submit), key.Matches(msg, m.keys.next):
		return m, m.form.move(1)
	case key.Matches(msg, m.keys.prev):
		return m, m.form.move(-1)
	}
	return m, m.form.update(msg)
}

func (m *Model) handleWelcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.login):
		m.welcome.OpenLogin()
	case key.Matches(msg, m.keys.register):
		m.welcome.OpenRegister()
	}
	return m, nil
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	if cmd, ok := m.handleCommonKeys(msg); ok {
		return m, cmd
	}

	movie, ok := m.selected(m.movieList)
	switch {
	case !ok:
	case key.Matches(msg, m.keys.summary):
		m.catalog.OpenSummary(movie.Title, movie.Description)
		return m, nil
	case key.Matches(msg, m.keys.genre):
		m.catalog.OpenGenre(movie.Genre.Name, movie.Genre.Description)
		return m, nil
	case key.Matches(msg, m.keys.director):
		m.catalog.OpenDirector(movie.Director.Name, movie.Director.Bio, movie.Director.Birth)
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite(movie.ID)
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKeys(msg); ok {
		return m, cmd
	}

	if movie, ok := m.selected(m.favList); ok {
		switch {
		case key.Matches(msg, m.keys.favorite):
			return m, m.toggleFavorite(movie.ID)
		case key.Matches(msg, m.keys.summary):
			m.catalog.OpenSummary(movie.Title, movie.Description)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.favList, cmd = m.favList.Update(msg)
	return m, cmd
}

// handleCommonKeys handles keys shared by the authenticated routes.
func (m *Model) handleCommonKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.movies):
		m.nav.ToCatalog()
		return nil, true
	case key.Matches(msg, m.keys.profile):
		m.nav.ToProfile()
		return nil, true
	case key.Matches(msg, m.keys.reload):
		return m.enter(m.route), true
	case key.Matches(msg, m.keys.logout):
		return m.logout(), true
	}
	return nil, false
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.route {
	case controllers.RouteCatalog:
		m.movieList, cmd = m.movieList.Update(msg)
	case controllers.RouteProfile:
		m.favList, cmd = m.favList.Update(msg)
	}
	return m, cmd
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.host.Events():
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg(m.catalog.Reload(m.ctx))
	}
}

func (m *Model) loadProfile() tea.Cmd {
	return func() tea.Msg {
		user, err := m.account.CurrentUser(m.ctx)
		if err != nil {
			return profileLoadedMsg(nil, err)
		}
		return profileLoadedMsg(user, m.catalog.Reload(m.ctx))
	}
}

func (m *Model) toggleFavorite(id string) tea.Cmd {
	return func() tea.Msg {
		if m.catalog.IsFavorite(id) {
			return favoriteToggledMsg(m.catalog.RemoveFromFavorites(m.ctx, id))
		}
		return favoriteToggledMsg(m.catalog.AddToFavorite(m.ctx, id))
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg(m.nav.Logout(m.ctx))
	}
}

func (m *Model) submitForm() tea.Cmd {
	form := m.form
	return func() tea.Msg {
		if form.kind == controllers.RegisterDialog {
			_, err := m.account.Register(m.ctx, form.registration())
			return registeredMsg(err)
		}
		_, err := m.account.Login(m.ctx, form.credentials())
		return loggedInMsg(err)
	}
}

// View renders the UI based on the current route, with any open dialog on top.
func (m *Model) View() string {
	var body string
	switch m.route {
	case controllers.RouteCatalog:
		body = m.renderCatalog()
	case controllers.RouteProfile:
		body = m.renderProfile()
	default:
		body = m.renderWelcome()
	}
	body = fmt.Sprintf("%s\n%s", body, m.renderStatus())

	if m.dialog == nil {
		return body
	}

	content := dialogBody(*m.dialog)
	if m.form != nil {
		content = fmt.Sprintf("%s\n%s", content, m.form.view())
	}
	panel := renderPanel(*m.dialog, content) + "\n" + m.help.ShortHelpView(m.dialogKeys())
	if m.width == 0 || m.height == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func (m *Model) dialogKeys() []key.Binding {
	if m.form != nil {
		return []key.Binding{m.keys.next, m.keys.submit, m.keys.back}
	}
	return []key.Binding{m.keys.back}
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return styles.err.Render(describe(m.err))
	case m.notice != nil:
		return fmt.Sprintf("%s  %s", styles.ok.Render(m.notice.Message), styles.help.Render("["+m.notice.Action+"]"))
	case m.loading:
		return styles.help.Render("Loading...")
	}
	return ""
}

// describe turns common errors into a short status line.
func describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "Not logged in. Press o to return to the welcome screen."
	case errors.Is(err, shared.ErrAuthFailed):
		return "Login failed: check your username and password."
	}
	return fmt.Sprintf("Error: %v", err)
}

func (m *Model) renderWelcome() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Welcome to myFlix"))
	b.WriteString("\n")
	b.WriteString("Browse the catalog, read about directors and genres, and keep a list of favorites.\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.login, m.keys.register, m.keys.quit}))
	return b.String()
}

func (m *Model) renderCatalog() string {
	helpKeys := []key.Binding{
		m.keys.summary, m.keys.genre, m.keys.director, m.keys.favorite,
		m.keys.profile, m.keys.logout, m.keys.quit,
	}
	return fmt.Sprintf("%s\n\n%s", m.movieList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderProfile() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Profile"))
	b.WriteString("\n")

	if u := m.profile; u != nil {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Username:"), u.Username)
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Email:"), u.Email)
		if u.Birthday != "" {
			fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Birthday:"), u.Birthday)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.favList.View())
	b.WriteString("\n\n")
	helpKeys := []key.Binding{m.keys.summary, m.keys.favorite, m.keys.movies, m.keys.logout, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
