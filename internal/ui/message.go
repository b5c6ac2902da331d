package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCatalogLoaded MsgKind = iota
	MsgFavoriteToggled
	MsgProfileLoaded
	MsgLoggedIn
	MsgRegistered
	MsgLoggedOut
	MsgDialogOpened
	MsgNoticeShown
	MsgNoticeExpired
	MsgNavigated
)

// Kind returns the message kind.
func (m Msg) Kind() MsgKind { return m.kind }

type profileResult struct {
	user *models.User
	err  error
}

// catalogLoadedMsg is the constructor for [MsgCatalogLoaded]
func catalogLoadedMsg(err error) Msg {
	return Msg{kind: MsgCatalogLoaded, data: err}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: err}
}

// profileLoadedMsg is the constructor for [MsgProfileLoaded]
func profileLoadedMsg(user *models.User, err error) Msg {
	return Msg{kind: MsgProfileLoaded, data: profileResult{user, err}}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(err error) Msg {
	return Msg{kind: MsgLoggedIn, data: err}
}

// registeredMsg is the constructor for [MsgRegistered]
func registeredMsg(err error) Msg {
	return Msg{kind: MsgRegistered, data: err}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, data: err}
}

// dialogOpenedMsg is the constructor for [MsgDialogOpened]
func dialogOpenedMsg(d controllers.Dialog) Msg {
	return Msg{kind: MsgDialogOpened, data: d}
}

// noticeShownMsg is the constructor for [MsgNoticeShown]
func noticeShownMsg(n controllers.Notice) Msg {
	return Msg{kind: MsgNoticeShown, data: n}
}

// noticeExpiredMsg is the constructor for [MsgNoticeExpired]
func noticeExpiredMsg(seq int) Msg {
	return Msg{kind: MsgNoticeExpired, data: seq}
}

// navigatedMsg is the constructor for [MsgNavigated]
func navigatedMsg(route string) Msg {
	return Msg{kind: MsgNavigated, data: route}
}

// errOf extracts the error carried by result messages.
func (m Msg) errOf() error {
	switch d := m.data.(type) {
	case error:
		return d
	case profileResult:
		return d.err
	}
	return nil
}
