package controllers

// AuthDialogWidth is the width of the login and registration overlays.
const AuthDialogWidth = 36

// WelcomeController opens the entry-point overlays.
type WelcomeController struct {
	dialogs DialogHost
}

// NewWelcomeController creates a [WelcomeController].
func NewWelcomeController(dialogs DialogHost) *WelcomeController {
	return &WelcomeController{dialogs: dialogs}
}

// OpenLogin opens the login overlay.
func (w *WelcomeController) OpenLogin() {
	w.dialogs.Open(Dialog{
		Kind:    LoginDialog,
		Display: DisplayConfig{Width: AuthDialogWidth, PanelClass: "login-dialog-background"},
	})
}

// OpenRegister opens the registration overlay.
func (w *WelcomeController) OpenRegister() {
	w.dialogs.Open(Dialog{
		Kind:    RegisterDialog,
		Display: DisplayConfig{Width: AuthDialogWidth, PanelClass: "register-dialog-background"},
	})
}
