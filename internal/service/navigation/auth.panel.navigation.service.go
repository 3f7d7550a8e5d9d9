package navigation

import "lostfound/internal/common/enum"

// AuthPanel switches the login page between its login and signup panels.
type AuthPanel struct {
	current enum.AuthPanelEnum
}

// NewAuthPanel starts on the requested panel, falling back to login.
func NewAuthPanel(requested string) *AuthPanel {
	p := &AuthPanel{current: enum.LOGIN_PANEL}
	if panel := enum.AuthPanelEnum(requested); panel.IsValid() {
		p.current = panel
	}
	return p
}

func (p *AuthPanel) ShowSignup() {
	p.current = enum.SIGNUP_PANEL
}

func (p *AuthPanel) ShowLogin() {
	p.current = enum.LOGIN_PANEL
}

func (p *AuthPanel) Current() enum.AuthPanelEnum {
	return p.current
}

func (p *AuthPanel) Signup() bool {
	return p.current == enum.SIGNUP_PANEL
}
