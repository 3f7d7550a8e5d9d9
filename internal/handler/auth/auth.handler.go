package auth

import (
	"errors"
	"lostfound/internal/common/enum"
	"lostfound/internal/handler/page"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/account"
	"lostfound/internal/service/account/model"
	"lostfound/internal/service/form"
	"lostfound/internal/service/navigation"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	msgPasswordMismatch = "Passwords do not match. Please re-enter them."
	msgRegistered       = "Registration successful. Please verify your email to log in."
	msgNotVerified      = "Please verify your email before logging in. A code was sent to your email. You can resend it below."
	msgLoggedOut        = "You have been logged out successfully."
	msgEmailVerified    = "Email verified successfully. You can now log in."
	msgCodeResent       = "A new verification code has been sent to your email."
	msgEmailUnknown     = "Email not found. Please register first."
	msgResetCodeSent    = "A verification code has been sent to your phone."
	msgPhoneUnknown     = "Phone number not found. Please check and try again."
	msgInvalidCode      = "Invalid code. Please try again."
	msgPasswordUpdated  = "Password updated successfully. You can now log in."
	msgSomethingWrong   = "Something went wrong. Please try again."
)

type Handler struct {
	account account.IService
	auth    jwt.IJWTAuth
	view    *page.Renderer
}

type IHandler interface {
	NewRoutes(web *gin.RouterGroup, api *gin.RouterGroup, auth jwt.IJWTAuth)

	LoginPage(c *gin.Context)
	LoginSubmit(c *gin.Context)
	RegisterPage(c *gin.Context)
	RegisterSubmit(c *gin.Context)
	Logout(c *gin.Context)
	VerifyEmailPage(c *gin.Context)
	VerifyEmailSubmit(c *gin.Context)
	ResendEmailCodeSubmit(c *gin.Context)
	ForgotPasswordPage(c *gin.Context)
	ForgotPasswordSubmit(c *gin.Context)
	VerifyResetCodePage(c *gin.Context)
	VerifyResetCodeSubmit(c *gin.Context)
	ResetPasswordPage(c *gin.Context)
	ResetPasswordSubmit(c *gin.Context)

	APIRegister(c *gin.Context)
	APILogin(c *gin.Context)
	APILogout(c *gin.Context)
	APIVerifyEmail(c *gin.Context)
	APIVerifyPhone(c *gin.Context)
	APIMe(c *gin.Context)
}

func NewHandler(accounts account.IService, auth jwt.IJWTAuth, view *page.Renderer) IHandler {
	return &Handler{account: accounts, auth: auth, view: view}
}

type loginView struct {
	page.Base
	Panel    *navigation.AuthPanel
	Next     string
	Login    map[string]form.FieldState
	Register map[string]form.FieldState
}

type formView struct {
	page.Base
	Form map[string]form.FieldState
}

type resetView struct {
	page.Base
	Form  map[string]form.FieldState
	Phone string
	Token string
}

func (h *Handler) renderLogin(c *gin.Context, status int, panel *navigation.AuthPanel, next string, login, register *form.Form, flash string) {
	base := h.view.Base(c, "Login")
	if panel.Signup() {
		base.Title = "Sign up"
	}
	if flash != "" {
		base.AddFlash("error", flash)
	}
	h.view.HTML(c, status, "login.html", loginView{
		Base:     base,
		Panel:    panel,
		Next:     next,
		Login:    login.States(),
		Register: register.States(),
	})
}

func (h *Handler) renderForm(c *gin.Context, status int, name, title string, f *form.Form, flash string) {
	base := h.view.Base(c, title)
	if flash != "" {
		base.AddFlash("error", flash)
	}
	h.view.HTML(c, status, name, formView{Base: base, Form: f.States()})
}

func (h *Handler) startSession(c *gin.Context, result *model.LoginResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 0
	}
	c.SetCookie(middleware.SessionCookieName, result.Token, maxAge, "/", "", false, true)
}

func (h *Handler) LoginPage(c *gin.Context) {
	if page.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	h.renderLogin(c, http.StatusOK,
		navigation.NewAuthPanel(c.Query("panel")),
		page.SafeNext(c.Query("next")),
		form.New(form.LoginFields()...),
		form.New(form.RegisterFields()...),
		"")
}

func (h *Handler) LoginSubmit(c *gin.Context) {
	fields := form.LoginFields()
	values := page.Values(c, fields)
	next := page.SafeNext(c.PostForm("next"))
	panel := navigation.NewAuthPanel(enum.LOGIN_PANEL.ToString())
	register := form.New(form.RegisterFields()...)

	login := form.New(fields...)
	if err := login.Submit(values); err != nil {
		h.renderLogin(c, http.StatusBadRequest, panel, next, login, register, "")
		return
	}
	defer login.Done()

	result, err := h.account.Login(values["identifier"], values["password"])
	switch {
	case errors.Is(err, account.ErrEmailNotVerified):
		page.Redirect(c, "/verify-email?email="+url.QueryEscape(result.User.Email), "info", msgNotVerified)
		return
	case errors.Is(err, account.ErrInvalidCredentials):
		h.renderLogin(c, http.StatusUnauthorized, panel, next, login, register, err.Error())
		return
	case err != nil:
		logger.Error.Printf("login %s: %v", values["identifier"], err)
		h.renderLogin(c, http.StatusInternalServerError, panel, next, login, register, msgSomethingWrong)
		return
	}

	h.startSession(c, result)
	if next == "" {
		next = "/dashboard"
	}
	c.Redirect(http.StatusSeeOther, next)
}

// RegisterPage is the signup panel of the login page.
func (h *Handler) RegisterPage(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/login?panel="+enum.SIGNUP_PANEL.ToString())
}

func (h *Handler) RegisterSubmit(c *gin.Context) {
	fields := form.RegisterFields()
	values := page.Values(c, fields)
	values["campus_id"] = form.NormalizeCampusID(values["campus_id"])
	panel := navigation.NewAuthPanel(enum.SIGNUP_PANEL.ToString())
	login := form.New(form.LoginFields()...)

	register := form.New(fields...)
	if err := register.Submit(values); err != nil {
		h.renderLogin(c, http.StatusBadRequest, panel, "", login, register, "")
		return
	}
	defer register.Done()

	confirm := c.PostForm("confirm_password")
	if values["password"] != confirm {
		register.Fail("password", msgPasswordMismatch)
		h.renderLogin(c, http.StatusBadRequest, panel, "", login, register, msgPasswordMismatch)
		return
	}

	user, err := h.account.Register(c.Request.Context(), &model.RegisterInput{
		Name:            values["name"],
		CampusID:        values["campus_id"],
		Email:           values["email"],
		Department:      values["department"],
		Phone:           values["phone"],
		Password:        values["password"],
		ConfirmPassword: confirm,
	})
	switch {
	case errors.Is(err, account.ErrEmailTaken):
		register.Fail("email", err.Error())
		h.renderLogin(c, http.StatusConflict, panel, "", login, register, err.Error())
		return
	case errors.Is(err, account.ErrCampusIDTaken):
		register.Fail("campus_id", err.Error())
		h.renderLogin(c, http.StatusConflict, panel, "", login, register, err.Error())
		return
	case errors.Is(err, validation.ErrValidation):
		h.renderLogin(c, http.StatusBadRequest, panel, "", login, register, err.Error())
		return
	case err != nil:
		logger.Error.Printf("register %s: %v", values["email"], err)
		h.renderLogin(c, http.StatusInternalServerError, panel, "", login, register, "Registration failed. Please try again.")
		return
	}

	page.Redirect(c, "/verify-email?email="+url.QueryEscape(user.Email), "success", msgRegistered)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.account.Logout(middleware.Claims(c)); err != nil {
		logger.Warning.Printf("logout: %v", err)
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	page.Redirect(c, "/", "success", msgLoggedOut)
}

func (h *Handler) VerifyEmailPage(c *gin.Context) {
	f := form.New(form.VerifyEmailFields()...)
	page.Prefill(f, map[string]string{"email": c.Query("email")})
	h.renderForm(c, http.StatusOK, "verify_email.html", "Verify email", f, "")
}

func (h *Handler) VerifyEmailSubmit(c *gin.Context) {
	fields := form.VerifyEmailFields()
	values := page.Values(c, fields)
	f := form.New(fields...)
	if err := f.Submit(values); err != nil {
		h.renderForm(c, http.StatusBadRequest, "verify_email.html", "Verify email", f, "Please provide both email and verification code.")
		return
	}
	defer f.Done()

	err := h.account.VerifyEmail(values["email"], strings.TrimSpace(values["code"]))
	switch {
	case errors.Is(err, account.ErrInvalidCode), errors.Is(err, account.ErrUserNotFound):
		f.Fail("code", account.ErrInvalidCode.Error())
		h.renderForm(c, http.StatusBadRequest, "verify_email.html", "Verify email", f, "Invalid verification code or email. Please try again.")
		return
	case err != nil:
		logger.Error.Printf("verify email %s: %v", values["email"], err)
		h.renderForm(c, http.StatusInternalServerError, "verify_email.html", "Verify email", f, msgSomethingWrong)
		return
	}
	page.Redirect(c, "/login", "success", msgEmailVerified)
}

func (h *Handler) ResendEmailCodeSubmit(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" {
		page.Redirect(c, "/verify-email", "error", "Please provide your email to resend the code.")
		return
	}
	target := "/verify-email?email=" + url.QueryEscape(email)

	err := h.account.ResendEmailCode(c.Request.Context(), email)
	switch {
	case errors.Is(err, account.ErrUserNotFound):
		page.Redirect(c, target, "error", msgEmailUnknown)
	case err != nil:
		logger.Error.Printf("resend email code %s: %v", email, err)
		page.Redirect(c, target, "error", msgSomethingWrong)
	default:
		page.Redirect(c, target, "success", msgCodeResent)
	}
}

func (h *Handler) ForgotPasswordPage(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "forgot_password.html", "Forgot password", form.New(form.PhoneFields()...), "")
}

func (h *Handler) ForgotPasswordSubmit(c *gin.Context) {
	fields := form.PhoneFields()
	values := page.Values(c, fields)
	f := form.New(fields...)
	if err := f.Submit(values); err != nil {
		h.renderForm(c, http.StatusBadRequest, "forgot_password.html", "Forgot password", f, "")
		return
	}
	defer f.Done()

	phone := strings.TrimSpace(values["phone"])
	err := h.account.RequestPhoneReset(c.Request.Context(), phone)
	switch {
	case errors.Is(err, account.ErrUserNotFound):
		f.Fail("phone", msgPhoneUnknown)
		h.renderForm(c, http.StatusNotFound, "forgot_password.html", "Forgot password", f, msgPhoneUnknown)
		return
	case err != nil:
		logger.Error.Printf("request phone reset: %v", err)
		h.renderForm(c, http.StatusInternalServerError, "forgot_password.html", "Forgot password", f, msgSomethingWrong)
		return
	}
	page.Redirect(c, "/verify-reset-code?phone="+url.QueryEscape(phone), "success", msgResetCodeSent)
}

func (h *Handler) VerifyResetCodePage(c *gin.Context) {
	f := form.New(form.PhoneCodeFields()...)
	page.Prefill(f, map[string]string{"phone": c.Query("phone")})
	h.renderForm(c, http.StatusOK, "verify_reset_code.html", "Verify code", f, "")
}

func (h *Handler) VerifyResetCodeSubmit(c *gin.Context) {
	fields := form.PhoneCodeFields()
	values := page.Values(c, fields)
	f := form.New(fields...)
	if err := f.Submit(values); err != nil {
		h.renderForm(c, http.StatusBadRequest, "verify_reset_code.html", "Verify code", f, "Please provide your phone and the 6-digit code.")
		return
	}
	defer f.Done()

	phone := strings.TrimSpace(values["phone"])
	token, err := h.account.VerifyPhoneCode(phone, strings.TrimSpace(values["code"]))
	switch {
	case errors.Is(err, account.ErrInvalidCode), errors.Is(err, account.ErrUserNotFound):
		f.Fail("code", msgInvalidCode)
		h.renderForm(c, http.StatusBadRequest, "verify_reset_code.html", "Verify code", f, msgInvalidCode)
		return
	case err != nil:
		logger.Error.Printf("verify reset code: %v", err)
		h.renderForm(c, http.StatusInternalServerError, "verify_reset_code.html", "Verify code", f, msgSomethingWrong)
		return
	}

	query := url.Values{"phone": {phone}, "token": {token}}
	c.Redirect(http.StatusSeeOther, "/reset-password?"+query.Encode())
}

func (h *Handler) renderReset(c *gin.Context, status int, f *form.Form, phone, token, flash string) {
	base := h.view.Base(c, "Reset password")
	if flash != "" {
		base.AddFlash("error", flash)
	}
	h.view.HTML(c, status, "reset_password.html", resetView{Base: base, Form: f.States(), Phone: phone, Token: token})
}

func (h *Handler) ResetPasswordPage(c *gin.Context) {
	phone, token := c.Query("phone"), c.Query("token")
	if phone == "" || token == "" {
		page.Redirect(c, "/forgot-password", "error", "Missing phone number. Please restart the reset process.")
		return
	}
	h.renderReset(c, http.StatusOK, form.New(form.ResetPasswordFields()...), phone, token, "")
}

func (h *Handler) ResetPasswordSubmit(c *gin.Context) {
	phone, token := c.PostForm("phone"), c.PostForm("token")
	if phone == "" || token == "" {
		page.Redirect(c, "/forgot-password", "error", "Missing phone number. Please restart the reset process.")
		return
	}

	fields := form.ResetPasswordFields()
	values := page.Values(c, fields)
	f := form.New(fields...)
	if err := f.Submit(values); err != nil {
		h.renderReset(c, http.StatusBadRequest, f, phone, token, "")
		return
	}
	defer f.Done()

	if values["password"] != c.PostForm("confirm_password") {
		f.Fail("password", "Passwords do not match.")
		h.renderReset(c, http.StatusBadRequest, f, phone, token, "Passwords do not match.")
		return
	}

	err := h.account.ResetPassword(phone, token, values["password"])
	switch {
	case errors.Is(err, account.ErrResetNotAllowed), errors.Is(err, account.ErrUserNotFound):
		page.Redirect(c, "/forgot-password", "error", account.ErrResetNotAllowed.Error())
		return
	case err != nil:
		logger.Error.Printf("reset password: %v", err)
		h.renderReset(c, http.StatusInternalServerError, f, phone, token, msgSomethingWrong)
		return
	}
	page.Redirect(c, "/login", "success", msgPasswordUpdated)
}
