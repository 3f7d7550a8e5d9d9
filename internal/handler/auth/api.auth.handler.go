package auth

import (
	"errors"
	_type "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/account"
	"lostfound/internal/service/account/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusOf maps account errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrEmailTaken), errors.Is(err, account.ErrCampusIDTaken):
		return http.StatusConflict
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, account.ErrInvalidCode), errors.Is(err, account.ErrResetNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrUserNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func fail(send func(r *_type.Response), err error) {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = ""
	}
	send(helper.ParseResponse(&_type.Response{Code: code, Message: message, Error: err}))
}

// bind decodes the JSON body and applies the validate tags.
func bind(c *gin.Context, payload interface{}) error {
	if err := c.ShouldBindJSON(payload); err != nil {
		return errors.Join(validation.ErrValidation, err)
	}
	return validation.Validate(payload)
}

func (h *Handler) APIRegister(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	var input model.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(send, errors.Join(validation.ErrValidation, err))
		return
	}
	user, err := h.account.Register(c.Request.Context(), &input)
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{
		Code:    http.StatusCreated,
		Message: "User registered successfully",
		Data:    user,
	}))
}

func (h *Handler) APILogin(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	var input model.LoginInput
	if err := bind(c, &input); err != nil {
		fail(send, err)
		return
	}
	result, err := h.account.Login(input.Identifier, input.Password)
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{Message: "Login successful", Data: result}))
}

func (h *Handler) APILogout(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	if err := h.account.Logout(middleware.Claims(c)); err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{Message: "Logged out"}))
}

func (h *Handler) APIVerifyEmail(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	var input model.VerifyEmailInput
	if err := bind(c, &input); err != nil {
		fail(send, err)
		return
	}
	if err := h.account.VerifyEmail(input.Email, input.Code); err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{Message: "Email verified successfully"}))
}

// APIVerifyPhone confirms a reset code; the returned token authorizes the
// password reset for that phone.
func (h *Handler) APIVerifyPhone(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	var input model.VerifyPhoneInput
	if err := bind(c, &input); err != nil {
		fail(send, err)
		return
	}
	token, err := h.account.VerifyPhoneCode(input.Phone, input.Code)
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{
		Message: "Phone number verified successfully",
		Data:    gin.H{"reset_token": token},
	}))
}

func (h *Handler) APIMe(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	id, ok := jwt.UserID(middleware.Claims(c))
	if !ok {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusUnauthorized, Message: "invalid token"}))
		return
	}
	user, err := h.account.GetByID(id)
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{Data: user}))
}
