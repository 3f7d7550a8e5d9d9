package auth

import (
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(web *gin.RouterGroup, api *gin.RouterGroup, auth jwt.IJWTAuth) {
	pages := web.Group("", middleware.OptionalAuthMiddleware(auth))
	pages.
		GET("/login", h.LoginPage).
		POST("/login", h.LoginSubmit).
		GET("/register", h.RegisterPage).
		POST("/register", h.RegisterSubmit).
		GET("/logout", h.Logout).
		POST("/logout", h.Logout).
		GET("/verify-email", h.VerifyEmailPage).
		POST("/verify-email", h.VerifyEmailSubmit).
		POST("/resend-email-code", h.ResendEmailCodeSubmit).
		GET("/forgot-password", h.ForgotPasswordPage).
		POST("/forgot-password", h.ForgotPasswordSubmit).
		GET("/verify-reset-code", h.VerifyResetCodePage).
		POST("/verify-reset-code", h.VerifyResetCodeSubmit).
		GET("/reset-password", h.ResetPasswordPage).
		POST("/reset-password", h.ResetPasswordSubmit)

	api.
		POST("/register", h.APIRegister).
		POST("/login", h.APILogin).
		POST("/verify_email", h.APIVerifyEmail).
		POST("/verify_phone", h.APIVerifyPhone).
		POST("/logout", middleware.AuthMiddleware(auth), h.APILogout).
		GET("/me", middleware.AuthMiddleware(auth), h.APIMe)
}
