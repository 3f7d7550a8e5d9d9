package upload

import (
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth jwt.IJWTAuth) {
	group := e.Group("/uploads", middleware.AuthMiddleware(auth))

	group.
		POST("", h.Select).
		GET("", h.State).
		DELETE("", h.Reset).
		POST("/submit", h.Submit).
		POST("/:id/approve", h.Approve).
		DELETE("/:id", h.Reject)
}
