package item

import (
	"lostfound/internal/common/enum"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(web *gin.RouterGroup, api *gin.RouterGroup, auth jwt.IJWTAuth) {
	public := web.Group("", middleware.OptionalAuthMiddleware(auth))
	public.
		GET("/", h.IndexPage).
		GET("/about", h.AboutPage).
		GET("/search", h.SearchPage).
		GET("/items", h.ItemsPage).
		GET("/item/:id", h.ItemPage)

	private := web.Group("", middleware.WebAuthMiddleware(auth))
	private.
		GET("/dashboard", h.DashboardPage).
		GET("/report_lost", h.ReportPage(enum.LOST)).
		POST("/report_lost", h.ReportSubmit(enum.LOST)).
		GET("/report_found", h.ReportPage(enum.FOUND)).
		POST("/report_found", h.ReportSubmit(enum.FOUND)).
		POST("/item/:id/resolve", h.ResolveSubmit)

	items := api.Group("/items")
	items.
		GET("", h.APIList).
		GET("/feed", h.APIFeed).
		GET("/:id", h.APIGet).
		POST("/:id/resolve", middleware.AuthMiddleware(auth), h.APIResolve)

	api.POST("/report/:type",
		middleware.AuthMiddleware(auth),
		middleware.MultipartFormMiddleware([]middleware.FieldOpts{middleware.PhotoFieldOpts(0)}),
		h.APIReport)
}
