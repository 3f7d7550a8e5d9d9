package handler

import (
	_type "lostfound/internal/common/type"
	"lostfound/internal/handler/auth"
	"lostfound/internal/handler/dashboard"
	itemHandler "lostfound/internal/handler/item"
	"lostfound/internal/handler/page"
	uploadHandler "lostfound/internal/handler/upload"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/service/account"
	"lostfound/internal/service/item"
	"lostfound/internal/service/upload"
	"lostfound/web"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Auth     jwt.IJWTAuth
	Accounts account.IService
	Items    item.IService
	Uploads  *upload.Registry
	View     *page.Renderer
	Origins  []string

	// UploadDir is served at UploadURL when photos are stored on local disk.
	UploadDir string
	UploadURL string
}

// NewRouter wires the middleware chain, static files, pages under / and the
// JSON API under /api.
func NewRouter(d *Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CorsMiddleware(d.Origins...))
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit())

	r.StaticFS("/static", http.FS(web.Static()))
	if d.UploadDir != "" && d.UploadURL != "" {
		r.Static(d.UploadURL, d.UploadDir)
	}
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	pages := r.Group("")
	api := r.Group("/api")

	auth.NewHandler(d.Accounts, d.Auth, d.View).NewRoutes(pages, api, d.Auth)
	itemHandler.NewHandler(d.Items, d.View).NewRoutes(pages, api, d.Auth)
	dashboard.NewHandler(d.View).NewRoutes(pages)
	if d.Uploads != nil {
		uploadHandler.NewHandler(d.Uploads).NewRoutes(api, d.Auth)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			send := c.MustGet("send").(func(r *_type.Response))
			send(helper.ParseResponse(&_type.Response{Code: http.StatusNotFound}))
			return
		}
		d.View.NotFound(c, "The page you are looking for does not exist.")
	})

	return r
}
