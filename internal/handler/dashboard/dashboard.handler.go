package dashboard

import (
	"fmt"
	"html/template"
	"lostfound/internal/common/enum"
	"lostfound/internal/handler/page"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	view *page.Renderer
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
	Action(c *gin.Context)
	RedirectPage(action enum.DashboardActionEnum) gin.HandlerFunc
}

func NewHandler(view *page.Renderer) IHandler {
	return &Handler{view: view}
}

type redirectView struct {
	page.Base
	Target  string
	Refresh template.HTMLAttr
}

// Action routes a dashboard card by its action id to the action's fixed
// destination. The destination pages are served from the same path
// level, so the relative Location resolves to them.
func (h *Handler) Action(c *gin.Context) {
	name := c.Param("action")
	if action := enum.DashboardActionEnum(name); action.IsValid() {
		c.Header("Location", action.Destination())
		c.Status(http.StatusFound)
		return
	}
	if action, ok := enum.DashboardActionByDestination(name); ok {
		h.RedirectPage(action)(c)
		return
	}
	h.view.NotFound(c, fmt.Sprintf("Unknown dashboard action %q", name))
}

// RedirectPage forwards the browser to the page behind the action.
func (h *Handler) RedirectPage(action enum.DashboardActionEnum) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := action.Target()
		h.view.HTML(c, http.StatusOK, "redirect.html", redirectView{
			Base:    h.view.Base(c, "Redirecting"),
			Target:  target,
			Refresh: template.HTMLAttr(fmt.Sprintf(`content="0; url=%s"`, target)),
		})
	}
}
