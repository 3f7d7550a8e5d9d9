package dashboard

import (
	"lostfound/internal/common/enum"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	e.GET("/dashboard/actions/:action", h.Action)

	for _, action := range enum.DashboardActions() {
		e.GET("/"+action.Destination(), h.RedirectPage(action))
	}
}
