package page

import (
	"encoding/base64"
	types "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FlashCookieName = "lf_flash"
	flashKey        = "flashes"
	flashMaxAge     = 300
)

// Flash queues a message for the next rendered page. Messages set during
// one request accumulate.
func Flash(c *gin.Context, category, message string) {
	var flashes []types.Flash
	if v, ok := c.Get(flashKey); ok {
		flashes = v.([]types.Flash)
	}
	flashes = append(flashes, types.Flash{Category: category, Message: message})
	c.Set(flashKey, flashes)

	raw, err := helper.JSONToString(flashes)
	if err != nil {
		_ = helper.HandleAppError(err, "page.Flash", "encode", false)
		return
	}
	c.SetCookie(FlashCookieName, base64.RawURLEncoding.EncodeToString([]byte(raw)), flashMaxAge, "/", "", false, true)
}

// PopFlashes returns the queued messages and clears the cookie.
func PopFlashes(c *gin.Context) []types.Flash {
	value, err := c.Cookie(FlashCookieName)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(FlashCookieName, "", -1, "/", "", false, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []types.Flash
	if err := helper.ByteToStruct(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

// Redirect queues a flash and sends a 303 to location.
func Redirect(c *gin.Context, location, category, message string) {
	if message != "" {
		Flash(c, category, message)
	}
	c.Redirect(http.StatusSeeOther, location)
}
