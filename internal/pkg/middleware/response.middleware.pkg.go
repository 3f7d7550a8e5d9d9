package middleware

import (
	_type "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ResponseInit installs the "send" writer used by the JSON handlers. A
// client error without a message reports its error text; server errors
// are logged and keep the generic status text.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		shouldDebug := gin.Mode() == gin.DebugMode
		c.Set("send", func(r *_type.Response) {
			if r.Code == 0 {
				r.Code = http.StatusOK
			}
			if r.Message == "" {
				r.Message = responseMessage(r)
			}
			if r.Code >= http.StatusInternalServerError && r.Error != nil {
				logger.Error.Printf("%s %s: %v rid=%s", c.Request.Method, c.Request.URL.Path, r.Error, c.GetString("requestId"))
			}

			response := _type.ResponseAPI{
				Message: r.Message,
				Data:    r.Data,
			}

			if shouldDebug {
				startTime := c.GetTime("start-time")
				if startTime.IsZero() {
					startTime = time.Now()
				}
				endTime := time.Now()

				response.Debug = &_type.ResponseAPIDebug{
					RequestID: c.GetString("requestId"),
					Version:   c.GetString("version"),
					StartTime: startTime,
					EndTime:   endTime,
					RuntimeMs: endTime.Sub(startTime).Milliseconds(),
				}
				if r.Error != nil {
					response.Debug.Error = helper.StringPtr(r.Error.Error())
				}
			}

			c.Abort()
			c.JSON(r.Code, response)
		})

		c.Next()
	}
}

func responseMessage(r *_type.Response) string {
	switch {
	case r.Code == http.StatusOK:
		return "Success"
	case r.Code >= http.StatusBadRequest && r.Code < http.StatusInternalServerError && r.Error != nil:
		return r.Error.Error()
	default:
		return http.StatusText(r.Code)
	}
}
