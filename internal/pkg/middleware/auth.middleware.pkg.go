package middleware

import (
	"errors"
	_type "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/logger"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AuthKey           = "auth"
	SessionCookieName = "lf_session"
	LoginPath         = "/login"
)

var ErrTokenNotFound = errors.New("token not found")

// ExtractToken reads a bearer Authorization header, falling back to the
// session cookie set by the web login.
func ExtractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) < 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", errors.New("invalid token format")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", ErrTokenNotFound
}

// AuthMiddleware guards JSON routes.
func AuthMiddleware(auth jwt.IJWTAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))
		token, err := ExtractToken(c)
		if err != nil {
			send(helper.ParseResponse(&_type.Response{Code: http.StatusUnauthorized, Message: err.Error(), Error: err}))
			return
		}
		claims, err := auth.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&_type.Response{Code: http.StatusUnauthorized, Message: "invalid token", Error: err}))
			return
		}

		c.Set(AuthKey, claims)
		c.Next()
	}
}

// WebAuthMiddleware guards page routes; anonymous visitors are sent to the
// login page with a return path.
func WebAuthMiddleware(auth jwt.IJWTAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessionClaims(c, auth)
		if err != nil {
			logger.Debug.Printf("web auth rejected %s: %v", c.Request.URL.Path, err)
			c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
			c.Redirect(http.StatusSeeOther, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Set(AuthKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware loads claims when a valid session exists and never
// rejects the request.
func OptionalAuthMiddleware(auth jwt.IJWTAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := sessionClaims(c, auth); err == nil {
			c.Set(AuthKey, claims)
		}
		c.Next()
	}
}

func sessionClaims(c *gin.Context, auth jwt.IJWTAuth) (map[string]interface{}, error) {
	token, err := ExtractToken(c)
	if err != nil {
		return nil, err
	}
	return auth.ValidateToken(token)
}

// Claims returns the authenticated claims, nil for anonymous requests.
func Claims(c *gin.Context) map[string]interface{} {
	value, ok := c.Get(AuthKey)
	if !ok {
		return nil
	}
	claims, _ := value.(map[string]interface{})
	return claims
}
