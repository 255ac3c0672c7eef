package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"pg-portal/config"
)

// ReturnURLKey is the query parameter and cookie session key holding the page to resume after login.
const ReturnURLKey = "returnUrl"

// SessionChecker is satisfied by the tenant and admin session stores.
type SessionChecker interface {
	IsLoggedIn() bool
}

// RequireSession lets the request through only when checker has a signed-in identity.
// Otherwise it remembers the requested URL and redirects to loginPath.
func RequireSession(checker SessionChecker, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker.IsLoggedIn() {
			c.Next()
			return
		}

		returnURL := c.Request.URL.RequestURI()
		session := sessions.Default(c)
		session.Set(ReturnURLKey, returnURL)
		if err := session.Save(); err != nil {
			config.Log.WithError(err).Warn("⚠️ Failed to remember return URL")
		}

		config.Log.WithField("path", returnURL).Info("🔒 Redirecting to login")
		c.Redirect(http.StatusFound, loginPath+"?"+ReturnURLKey+"="+url.QueryEscape(returnURL))
		c.Abort()
	}
}

// ConsumeReturnURL picks the page to open after a successful login in area ("/user" or "/admin").
// The query parameter wins over the cookie session; the stored value is cleared either way.
// Anything that is not a local path inside area yields fallback.
func ConsumeReturnURL(c *gin.Context, area, fallback string) string {
	session := sessions.Default(c)
	stored, _ := session.Get(ReturnURLKey).(string)
	if stored != "" {
		session.Delete(ReturnURLKey)
		if err := session.Save(); err != nil {
			config.Log.WithError(err).Warn("⚠️ Failed to clear return URL")
		}
	}

	candidate := c.Query(ReturnURLKey)
	if candidate == "" {
		candidate = stored
	}
	if SafeReturnURL(candidate, area) {
		return candidate
	}
	return fallback
}

// SafeReturnURL reports whether target is a local absolute path inside area, and not area's login page.
func SafeReturnURL(target, area string) bool {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	if u.Path != area && !strings.HasPrefix(u.Path, area+"/") {
		return false
	}
	return u.Path != area+"/login"
}
