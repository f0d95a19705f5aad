package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"matrixadmin.app/panel/common/logger"
	"matrixadmin.app/panel/internal/model"
	"matrixadmin.app/panel/internal/service"
)

const (
	// SessionCookieName is shared with the auth handler, which issues and
	// clears the cookie.
	SessionCookieName = "panel_session"

	// LoginPath is where unauthenticated and denied requests land.
	LoginPath = "/auth"

	userContextKey = "guard.user"
)

// Guard admits only authenticated matrix owners to the panel. Both an
// explicit denial and an authorization fault end at the login page; the
// panel never renders for a user whose access could not be confirmed.
type Guard struct {
	auth         service.AuthService
	authz        service.AuthorizationService
	isProduction bool
}

func NewGuard(auth service.AuthService, authz service.AuthorizationService, isProduction bool) *Guard {
	return &Guard{
		auth:         auth,
		authz:        authz,
		isProduction: isProduction,
	}
}

func (g *Guard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if skipGuard(path) {
			c.Next()
			return
		}

		if path == LoginPath || path == LoginPath+"/login" {
			// An already signed-in user has no business on the login page
			// or restarting the OAuth flow.
			if _, _, err := g.validate(c); err == nil {
				c.Redirect(http.StatusTemporaryRedirect, "/")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if strings.HasPrefix(path, LoginPath+"/") {
			// Callback, logout and the event stream manage sessions
			// themselves.
			c.Next()
			return
		}

		user, sess, err := g.validate(c)
		if err != nil {
			if errors.Is(err, errNoSession) || errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				g.clearSessionCookie(c)
				g.deny(c, http.StatusUnauthorized, "not authenticated")
				return
			}
			slog.ErrorContext(c.Request.Context(), "session validation fault, denying access",
				"error", err,
				"path", path,
			)
			g.deny(c, http.StatusForbidden, "access denied")
			return
		}

		allowed, err := g.authz.IsMatrixOwner(c.Request.Context(), user.ID)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "authorization fault, denying access",
				"error", err,
				"user_id", user.ID,
				"path", path,
			)
			g.deny(c, http.StatusForbidden, "access denied")
			return
		}
		if !allowed {
			slog.WarnContext(c.Request.Context(), "access denied",
				"user_id", user.ID,
				"path", path,
			)
			g.deny(c, http.StatusForbidden, "access denied")
			return
		}

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			UserID:    logger.Ptr(user.ID),
			SessionID: logger.Ptr(sess.ID),
		})
		c.Request = c.Request.WithContext(ctx)

		SetCurrentUser(c, user)
		c.Next()
	}
}

var errNoSession = errors.New("no session cookie")

func (g *Guard) validate(c *gin.Context) (*model.User, *model.Session, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return nil, nil, errNoSession
	}
	sessionID, err := strconv.ParseInt(cookie, 10, 64)
	if err != nil {
		return nil, nil, errNoSession
	}
	return g.auth.ValidateSession(c.Request.Context(), sessionID)
}

// deny ends the request. Browser navigation is sent to the login page; API
// calls get the status as JSON so the panel can react in place.
func (g *Guard) deny(c *gin.Context, status int, message string) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(status, gin.H{"error": message})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, LoginPath)
	c.Abort()
}

func (g *Guard) clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", g.isProduction, true)
}

func skipGuard(path string) bool {
	if path == "/healthz" || path == "/favicon.ico" {
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// SetCurrentUser records the admitted user on the request context.
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the user the guard admitted for this request.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
