package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"matrixadmin.app/panel/internal/events"
	"matrixadmin.app/panel/internal/http/dto"
	"matrixadmin.app/panel/internal/http/middleware"
	"matrixadmin.app/panel/internal/service"
)

const (
	stateCookieName = "panel_oauth_state"
	sessionMaxAge   = 7 * 24 * 60 * 60
)

type AuthHandler struct {
	authService  service.AuthService
	authzService service.AuthorizationService
	subscriber   events.Subscriber
	panelURL     string
	isProduction bool
}

func NewAuthHandler(
	authService service.AuthService,
	authzService service.AuthorizationService,
	subscriber events.Subscriber,
	panelURL string,
	isProduction bool,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		authzService: authzService,
		subscriber:   subscriber,
		panelURL:     panelURL,
		isProduction: isProduction,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to generate state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login"})
		return
	}

	authURL, err := h.authService.GetAuthorizationURL(state)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to get authorization URL", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login"})
		return
	}

	c.SetCookie(stateCookieName, state, 600, "/", "", h.isProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	state := c.Query("state")
	errorParam := c.Query("error")

	if errorParam != "" {
		slog.WarnContext(ctx, "OAuth error", "error", errorParam, "description", c.Query("error_description"))
		c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath+"?auth_error="+errorParam)
		return
	}

	storedState, err := c.Cookie(stateCookieName)
	if err != nil || state != storedState {
		slog.WarnContext(ctx, "state mismatch", "got", state)
		c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath+"?auth_error=invalid_state")
		return
	}

	h.clearStateCookie(c)

	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath+"?auth_error=no_code")
		return
	}

	user, session, err := h.authService.HandleCallback(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to handle callback", "error", err)
		if errors.Is(err, service.ErrInvalidCode) {
			c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath+"?auth_error=invalid_code")
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath+"?auth_error=callback_failed")
		return
	}

	h.setSessionCookie(c, session.ID)

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID, "email", user.Email)

	c.Redirect(http.StatusTemporaryRedirect, h.panelURL+"/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID, err := h.getSessionID(c); err == nil && sessionID > 0 {
		if err := h.authService.Logout(ctx, sessionID); err != nil {
			slog.WarnContext(ctx, "failed to delete session", "error", err, "session_id", sessionID)
		}
	}

	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me serves both surfaces: under /api/v1 the guard already resolved the
// user; under /auth it validates the cookie itself so a freshly signed-in
// panel can bootstrap before authorization is known.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		sessionID, err := h.getSessionID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		user, _, err = h.authService.ValidateSession(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Membership answers the two predicates the panel gates on.
func (h *AuthHandler) Membership(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	matrixOwner, err := h.authzService.IsMatrixOwner(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve matrix ownership", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve membership"})
		return
	}

	memberOfAny, err := h.authzService.IsMemberOfAny(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count memberships", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve membership"})
		return
	}

	c.JSON(http.StatusOK, dto.MembershipResponse{
		MatrixOwner: matrixOwner,
		MemberOfAny: memberOfAny,
	})
}

// Events streams auth-state changes for the session's user over SSE. A
// revocation event tells every open panel tab to drop its session.
func (h *AuthHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, err := h.getSessionID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, _, err := h.authService.ValidateSession(ctx, sessionID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	ch, err := h.subscriber.SubscribeUser(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to subscribe to auth events", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open event stream"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(evt.Type), evt)
			return true
		}
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID int64) {
	c.SetCookie(
		middleware.SessionCookieName,
		strconv.FormatInt(sessionID, 10),
		sessionMaxAge,
		"/",
		"",
		h.isProduction,
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.isProduction, true)
}

func (h *AuthHandler) clearStateCookie(c *gin.Context) {
	c.SetCookie(stateCookieName, "", -1, "/", "", h.isProduction, true)
}

func (h *AuthHandler) getSessionID(c *gin.Context) (int64, error) {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(cookie, 10, 64)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
