package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/gate"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const sessionCtxKey = "gate_session"

// HandleSessionGate redirects page navigations according to gate.Evaluate.
//
// A failure to resolve the session is logged and the request proceeds,
// so pages must still check for a session themselves.
func (h *handlerImpl) HandleSessionGate(c *gin.Context) {
	path := c.Request.URL.Path

	session, err := h.resolveSession(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to resolve session")
		c.Next()
		return
	}

	decision := gate.Evaluate(session, path)
	if decision.Action == gate.Redirect {
		location := decision.Location()
		h.logger.Debug().
			Str("path", path).
			Str("location", location).
			Msg("redirected by session gate")
		c.Redirect(http.StatusFound, location)
		c.Abort()
		return
	}

	if session != nil {
		c.Set(sessionCtxKey, session)
	}
	c.Next()
}

// resolveSession returns nil without an error for anonymous viewers.
// A missing or expired access token is refreshed when a refresh token
// is present.
func (h *handlerImpl) resolveSession(c *gin.Context) (*gate.Session, error) {
	var claims *jwt.RegisteredClaims
	accessToken, err := c.Cookie(v1.AccessTokenCookie)
	if err == nil && accessToken != "" {
		claims, err = h.auth.ParseJWTToken(accessToken)
		if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
			h.logger.Warn().
				Err(err).
				Msg("ignored invalid access token")
			return nil, nil
		}
	}

	if claims == nil {
		claims, err = h.refresh(c)
		if err != nil || claims == nil {
			return nil, err
		}
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.Expired(h.now()) {
		return nil, nil
	}

	return &gate.Session{
		UserID: session.UserID,
		Email:  session.UserEmail,
	}, nil
}

func (h *handlerImpl) refresh(c *gin.Context) (*jwt.RegisteredClaims, error) {
	refreshToken, err := c.Cookie(v1.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		return nil, nil
	}

	fingerprint, err := v1.Fingerprint(c)
	if err != nil {
		return nil, err
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) ||
			errors.Is(err, services.ErrSessionExpired) {
			return nil, nil
		}
		return nil, err
	}
	v1.SetAuthCookies(c, result, h.secureCookies)

	return h.auth.ParseJWTToken(result.AccessToken)
}

func sessionFromContext(c *gin.Context) (*gate.Session, bool) {
	value, exists := c.Get(sessionCtxKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*gate.Session)
	return session, ok && session != nil
}
