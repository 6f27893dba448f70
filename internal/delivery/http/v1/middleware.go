package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	userEmailCtxKey = "user_email"
	sessionIDCtxKey = "session_id"
)

// HandleAuthMiddleware authenticates the request by the access token from
// the Authorization header or, failing that, the access token cookie.
// An expired or missing token is refreshed with the refresh token cookie.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	var claims *jwt.RegisteredClaims
	accessToken, err := h.accessToken(c)
	switch {
	case errors.Is(err, errAccessTokenNotFound):
		h.logger.Debug().Msg("no access token, refreshing session")
	case err != nil:
		h.logger.Error().
			Err(err).
			Msg("failed to get access token")
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return
	default:
		claims, err = h.auth.ParseJWTToken(accessToken)
		if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
			h.logger.Error().
				Err(err).
				Msg("failed to parse token")
			abort(c, newStatusTextError(http.StatusUnauthorized))
			return
		}
	}

	if claims == nil {
		result, ok := h.refreshSession(c)
		if !ok {
			return
		}

		claims, err = h.auth.ParseJWTToken(result.AccessToken)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to parse fresh token")
			abort(c, newStatusTextError(http.StatusUnauthorized))
			return
		}
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			abort(c, newStatusTextError(http.StatusUnauthorized))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	browserFingerprint, err := Fingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	if browserFingerprint != session.Fingerprint {
		h.logger.Error().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(userEmailCtxKey, session.UserEmail)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

var (
	errAccessTokenNotFound = errors.New("authorization header or cookie required")
	errInvalidAuthHeader   = errors.New("invalid authorization header")
)

// accessToken returns errAccessTokenNotFound when the request carries
// neither an Authorization header nor an access token cookie.
func (h *handlerImpl) accessToken(c *gin.Context) (string, error) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			return "", errAccessTokenNotFound
		}
		return token, nil
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		return "", errInvalidAuthHeader
	}
	return parts[1], nil
}

// requireUserID returns the id of the authenticated user or aborts c.
func (h *handlerImpl) requireUserID(c *gin.Context) (string, bool) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok || userID == "" {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return "", false
	}
	return userID, true
}
