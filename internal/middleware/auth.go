package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"manvan/internal/pkg/jwt"
	"manvan/internal/pkg/response"
	"manvan/internal/session"
	"manvan/internal/storage"
)

const (
	SessionCookie = "mv.sid"

	ctxUser      = "user"
	ctxUserID    = "user_id"
	ctxSessionID = "session_id"
)

type UserLoader interface {
	GetUser(ctx context.Context, id storage.ID) (*storage.User, error)
}

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// SessionAuth resolves the caller from the session cookie, a bearer token or
// a ?token= query parameter (websocket handshakes cannot set headers). It
// never rejects anonymous requests; RequireAuth does that.
func SessionAuth(sessions session.Store, tokens TokenValidator, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// a stale cookie must not shadow a valid token
		var sess *session.Session
		for _, sid := range sessionIDs(c, tokens) {
			found, err := sessions.Get(ctx, sid)
			if errors.Is(err, session.ErrNotFound) {
				continue
			}
			if err != nil {
				log.Error().Err(err).Msg("session lookup failed")
				response.Abort(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
				return
			}
			sess = found
			break
		}
		if sess == nil {
			c.Next()
			return
		}

		user, err := users.GetUser(ctx, storage.ID(sess.UserID))
		if storage.IsNotFound(err) {
			// user deleted after login
			_ = sessions.Delete(ctx, sess.ID)
			c.Next()
			return
		}
		if err != nil {
			log.Error().Err(err).Str("user_id", sess.UserID).Msg("session user lookup failed")
			response.Abort(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
			return
		}

		SetUser(c, user)
		c.Set(ctxSessionID, sess.ID)
		c.Next()
	}
}

// sessionIDs returns the candidate session ids in precedence order: cookie,
// then bearer header, then query token.
func sessionIDs(c *gin.Context, tokens TokenValidator) []string {
	var ids []string
	if sid, err := c.Cookie(SessionCookie); err == nil && sid != "" {
		ids = append(ids, sid)
	}

	raw := ""
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			raw = strings.TrimSpace(parts[1])
		}
	}
	if raw == "" {
		raw = c.Query("token")
	}
	if raw == "" || tokens == nil {
		return ids
	}
	claims, err := tokens.ValidateToken(raw)
	if err != nil || claims.SessionID == "" {
		return ids
	}
	return append(ids, claims.SessionID)
}

// RequireAuth rejects requests without a resolved session user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			return
		}
		c.Next()
	}
}

func SetUser(c *gin.Context, u *storage.User) {
	c.Set(ctxUser, u)
	c.Set(ctxUserID, u.ID)
}

func CurrentUser(c *gin.Context) (*storage.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*storage.User)
	return u, ok && u != nil
}

func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}
