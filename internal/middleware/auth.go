package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"unitra/internal/pkg/response"
	"unitra/internal/pkg/token"
	"unitra/internal/store"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID           = "user_id"
	CtxTier             = "tier"
	CtxJTI              = "jti"
	CtxMinutesRemaining = "minutes_remaining"
)

// JWTAuth authenticates a bearer access token and checks it against the
// revocation store. Order per request: extract -> verify -> blacklist.
// When the store is unreachable, failOpen decides between admitting the
// request (availability) and a 503 (safety, the default).
func JWTAuth(codec *token.Codec, st store.Store, failOpen bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := codec.Verify(raw, token.TypeAccess)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrTokenExpired):
				response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
			case errors.Is(err, token.ErrWrongTokenType):
				response.Error(c, http.StatusUnauthorized, "WRONG_TOKEN_TYPE", "Access token required")
			default:
				response.Error(c, http.StatusUnauthorized, "TOKEN_INVALID", "Invalid token")
			}
			c.Abort()
			return
		}

		revoked, err := st.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			if !failOpen {
				response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Revocation check unavailable")
				c.Abort()
				return
			}
			revoked = false
		}
		if revoked {
			response.Error(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxTier, claims.Tier)
		c.Set(CtxJTI, claims.ID)
		c.Set(CtxMinutesRemaining, claims.MinutesRemaining)

		c.Next()
	}
}

// OptionalAuth populates the identity context when a valid bearer token is
// present and passes anonymously otherwise. Revoked or malformed tokens are
// treated as anonymous, not rejected.
func OptionalAuth(codec *token.Codec, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.Next()
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if raw == "" || raw == h {
			c.Next()
			return
		}

		claims, err := codec.Verify(raw, token.TypeAccess)
		if err != nil {
			c.Next()
			return
		}
		if revoked, err := st.IsBlacklisted(c.Request.Context(), claims.ID); err != nil || revoked {
			c.Next()
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxTier, claims.Tier)
		c.Set(CtxJTI, claims.ID)
		c.Set(CtxMinutesRemaining, claims.MinutesRemaining)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
		c.Abort()
		return "", false
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		c.Abort()
		return "", false
	}

	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
		c.Abort()
		return "", false
	}
	return raw, true
}
