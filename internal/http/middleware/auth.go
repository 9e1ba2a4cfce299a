// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the identity middleware. The application does not manage
// credentials itself; a fronting auth layer (session proxy / gateway) is
// expected to authenticate the caller and forward the identity via headers:
//
//	X-User-ID     required  stable user identifier
//	X-User-Name   optional  display name
//	X-User-Image  optional  avatar URL
//
// Requests without X-User-ID are rejected with 401 before reaching any
// handler. There is no anonymous fallback: every API resource is per-user.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ctxKeyUserID is the Gin context key under which the user id is stored.
const ctxKeyUserID = "userID"

// ProfileSink receives the forwarded profile of the authenticated caller so
// owner/liker references can render with current name and avatar. A failure
// is logged but does not fail the request.
type ProfileSink func(ctx context.Context, id, name, image string) error

// RequireUser returns a middleware that extracts the forwarded identity,
// stores the user id in the Gin context, and rejects unidentified requests
// with a 401 error envelope.
func RequireUser(sink ProfileSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		c.Set(ctxKeyUserID, uid)

		if sink != nil {
			name := strings.TrimSpace(c.GetHeader("X-User-Name"))
			if name == "" {
				name = uid
			}
			image := strings.TrimSpace(c.GetHeader("X-User-Image"))
			if err := sink(c.Request.Context(), uid, name, image); err != nil {
				LoggerFrom(c).Warn().Err(err).Str("user_id", uid).Msg("profile upsert failed")
			}
		}

		c.Next()
	}
}

// UserID returns the authenticated user id from the Gin context, or an empty
// string when RequireUser did not run.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
