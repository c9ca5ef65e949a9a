// auth.go - Identity resolution and authorization guards
//
// Authentication Flow:
// 1. Authenticate resolves the bearer token (if any) into an auth.Identity
// 2. The identity, or nil when the caller is anonymous, goes on the request context
//
// Authorization Flow:
// 1. Require evaluates the route's auth.Policy against that identity
// 2. Denials for anonymous callers answer 401, every other denial 403
// 3. Allowed requests continue to the handler

package middleware

import (
	"context"
	"net/http"

	"store-manager/auth"
	"store-manager/logger"

	"github.com/gin-gonic/gin"
)

// IdentityResolver turns an Authorization header value into an identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization string) (*auth.Identity, error)
}

// DecisionObserver is told about every gate decision.
type DecisionObserver interface {
	ObserveDecision(requirement string, allowed bool)
}

// Authenticate never rejects a request on credentials alone; that is the
// gate's job. It only fails with 500 when the identity store is unavailable.
func Authenticate(resolver IdentityResolver, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, err := resolver.Resolve(ctx, c.GetHeader("Authorization"))
		if err != nil {
			log.Error("identity resolution failed", "path", c.Request.URL.Path, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(ctx, id))
		c.Next()
	}
}

// Require guards a route with policy. observer may be nil.
func Require(policy auth.Policy, observer DecisionObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := policy.Evaluate(auth.IdentityFromContext(c.Request.Context()))
		if observer != nil {
			observer.ObserveDecision(policy.Require.String(), d.Allowed)
		}
		if !d.Allowed {
			status := http.StatusForbidden
			if d.Unauthenticated {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"error": d.Reason})
			return
		}
		c.Next()
	}
}

// Identity returns the identity Authenticate stored for this request.
func Identity(c *gin.Context) *auth.Identity {
	return auth.IdentityFromContext(c.Request.Context())
}
