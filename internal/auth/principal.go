// Package auth holds the request authentication building blocks: the
// exemption policy, the token service, and the identity verifiers for local
// and federated credentials.
package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// principalKey is the gin context key the gateway stores the Principal under.
const principalKey = "auth.principal"

// Principal is the authenticated identity attached to a request. It is built
// only by successful token verification or identity verification and lives
// for the duration of one request.
type Principal struct {
	ID      uuid.UUID
	IsAdmin bool
}

// SetPrincipal attaches a principal to the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// PrincipalFromContext returns the principal attached by the gateway, if any.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
