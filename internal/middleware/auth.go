// Package middleware holds the gin middleware chain: the authentication
// gateway, request logging, and metrics collection.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/auth"
	"github.com/gravadigital/encuentro-api/internal/response"
)

// TokenVerifier is the slice of the token service the gateway needs.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// AuthGateway is the single interception point every request passes through.
// Exempt requests pass untouched; everything else must carry a valid bearer
// token. The gateway never calls the store: token verification is
// self-contained.
func AuthGateway(policy *auth.Policy, tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if policy.IsExempt(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, string(apperror.KindMissingCredentials), "authorization token is required")
			c.Abort()
			return
		}

		principal, err := tokens.Verify(token)
		if err != nil {
			kind := apperror.KindOf(err)
			switch kind {
			case apperror.KindExpiredToken:
				response.Unauthorized(c, string(kind), "session expired, please log in again")
			default:
				response.Unauthorized(c, string(apperror.KindMalformedToken), "invalid token")
			}
			c.Abort()
			return
		}

		auth.SetPrincipal(c, principal)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
