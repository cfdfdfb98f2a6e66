package middleware

import (
	"errors"
	"net/http"
	"strings"

	"hr-portal/internal/identity"
	"hr-portal/internal/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	authorizationHeader = "Authorization"
	accessTokenQuery    = "access_token" // browsers cannot set headers on websocket upgrades
	principalCtx        = "principal"    // Key to store the principal in context
)

// TokenVerifier turns a bearer token into the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (models.Principal, error)
}

// JWTAuthMiddleware creates a Gin middleware for JWT authentication.
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			log.Printf("Auth middleware: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		principal, err := verifier.Verify(tokenString)
		if err != nil {
			log.Printf("Auth middleware: Error verifying token: %v", err)
			if errors.Is(err, identity.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(principalCtx, principal)
		log.Debugf("Auth middleware: %s %s authenticated", principal.Role, principal.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(authorizationHeader)
	if authHeader == "" {
		if token := c.Query(accessTokenQuery); token != "" {
			return token, nil
		}
		return "", errors.New("Authorization header required")
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" || headerParts[1] == "" {
		return "", errors.New("Invalid Authorization header format")
	}
	return headerParts[1], nil
}

// GetPrincipalFromContext returns the principal stored by JWTAuthMiddleware.
func GetPrincipalFromContext(c *gin.Context) (models.Principal, error) {
	principalAny, exists := c.Get(principalCtx)
	if !exists {
		return models.Principal{}, errors.New("principal not found in context")
	}

	principal, ok := principalAny.(models.Principal)
	if !ok {
		return models.Principal{}, errors.New("principal in context is of invalid type")
	}

	return principal, nil
}

// SetPrincipal stores p in the context the way JWTAuthMiddleware does.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalCtx, p)
}
