package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tarpaulin-edu/course-service/internal/auth"
	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
	"github.com/tarpaulin-edu/course-service/internal/utils"
)

// TokenVerifier validates a raw bearer token. Implemented by
// auth.Verifier; faked in tests.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*auth.Claims, error)
}

// AuthMiddleware resolves a bearer token to a local principal.
type AuthMiddleware struct {
	verifier TokenVerifier
	users    repositories.UserRepository
	logger   utils.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, users repositories.UserRepository, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// ResolvePrincipal attaches the resolved principal to the context when a
// valid token maps to a known user. Every failure mode (no header,
// malformed header, invalid or expired token, unknown subject) leaves
// the request anonymous and continues; role checks downstream turn that
// into 401/403 as appropriate. Callers cannot distinguish a bad token
// from a missing one.
func (am *AuthMiddleware) ResolvePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := am.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			am.logger.Debug("token verification failed, treating as anonymous", "error", err)
			c.Next()
			return
		}

		user, err := am.users.GetBySubject(c.Request.Context(), claims.Subject)
		if err != nil {
			am.logger.Debug("no local user for token subject, treating as anonymous",
				"subject", claims.Subject)
			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// CurrentUser returns the resolved principal, or nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
