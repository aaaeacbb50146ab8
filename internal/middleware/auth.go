// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lookmate/lookmate-backend/internal/i18n"
	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

// EmailResolver finds or creates the account behind a legacy email identity.
type EmailResolver interface {
	GetOrCreateByEmail(email, displayName string) (*models.User, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, id, email, displayName string) {
	c.Set("user_id", id)
	c.Set("email", email)
	c.Set("display_name", displayName)
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Identity already resolved by the legacy email middleware
		if _, ok := utils.GetUserIDFromContext(c); ok {
			c.Next()
			return
		}

		lang := utils.GetLangFromContext(c)

		if c.GetHeader("Authorization") == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			if utils.IsTokenExpired(err) {
				utils.ErrorResponse(c, 401, "TOKEN_EXPIRED", i18n.T(lang, i18n.KeyAuthTokenExpired), nil)
				return
			}
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			return
		}

		// Set user info in context
		setIdentity(c, claims.ID, claims.Email, claims.DisplayName)
		c.Next()
	}
}

func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIDFromContext(c); ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.Next()
			return
		}

		// Set user info in context if token is valid
		setIdentity(c, claims.ID, claims.Email, claims.DisplayName)
		c.Next()
	}
}

// LegacyEmailAuth accepts an X-User-Email header (or ?email=) in place of a
// bearer token for clients that predate token auth. Requests that carry a
// bearer token are left to AuthRequired.
func LegacyEmailAuth(resolver EmailResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := bearerToken(c); ok {
			c.Next()
			return
		}

		email := c.GetHeader("X-User-Email")
		if email == "" {
			email = c.Query("email")
		}
		if email == "" {
			c.Next()
			return
		}

		user, err := resolver.GetOrCreateByEmail(email, c.GetHeader("X-User-Name"))
		if err != nil {
			logrus.WithError(err).WithField("email", email).Warn("Legacy email identity rejected")
			utils.UnauthorizedResponse(c, "")
			return
		}

		setIdentity(c, user.ID.String(), user.Email, user.DisplayName)
		c.Next()
	}
}
