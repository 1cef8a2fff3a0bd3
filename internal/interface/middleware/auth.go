package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/response"
)

const unauthorizedMessage = "Valid authentication token required"

// Auth verifies the bearer access token issued by the identity provider.
// It sets userID and userEmail in the Gin context on success.
func Auth(verifier *helpers.JWTVerifier, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString(CtxRequestIDKey)).Debug("token rejected")
			}
			response.Error(c, http.StatusUnauthorized, unauthorizedMessage)
			return
		}

		c.Set(CtxUserIDKey, claims.Subject)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}
