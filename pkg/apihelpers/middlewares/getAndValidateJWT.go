package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	accountDB "github.com/taskdeck/taskdeck-backend/pkg/db/account"
	jwthandling "github.com/taskdeck/taskdeck-backend/pkg/jwt-handling"
)

const (
	HeaderAuthorization = "Authorization"
)

// GetAndValidateAccountJWT extracts the JWT from the request, checks it
// against the logout blocklist and validates signature and expiry.
func GetAndValidateAccountJWT(tokenSignKey string, accountDBService *accountDB.AccountDBService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if accountDBService.IsJwtBlocked(token) {
			slog.Warn("token logged out")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token logged out"})
			c.Abort()
			return
		}

		parsedToken, ok, err := jwthandling.ValidateAccountToken(token, tokenSignKey)
		if err != nil || !ok {
			if err == nil {
				err = errors.New("invalid token")
			}
			slog.Warn("token validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}
		c.Set("token", token)
		c.Set("validatedToken", parsedToken)
	}
}

// GetAndValidateAccountJWTWithIgnoringExpiration accepts expired but
// otherwise valid tokens, used by the token renewal endpoint.
func GetAndValidateAccountJWTWithIgnoringExpiration(tokenSignKey string, accountDBService *accountDB.AccountDBService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if accountDBService.IsJwtBlocked(token) {
			slog.Warn("token logged out")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token logged out"})
			c.Abort()
			return
		}

		parsedToken, _, err := jwthandling.ValidateAccountToken(token, tokenSignKey)
		if err != nil && !strings.Contains(err.Error(), "token is expired") {
			slog.Warn("token validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}
		c.Set("token", token)
		c.Set("validatedToken", parsedToken)
	}
}

func extractToken(c *gin.Context) (string, error) {
	req := c.Request

	var token string
	tokens, ok := req.Header[HeaderAuthorization]
	if ok && len(tokens) > 0 {
		token = tokens[0]
		token = strings.TrimPrefix(token, "Bearer ")
		if len(token) == 0 {
			return token, errors.New("no token found in Authorization header")
		}
	} else {
		return token, errors.New("no Authorization header found")
	}
	return token, nil
}
